package registry

import (
	"regexp"

	"github.com/noah04091/contract-ai-sub004/internal/model"
)

// ClauseCheck is one entry of the required-clause checklist. Anchor is the
// positive-evidence pattern proving the clause topic exists anywhere in the
// text; Qualifier, when set, proves the clause is specific enough. A failed
// Anchor yields a missing_clause gap, a failed Qualifier a weak_clause gap.
type ClauseCheck struct {
	ID            string
	Label         string
	Category      string // normalized category tag, also the scope topic
	Risk          int    // 1-10, becomes the finding's risk
	Severity      model.Severity
	Anchor        *regexp.Regexp
	Qualifier     *regexp.Regexp
	Rationale     string
	Benchmark     string
	AppliesTo     []string // contract-type tags; empty = all types
	AmendmentOnly bool     // checked only for amendment documents
}

// ClauseChecklist is the full checklist. Baseline checks apply to every
// contract type; type-scoped essentials and the amendment-core checks are
// filtered by ChecksFor.
var ClauseChecklist = []ClauseCheck{
	{
		ID:        "parties",
		Label:     "Parteien unvollständig definiert",
		Category:  "clarity",
		Risk:      8,
		Severity:  model.SeverityHigh,
		Anchor:    regexp.MustCompile(`(?i)parteien|vertragspartner|zwischen.*und`),
		Qualifier: regexp.MustCompile(`\d{5}\s+[A-ZÄÖÜ][a-zäöüß]+`),
		Rationale: "Nach § 126 BGB müssen Vertragsparteien eindeutig bestimmbar sein. Ohne vollständige Angaben (Name, Anschrift) kann der Vertrag im Streitfall unwirksam sein.",
		Benchmark: "100% aller professionellen Verträge enthalten vollständige Parteienangaben",
	},
	{
		ID:        "termination",
		Label:     "Kündigungsfristen fehlen oder sind unklar",
		Category:  "termination",
		Risk:      7,
		Severity:  model.SeverityHigh,
		Anchor:    regexp.MustCompile(`(?i)kündigung|kündigen|kündigungsfrist|vertragsbeendigung`),
		Qualifier: regexp.MustCompile(`(?i)\d+\s+(monate?n?|wochen?|tagen?)\s+(zum|zur|kündigungsfrist)`),
		Rationale: "Ohne klare Kündigungsfristen droht Rechtsunsicherheit bei Vertragsbeendigung. Nach § 620 Abs. 2 BGB können unbefristete Dauerschuldverhältnisse jederzeit gekündigt werden.",
		Benchmark: "94% aller professionellen Verträge enthalten klare Kündigungsfristen",
	},
	{
		ID:        "liability",
		Label:     "Haftung unbegrenzt - hohes Schadensrisiko",
		Category:  "liability",
		Risk:      9,
		Severity:  model.SeverityCritical,
		Anchor:    regexp.MustCompile(`(?i)haftung|haftet|schadensersatz|gewährleistung`),
		Qualifier: regexp.MustCompile(`(?i)(begrenzt|beschränkt|maximal|höchstbetrag).*haftung|grobe fahrlässigkeit|vorsatz|kardinalpflicht`),
		Rationale: "Ohne Haftungsbegrenzung drohen unbegrenzte Schadensersatzforderungen. Nach § 276 BGB haftet jede Partei für Vorsatz und Fahrlässigkeit; ein Ausschluss für leichte Fahrlässigkeit ist zulässig.",
		Benchmark: "98% aller professionellen B2B-Verträge enthalten Haftungsbegrenzungen",
	},
	{
		ID:        "payment",
		Label:     "Zahlungsfristen und -bedingungen unklar",
		Category:  "payment",
		Risk:      6,
		Severity:  model.SeverityMedium,
		Anchor:    regexp.MustCompile(`(?i)zahlung|vergütung|preis|entgelt`),
		Qualifier: regexp.MustCompile(`(?i)\d+\s+tage|zahlungsziel|fällig|zahlbar`),
		Rationale: "Unklare Zahlungsfristen führen zu Liquiditätsproblemen. Nach § 286 BGB kommt der Schuldner ohne Mahnung in Verzug, wenn der Zahlungstermin kalendermäßig bestimmt ist.",
		Benchmark: "91% aller B2B-Verträge definieren klare Zahlungsfristen (14-30 Tage)",
	},
	{
		ID:        "data_protection",
		Label:     "Datenschutz/DSGVO-Regelungen fehlen",
		Category:  "data_protection",
		Risk:      8,
		Severity:  model.SeverityHigh,
		Anchor:    regexp.MustCompile(`(?i)dsgvo|datenschutz|personenbezogen|datenverarbeitung`),
		Qualifier: regexp.MustCompile(`(?i)art\.?\s*6|rechtsgrundlage.*verarbeitung`),
		Rationale: "DSGVO-Verstöße können Bußgelder bis zu 20 Mio. EUR oder 4% des Jahresumsatzes kosten (Art. 83 DSGVO). Art. 6 DSGVO fordert eine Rechtsgrundlage für jede Verarbeitung.",
		Benchmark: "100% DSGVO-konformer Verträge enthalten Datenschutzklauseln",
	},
	{
		ID:        "jurisdiction",
		Label:     "Gerichtsstand und Rechtswahl fehlen",
		Category:  "jurisdiction",
		Risk:      5,
		Severity:  model.SeverityLow,
		Anchor:    regexp.MustCompile(`(?i)gerichtsstand|zuständiges gericht|erfüllungsort|deutsches recht|anwendbares recht`),
		Rationale: "Ohne Gerichtsstandsvereinbarung droht ein Prozess am Sitz der Gegenpartei. Nach § 38 ZPO ist eine Gerichtsstandsvereinbarung für Kaufleute zulässig.",
		Benchmark: "89% aller überregionalen Verträge enthalten eine Gerichtsstandsvereinbarung",
	},
	{
		ID:        "severability",
		Label:     "Salvatorische Klausel fehlt - Risiko der Gesamtnichtigkeit",
		Category:  "severability",
		Risk:      8,
		Severity:  model.SeverityHigh,
		Anchor:    regexp.MustCompile(`(?i)salvatorisch|unwirksamkeit.*bestimmung|unwirksam.*übrigen.*bestimmungen`),
		Rationale: "Ohne salvatorische Klausel gilt § 139 BGB: Ist eine Klausel unwirksam, kann der gesamte Vertrag nichtig sein.",
		Benchmark: "98% aller professionellen Verträge enthalten eine salvatorische Klausel",
	},
	{
		ID:        "written_form",
		Label:     "Schriftformerfordernis für Änderungen fehlt",
		Category:  "form_requirements",
		Risk:      6,
		Severity:  model.SeverityMedium,
		Anchor:    regexp.MustCompile(`(?i)schriftform|§\s*126\s+BGB|schriftlich.*änderung`),
		Rationale: "Ohne Schriftformklausel sind mündliche Änderungen wirksam und kaum beweisbar. § 126 BGB verlangt für die Schriftform eine eigenhändige Unterschrift.",
		Benchmark: "85% professioneller Verträge enthalten ein Schriftformerfordernis für Änderungen",
	},

	// Type-scoped essential elements.
	{
		ID:        "compensation",
		Label:     "Vergütungsregelung fehlt oder ist unbestimmt",
		Category:  "compensation",
		Risk:      9,
		Severity:  model.SeverityCritical,
		Anchor:    regexp.MustCompile(`(?i)vergütung|gehalt|entgelt|lohn`),
		Qualifier: regexp.MustCompile(`(?i)\d[\d.,]*\s*(eur|euro|€)|brutto`),
		Rationale: "Die Vergütung ist essentialium negotii eines Arbeitsvertrags (§ 611a Abs. 2 BGB) und nach § 2 NachwG schriftlich nachzuweisen.",
		Benchmark: "100% wirksamer Arbeitsverträge beziffern die Vergütung",
		AppliesTo: []string{"arbeitsvertrag"},
	},
	{
		ID:        "subject_matter",
		Label:     "Vertragsgegenstand nicht hinreichend bestimmt",
		Category:  "subject_matter",
		Risk:      9,
		Severity:  model.SeverityCritical,
		Anchor:    regexp.MustCompile(`(?i)vertragsgegenstand|gegenstand des vertrage?s|leistungsbeschreibung|leistungsumfang|kaufsache|mietsache|tätigkeit`),
		Rationale: "Ohne bestimmbaren Vertragsgegenstand fehlt ein essentialium negotii; der Vertrag kommt nach §§ 145 ff. BGB nicht wirksam zustande.",
		Benchmark: "100% wirksamer Verträge bestimmen den Vertragsgegenstand",
	},
	{
		ID:        "term",
		Label:     "Laufzeit und Vertragsbeginn fehlen",
		Category:  "term",
		Risk:      8,
		Severity:  model.SeverityHigh,
		Anchor:    regexp.MustCompile(`(?i)laufzeit|vertragsbeginn|vertragsdauer|befristet|unbefristet|beginnt am`),
		Rationale: "Ohne Laufzeitregelung ist unklar, ab wann und wie lange Leistungspflichten bestehen; bei Dauerschuldverhältnissen greift die Auslegung nach §§ 133, 157 BGB.",
		Benchmark: "96% aller Dauerschuldverträge regeln Beginn und Laufzeit",
		AppliesTo: []string{"mietvertrag", "saas_vertrag", "darlehensvertrag", "franchise", "arbeitsvertrag"},
	},

	// Amendment-core checks: only the amendment document itself is examined.
	{
		ID:            "parent_reference",
		Label:         "Bezugnahme auf den Ursprungsvertrag fehlt oder ist unklar",
		Category:      "parent_reference",
		Risk:          8,
		Severity:      model.SeverityHigh,
		Anchor:        regexp.MustCompile(`(?i)(vertrag|vereinbarung)\s+vom\s+\d{1,2}\.\d{1,2}\.\d{2,4}|zum\s+\S*vertrag|agreement\s+dated`),
		Rationale:     "Ein Nachtrag muss den geänderten Ursprungsvertrag eindeutig bezeichnen (Datum, Parteien), sonst ist unklar, welche Regelungen geändert werden.",
		Benchmark:     "100% professioneller Nachträge bezeichnen den Ursprungsvertrag mit Datum",
		AmendmentOnly: true,
	},
	{
		ID:            "effective_date",
		Label:         "Wirksamkeitszeitpunkt der Änderung fehlt",
		Category:      "effective_date",
		Risk:          7,
		Severity:      model.SeverityHigh,
		Anchor:        regexp.MustCompile(`(?i)mit wirkung\s+(zum|ab)|tritt\s+am\s+.{0,30}in\s+kraft|wirksam\s+ab|gilt\s+ab\s+dem`),
		Rationale:     "Ohne ausdrücklichen Wirksamkeitszeitpunkt ist streitig, ab wann die geänderten Konditionen gelten (§§ 133, 157 BGB).",
		Benchmark:     "97% professioneller Nachträge nennen ein Wirksamkeitsdatum",
		AmendmentOnly: true,
	},
	{
		ID:            "scope_of_change",
		Label:         "Fortgeltung der übrigen Regelungen nicht klargestellt",
		Category:      "scope_of_change",
		Risk:          6,
		Severity:      model.SeverityMedium,
		Anchor:        regexp.MustCompile(`(?i)im übrigen|unberührt|alle übrigen\s+(regelungen|bestimmungen)|bleiben\s+.{0,40}bestehen`),
		Rationale:     "Ein Nachtrag sollte klarstellen, dass alle nicht geänderten Regelungen des Ursprungsvertrags fortgelten, um Umkehrschlüsse zu vermeiden.",
		Benchmark:     "95% professioneller Nachträge enthalten eine Fortgeltungsklausel",
		AmendmentOnly: true,
	},
	{
		ID:            "signatures",
		Label:         "Unterschriftenblock fehlt",
		Category:      "signatures",
		Risk:          7,
		Severity:      model.SeverityHigh,
		Anchor:        regexp.MustCompile(`(?i)unterschrift|unterzeichnet|ort,?\s*datum|gez\.`),
		Rationale:     "Änderungen eines schriftformbedürftigen Vertrags bedürfen ihrerseits der Unterschrift beider Parteien (§ 126 Abs. 2 BGB).",
		Benchmark:     "100% wirksamer Nachträge tragen Unterschriften beider Parteien",
		AmendmentOnly: true,
	},
}

// CheckByID looks up a checklist entry.
func CheckByID(id string) (ClauseCheck, bool) {
	for _, c := range ClauseChecklist {
		if c.ID == id {
			return c, true
		}
	}
	return ClauseCheck{}, false
}

// ChecksFor returns the checklist entries applicable to a contract type and
// document kind, in declaration order.
func ChecksFor(typeTag string, isAmendment bool) []ClauseCheck {
	var out []ClauseCheck
	for _, c := range ClauseChecklist {
		if c.AmendmentOnly != isAmendment {
			continue
		}
		if len(c.AppliesTo) > 0 && !contains(c.AppliesTo, typeTag) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
