// Package registry holds the declarative legal data tables the pipeline
// matches against: the contract-type taxonomy, the required-clause checklist,
// clause templates, category normalization, and the red-flag / mandatory-law
// tables. The tables are plain data consumed by generic matching functions so
// they stay independently testable and auditable.
package registry

import "regexp"

// ContractType is one entry of the contract-type taxonomy.
type ContractType struct {
	Tag             string   `yaml:"tag"`
	Label           string   `yaml:"label"`
	Keywords        []string `yaml:"keywords"`
	Phrases         []string `yaml:"phrases"`
	FilenameHints   []string `yaml:"filename_hints"`
	LegalFrameworks []string `yaml:"legal_frameworks"`
	PartyA          string   `yaml:"party_a"`
	PartyB          string   `yaml:"party_b"`
	Essentialia     []string `yaml:"essentialia"` // clause IDs required as essential elements
}

// FallbackType is the generic type used when nothing scores above the floor.
const FallbackType = "sonstiges"

// ContractTypes is the normalized contract-type taxonomy. Keyword hits are
// counted per occurrence, phrases earn an exact-match bonus, filename hints a
// larger one; the classifier picks the best-scoring entry.
var ContractTypes = []ContractType{
	{
		Tag:             "arbeitsvertrag",
		Label:           "Arbeitsvertrag",
		Keywords:        []string{"arbeitnehmer", "arbeitgeber", "arbeitsverhältnis", "gehalt", "arbeitszeit", "urlaub", "probezeit", "arbeitsleistung"},
		Phrases:         []string{"beginn des arbeitsverhältnisses", "der arbeitnehmer verpflichtet sich"},
		FilenameHints:   []string{"arbeitsvertrag", "anstellungsvertrag", "employment"},
		LegalFrameworks: []string{"§ 611a BGB", "NachwG", "BUrlG", "EntgFG", "KSchG"},
		PartyA:          "Arbeitgeber",
		PartyB:          "Arbeitnehmer",
		Essentialia:     []string{"compensation", "subject_matter"},
	},
	{
		Tag:             "mietvertrag",
		Label:           "Mietvertrag",
		Keywords:        []string{"mieter", "vermieter", "mietsache", "miete", "kaution", "nebenkosten", "mietzins", "wohnung"},
		Phrases:         []string{"überlassung der mietsache", "die monatliche miete beträgt"},
		FilenameHints:   []string{"mietvertrag", "lease", "miete"},
		LegalFrameworks: []string{"§§ 535 ff. BGB", "BetrKV"},
		PartyA:          "Vermieter",
		PartyB:          "Mieter",
		Essentialia:     []string{"payment", "subject_matter", "term"},
	},
	{
		Tag:             "nda",
		Label:           "Geheimhaltungsvereinbarung (NDA)",
		Keywords:        []string{"geheimhaltung", "vertraulich", "vertraulichkeit", "offenlegung", "informationen", "confidential", "disclosure"},
		Phrases:         []string{"vertrauliche informationen", "non-disclosure agreement"},
		FilenameHints:   []string{"nda", "geheimhaltung", "vertraulichkeit"},
		LegalFrameworks: []string{"§ 823 BGB", "GeschGehG"},
		PartyA:          "Offenlegende Partei",
		PartyB:          "Empfangende Partei",
		Essentialia:     []string{"subject_matter"},
	},
	{
		Tag:             "saas_vertrag",
		Label:           "SaaS-Vertrag",
		Keywords:        []string{"software", "saas", "cloud", "lizenz", "verfügbarkeit", "sla", "hosting", "nutzer", "abonnement"},
		Phrases:         []string{"software as a service", "bereitstellung der software"},
		FilenameHints:   []string{"saas", "software", "cloud"},
		LegalFrameworks: []string{"§§ 535, 611 BGB", "Art. 28 DSGVO"},
		PartyA:          "Anbieter",
		PartyB:          "Kunde",
		Essentialia:     []string{"payment", "subject_matter", "term"},
	},
	{
		Tag:             "kaufvertrag",
		Label:           "Kaufvertrag",
		Keywords:        []string{"käufer", "verkäufer", "kaufpreis", "kaufsache", "übergabe", "eigentum", "gewährleistung", "mängel"},
		Phrases:         []string{"der kaufpreis beträgt", "übergang von besitz und gefahr"},
		FilenameHints:   []string{"kaufvertrag", "purchase"},
		LegalFrameworks: []string{"§§ 433 ff. BGB"},
		PartyA:          "Verkäufer",
		PartyB:          "Käufer",
		Essentialia:     []string{"payment", "subject_matter"},
	},
	{
		Tag:             "dienstvertrag",
		Label:           "Dienstvertrag",
		Keywords:        []string{"dienstleistung", "auftragnehmer", "auftraggeber", "leistungserbringung", "dienste", "beratung", "honorar"},
		Phrases:         []string{"erbringung von dienstleistungen"},
		FilenameHints:   []string{"dienstvertrag", "dienstleistungsvertrag", "beratervertrag"},
		LegalFrameworks: []string{"§§ 611 ff. BGB"},
		PartyA:          "Auftraggeber",
		PartyB:          "Auftragnehmer",
		Essentialia:     []string{"payment", "subject_matter"},
	},
	{
		Tag:             "werkvertrag",
		Label:           "Werkvertrag",
		Keywords:        []string{"werk", "abnahme", "werklohn", "herstellung", "mängelansprüche", "fertigstellung", "gewerk"},
		Phrases:         []string{"herstellung des werkes", "abnahme des werkes"},
		FilenameHints:   []string{"werkvertrag"},
		LegalFrameworks: []string{"§§ 631 ff. BGB", "VOB/B"},
		PartyA:          "Besteller",
		PartyB:          "Unternehmer",
		Essentialia:     []string{"payment", "subject_matter"},
	},
	{
		Tag:             "agb",
		Label:           "Allgemeine Geschäftsbedingungen",
		Keywords:        []string{"geschäftsbedingungen", "agb", "geltungsbereich", "einbeziehung", "verbraucher", "unternehmer"},
		Phrases:         []string{"allgemeine geschäftsbedingungen", "diese bedingungen gelten"},
		FilenameHints:   []string{"agb", "terms", "bedingungen"},
		LegalFrameworks: []string{"§§ 305 ff. BGB"},
		PartyA:          "Verwender",
		PartyB:          "Vertragspartner",
	},
	{
		Tag:             "lizenzvertrag",
		Label:           "Lizenzvertrag",
		Keywords:        []string{"lizenz", "lizenzgeber", "lizenznehmer", "nutzungsrecht", "urheberrecht", "schutzrecht", "lizenzgebühr"},
		Phrases:         []string{"einräumung von nutzungsrechten"},
		FilenameHints:   []string{"lizenzvertrag", "license"},
		LegalFrameworks: []string{"UrhG", "§§ 398 ff. BGB"},
		PartyA:          "Lizenzgeber",
		PartyB:          "Lizenznehmer",
		Essentialia:     []string{"payment", "subject_matter"},
	},
	{
		Tag:             "gesellschaftsvertrag",
		Label:           "Gesellschaftsvertrag",
		Keywords:        []string{"gesellschafter", "gesellschaft", "geschäftsanteil", "stammkapital", "gesellschafterversammlung", "geschäftsführung"},
		Phrases:         []string{"gründung einer gesellschaft"},
		FilenameHints:   []string{"gesellschaftsvertrag", "satzung"},
		LegalFrameworks: []string{"GmbHG", "§§ 705 ff. BGB", "HGB"},
		PartyA:          "Gesellschaft",
		PartyB:          "Gesellschafter",
		Essentialia:     []string{"subject_matter"},
	},
	{
		Tag:             "darlehensvertrag",
		Label:           "Darlehensvertrag",
		Keywords:        []string{"darlehen", "darlehensgeber", "darlehensnehmer", "zinsen", "tilgung", "rückzahlung", "kredit"},
		Phrases:         []string{"gewährung eines darlehens"},
		FilenameHints:   []string{"darlehensvertrag", "darlehen", "loan"},
		LegalFrameworks: []string{"§§ 488 ff. BGB"},
		PartyA:          "Darlehensgeber",
		PartyB:          "Darlehensnehmer",
		Essentialia:     []string{"payment", "term"},
	},
	{
		Tag:             "franchise",
		Label:           "Franchisevertrag",
		Keywords:        []string{"franchise", "franchisegeber", "franchisenehmer", "systemhandbuch", "franchisegebühr", "gebietsschutz"},
		Phrases:         []string{"nutzung des franchisesystems"},
		FilenameHints:   []string{"franchise"},
		LegalFrameworks: []string{"§§ 581 ff. BGB analog", "HGB"},
		PartyA:          "Franchisegeber",
		PartyB:          "Franchisenehmer",
		Essentialia:     []string{"payment", "subject_matter", "term"},
	},
	{
		Tag:             FallbackType,
		Label:           "Sonstiger Vertrag",
		Keywords:        []string{"vertrag", "vereinbarung", "parteien"},
		LegalFrameworks: []string{"BGB"},
		PartyA:          "Auftraggeber",
		PartyB:          "Auftragnehmer",
	},
}

// TypeByTag returns the taxonomy entry for a tag, falling back to sonstiges.
func TypeByTag(tag string) ContractType {
	for _, t := range ContractTypes {
		if t.Tag == tag {
			return t
		}
	}
	return TypeByTag(FallbackType)
}

// AmendmentIndicator is one phrase pattern that marks a document as an
// amendment to a parent contract.
type AmendmentIndicator struct {
	ID      string
	Pattern *regexp.Regexp
}

// AmendmentIndicators are checked in order; the first match wins and its
// matched text is recorded as the amendment-detection evidence.
var AmendmentIndicators = []AmendmentIndicator{
	{ID: "nachtrag", Pattern: regexp.MustCompile(`(?i)nachtrag\s+(nr\.?\s*\d+\s+)?zu[m]?\s+(dem\s+)?\S*vertrag(\s+vom\s+[\d.]+)?`)},
	{ID: "aenderungsvereinbarung", Pattern: regexp.MustCompile(`(?i)änderungsvereinbarung|aenderungsvereinbarung`)},
	{ID: "zusatzvereinbarung", Pattern: regexp.MustCompile(`(?i)zusatzvereinbarung|ergänzungsvereinbarung`)},
	{ID: "amendment", Pattern: regexp.MustCompile(`(?i)this\s+amendment|amendment\s+(no\.?\s*\d+\s+)?to\s+the\s+agreement`)},
	{ID: "anpassung", Pattern: regexp.MustCompile(`(?i)(die\s+parteien\s+)?vereinbaren\s+folgende\s+änderung(en)?\s+(des|zum)\s+\S*vertrag`)},
}

// ChangedTopicPatterns maps scope topics to the phrases that unlock them for
// an amendment. Only topics matched here (plus the fixed core set) survive
// scope enforcement. Forbidden parent topics appear here too: an amendment
// whose exact subject is e.g. the notice period or the non-compete must be
// able to carry findings on that topic.
var ChangedTopicPatterns = map[string]*regexp.Regexp{
	"compensation":    regexp.MustCompile(`(?i)gehalt|vergütung|verguetung|salary|lohn|entgelt(erhöhung)?`),
	"working_hours":   regexp.MustCompile(`(?i)arbeitszeit|wochenstunden|working\s+hours|stundenzahl|teilzeit|vollzeit`),
	"term":            regexp.MustCompile(`(?i)laufzeit|verlängerung|verlaengerung|befristung|extension`),
	"payment":         regexp.MustCompile(`(?i)zahlungsbedingungen|zahlungsziel|preisanpassung|payment\s+terms`),
	"subject_matter":  regexp.MustCompile(`(?i)leistungsumfang|leistungsbeschreibung|scope\s+of\s+(services|work)|vertragsgegenstand`),
	"duties":          regexp.MustCompile(`(?i)tätigkeit|taetigkeit|position|aufgabenbereich|duties|rolle`),
	"termination":     regexp.MustCompile(`(?i)kündigungsfrist|kuendigungsfrist|kündigungsregelung|notice\s+period`),
	"liability":       regexp.MustCompile(`(?i)haftungsbegrenzung|haftungsbeschränkung|haftungshöchstbetrag|limitation\s+of\s+liability`),
	"data_protection": regexp.MustCompile(`(?i)datenschutz|auftragsverarbeitung|dsgvo|data\s+processing`),
	"confidentiality": regexp.MustCompile(`(?i)geheimhaltung|vertraulichkeit|confidentiality`),
	"non_compete":     regexp.MustCompile(`(?i)wettbewerbsverbot|karenzentschädigung|non-?compete`),
	"vacation":        regexp.MustCompile(`(?i)urlaubsanspruch|urlaubstage|vacation\s+entitlement`),
	"probation":       regexp.MustCompile(`(?i)probezeit|probation(ary)?\s+period`),
}

// AmendmentCoreTopics are always in scope for any amendment: they concern the
// amendment document itself, not the parent contract.
var AmendmentCoreTopics = map[string]bool{
	"parent_reference": true,
	"effective_date":   true,
	"scope_of_change":  true,
	"severability":     true,
	"signatures":       true,
}

// AmendmentForbiddenTopics belong to the parent contract and must never
// survive in an amendment report unless explicitly the changed topic.
var AmendmentForbiddenTopics = map[string]bool{
	"termination":       true,
	"data_protection":   true,
	"liability":         true,
	"jurisdiction":      true,
	"form_requirements": true,
	"non_compete":       true,
	"confidentiality":   true,
	"ip":                true,
	"probation":         true,
	"vacation":          true,
}
