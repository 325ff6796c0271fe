package registry

import (
	"strings"
	"text/template"

	"github.com/rotisserie/eris"
)

// clauseParams are the values substituted into clause templates.
type clauseParams struct {
	PartyA string
	PartyB string
}

// ClauseTemplates maps clause IDs to parameterized German clause prose.
// Each rendered clause is self-contained, cites its statutory basis, and
// contains no bracketed blanks (the quality gate rejects those).
var ClauseTemplates = map[string]string{
	"parties": `Vertragsparteien

(1) Dieser Vertrag wird geschlossen zwischen dem {{.PartyA}} und dem {{.PartyB}}. Beide Parteien sind mit vollständigem Namen sowie Anschrift einschließlich Postleitzahl und Ort zu bezeichnen, sodass eine Verwechslung ausgeschlossen ist.

(2) Die Parteien werden im Folgenden einzeln als "Partei" und gemeinsam als "Parteien" bezeichnet. Nach § 126 BGB müssen die Vertragsparteien eindeutig bestimmbar sein.`,

	"termination": `Ordentliche Kündigung

(1) Beide Vertragsparteien können diesen Vertrag mit einer Frist von drei Monaten zum Ende eines Kalendermonats ordentlich kündigen.

(2) Die Kündigung bedarf zu ihrer Wirksamkeit der Schriftform gemäß § 126 BGB. Eine Kündigung per E-Mail genügt den Anforderungen der Schriftform nicht.

(3) Das Recht zur außerordentlichen Kündigung aus wichtigem Grund bleibt hiervon unberührt.

(4) Nach Ausspruch der Kündigung sind beide Parteien verpflichtet, bei der ordnungsgemäßen Abwicklung des Vertragsverhältnisses mitzuwirken.`,

	"liability": `Haftung

(1) Die Haftung für leichte Fahrlässigkeit wird ausgeschlossen, soweit nicht wesentliche Vertragspflichten (Kardinalpflichten) verletzt werden.

(2) Bei Verletzung wesentlicher Vertragspflichten durch leichte Fahrlässigkeit ist die Haftung auf den vertragstypischen, vorhersehbaren Schaden begrenzt.

(3) Die Haftungsbeschränkungen gelten nicht für Schäden aus der Verletzung des Lebens, des Körpers oder der Gesundheit, für Vorsatz oder grobe Fahrlässigkeit sowie für Ansprüche nach dem Produkthaftungsgesetz.

(4) Die gesetzliche Haftung für zugesicherte Eigenschaften bleibt unberührt (§ 276 BGB).`,

	"payment": `Vergütung und Zahlungsbedingungen

(1) Die vereinbarte Vergütung versteht sich zuzüglich der gesetzlichen Mehrwertsteuer und ist in der jeweils gültigen Vergütungsvereinbarung der Parteien beziffert.

(2) Die Zahlung ist innerhalb von 14 Tagen nach Rechnungsstellung ohne Abzug fällig.

(3) Bei Zahlungsverzug werden Verzugszinsen in Höhe von 9 Prozentpunkten über dem Basiszinssatz gemäß § 288 Abs. 2 BGB berechnet.

(4) Die Aufrechnung ist nur mit unbestrittenen oder rechtskräftig festgestellten Forderungen zulässig. Ein Zurückbehaltungsrecht kann nur wegen Gegenansprüchen aus demselben Vertragsverhältnis geltend gemacht werden.`,

	"data_protection": `Datenschutz

(1) Die Parteien verpflichten sich zur Einhaltung der geltenden Datenschutzbestimmungen, insbesondere der Datenschutz-Grundverordnung (DSGVO) und des Bundesdatenschutzgesetzes (BDSG).

(2) Soweit eine Partei im Rahmen dieses Vertrages personenbezogene Daten verarbeitet, erfolgt dies ausschließlich zur Vertragserfüllung gemäß Art. 6 Abs. 1 lit. b DSGVO.

(3) Jede Partei trifft geeignete technische und organisatorische Maßnahmen gemäß Art. 32 DSGVO, um ein dem Risiko angemessenes Schutzniveau zu gewährleisten.

(4) Die Parteien informieren sich gegenseitig unverzüglich über Datenschutzverletzungen gemäß Art. 33, 34 DSGVO.

(5) Bei Beendigung des Vertrags sind personenbezogene Daten zu löschen oder zurückzugeben, soweit keine gesetzliche Aufbewahrungspflicht besteht.`,

	"jurisdiction": `Gerichtsstand und anwendbares Recht

(1) Auf diesen Vertrag findet ausschließlich das Recht der Bundesrepublik Deutschland Anwendung. Die Anwendung des UN-Kaufrechts (CISG) wird ausdrücklich ausgeschlossen.

(2) Ausschließlicher Gerichtsstand für alle Streitigkeiten aus oder im Zusammenhang mit diesem Vertrag ist der Sitz des {{.PartyA}}s, soweit gesetzlich zulässig (§ 38 ZPO).

(3) Erfüllungsort für alle Leistungen ist der Sitz des {{.PartyA}}s, soweit nicht anders vereinbart.`,

	"severability": `Salvatorische Klausel

(1) Sollten einzelne Bestimmungen dieses Vertrages unwirksam, undurchführbar oder lückenhaft sein oder werden, wird die Wirksamkeit der übrigen Bestimmungen hierdurch nicht berührt.

(2) Die Parteien verpflichten sich für diesen Fall, die unwirksame, undurchführbare oder fehlende Bestimmung durch eine wirksame und durchführbare Bestimmung zu ersetzen, die dem wirtschaftlichen Zweck und der Interessenlage der Parteien am nächsten kommt.

(3) Das Gleiche gilt für etwaige Regelungslücken (§ 139 BGB bleibt abbedungen).`,

	"written_form": `Schriftform und Änderungen

(1) Änderungen und Ergänzungen dieses Vertrages bedürfen zu ihrer Wirksamkeit der Schriftform gemäß § 126 BGB, soweit nicht eine strengere Form gesetzlich vorgeschrieben ist.

(2) Dies gilt auch für die Abbedingung dieses Schriftformerfordernisses.

(3) Mündliche Nebenabreden wurden nicht getroffen.`,

	"compensation": `Vergütung

(1) Der {{.PartyB}} erhält für seine Tätigkeit eine monatliche Bruttovergütung, deren Höhe die Parteien in einer gesonderten Vergütungsabrede beziffern; die Vergütung ist jeweils zum Monatsende fällig und wird bargeldlos gezahlt.

(2) Mit der Vergütung sind erforderliche Überstunden in gesetzlich zulässigem Umfang abgegolten, soweit sie zehn Prozent der regelmäßigen monatlichen Arbeitszeit nicht übersteigen.

(3) Der gesetzliche Mindestlohn nach dem MiLoG bleibt in jedem Fall unberührt.`,

	"subject_matter": `Vertragsgegenstand

(1) Gegenstand dieses Vertrages sind die zwischen den Parteien vereinbarten Leistungen, wie sie sich aus der Leistungsbeschreibung der Parteien ergeben; die Leistungsbeschreibung ist wesentlicher Bestandteil dieses Vertrages.

(2) Der {{.PartyB}} erbringt die vereinbarten Leistungen mit der Sorgfalt eines ordentlichen Kaufmanns nach dem jeweils aktuellen Stand der Technik.

(3) Änderungen des Leistungsumfangs bedürfen einer Vereinbarung beider Parteien.`,

	"term": `Vertragsbeginn und Laufzeit

(1) Der Vertrag beginnt mit beiderseitiger Unterzeichnung und wird auf unbestimmte Zeit geschlossen, soweit die Parteien keine Befristung vereinbart haben.

(2) Eine Befristung bedarf der ausdrücklichen schriftlichen Vereinbarung unter Angabe des Endtermins.

(3) Das Recht zur ordentlichen und außerordentlichen Kündigung richtet sich nach den vertraglichen und gesetzlichen Bestimmungen.`,

	"parent_reference": `Bezugnahme auf den Ursprungsvertrag

(1) Dieser Nachtrag ergänzt und ändert den zwischen den Parteien geschlossenen Ursprungsvertrag; die Parteien bezeichnen den Ursprungsvertrag im Kopf dieses Nachtrags eindeutig mit Vertragsdatum und Vertragsparteien.

(2) Begriffe, die in diesem Nachtrag verwendet und nicht gesondert definiert werden, haben die ihnen im Ursprungsvertrag zugewiesene Bedeutung.`,

	"effective_date": `Wirksamwerden der Änderung

(1) Die in diesem Nachtrag vereinbarten Änderungen treten mit beiderseitiger Unterzeichnung in Kraft, soweit die Parteien keinen abweichenden Stichtag bestimmen.

(2) Ein abweichender Stichtag ist im Nachtrag ausdrücklich mit Kalenderdatum zu bezeichnen.`,

	"scope_of_change": `Fortgeltung der übrigen Regelungen

(1) Dieser Nachtrag ändert den Ursprungsvertrag ausschließlich in den hier ausdrücklich geregelten Punkten.

(2) Alle übrigen Bestimmungen des Ursprungsvertrages bleiben unberührt und gelten unverändert fort.`,

	"signatures": `Unterschriften

(1) Dieser Nachtrag wird in zwei gleichlautenden Ausfertigungen erstellt; jede Partei erhält eine Ausfertigung.

(2) Die Parteien unterzeichnen jeweils unter Angabe von Ort und Datum. Für die Wirksamkeit gilt das Schriftformerfordernis des § 126 Abs. 2 BGB.`,
}

// RenderClause renders the template for a clause ID with the contract type's
// party labels substituted. templates is usually ClauseTemplates, or the
// merged map returned by LoadTemplatesFromFile.
func RenderClause(templates map[string]string, clauseID string, ct ContractType) (string, error) {
	if templates == nil {
		templates = ClauseTemplates
	}
	raw, ok := templates[clauseID]
	if !ok {
		return "", eris.Errorf("registry: no clause template for %q", clauseID)
	}

	tmpl, err := template.New(clauseID).Parse(raw)
	if err != nil {
		return "", eris.Wrapf(err, "registry: parse clause template %q", clauseID)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, clauseParams{PartyA: ct.PartyA, PartyB: ct.PartyB}); err != nil {
		return "", eris.Wrapf(err, "registry: render clause template %q", clauseID)
	}
	return b.String(), nil
}
