package registry

import "regexp"

// RedFlag is a pattern strongly indicative of an unconscionable or void
// clause. A flag fires when Pattern matches and, if Absent is set, Absent
// does not match anywhere in the text.
type RedFlag struct {
	ID      string
	Label   string
	Pattern *regexp.Regexp
	Absent  *regexp.Regexp
}

// RedFlags is the fixed scan list for the legal integrity audit. It runs over
// the original document text, independent of both the rule engine and the
// model output.
var RedFlags = []RedFlag{
	{
		ID:      "unlimited_liability",
		Label:   "Unbeschränkte Haftung der schwächeren Partei",
		Pattern: regexp.MustCompile(`(?i)haftet\s+(unbeschränkt|unbegrenzt|in\s+voller\s+höhe\s+für\s+jede)|unbeschränkte\s+haftung|unbegrenzte\s+haftung|haftung\s+.{0,40}(unbeschränkt|unbegrenzt)`),
	},
	{
		ID:      "termination_without_notice",
		Label:   "Kündigung ohne Frist und ohne wichtigen Grund",
		Pattern: regexp.MustCompile(`(?i)jederzeit\s+(fristlos|ohne\s+einhaltung\s+einer\s+frist)\s+(und\s+ohne\s+(angabe\s+von\s+)?gr(u|ü)nde?n?\s+)?künd`),
	},
	{
		ID:      "uncompensated_non_compete",
		Label:   "Nachvertragliches Wettbewerbsverbot ohne Karenzentschädigung",
		Pattern: regexp.MustCompile(`(?i)(nachvertragliche?s?\s+)?wettbewerbsverbot`),
		Absent:  regexp.MustCompile(`(?i)karenzentschädigung|entschädigung`),
	},
	{
		ID:      "waiver_of_mandatory_rights",
		Label:   "Verzicht auf unabdingbare gesetzliche Rechte",
		Pattern: regexp.MustCompile(`(?i)verzichtet\s+(unwiderruflich\s+)?auf\s+(alle\s+|sämtliche\s+)?(gesetzliche|zwingende)n?\s+(rechte|ansprüche)`),
	},
	{
		ID:      "excessive_penalty",
		Label:   "Unverhältnismäßige Vertragsstrafe",
		Pattern: regexp.MustCompile(`(?i)vertragsstrafe\s+.{0,60}(jede[nr]?\s+fall\s+der\s+zuwiderhandlung|in\s+unbegrenzter\s+höhe|ohne\s+obergrenze)`),
	},
	{
		ID:      "unilateral_change_right",
		Label:   "Einseitiges uneingeschränktes Änderungsrecht",
		Pattern: regexp.MustCompile(`(?i)(ist\s+berechtigt|behält\s+sich\s+vor),?\s+(den\s+vertrag|die\s+bedingungen|die\s+vergütung)\s+jederzeit\s+(einseitig\s+)?(und\s+ohne\s+zustimmung\s+)?zu\s+ändern`),
	},
}

// MandatoryTopic is a non-waivable legal topic. Findings in the matching
// category whose clause is missing or weak count as a mandatory-law
// violation. The list is jurisdiction-specific (Germany) and deliberately
// narrow; extending it requires legal review, which is why it is loadable
// from a file (LoadMandatoryTopicsFromFile).
type MandatoryTopic struct {
	ID        string   `yaml:"id"`
	Label     string   `yaml:"label"`
	Category  string   `yaml:"category"`
	AppliesTo []string `yaml:"applies_to"`
}

// MandatoryTopics is the reviewed default set.
var MandatoryTopics = []MandatoryTopic{
	{
		ID:        "minimum_leave",
		Label:     "Gesetzlicher Mindesturlaub (§ 3 BUrlG)",
		Category:  "vacation",
		AppliesTo: []string{"arbeitsvertrag"},
	},
	{
		ID:        "statutory_notice_periods",
		Label:     "Gesetzliche Kündigungsfristen (§ 622 BGB)",
		Category:  "termination",
		AppliesTo: []string{"arbeitsvertrag"},
	},
	{
		ID:        "wage_continuation",
		Label:     "Entgeltfortzahlung im Krankheitsfall (EntgFG)",
		Category:  "compensation",
		AppliesTo: []string{"arbeitsvertrag"},
	},
}

// MandatoryTopicsFor filters the mandatory topics by contract type.
func MandatoryTopicsFor(topics []MandatoryTopic, typeTag string) []MandatoryTopic {
	var out []MandatoryTopic
	for _, t := range topics {
		if len(t.AppliesTo) == 0 || contains(t.AppliesTo, typeTag) {
			out = append(out, t)
		}
	}
	return out
}

// IntegrityLabels maps escalation levels to the user-facing German label.
var IntegrityLabels = map[string]string{
	"valid":              "Rechtlich unbedenklich",
	"review_recommended": "Prüfung empfohlen",
	"lawyer_required":    "Anwaltliche Prüfung erforderlich",
	"not_usable":         "In dieser Form nicht verwendbar",
}
