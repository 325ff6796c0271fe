package registry

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/noah04091/contract-ai-sub004/internal/model"
)

// Categories is the normalized category taxonomy: tag → human label.
// Every finding in a final report carries one of these tags.
var Categories = map[string]string{
	"clarity":           "Klarheit & Struktur",
	"termination":       "Kündigung & Beendigung",
	"liability":         "Haftung & Gewährleistung",
	"payment":           "Zahlung & Preisgestaltung",
	"compensation":      "Vergütung",
	"data_protection":   "Datenschutz & Compliance",
	"jurisdiction":      "Gerichtsstand & Rechtswahl",
	"severability":      "Salvatorische Klausel",
	"form_requirements": "Form & Änderungen",
	"confidentiality":   "Vertraulichkeit",
	"non_compete":       "Wettbewerbsverbot",
	"ip":                "Geistiges Eigentum",
	"probation":         "Probezeit",
	"vacation":          "Urlaub",
	"working_hours":     "Arbeitszeit",
	"warranty":          "Mängelrechte",
	"term":              "Laufzeit",
	"subject_matter":    "Vertragsgegenstand",
	"duties":            "Tätigkeit & Aufgaben",
	"parent_reference":  "Bezug zum Ursprungsvertrag",
	"effective_date":    "Wirksamkeitszeitpunkt",
	"scope_of_change":   "Umfang der Änderung",
	"signatures":        "Unterschriften",
	"general":           "Allgemeine Optimierung",
}

// categoryAliases maps folded synonym/localized tags to canonical ones.
var categoryAliases = map[string]string{
	"kuendigung":          "termination",
	"beendigung":          "termination",
	"vertragsbeendigung":  "termination",
	"notice":              "termination",
	"haftung":             "liability",
	"schadensersatz":      "liability",
	"gewaehrleistung":     "warranty",
	"maengelrechte":       "warranty",
	"zahlung":             "payment",
	"zahlungsbedingungen": "payment",
	"preis":               "payment",
	"pricing":             "payment",
	"verguetung":          "compensation",
	"gehalt":              "compensation",
	"salary":              "compensation",
	"lohn":                "compensation",
	"datenschutz":         "data_protection",
	"dsgvo":               "data_protection",
	"privacy":             "data_protection",
	"compliance":          "data_protection",
	"gerichtsstand":       "jurisdiction",
	"rechtswahl":          "jurisdiction",
	"governing_law":       "jurisdiction",
	"salvatorische_klausel": "severability",
	"schriftform":         "form_requirements",
	"form":                "form_requirements",
	"geheimhaltung":       "confidentiality",
	"vertraulichkeit":     "confidentiality",
	"nda":                 "confidentiality",
	"wettbewerbsverbot":   "non_compete",
	"konkurrenzverbot":    "non_compete",
	"urheberrecht":        "ip",
	"nutzungsrechte":      "ip",
	"intellectual_property": "ip",
	"probezeit":           "probation",
	"urlaub":              "vacation",
	"leave":               "vacation",
	"arbeitszeit":         "working_hours",
	"laufzeit":            "term",
	"vertragsdauer":       "term",
	"duration":            "term",
	"vertragsgegenstand":  "subject_matter",
	"leistungsbeschreibung": "subject_matter",
	"scope":               "subject_matter",
	"taetigkeit":          "duties",
	"struktur":            "clarity",
	"transparenz":         "clarity",
	"parteien":            "clarity",
	"allgemein":           "general",
	"sonstiges":           "general",
	"misc":                "general",
}

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldTag lowercases a raw tag, maps German umlauts to their ae/oe/ue
// digraphs, strips remaining diacritics, and squashes everything that is not
// [a-z0-9_] into underscores.
func FoldTag(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss").Replace(s)
	if folded, _, err := transform.String(foldDiacritics, s); err == nil {
		s = folded
	}

	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "_")
	if len(out) > 50 {
		out = out[:50]
	}
	return out
}

// NormalizeCategoryTag resolves a raw tag to a canonical taxonomy tag.
// The second return is false when the tag could not be resolved.
func NormalizeCategoryTag(raw string) (string, bool) {
	folded := FoldTag(raw)
	if folded == "" {
		return "", false
	}
	if _, ok := Categories[folded]; ok {
		return folded, true
	}
	if canonical, ok := categoryAliases[folded]; ok {
		return canonical, true
	}
	return "", false
}

// IsCanonicalCategory reports whether tag is a member of the taxonomy.
func IsCanonicalCategory(tag string) bool {
	_, ok := Categories[tag]
	return ok
}

// CategoryLabel returns the human label for a canonical tag.
func CategoryLabel(tag string) string {
	if label, ok := Categories[tag]; ok {
		return label
	}
	return Categories["general"]
}

// NormalizeDifficulty maps German and English difficulty variants onto the
// canonical enum. Unknown values default to medium.
func NormalizeDifficulty(raw string) model.Difficulty {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "easy", "einfach", "simple", "low":
		return model.DifficultyEasy
	case "hard", "komplex", "complex", "difficult", "high":
		return model.DifficultyComplex
	default:
		return model.DifficultyMedium
	}
}

// NormalizeJurisdiction maps jurisdiction spellings onto ISO-style codes,
// defaulting to DE.
func NormalizeJurisdiction(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "at", "austria", "österreich", "oesterreich":
		return "AT"
	case "ch", "switzerland", "schweiz":
		return "CH"
	case "us", "usa":
		return "US"
	case "uk", "gb":
		return "UK"
	case "eu":
		return "EU"
	case "int", "international":
		return "INT"
	default:
		return "DE"
	}
}

// NormalizeLanguage maps language spellings onto two-letter codes,
// defaulting to de.
func NormalizeLanguage(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "en", "english", "englisch":
		return "en"
	default:
		return "de"
	}
}
