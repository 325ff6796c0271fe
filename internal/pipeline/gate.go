package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/noah04091/contract-ai-sub004/internal/model"
	"github.com/noah04091/contract-ai-sub004/internal/registry"
)

// minImprovedTextLen is the shortest replacement clause still considered
// usable verbatim.
const minImprovedTextLen = 20

// maxImprovedTextLen bounds runaway model output.
const maxImprovedTextLen = 2000

// fabricationPatterns match placeholder text a finding must never carry:
// bracketed blanks, deferral phrases, invented paragraph numbers.
var fabricationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[[^\]\n]{0,60}\]`),
	regexp.MustCompile(`(?i)siehe\s+(vertrag|anlage|vereinbarung)`),
	regexp.MustCompile(`(?i)see\s+(the\s+)?agreement`),
	regexp.MustCompile(`§\s*[Xx]{1,3}\b`),
	regexp.MustCompile(`_{3,}`),
}

// instructionPrefixes are directive lead-ins the model sometimes emits
// instead of clause prose.
var instructionPrefixes = regexp.MustCompile(`(?i)^(fügen sie |ergänzen sie |ersetzen sie |ändern sie |bitte |es wird empfohlen,?\s*|wir empfehlen,?\s*|empfehlung:\s*|vorschlag:\s*|add |insert |replace |we recommend |it is recommended )`)

// applyQualityGate validates, sanitizes, tags, and deduplicates the merged
// finding set. Steps run in a fixed order: category repair, anti-fabrication
// scrub, role correction, dedup, evidence gate. The function is idempotent:
// running it on its own output returns an identical set.
func applyQualityGate(findings []model.Finding, info model.ContractTypeInfo) []model.Finding {
	ct := registry.TypeByTag(info.Type)
	in := len(findings)

	out := make([]model.Finding, 0, len(findings))
	for _, f := range findings {
		f.Category = repairCategory(f.Category)

		f.ImprovedText = scrubFabrications(cleanImprovedText(f.ImprovedText))
		if len(f.ImprovedText) < minImprovedTextLen {
			continue // scrubbing left nothing usable
		}
		if len(f.ImprovedText) > maxImprovedTextLen {
			f.ImprovedText = truncateAtSentence(f.ImprovedText, maxImprovedTextLen)
		}

		f.Summary = correctRoles(f.Summary, ct)
		f.ImprovedText = correctRoles(f.ImprovedText, ct)
		f.LegalReasoning = correctRoles(f.LegalReasoning, ct)

		f.Evidence = cleanEvidence(f.Evidence)
		if (f.Origin == model.OriginAI || f.Origin == model.OriginTopUp) && len(f.Evidence) == 0 {
			continue
		}

		f.Priority = computePriority(f)

		out = append(out, f)
	}

	out = dedupeFindings(out)

	zap.L().Info("quality gate complete",
		zap.Int("findings_in", in),
		zap.Int("findings_out", len(out)),
	)

	return out
}

// repairCategory resolves a raw tag to the normalized taxonomy, falling back
// to general. The enclosing-category fallback already happened when model
// output was flattened, so by the time a tag is still unresolved here there
// is no more specific parent to inherit from.
func repairCategory(raw string) string {
	if tag, ok := registry.NormalizeCategoryTag(raw); ok {
		return tag
	}
	return "general"
}

// cleanImprovedText strips instruction lead-ins and unwraps quoted clauses.
func cleanImprovedText(text string) string {
	cleaned := strings.TrimSpace(text)

	for {
		next := instructionPrefixes.ReplaceAllString(cleaned, "")
		if next == cleaned {
			break
		}
		cleaned = strings.TrimSpace(next)
	}

	// Unwrap a clause fully enclosed in quotes.
	for _, pair := range [][2]string{{`"`, `"`}, {"„", "“"}, {"»", "«"}} {
		if strings.HasPrefix(cleaned, pair[0]) && strings.HasSuffix(cleaned, pair[1]) && len(cleaned) > 2 {
			cleaned = strings.TrimSpace(cleaned[len(pair[0]) : len(cleaned)-len(pair[1])])
		}
	}

	return cleaned
}

// scrubFabrications removes disallowed placeholder fragments.
func scrubFabrications(text string) string {
	for _, p := range fabricationPatterns {
		text = p.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(regexp.MustCompile(`[ \t]{2,}`).ReplaceAllString(text, " "))
}

// correctRoles rewrites generic role nouns to the party labels of the
// detected contract type.
func correctRoles(text string, ct registry.ContractType) string {
	if ct.PartyA == "" || ct.PartyB == "" {
		return text
	}
	replacer := strings.NewReplacer(
		"Partei 1", ct.PartyA,
		"Partei 2", ct.PartyB,
		"Party A", ct.PartyA,
		"Party B", ct.PartyB,
	)
	text = replacer.Replace(text)

	// Generic contractor/principal labels only when the type uses others.
	if ct.PartyA != "Auftraggeber" && ct.PartyB != "Auftragnehmer" {
		text = strings.NewReplacer(
			"Auftraggeber", ct.PartyA,
			"Auftragnehmer", ct.PartyB,
		).Replace(text)
	}
	return text
}

// cleanEvidence drops empty or whitespace-only quotes.
func cleanEvidence(evidence []string) []string {
	var out []string
	for _, e := range evidence {
		if trimmed := strings.TrimSpace(e); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// dedupeFindings merges near-duplicate findings within the same category,
// keeping the higher-confidence one. Rule findings win ties so deterministic
// provenance is preserved.
func dedupeFindings(findings []model.Finding) []model.Finding {
	type slot struct {
		index int
	}
	seen := make(map[string]slot)
	out := make([]model.Finding, 0, len(findings))

	for _, f := range findings {
		keySummary := f.Category + "|s|" + foldForDedup(f.Summary)
		keyOriginal := f.Category + "|o|" + foldForDedup(f.OriginalText)

		existing, dup := seen[keySummary]
		if !dup && f.OriginalText != model.MissingClauseMarker {
			existing, dup = seen[keyOriginal]
		}

		if dup {
			kept := out[existing.index]
			if betterDuplicate(f, kept) {
				out[existing.index] = f
			}
			continue
		}

		out = append(out, f)
		idx := slot{index: len(out) - 1}
		seen[keySummary] = idx
		if f.OriginalText != model.MissingClauseMarker {
			seen[keyOriginal] = idx
		}
	}

	return out
}

// betterDuplicate decides whether candidate should replace kept.
func betterDuplicate(candidate, kept model.Finding) bool {
	if candidate.Confidence != kept.Confidence {
		return candidate.Confidence > kept.Confidence
	}
	return candidate.Origin == model.OriginRule && kept.Origin != model.OriginRule
}

// foldForDedup normalizes text for near-duplicate comparison: lowercase,
// collapsed whitespace, first 60 bytes.
func foldForDedup(text string) string {
	folded := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	if len(folded) > 60 {
		folded = folded[:60]
	}
	return folded
}

// computePriority ranks a finding from risk, impact and confidence.
func computePriority(f model.Finding) model.Priority {
	score := float64(f.Risk)*0.4 + float64(f.Impact)*0.4 + float64(100-f.Confidence)*0.002
	switch {
	case score >= 8 || f.Risk >= 9:
		return model.PriorityCritical
	case score >= 6 || f.Risk >= 7:
		return model.PriorityHigh
	case score >= 4:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// truncateAtSentence cuts text at the last sentence boundary before max.
func truncateAtSentence(text string, max int) string {
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	truncated := text[:cut]
	if idx := strings.LastIndex(truncated, "."); idx > max*7/10 {
		return truncated[:idx+1]
	}
	return truncated + "..."
}
