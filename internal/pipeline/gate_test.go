package pipeline

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah04091/contract-ai-sub004/internal/model"
)

const usableClause = "Die Kündigung bedarf zu ihrer Wirksamkeit der Schriftform gemäß § 126 BGB und ist mit einer Frist von drei Monaten zulässig."

func aiFinding(category, summary string) model.Finding {
	return model.Finding{
		ID:           "ai_test",
		Origin:       model.OriginAI,
		Summary:      summary,
		OriginalText: "Die Kündigung ist jederzeit möglich.",
		ImprovedText: usableClause,
		Category:     category,
		Risk:         5,
		Impact:       5,
		Confidence:   80,
		Evidence:     []string{"Die Kündigung ist jederzeit möglich."},
		Classification: model.Classification{
			Existence:   model.ExistencePresent,
			Sufficiency: model.SufficiencyWeak,
			Necessity:   model.NecessityRiskBased,
			Perspective: model.PerspectiveNeutral,
		},
	}
}

func TestApplyQualityGate_EvidenceRequiredForModelFindings(t *testing.T) {
	withEvidence := aiFinding("termination", "Kündigungsfrist fehlt")
	withoutEvidence := aiFinding("liability", "Haftung unbegrenzt")
	withoutEvidence.Evidence = nil
	whitespaceEvidence := aiFinding("payment", "Zahlungsziel fehlt")
	whitespaceEvidence.Evidence = []string{"   "}

	ruleNoEvidence := withEvidence
	ruleNoEvidence.Origin = model.OriginRule
	ruleNoEvidence.Category = "severability"
	ruleNoEvidence.Summary = "Salvatorische Klausel fehlt"
	ruleNoEvidence.Evidence = nil

	out := applyQualityGate([]model.Finding{withEvidence, withoutEvidence, whitespaceEvidence, ruleNoEvidence},
		model.ContractTypeInfo{Type: "dienstvertrag"})

	require.Len(t, out, 2)
	categories := []string{out[0].Category, out[1].Category}
	assert.Contains(t, categories, "termination")
	assert.Contains(t, categories, "severability")
}

func TestApplyQualityGate_ScrubsFabrications(t *testing.T) {
	f := aiFinding("payment", "Zahlungsziel unklar")
	f.ImprovedText = "Die Zahlung ist innerhalb von [Frist einsetzen] Tagen fällig, spätestens jedoch 30 Tage nach Rechnungszugang gemäß § 286 BGB."

	out := applyQualityGate([]model.Finding{f}, model.ContractTypeInfo{Type: "dienstvertrag"})

	require.Len(t, out, 1)
	assert.NotContains(t, out[0].ImprovedText, "[")
	assert.NotContains(t, out[0].ImprovedText, "  ")
	assert.Contains(t, out[0].ImprovedText, "30 Tage nach Rechnungszugang")
}

func TestApplyQualityGate_DropsWhenNothingUsableRemains(t *testing.T) {
	f := aiFinding("payment", "Zahlungsziel unklar")
	f.ImprovedText = "[siehe Anlage 3]"

	out := applyQualityGate([]model.Finding{f}, model.ContractTypeInfo{Type: "dienstvertrag"})
	assert.Empty(t, out)
}

func TestApplyQualityGate_StripsInstructionPrefixes(t *testing.T) {
	f := aiFinding("termination", "Kündigungsfrist fehlt")
	f.ImprovedText = "Wir empfehlen, ergänzen Sie " + usableClause

	out := applyQualityGate([]model.Finding{f}, model.ContractTypeInfo{Type: "dienstvertrag"})

	require.Len(t, out, 1)
	assert.Equal(t, usableClause, out[0].ImprovedText)
}

func TestApplyQualityGate_TruncatesRunawayText(t *testing.T) {
	f := aiFinding("termination", "Kündigungsfrist fehlt")
	f.ImprovedText = strings.Repeat("Die Kündigungsfrist beträgt drei Monate zum Monatsende. ", 60)

	out := applyQualityGate([]model.Finding{f}, model.ContractTypeInfo{Type: "dienstvertrag"})

	require.Len(t, out, 1)
	assert.LessOrEqual(t, len(out[0].ImprovedText), maxImprovedTextLen)
	assert.True(t, strings.HasSuffix(out[0].ImprovedText, "."))
}

func TestTruncateAtSentence_RuneBoundary(t *testing.T) {
	// Two-byte umlauts with no sentence boundary force the ellipsis cut,
	// which must not split a rune.
	text := strings.Repeat("ä", maxImprovedTextLen)

	out := truncateAtSentence(text, maxImprovedTextLen)

	assert.True(t, utf8.ValidString(out))
	assert.LessOrEqual(t, len(out), maxImprovedTextLen)
	assert.True(t, strings.HasSuffix(out, "..."))
}

func TestApplyQualityGate_CorrectsRoles(t *testing.T) {
	f := aiFinding("compensation", "Partei 2 erhält keine klare Vergütungszusage")
	f.ImprovedText = "Der Auftragnehmer erhält von dem Auftraggeber eine monatliche Vergütung von 4.000 Euro brutto."

	out := applyQualityGate([]model.Finding{f}, model.ContractTypeInfo{Type: "arbeitsvertrag"})

	require.Len(t, out, 1)
	assert.Equal(t, "Arbeitnehmer erhält keine klare Vergütungszusage", out[0].Summary)
	assert.Contains(t, out[0].ImprovedText, "Arbeitnehmer")
	assert.Contains(t, out[0].ImprovedText, "Arbeitgeber")
	assert.NotContains(t, out[0].ImprovedText, "Auftragnehmer")
}

func TestApplyQualityGate_RepairsCategories(t *testing.T) {
	f := aiFinding("Kündigung", "Frist fehlt")
	junk := aiFinding("völlig_unbekannt_xyz", "Sonstiges Problem")

	out := applyQualityGate([]model.Finding{f, junk}, model.ContractTypeInfo{Type: "dienstvertrag"})

	require.Len(t, out, 2)
	assert.Equal(t, "termination", out[0].Category)
	assert.Equal(t, "general", out[1].Category)
}

func TestApplyQualityGate_DeduplicatesBySummary(t *testing.T) {
	low := aiFinding("termination", "Kündigungsfrist fehlt")
	low.Confidence = 60
	high := aiFinding("termination", "kündigungsfrist   FEHLT") // folds to the same key
	high.Confidence = 95

	out := applyQualityGate([]model.Finding{low, high}, model.ContractTypeInfo{Type: "dienstvertrag"})

	require.Len(t, out, 1)
	assert.Equal(t, 95, out[0].Confidence)
}

func TestApplyQualityGate_RuleWinsDuplicateTie(t *testing.T) {
	ai := aiFinding("termination", "Kündigungsfrist fehlt")
	ai.Confidence = 90
	rule := aiFinding("termination", "Kündigungsfrist fehlt")
	rule.Origin = model.OriginRule
	rule.Confidence = 90

	out := applyQualityGate([]model.Finding{ai, rule}, model.ContractTypeInfo{Type: "dienstvertrag"})

	require.Len(t, out, 1)
	assert.Equal(t, model.OriginRule, out[0].Origin)
}

func TestApplyQualityGate_Idempotent(t *testing.T) {
	findings := []model.Finding{
		aiFinding("termination", "Kündigungsfrist fehlt"),
		aiFinding("liability", "Haftung unbegrenzt"),
	}
	info := model.ContractTypeInfo{Type: "dienstvertrag"}

	once := applyQualityGate(findings, info)
	twice := applyQualityGate(once, info)
	assert.Equal(t, once, twice)
}

func TestComputePriority(t *testing.T) {
	tests := []struct {
		name                   string
		risk, impact, conf     int
		want                   model.Priority
	}{
		{"critical by score", 10, 10, 100, model.PriorityCritical},
		{"critical by risk alone", 9, 1, 100, model.PriorityCritical},
		{"high by score", 8, 7, 80, model.PriorityHigh},
		{"high by risk alone", 7, 1, 100, model.PriorityHigh},
		{"medium", 5, 5, 80, model.PriorityMedium},
		{"low", 2, 2, 90, model.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computePriority(model.Finding{Risk: tt.risk, Impact: tt.impact, Confidence: tt.conf})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanImprovedText_UnwrapsQuotes(t *testing.T) {
	assert.Equal(t, "Die Klausel gilt.", cleanImprovedText(`"Die Klausel gilt."`))
	assert.Equal(t, "Die Klausel gilt.", cleanImprovedText("„Die Klausel gilt.“"))
}
