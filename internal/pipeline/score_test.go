package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah04091/contract-ai-sub004/internal/model"
)

func scoredFinding(origin model.Origin, risk, impact int) model.Finding {
	return model.Finding{Origin: origin, Risk: risk, Impact: impact, Confidence: 85}
}

func TestComputeHealthScore_NoFindings(t *testing.T) {
	score := computeHealthScore(nil, 0)
	assert.Equal(t, 98, score.Health)
	assert.Equal(t, 0, score.Risk)
	assert.Equal(t, 0, score.Impact)

	score = computeHealthScore(nil, 90)
	assert.Equal(t, 90, score.Health)
}

func TestComputeHealthScore_FewIssuesBranch(t *testing.T) {
	// Three full-weight findings stay under the threshold: 92 - 4*3 = 80.
	findings := []model.Finding{
		scoredFinding(model.OriginRule, 7, 6),
		scoredFinding(model.OriginRule, 7, 6),
		scoredFinding(model.OriginRule, 7, 6),
	}

	score := computeHealthScore(findings, 0)
	assert.Equal(t, 80, score.Health)
	assert.Equal(t, 7, score.Risk)
	assert.Equal(t, 6, score.Impact)
}

func TestComputeHealthScore_SeverityDistribution(t *testing.T) {
	// Five findings of risk 5, impact 5: 100 - 40 - 10 = 50.
	findings := make([]model.Finding, 5)
	for i := range findings {
		findings[i] = scoredFinding(model.OriginRule, 5, 5)
	}

	score := computeHealthScore(findings, 0)
	assert.Equal(t, 50, score.Health)
}

func TestComputeHealthScore_HighRiskAIPenalty(t *testing.T) {
	findings := []model.Finding{
		scoredFinding(model.OriginRule, 6, 6),
		scoredFinding(model.OriginRule, 6, 6),
		scoredFinding(model.OriginRule, 6, 6),
		scoredFinding(model.OriginRule, 6, 6),
		scoredFinding(model.OriginAI, 8, 8),
	}

	// avg risk 6.4 -> 51, avg impact 6.4 -> 7, one high-risk model finding -> 3.
	score := computeHealthScore(findings, 0)
	assert.Equal(t, 39, score.Health)
}

func TestComputeHealthScore_TopUpDiscount(t *testing.T) {
	// Three rule findings plus one top-up weigh 3.5, staying in the light
	// branch: 92 - round(4*3.5) = 78. A fourth full-weight finding would not.
	findings := []model.Finding{
		scoredFinding(model.OriginRule, 5, 5),
		scoredFinding(model.OriginRule, 5, 5),
		scoredFinding(model.OriginRule, 5, 5),
		scoredFinding(model.OriginTopUp, 5, 5),
	}

	score := computeHealthScore(findings, 0)
	assert.Equal(t, 78, score.Health)

	findings[3].Origin = model.OriginRule
	score = computeHealthScore(findings, 0)
	assert.Equal(t, 50, score.Health)
}

func TestComputeHealthScore_Floor(t *testing.T) {
	findings := make([]model.Finding, 5)
	for i := range findings {
		findings[i] = scoredFinding(model.OriginAI, 10, 10)
	}

	score := computeHealthScore(findings, 0)
	assert.Equal(t, scoreFloor, score.Health)
}

func TestComputeHealthScore_CeilingClamp(t *testing.T) {
	findings := []model.Finding{scoredFinding(model.OriginRule, 2, 5)}

	score := computeHealthScore(findings, 0)
	assert.Equal(t, 88, score.Health)

	score = computeHealthScore(findings, 50)
	assert.Equal(t, 50, score.Health)
}

func TestComputeHealthScore_Deterministic(t *testing.T) {
	findings := []model.Finding{
		scoredFinding(model.OriginRule, 8, 7),
		scoredFinding(model.OriginAI, 9, 8),
		scoredFinding(model.OriginTopUp, 4, 5),
	}

	first := computeHealthScore(findings, 0)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, computeHealthScore(findings, 0))
	}
}

func TestSummarize(t *testing.T) {
	findings := []model.Finding{
		{Risk: 9, Priority: model.PriorityCritical},
		{Risk: 3, Confidence: 90, Difficulty: model.DifficultyEasy},
		{Risk: 5, Priority: model.PriorityMedium, Confidence: 70},
		{Risk: 4, Priority: model.PriorityCritical, Confidence: 60},
	}

	s := summarize(findings)
	assert.Equal(t, 4, s.TotalIssues)
	assert.Equal(t, 2, s.RedFlags) // risk >= 8 or critical priority
	assert.Equal(t, 1, s.QuickWins)
	assert.Equal(t, 0, s.CriticalLegalRisks) // filled by the integrity audit
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, model.Summary{}, summarize(nil))
}
