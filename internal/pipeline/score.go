package pipeline

import (
	"math"

	"github.com/noah04091/contract-ai-sub004/internal/model"
)

const (
	scoreFloor = 30
	scoreCap   = 98

	// fewIssuesThreshold separates the light-penalty branch from the
	// severity-distribution formula.
	fewIssuesThreshold = 4.0

	// topUpWeight discounts coverage top-up findings, which are
	// lower-confidence by construction.
	topUpWeight = 0.5

	// highRiskAIMultiplier inflates the weight of high-risk model findings.
	highRiskAIMultiplier = 1.3
)

// computeHealthScore folds the final, immutable finding list into the 0-100
// health score plus rounded risk/impact averages. Pure function: identical
// finding sets always produce identical scores.
func computeHealthScore(findings []model.Finding, ceiling int) model.ScoreInfo {
	if ceiling <= 0 || ceiling > scoreCap {
		ceiling = scoreCap
	}
	if len(findings) == 0 {
		// No surviving findings: the contract is deemed sound.
		return model.ScoreInfo{Health: ceiling}
	}

	var weighted, totalRisk, totalImpact float64
	highRiskAI := 0
	for _, f := range findings {
		w := 1.0
		if f.Origin == model.OriginTopUp {
			w = topUpWeight
		}
		if f.Origin == model.OriginAI && f.Risk >= 8 {
			w *= highRiskAIMultiplier
			highRiskAI++
		}
		weighted += w
		totalRisk += float64(f.Risk)
		totalImpact += float64(f.Impact)
	}

	n := float64(len(findings))
	avgRisk := totalRisk / n
	avgImpact := totalImpact / n

	var health int
	if weighted < fewIssuesThreshold {
		health = 92 - int(math.Round(4*weighted))
	} else {
		health = 100 - int(math.Round(avgRisk*8)) - int(math.Round((10-avgImpact)*2)) - 3*highRiskAI
	}

	if health < scoreFloor {
		health = scoreFloor
	}
	if health > ceiling {
		health = ceiling
	}

	return model.ScoreInfo{
		Health: health,
		Risk:   int(math.Round(avgRisk)),
		Impact: int(math.Round(avgImpact)),
	}
}

// summarize counts the aggregate indicators over the final finding list.
// CriticalLegalRisks is filled in later from the integrity audit.
func summarize(findings []model.Finding) model.Summary {
	var s model.Summary
	for _, f := range findings {
		s.TotalIssues++
		if f.Risk >= 8 || f.Priority == model.PriorityCritical {
			s.RedFlags++
		}
		if f.Difficulty == model.DifficultyEasy && f.Confidence >= 80 && f.Risk <= 4 {
			s.QuickWins++
		}
	}
	return s
}
