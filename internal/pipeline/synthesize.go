package pipeline

import (
	"go.uber.org/zap"

	"github.com/google/uuid"

	"github.com/noah04091/contract-ai-sub004/internal/model"
	"github.com/noah04091/contract-ai-sub004/internal/registry"
)

// ruleConfidence is the confidence carried by deterministic rule findings.
const ruleConfidence = 90

// synthesizeClauses renders a replacement clause for each gap. Gaps without a
// template are skipped with a warning; the pipeline never fails here.
func synthesizeClauses(gaps []model.Gap, info model.ContractTypeInfo, templates map[string]string) map[string]string {
	ct := registry.TypeByTag(info.Type)

	clauses := make(map[string]string, len(gaps))
	for _, gap := range gaps {
		text, err := registry.RenderClause(templates, gap.ClauseID, ct)
		if err != nil {
			zap.L().Warn("no clause template", zap.String("clause", gap.ClauseID), zap.Error(err))
			continue
		}
		clauses[gap.ClauseID] = text
	}
	return clauses
}

// ruleFindings folds the gap list and its synthesized clauses into findings
// with origin=rule. Rule findings carry no evidence quotes; the evidence gate
// only applies to model-origin findings.
func ruleFindings(gaps []model.Gap, clauses map[string]string, info model.ContractTypeInfo) []model.Finding {
	findings := make([]model.Finding, 0, len(gaps))

	for _, gap := range gaps {
		check, ok := registry.CheckByID(gap.ClauseID)
		if !ok {
			continue
		}
		improved, ok := clauses[gap.ClauseID]
		if !ok {
			continue
		}

		f := model.Finding{
			ID:             "rule_" + gap.ClauseID + "_" + uuid.New().String()[:8],
			Origin:         model.OriginRule,
			Summary:        check.Label,
			OriginalText:   model.MissingClauseMarker,
			ImprovedText:   improved,
			LegalReasoning: check.Rationale,
			Category:       check.Category,
			Benchmark:      check.Benchmark,
			Risk:           check.Risk,
			Impact:         maxInt(5, check.Risk-1),
			Confidence:     ruleConfidence,
			Difficulty:     difficultyForRisk(check.Risk),
			Classification: model.Classification{
				Existence:   model.ExistenceMissing,
				Sufficiency: model.SufficiencyWeak,
				Necessity:   model.NecessityRiskBased,
				Perspective: model.PerspectiveNeutral,
			},
		}

		if gap.Kind == model.GapWeakClause {
			f.OriginalText = "Vorhanden, aber unzureichend konkretisiert"
			f.Classification.Existence = model.ExistencePartial
		}

		findings = append(findings, f)
	}

	return findings
}

// difficultyForRisk mirrors the rule engine's heuristic: high-severity gaps
// take structural changes, the rest are quick clause insertions.
func difficultyForRisk(risk int) model.Difficulty {
	if risk >= 8 {
		return model.DifficultyMedium
	}
	return model.DifficultyEasy
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
