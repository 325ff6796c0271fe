package pipeline

import (
	"go.uber.org/zap"

	"github.com/noah04091/contract-ai-sub004/internal/model"
	"github.com/noah04091/contract-ai-sub004/internal/registry"
)

// analyzeGaps runs the required-clause checklist over the document. A clause
// is missing only on positive-evidence failure: its anchor pattern matches
// nowhere in the text. An anchor hit with a failed qualifier yields a
// weak_clause gap instead.
//
// For amendments the document scope gate applies: only the amendment-core
// checks plus checks for topics the amendment actually changes are run, so
// clauses living in the parent contract are never reported as missing.
func analyzeGaps(text string, info model.ContractTypeInfo) []model.Gap {
	checks := checksInScope(info)

	var gaps []model.Gap
	for _, check := range checks {
		if !check.Anchor.MatchString(text) {
			gaps = append(gaps, model.Gap{
				ClauseID:  check.ID,
				Category:  check.Category,
				Severity:  check.Severity,
				Kind:      model.GapMissingClause,
				Rationale: check.Rationale,
			})
			continue
		}
		if check.Qualifier != nil && !check.Qualifier.MatchString(text) {
			gaps = append(gaps, model.Gap{
				ClauseID:  check.ID,
				Category:  check.Category,
				Severity:  check.Severity,
				Kind:      model.GapWeakClause,
				Rationale: check.Rationale,
			})
		}
	}

	zap.L().Info("gap analysis complete",
		zap.String("contract_type", info.Type),
		zap.Bool("is_amendment", info.IsAmendment),
		zap.Int("checks_run", len(checks)),
		zap.Int("gaps_found", len(gaps)),
	)

	return gaps
}

// checksInScope selects the checklist entries applicable to this document.
func checksInScope(info model.ContractTypeInfo) []registry.ClauseCheck {
	if !info.IsAmendment {
		return registry.ChecksFor(info.Type, false)
	}

	checks := registry.ChecksFor(info.Type, true)

	changed := make(map[string]bool, len(info.ChangedTopics))
	for _, t := range info.ChangedTopics {
		changed[t] = true
	}
	for _, check := range registry.ChecksFor(info.Type, false) {
		if changed[check.Category] {
			checks = append(checks, check)
		}
	}
	return checks
}
