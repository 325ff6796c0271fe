package pipeline

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/noah04091/contract-ai-sub004/internal/model"
	"github.com/noah04091/contract-ai-sub004/internal/registry"
)

// topUpCoverage issues one supplementary, narrower analysis request when too
// few findings survived quality gating. The request is restricted to
// categories not yet represented, and its findings carry origin=topup so the
// score weights them lower. Failure never propagates: the set is returned
// unchanged.
func (o *orchestrator) topUpCoverage(ctx context.Context, doc model.ContractDocument, info model.ContractTypeInfo, findings []model.Finding, floor int) []model.Finding {
	if floor <= 0 || len(findings) >= floor {
		return findings
	}

	missing := unrepresentedCategories(findings, info)
	if len(missing) == 0 {
		return findings
	}

	zap.L().Info("coverage below floor, requesting top-up",
		zap.Int("surviving", len(findings)),
		zap.Int("floor", floor),
		zap.Int("missing_categories", len(missing)),
	)

	// callTier already performs the single narrow-scope retry on a parse
	// failure; any remaining error ends the top-up attempt.
	payload, err := o.callTier(ctx, doc, info, nil, nil, tierRequest{
		model:      o.cfg.FallbackModel,
		timeout:    o.cfg.FallbackTimeout(),
		maxTokens:  o.cfg.MaxTokens / 2,
		categories: missing,
		maxTextLen: reducedTextLen,
		stage:      "analysis_topup",
	})
	if err != nil {
		zap.L().Warn("coverage top-up failed, keeping finding set unchanged", zap.Error(err))
		return findings
	}

	topups := convertIssues(payload, model.OriginTopUp)
	topups = applyQualityGate(topups, info)

	// Only accept top-ups that actually fill a coverage hole.
	missingSet := make(map[string]bool, len(missing))
	for _, tag := range missing {
		missingSet[tag] = true
	}
	accepted := 0
	for _, f := range topups {
		if missingSet[f.Category] {
			findings = append(findings, f)
			accepted++
		}
	}

	zap.L().Info("coverage top-up complete", zap.Int("accepted", accepted))

	return findings
}

// unrepresentedCategories lists requestable category tags with no finding.
// The top-up runs after scope enforcement, so for amendments the candidates
// are further restricted to the amendment core set and the changed topics:
// nothing a scope filter removed may re-enter through the top-up.
func unrepresentedCategories(findings []model.Finding, info model.ContractTypeInfo) []string {
	present := make(map[string]bool, len(findings))
	for _, f := range findings {
		present[f.Category] = true
	}

	changed := make(map[string]bool, len(info.ChangedTopics))
	for _, t := range info.ChangedTopics {
		changed[t] = true
	}

	var missing []string
	for _, tag := range requestableCategories(info.IsAmendment) {
		if info.IsAmendment && !registry.AmendmentCoreTopics[tag] && !changed[tag] {
			continue
		}
		if !present[tag] {
			missing = append(missing, tag)
		}
	}
	sort.Strings(missing)
	return missing
}
