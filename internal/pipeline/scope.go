package pipeline

import (
	"go.uber.org/zap"

	"github.com/noah04091/contract-ai-sub004/internal/model"
	"github.com/noah04091/contract-ai-sub004/internal/registry"
)

// enforceAmendmentScope hard-filters findings for amendment documents. A
// finding survives only if its category is in the fixed amendment core set or
// in the changed-topic set matched for this amendment. The forbidden parent
// topics are removed even when the model asserted them — this filter
// deliberately overrides anything upstream.
//
// For non-amendment documents the finding set passes through untouched.
func enforceAmendmentScope(findings []model.Finding, info model.ContractTypeInfo) []model.Finding {
	if !info.IsAmendment {
		return findings
	}

	changed := make(map[string]bool, len(info.ChangedTopics))
	for _, t := range info.ChangedTopics {
		changed[t] = true
	}

	out := make([]model.Finding, 0, len(findings))
	removed := 0
	for _, f := range findings {
		// Forbidden parent topics fall through to removal unless they are
		// the exact topic being amended.
		switch {
		case registry.AmendmentCoreTopics[f.Category]:
			out = append(out, f)
		case changed[f.Category]:
			out = append(out, f)
		default:
			removed++
		}
	}

	if removed > 0 {
		zap.L().Info("amendment scope enforced",
			zap.String("indicator", info.AmendmentIndicator),
			zap.Strings("changed_topics", info.ChangedTopics),
			zap.Int("removed", removed),
			zap.Int("kept", len(out)),
		)
	}

	return out
}
