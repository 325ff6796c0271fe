package pipeline

import (
	"go.uber.org/zap"

	"github.com/noah04091/contract-ai-sub004/internal/model"
	"github.com/noah04091/contract-ai-sub004/internal/registry"
)

// Integrity score caps per escalation level. The audit can only lower the
// health score, never raise it.
const (
	capNotUsable        = 15
	capLawyerRequired   = 25
	capMandatory        = 40
	capMissingEssential = 55
)

// auditIntegrity runs the independent legal integrity audit: red-flag patterns
// over the raw document text, mandatory-law violations over the finding set,
// and the essentialia check for the detected type. It deliberately does not
// trust upstream stages; a clause the model praised can still trip a red flag.
func auditIntegrity(doc model.ContractDocument, info model.ContractTypeInfo, findings []model.Finding, mandatory []registry.MandatoryTopic) model.LegalIntegrity {
	var redFlags []string
	for _, rf := range registry.RedFlags {
		if !rf.Pattern.MatchString(doc.Text) {
			continue
		}
		if rf.Absent != nil && rf.Absent.MatchString(doc.Text) {
			continue
		}
		redFlags = append(redFlags, rf.Label)
	}

	violations := mandatoryViolations(findings, info, mandatory)
	missing := missingEssentialia(doc, info)

	level, cap := escalate(len(redFlags), len(violations), len(missing))

	if level != model.IntegrityValid {
		zap.L().Warn("legal integrity audit flagged document",
			zap.String("level", string(level)),
			zap.Int("red_flags", len(redFlags)),
			zap.Int("mandatory_violations", len(violations)),
			zap.Int("missing_essentialia", len(missing)),
		)
	}

	return model.LegalIntegrity{
		Level:               level,
		Label:               registry.IntegrityLabels[string(level)],
		ScoreCap:            cap,
		RedFlags:            redFlags,
		MandatoryViolations: violations,
		MissingEssentialia:  missing,
	}
}

// mandatoryViolations lists non-waivable topics whose clause the analysis
// found missing or insufficient.
func mandatoryViolations(findings []model.Finding, info model.ContractTypeInfo, mandatory []registry.MandatoryTopic) []string {
	applicable := registry.MandatoryTopicsFor(mandatory, info.Type)
	if len(applicable) == 0 {
		return nil
	}

	deficient := make(map[string]bool)
	for _, f := range findings {
		if f.Classification.Existence == model.ExistenceMissing || f.Classification.Sufficiency == model.SufficiencyWeak {
			deficient[f.Category] = true
		}
	}

	var out []string
	for _, t := range applicable {
		if deficient[t.Category] {
			out = append(out, t.Label)
		}
	}
	return out
}

// missingEssentialia checks the detected type's essential elements directly
// against the document text via the checklist anchors. Amendments are exempt:
// the essentialia live in the parent contract.
func missingEssentialia(doc model.ContractDocument, info model.ContractTypeInfo) []string {
	if info.IsAmendment {
		return nil
	}

	ct := registry.TypeByTag(info.Type)
	var out []string
	for _, id := range ct.Essentialia {
		check, ok := registry.CheckByID(id)
		if !ok {
			continue
		}
		if !check.Anchor.MatchString(doc.Text) {
			out = append(out, check.Label)
		}
	}
	return out
}

// escalate maps detection counts to the escalation level and its score cap.
// A cap of 0 means uncapped.
func escalate(redFlags, violations, missing int) (model.IntegrityLevel, int) {
	switch {
	case redFlags >= 3 || (redFlags >= 2 && violations >= 1):
		return model.IntegrityNotUsable, capNotUsable
	case redFlags >= 1 || violations >= 2:
		return model.IntegrityLawyerRequired, capLawyerRequired
	case violations >= 1:
		return model.IntegrityReviewRecommended, capMandatory
	case missing >= 1:
		return model.IntegrityReviewRecommended, capMissingEssential
	default:
		return model.IntegrityValid, 0
	}
}

// applyIntegrityCap lowers the health score to the audit's cap when one is
// set.
func applyIntegrityCap(score model.ScoreInfo, integrity model.LegalIntegrity) model.ScoreInfo {
	if integrity.ScoreCap > 0 && score.Health > integrity.ScoreCap {
		score.Health = integrity.ScoreCap
	}
	return score
}
