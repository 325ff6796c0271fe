package model

import "time"

// IntegrityLevel is the escalation label assigned by the legal integrity
// audit, independent of the numeric health score.
type IntegrityLevel string

const (
	IntegrityValid             IntegrityLevel = "valid"
	IntegrityReviewRecommended IntegrityLevel = "review_recommended"
	IntegrityLawyerRequired    IntegrityLevel = "lawyer_required"
	IntegrityNotUsable         IntegrityLevel = "not_usable"
)

// FallbackTier records which analysis tier produced the ai findings.
type FallbackTier string

const (
	TierPrimary   FallbackTier = "primary"
	TierSecondary FallbackTier = "secondary"
	TierRuleOnly  FallbackTier = "rule_only"
)

// ReportMeta carries document-level metadata into the report.
type ReportMeta struct {
	TypeInfo     ContractTypeInfo `json:"type_info"`
	Language     string           `json:"language"`
	Jurisdiction string           `json:"jurisdiction"`
	FallbackTier FallbackTier     `json:"fallback_tier"`
	Version      string           `json:"analysis_version"`
	Timestamp    time.Time        `json:"timestamp"`
}

// ScoreInfo holds the health score and the rounded risk/impact averages.
type ScoreInfo struct {
	Health int `json:"health"` // 0-100, capped by legal integrity
	Risk   int `json:"risk"`
	Impact int `json:"impact"`
}

// Summary holds aggregate counters over all surviving findings.
type Summary struct {
	TotalIssues        int `json:"totalIssues"`
	RedFlags           int `json:"redFlags"`
	QuickWins          int `json:"quickWins"`
	CriticalLegalRisks int `json:"criticalLegalRisks"`
}

// LegalIntegrity is the auditor's verdict: escalation level, score cap, and
// the individual detections behind them.
type LegalIntegrity struct {
	Level               IntegrityLevel `json:"level"`
	Label               string         `json:"label"`
	ScoreCap            int            `json:"scoreCap"`
	RedFlags            []string       `json:"redFlags"`
	MandatoryViolations []string       `json:"mandatoryViolations"`
	MissingEssentialia  []string       `json:"missingEssentialia"`
}

// AnalysisReport is the single atomic output of a pipeline invocation.
type AnalysisReport struct {
	Meta           ReportMeta     `json:"meta"`
	Assessment     string         `json:"assessment"`
	Categories     []Category     `json:"categories"`
	Score          ScoreInfo      `json:"score"`
	Summary        Summary        `json:"summary"`
	LegalIntegrity LegalIntegrity `json:"legalIntegrity"`
}

// TotalFindings counts findings across all categories.
func (r *AnalysisReport) TotalFindings() int {
	n := 0
	for _, c := range r.Categories {
		n += len(c.Issues)
	}
	return n
}
