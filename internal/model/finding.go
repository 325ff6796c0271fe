package model

// Origin tags the provenance of a finding. It drives score weighting and the
// evidence gate: rule findings come from the deterministic engine, ai findings
// from the primary/secondary model, topup findings from the coverage pass.
type Origin string

const (
	OriginRule  Origin = "rule"
	OriginAI    Origin = "ai"
	OriginTopUp Origin = "topup"
)

// Difficulty estimates implementation effort for an improvement.
type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyComplex Difficulty = "complex"
)

// Priority orders findings within a category.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Existence states whether the addressed clause exists in the document.
type Existence string

const (
	ExistenceMissing Existence = "missing"
	ExistencePresent Existence = "present"
	ExistencePartial Existence = "partial"
)

// Sufficiency states whether an existing clause is adequate.
type Sufficiency string

const (
	SufficiencySufficient Sufficiency = "sufficient"
	SufficiencyWeak       Sufficiency = "weak"
	SufficiencyOutdated   Sufficiency = "outdated"
)

// Necessity states why the improvement matters legally.
type Necessity string

const (
	NecessityMandatory    Necessity = "mandatory"
	NecessityRiskBased    Necessity = "risk_based"
	NecessityBestPractice Necessity = "best_practice"
)

// Perspective states whose interest the improvement serves.
type Perspective string

const (
	PerspectivePartyA  Perspective = "partyA"
	PerspectivePartyB  Perspective = "partyB"
	PerspectiveNeutral Perspective = "neutral"
)

// Classification is the four-axis legal classification of a finding.
type Classification struct {
	Existence   Existence   `json:"existence"`
	Sufficiency Sufficiency `json:"sufficiency"`
	Necessity   Necessity   `json:"necessity"`
	Perspective Perspective `json:"perspective"`
}

// MissingClauseMarker is the OriginalText value for findings about clauses
// that do not exist in the document at all.
const MissingClauseMarker = "FEHLT - Diese wichtige Regelung ist nicht im Vertrag vorhanden"

// Finding is a single reported improvement opportunity, regardless of origin.
type Finding struct {
	ID             string         `json:"id"`
	Origin         Origin         `json:"origin"`
	Summary        string         `json:"summary"`
	OriginalText   string         `json:"originalText"`
	ImprovedText   string         `json:"improvedText"`
	LegalReasoning string         `json:"legalReasoning"`
	Category       string         `json:"category"`
	Benchmark      string         `json:"benchmark,omitempty"`
	Risk           int            `json:"risk"`       // 1-10
	Impact         int            `json:"impact"`     // 1-10
	Confidence     int            `json:"confidence"` // 0-100
	Difficulty     Difficulty     `json:"difficulty"`
	Priority       Priority       `json:"priority"`
	Evidence       []string       `json:"evidence,omitempty"` // verbatim quotes, mandatory for ai/topup
	Classification Classification `json:"classification"`
}

// Category groups findings that share a normalized taxonomy tag.
type Category struct {
	Tag    string    `json:"tag"`
	Label  string    `json:"label"`
	Issues []Finding `json:"issues"`
}
