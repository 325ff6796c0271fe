package model

// ContractDocument is the immutable input to a pipeline invocation.
// It is created once by the caller and never mutated by the pipeline.
type ContractDocument struct {
	Text             string `json:"text"`
	Filename         string `json:"filename"`
	LanguageHint     string `json:"language_hint,omitempty"`
	JurisdictionHint string `json:"jurisdiction_hint,omitempty"`
}

// ContractTypeInfo is the classifier's verdict on a document.
type ContractTypeInfo struct {
	Type               string   `json:"type"`
	Label              string   `json:"label"`
	Confidence         int      `json:"confidence"` // 0-100
	IsAmendment        bool     `json:"is_amendment"`
	ParentType         string   `json:"parent_type,omitempty"`
	AmendmentIndicator string   `json:"amendment_indicator,omitempty"` // matched indicator phrase
	ChangedTopics      []string `json:"changed_topics,omitempty"`
	DetectedClauses    []string `json:"detected_clauses,omitempty"`
	LegalFrameworks    []string `json:"legal_frameworks,omitempty"`
}

// Severity ranks how serious a detected gap is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// GapKind distinguishes fully absent clauses from present-but-weak ones.
type GapKind string

const (
	GapMissingClause GapKind = "missing_clause"
	GapWeakClause    GapKind = "weak_clause"
)

// Gap is a rule-detected absence or weakness of a required clause.
type Gap struct {
	ClauseID  string   `json:"clause_id"`
	Category  string   `json:"category"`
	Severity  Severity `json:"severity"`
	Kind      GapKind  `json:"kind"`
	Rationale string   `json:"rationale"`
}
