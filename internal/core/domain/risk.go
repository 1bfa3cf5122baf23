package domain

import "time"

// ClauseRisk is the per-clause output of the risk pass, either model-parsed
// or produced by the keyword fallback.
type ClauseRisk struct {
	Risks       []string `json:"risks"`
	Financial   []string `json:"financial"`
	Deadlines   []string `json:"deadlines"`
	Termination []string `json:"termination"`
	Compliance  []string `json:"compliance"`
	Severity    Severity `json:"severity"`
}

type HighRiskClause struct {
	Section  int        `json:"section"`
	Type     ClauseType `json:"type"`
	Text     string     `json:"text"`
	Risks    []string   `json:"risks"`
	Severity Severity   `json:"severity"`
}

// RiskItem is a document-level risk entry tagged with its originating
// section and a context snippet.
type RiskItem struct {
	Section int    `json:"section"`
	Item    string `json:"item"`
	Context string `json:"context"`
}

// RiskAnalysis is derived on demand from the current clause set and never
// persisted as its own entity.
type RiskAnalysis struct {
	OverallScore           int              `json:"overall_risk_score"`
	Categories             map[Severity]int `json:"risk_categories"`
	HighRiskClauses        []HighRiskClause `json:"high_risk_clauses"`
	Deadlines              []RiskItem       `json:"deadlines"`
	FinancialObligations   []RiskItem       `json:"financial_obligations"`
	TerminationRisks       []RiskItem       `json:"termination_risks"`
	ComplianceRequirements []RiskItem       `json:"compliance_requirements"`
	Recommendations        []string         `json:"recommendations"`
}

// CriticalDate is a detected deadline with urgency 1 (past due) through
// 5 (distant). A nil Date means the expression was detected but not resolved.
type CriticalDate struct {
	Section     int        `json:"section"`
	Date        *time.Time `json:"date,omitempty"`
	Kind        string     `json:"type"`
	Description string     `json:"description"`
	Urgency     int        `json:"urgency"`
	Context     string     `json:"context"`
}

type Highlight struct {
	Section   int        `json:"section"`
	Type      ClauseType `json:"type"`
	RiskLevel RiskLevel  `json:"risk_level"`
	Text      string     `json:"text"`
}
