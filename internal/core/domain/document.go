package domain

import "time"

type DocumentStatus string

const (
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

// IsTerminal reports whether a document can no longer change status.
// processing -> {completed, failed} is the only allowed transition.
func (s DocumentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Document struct {
	ID           string         `json:"id"`
	OwnerID      string         `json:"owner_id"`
	Filename     string         `json:"filename"`
	StoragePath  string         `json:"storage_path"`
	RawText      string         `json:"-"`
	DocumentType string         `json:"document_type,omitempty"`
	Summary      string         `json:"summary,omitempty"`
	RiskScore    int            `json:"risk_score"`
	Status       DocumentStatus `json:"status"`
	Error        string         `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Entities is advisory metadata extracted from the full document text.
// It never gates any downstream decision.
type Entities struct {
	Dates   []string `json:"dates"`
	Amounts []string `json:"monetary_amounts"`
	Parties []string `json:"parties"`
}
