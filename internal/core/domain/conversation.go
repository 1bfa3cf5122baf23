package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation groups an append-only message log. DocumentID is empty for
// conversations scoped to all of the owner's documents.
type Conversation struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	DocumentID string    `json:"document_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// MessageCount is computed at read time, not stored.
	MessageCount int `json:"message_count"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Answer is a grounded Q&A turn result. Confidence is computed
// deterministically from retrieval quality, not model-reported.
type Answer struct {
	Text           string   `json:"answer"`
	Confidence     float64  `json:"confidence"`
	Sources        []Source `json:"sources"`
	ConversationID string   `json:"conversation_id"`
	ContextUsed    int      `json:"context_used"`
}

type Source struct {
	Section     int        `json:"section"`
	Type        ClauseType `json:"type"`
	TextPreview string     `json:"text_preview"`
	DocumentID  string     `json:"document_id"`
}

// RankedClause pairs a clause with its question-relevance score.
type RankedClause struct {
	Clause Clause `json:"clause"`
	Score  int    `json:"relevance_score"`
}
