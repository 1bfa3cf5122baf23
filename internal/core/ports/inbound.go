package ports

import (
	"context"
	"io"
	"time"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

// UploadInput carries one uploaded file through ingestion.
type UploadInput struct {
	OwnerID  string
	Filename string
	Size     int64
	Data     io.Reader
}

// DocumentIngestor accepts an upload, persists it and queues processing.
type DocumentIngestor interface {
	Upload(ctx context.Context, in UploadInput) (*domain.Document, error)
}

// DocumentProcessor runs the analysis pipeline for a queued document.
type DocumentProcessor interface {
	Process(ctx context.Context, documentID string) error
}

// DocumentReader serves stored documents and their analysis results.
type DocumentReader interface {
	Get(ctx context.Context, ownerID, documentID string) (*domain.Document, error)
	List(ctx context.Context, ownerID string, limit int) ([]domain.Document, error)
	Clauses(ctx context.Context, ownerID, documentID string) ([]domain.Clause, error)
	Delete(ctx context.Context, ownerID, documentID string) error
}

// SummaryResult is the document overview payload.
type SummaryResult struct {
	DocumentID  string
	DocType     string
	Summary     string
	RiskScore   int
	ClauseCount int
	Highlights  []domain.Highlight
	ActionItems []string
}

// DocumentSummarizer builds the overview for a completed document.
type DocumentSummarizer interface {
	Summary(ctx context.Context, ownerID, documentID string) (*SummaryResult, error)
}

// Resimplifier rewrites a clause at a new audience level, always from the
// clause's original text.
type Resimplifier interface {
	Resimplify(ctx context.Context, ownerID, documentID, clauseID string, level domain.SimplificationLevel) (*domain.Clause, error)
}

// RiskReporter builds the full risk analysis for a completed document.
type RiskReporter interface {
	RiskReport(ctx context.Context, ownerID, documentID string) (*domain.RiskAnalysis, error)
}

// AskInput is one question, optionally scoped to a single document and an
// existing conversation.
type AskInput struct {
	OwnerID        string
	DocumentID     string
	ConversationID string
	Question       string
}

// QuestionAnswerer answers questions grounded in analyzed clauses.
type QuestionAnswerer interface {
	Ask(ctx context.Context, in AskInput) (*domain.Answer, error)
	SuggestedQuestions(ctx context.Context, ownerID, documentID string) ([]string, error)
}

// ConversationManager lists and deletes conversations with their history.
type ConversationManager interface {
	ListConversations(ctx context.Context, ownerID string) ([]domain.Conversation, error)
	History(ctx context.Context, ownerID, conversationID string) ([]domain.Message, error)
	DeleteConversation(ctx context.Context, ownerID, conversationID string) error
}

// DeadlineEntry is one calendar item across the owner's documents.
type DeadlineEntry struct {
	DocumentID   string
	DocumentName string
	Section      int
	Date         *time.Time
	Description  string
	Urgency      int
	Context      string
}

// DeadlineReporter aggregates critical dates across an owner's documents.
type DeadlineReporter interface {
	Deadlines(ctx context.Context, ownerID string) ([]DeadlineEntry, error)
}
