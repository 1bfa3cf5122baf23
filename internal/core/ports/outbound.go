package ports

import (
	"context"
	"io"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveRawText(ctx context.Context, id, rawText string) error
	SaveResults(ctx context.Context, id string, docType, summary string, riskScore int) error
	UpdateSummary(ctx context.Context, id, summary string) error
	Delete(ctx context.Context, id string) error
	FailStaleProcessing(ctx context.Context, olderThanSeconds int) (int64, error)
}

// ClauseRepository persists per-section analysis records.
type ClauseRepository interface {
	CreateBatch(ctx context.Context, clauses []domain.Clause) error
	ListByDocument(ctx context.Context, documentID string) ([]domain.Clause, error)
	ListWithDeadlinesByOwner(ctx context.Context, ownerID string) ([]domain.Clause, error)
	UpdateSimplified(ctx context.Context, id, simplifiedText string, level domain.SimplificationLevel) error
	DeleteByDocument(ctx context.Context, documentID string) error
}

// ConversationRepository stores conversations and their append-only messages.
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	// FindLatestByScope returns the most recently updated conversation for
	// (owner, document) where documentID == "" means the all-documents scope.
	FindLatestByScope(ctx context.Context, ownerID, documentID string) (*domain.Conversation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Conversation, error)
	AppendMessage(ctx context.Context, msg domain.Message) error
	ListRecentMessages(ctx context.Context, conversationID string, limit int) ([]domain.Message, error)
	CountMessages(ctx context.Context, conversationID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// ObjectStorage stores uploaded source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes document processing events.
type MessageQueue interface {
	PublishDocumentQueued(ctx context.Context, documentID string) error
	SubscribeDocumentQueued(ctx context.Context, handler func(context.Context, string) error) error
}

// PipelineObserver receives processing telemetry: how many sections a
// document split into and which model stages degraded to their fallback.
type PipelineObserver interface {
	ObserveSections(count int)
	RecordFallback(stage string)
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// TextGenerator is the external model boundary: one blocking prompt in,
// one response out. Fallible; callers own fallback behavior.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Sectioner splits normalized text into ordered sections.
type Sectioner interface {
	Split(text string) []domain.Section
}

// EntityExtractor pulls advisory entities from full document text.
type EntityExtractor interface {
	Extract(text string) domain.Entities
}

// DocumentTypeClassifier labels a document with one of the known legal
// document types.
type DocumentTypeClassifier interface {
	ClassifyType(ctx context.Context, filename, text string) (string, error)
}

// ClauseAnnotator classifies one section's text.
type ClauseAnnotator interface {
	Annotate(ctx context.Context, text string) (domain.Annotation, error)
}

// ClauseSimplifier rewrites clause text for a target audience and builds
// document-level summaries and action items.
type ClauseSimplifier interface {
	Simplify(ctx context.Context, text string, clauseType domain.ClauseType, level domain.SimplificationLevel) (string, error)
	Summarize(ctx context.Context, docType string, clauses []domain.Clause) (string, error)
	ActionItems(ctx context.Context, clauses []domain.Clause) ([]string, error)
}

// RiskAnalyzer scores a clause's risks and produces document-level
// recommendations.
type RiskAnalyzer interface {
	AnalyzeClause(ctx context.Context, clause domain.Clause) (domain.ClauseRisk, error)
	Recommendations(ctx context.Context, docType string, analysis domain.RiskAnalysis) ([]string, error)
}

// AnswerGenerator creates the grounded Q&A answer text.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, question, history, contextBlock string) (string, error)
}
