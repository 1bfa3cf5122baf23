package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avoskres/plainlegal/internal/core/domain"
	"github.com/avoskres/plainlegal/internal/core/ports"
)

const historyWindow = 6

const (
	noDocumentsAnswer = "I don't have any analyzed documents to answer questions about. Please upload a document first."
	answerUnavailable = "I'm having trouble generating an answer right now. Please try again in a moment."
)

// AnswerQuestionUseCase answers questions grounded in analyzed clauses and
// keeps the conversation log. Relevance ranking and confidence are
// deterministic; only the final answer text comes from the model.
type AnswerQuestionUseCase struct {
	docs          ports.DocumentRepository
	clauses       ports.ClauseRepository
	conversations ports.ConversationRepository
	generator     ports.AnswerGenerator
}

func NewAnswerQuestionUseCase(
	docs ports.DocumentRepository,
	clauses ports.ClauseRepository,
	conversations ports.ConversationRepository,
	generator ports.AnswerGenerator,
) *AnswerQuestionUseCase {
	return &AnswerQuestionUseCase{docs: docs, clauses: clauses, conversations: conversations, generator: generator}
}

func (uc *AnswerQuestionUseCase) Ask(ctx context.Context, in ports.AskInput) (*domain.Answer, error) {
	if in.OwnerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ask question", errors.New("missing owner id"))
	}
	question := strings.TrimSpace(in.Question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ask question", errors.New("empty question"))
	}

	conv, err := uc.resolveConversation(ctx, in)
	if err != nil {
		return nil, err
	}

	docs, clauses, err := uc.gatherContext(ctx, in.OwnerID, in.DocumentID)
	if err != nil {
		return nil, err
	}

	history, err := uc.formattedHistory(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.appendMessage(ctx, conv.ID, domain.RoleUser, question); err != nil {
		return nil, err
	}

	answer := uc.buildAnswer(ctx, question, history, docs, clauses)
	answer.ConversationID = conv.ID

	if err := uc.appendMessage(ctx, conv.ID, domain.RoleAssistant, answer.Text); err != nil {
		return nil, err
	}
	return answer, nil
}

func (uc *AnswerQuestionUseCase) resolveConversation(ctx context.Context, in ports.AskInput) (*domain.Conversation, error) {
	if in.ConversationID != "" {
		conv, err := uc.conversations.GetByID(ctx, in.ConversationID)
		if err != nil {
			return nil, err
		}
		if conv.OwnerID != in.OwnerID {
			return nil, domain.WrapError(domain.ErrUnauthorized, "ask question", errors.New("conversation belongs to another user"))
		}
		return conv, nil
	}

	conv, err := uc.conversations.FindLatestByScope(ctx, in.OwnerID, in.DocumentID)
	if err == nil {
		return conv, nil
	}
	if !domain.IsKind(err, domain.ErrConversationNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	conv = &domain.Conversation{
		ID:         uuid.NewString(),
		OwnerID:    in.OwnerID,
		DocumentID: in.DocumentID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.conversations.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// gatherContext collects the completed documents in scope and their clauses.
// A single-document scope enforces ownership; the all-documents scope simply
// walks everything the owner has.
func (uc *AnswerQuestionUseCase) gatherContext(ctx context.Context, ownerID, documentID string) ([]domain.Document, []domain.Clause, error) {
	var docs []domain.Document
	if documentID != "" {
		doc, err := uc.docs.GetByID(ctx, documentID)
		if err != nil {
			return nil, nil, err
		}
		if doc.OwnerID != ownerID {
			return nil, nil, domain.WrapError(domain.ErrUnauthorized, "ask question", errors.New("document belongs to another user"))
		}
		if doc.Status == domain.StatusCompleted {
			docs = append(docs, *doc)
		}
	} else {
		all, err := uc.docs.ListByOwner(ctx, ownerID, 0)
		if err != nil {
			return nil, nil, err
		}
		for _, doc := range all {
			if doc.Status == domain.StatusCompleted {
				docs = append(docs, doc)
			}
		}
	}

	var clauses []domain.Clause
	for _, doc := range docs {
		docClauses, err := uc.clauses.ListByDocument(ctx, doc.ID)
		if err != nil {
			return nil, nil, err
		}
		clauses = append(clauses, docClauses...)
	}
	return docs, clauses, nil
}

func (uc *AnswerQuestionUseCase) buildAnswer(ctx context.Context, question, history string, docs []domain.Document, clauses []domain.Clause) *domain.Answer {
	if len(docs) == 0 {
		return &domain.Answer{Text: noDocumentsAnswer, Confidence: 0, ContextUsed: 0}
	}

	keywords := extractQuestionKeywords(question)
	ranked := filterRelevantClauses(clauses, keywords)
	contextBlock := buildAnswerContext(docs, ranked)

	text, err := uc.generator.GenerateAnswer(ctx, question, history, contextBlock)
	if err != nil || strings.TrimSpace(text) == "" {
		slog.Warn("answer_generation_failed", "error", err)
		return &domain.Answer{Text: answerUnavailable, Confidence: 0, ContextUsed: len(ranked)}
	}

	return &domain.Answer{
		Text:        strings.TrimSpace(text),
		Confidence:  answerConfidence(len(ranked), keywords, contextBlock),
		Sources:     extractAnswerSources(ranked, text),
		ContextUsed: len(ranked),
	}
}

// buildAnswerContext renders each in-scope document's header and summary
// followed by the relevant sections, most relevant first.
func buildAnswerContext(docs []domain.Document, ranked []domain.RankedClause) string {
	byDocument := make(map[string][]domain.RankedClause)
	for _, rc := range ranked {
		byDocument[rc.Clause.DocumentID] = append(byDocument[rc.Clause.DocumentID], rc)
	}

	var b strings.Builder
	for _, doc := range docs {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Document: %s (%s)\n", doc.Filename, doc.DocumentType)
		if doc.Summary != "" {
			fmt.Fprintf(&b, "Summary: %s\n", doc.Summary)
		}
		for _, rc := range byDocument[doc.ID] {
			text := rc.Clause.SimplifiedText
			if text == "" {
				text = rc.Clause.OriginalText
			}
			fmt.Fprintf(&b, "\nSection %d (%s):\n%s\n", rc.Clause.SectionIndex, rc.Clause.ClauseType, text)
			if rc.Clause.Advice != "" {
				fmt.Fprintf(&b, "Advice: %s\n", rc.Clause.Advice)
			}
		}
	}
	return b.String()
}

func (uc *AnswerQuestionUseCase) formattedHistory(ctx context.Context, conversationID string) (string, error) {
	messages, err := uc.conversations.ListRecentMessages(ctx, conversationID, historyWindow)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		role := msg.Role
		if role != "" {
			role = strings.ToUpper(role[:1]) + role[1:]
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, msg.Content))
	}
	return strings.Join(lines, "\n"), nil
}

func (uc *AnswerQuestionUseCase) appendMessage(ctx context.Context, conversationID, role, content string) error {
	return uc.conversations.AppendMessage(ctx, domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	})
}

var defaultSuggestions = []string{
	"What type of document is this?",
	"What are the key points?",
	"What are my obligations?",
	"What risks should I be aware of?"}

const (
	maxSuggestions         = 6
	maxSuggestionDocuments = 3
)

// SuggestedQuestions derives starter questions from the clause mix of one
// document, or of the most recent completed documents when no document is
// named. Rules are deterministic so the suggestions are stable.
func (uc *AnswerQuestionUseCase) SuggestedQuestions(ctx context.Context, ownerID, documentID string) ([]string, error) {
	if ownerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "suggested questions", errors.New("missing owner id"))
	}

	var clauses []domain.Clause
	if documentID == "" {
		gathered, err := uc.recentClauses(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		clauses = gathered
	} else {
		doc, err := uc.docs.GetByID(ctx, documentID)
		if err != nil {
			return nil, err
		}
		if doc.OwnerID != ownerID {
			return nil, domain.WrapError(domain.ErrUnauthorized, "suggested questions", errors.New("document belongs to another user"))
		}
		if doc.Status != domain.StatusCompleted {
			return append([]string(nil), defaultSuggestions...), nil
		}
		clauses, err = uc.clauses.ListByDocument(ctx, documentID)
		if err != nil {
			return nil, err
		}
	}
	if len(clauses) == 0 {
		return append([]string(nil), defaultSuggestions...), nil
	}
	return suggestionsFromClauses(clauses), nil
}

// recentClauses collects clauses across the owner's most recent completed
// documents for the all-documents suggestion scope.
func (uc *AnswerQuestionUseCase) recentClauses(ctx context.Context, ownerID string) ([]domain.Clause, error) {
	docs, err := uc.docs.ListByOwner(ctx, ownerID, 0)
	if err != nil {
		return nil, err
	}

	var clauses []domain.Clause
	included := 0
	for _, doc := range docs {
		if included >= maxSuggestionDocuments {
			break
		}
		if doc.Status != domain.StatusCompleted {
			continue
		}
		included++
		docClauses, err := uc.clauses.ListByDocument(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, docClauses...)
	}
	return clauses, nil
}

func suggestionsFromClauses(clauses []domain.Clause) []string {
	var hasDeadline, hasPenalty, hasObligation, hasTermination bool
	for _, clause := range clauses {
		switch clause.ClauseType {
		case domain.TypeDeadline:
			hasDeadline = true
		case domain.TypePenalty:
			hasPenalty = true
		case domain.TypeObligation:
			hasObligation = true
		}
		text := clause.SimplifiedText
		if text == "" {
			text = clause.OriginalText
		}
		if strings.Contains(strings.ToLower(text), "terminat") {
			hasTermination = true
		}
	}

	var suggestions []string
	if hasDeadline {
		suggestions = append(suggestions,
			"What are the important deadlines I need to know about?",
			"What happens if a deadline is missed?")
	}
	if hasPenalty {
		suggestions = append(suggestions,
			"What penalties or fees could I face?",
			"Under what circumstances would penalties apply?")
	}
	if hasObligation {
		suggestions = append(suggestions,
			"What are my main obligations under this document?",
			"What am I required to do and by when?")
	}
	if hasTermination {
		suggestions = append(suggestions,
			"How can this agreement be terminated?",
			"What notice is required for termination?")
	}
	suggestions = append(suggestions,
		"What are the key points of this document?",
		"What are the biggest risks in this document?",
		"Is there anything unusual I should be aware of?")

	seen := make(map[string]struct{}, len(suggestions))
	deduped := suggestions[:0]
	for _, s := range suggestions {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		deduped = append(deduped, s)
	}
	if len(deduped) > maxSuggestions {
		deduped = deduped[:maxSuggestions]
	}
	return deduped
}
