package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/avoskres/plainlegal/internal/core/domain"
	"github.com/avoskres/plainlegal/internal/core/ports"
)

const (
	maxHighlights         = 5
	highlightSnippetChars = 300
)

// SummarizeDocumentUseCase assembles the reader-facing digest of a
// completed analysis: stored summary, notable clause highlights and a
// model-generated action item list.
type SummarizeDocumentUseCase struct {
	docs       ports.DocumentRepository
	clauses    ports.ClauseRepository
	simplifier ports.ClauseSimplifier
}

func NewSummarizeDocumentUseCase(docs ports.DocumentRepository, clauses ports.ClauseRepository, simplifier ports.ClauseSimplifier) *SummarizeDocumentUseCase {
	return &SummarizeDocumentUseCase{docs: docs, clauses: clauses, simplifier: simplifier}
}

func (uc *SummarizeDocumentUseCase) Summary(ctx context.Context, ownerID, documentID string) (*ports.SummaryResult, error) {
	if ownerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "document summary", errors.New("missing owner id"))
	}
	doc, err := uc.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != ownerID {
		return nil, domain.WrapError(domain.ErrUnauthorized, "document summary", errors.New("document belongs to another user"))
	}
	if doc.Status != domain.StatusCompleted {
		return nil, domain.WrapError(domain.ErrInvalidInput, "document summary", errors.New("document analysis is not complete"))
	}

	clauses, err := uc.clauses.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	return &ports.SummaryResult{
		DocumentID:  doc.ID,
		DocType:     doc.DocumentType,
		Summary:     doc.Summary,
		RiskScore:   doc.RiskScore,
		ClauseCount: len(clauses),
		Highlights:  selectHighlights(clauses),
		ActionItems: uc.actionItems(ctx, clauses),
	}, nil
}

// selectHighlights picks the clauses a reader should see first: high and
// critical risk, penalty/deadline/risk typed, or anything carrying an
// explicit deadline. When nothing qualifies, the first clauses stand in.
func selectHighlights(clauses []domain.Clause) []domain.Highlight {
	notable := make([]domain.Highlight, 0, maxHighlights)
	for _, clause := range clauses {
		if len(notable) >= maxHighlights {
			break
		}
		if !isNotable(clause) {
			continue
		}
		notable = append(notable, toHighlight(clause))
	}
	if len(notable) > 0 {
		return notable
	}

	limit := 3
	if len(clauses) < limit {
		limit = len(clauses)
	}
	for _, clause := range clauses[:limit] {
		notable = append(notable, toHighlight(clause))
	}
	return notable
}

func isNotable(clause domain.Clause) bool {
	switch {
	case clause.RiskLevel == domain.RiskHigh:
		return true
	case clause.ClauseType == domain.TypePenalty,
		clause.ClauseType == domain.TypeDeadline,
		clause.ClauseType == domain.TypeRisk:
		return true
	case len(clause.Deadlines) > 0:
		return true
	}
	return false
}

func toHighlight(clause domain.Clause) domain.Highlight {
	text := clause.SimplifiedText
	if text == "" {
		text = clause.OriginalText
	}
	if len(text) > highlightSnippetChars {
		text = text[:highlightSnippetChars] + "..."
	}
	return domain.Highlight{
		Section:   clause.SectionIndex,
		Type:      clause.ClauseType,
		RiskLevel: clause.RiskLevel,
		Text:      text,
	}
}

// actionItems asks the model for a task list derived from obligation and
// deadline clauses. On failure the stored obligation phrases stand in.
func (uc *SummarizeDocumentUseCase) actionItems(ctx context.Context, clauses []domain.Clause) []string {
	relevant := make([]domain.Clause, 0, len(clauses))
	for _, clause := range clauses {
		if clause.ClauseType == domain.TypeObligation || clause.ClauseType == domain.TypeDeadline ||
			len(clause.Obligations) > 0 || len(clause.Deadlines) > 0 {
			relevant = append(relevant, clause)
		}
	}
	if len(relevant) == 0 {
		return nil
	}

	items, err := uc.simplifier.ActionItems(ctx, relevant)
	if err != nil || len(items) == 0 {
		slog.Warn("action_items_fallback", "clauses", len(relevant), "error", err)
		return fallbackActionItems(relevant)
	}
	return items
}

func fallbackActionItems(clauses []domain.Clause) []string {
	seen := make(map[string]struct{})
	var items []string
	for _, clause := range clauses {
		for _, obligation := range clause.Obligations {
			if obligation == "" {
				continue
			}
			if _, ok := seen[obligation]; ok {
				continue
			}
			seen[obligation] = struct{}{}
			items = append(items, obligation)
		}
	}
	return items
}
