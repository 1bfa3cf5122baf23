package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/avoskres/plainlegal/internal/core/domain"
	"github.com/avoskres/plainlegal/internal/core/ports"
)

// ReportDeadlinesUseCase builds the cross-document deadline calendar for
// one owner from clauses that carry deadline signals.
type ReportDeadlinesUseCase struct {
	docs    ports.DocumentRepository
	clauses ports.ClauseRepository
	now     func() time.Time
}

func NewReportDeadlinesUseCase(docs ports.DocumentRepository, clauses ports.ClauseRepository) *ReportDeadlinesUseCase {
	return &ReportDeadlinesUseCase{docs: docs, clauses: clauses, now: time.Now}
}

func (uc *ReportDeadlinesUseCase) Deadlines(ctx context.Context, ownerID string) ([]ports.DeadlineEntry, error) {
	if ownerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "deadline calendar", errors.New("missing owner id"))
	}

	clauses, err := uc.clauses.ListWithDeadlinesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(clauses) == 0 {
		return nil, nil
	}

	docs, err := uc.docs.ListByOwner(ctx, ownerID, 0)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(docs))
	for _, doc := range docs {
		names[doc.ID] = doc.Filename
	}

	byDocument := make(map[string][]domain.Clause)
	var order []string
	for _, clause := range clauses {
		if _, ok := byDocument[clause.DocumentID]; !ok {
			order = append(order, clause.DocumentID)
		}
		byDocument[clause.DocumentID] = append(byDocument[clause.DocumentID], clause)
	}

	now := uc.now().UTC()
	var entries []ports.DeadlineEntry
	for _, documentID := range order {
		for _, date := range extractCriticalDates(byDocument[documentID], now) {
			entries = append(entries, ports.DeadlineEntry{
				DocumentID:   documentID,
				DocumentName: names[documentID],
				Section:      date.Section,
				Date:         date.Date,
				Description:  date.Description,
				Urgency:      date.Urgency,
				Context:      date.Context,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Urgency != entries[j].Urgency {
			return entries[i].Urgency < entries[j].Urgency
		}
		switch {
		case entries[i].Date == nil:
			return false
		case entries[j].Date == nil:
			return true
		default:
			return entries[i].Date.Before(*entries[j].Date)
		}
	})
	return entries, nil
}
