package cached

import (
	"context"
	"testing"
	"time"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

type countingClauseRepo struct {
	listCalls int
	clauses   []domain.Clause
}

func (r *countingClauseRepo) CreateBatch(context.Context, []domain.Clause) error { return nil }

func (r *countingClauseRepo) ListByDocument(context.Context, string) ([]domain.Clause, error) {
	r.listCalls++
	return r.clauses, nil
}

func (r *countingClauseRepo) ListWithDeadlinesByOwner(context.Context, string) ([]domain.Clause, error) {
	return nil, nil
}

func (r *countingClauseRepo) UpdateSimplified(context.Context, string, string, domain.SimplificationLevel) error {
	return nil
}

func (r *countingClauseRepo) DeleteByDocument(context.Context, string) error { return nil }

func TestListByDocumentCachesResult(t *testing.T) {
	inner := &countingClauseRepo{clauses: []domain.Clause{{ID: "c-1", DocumentID: "doc-1"}}}
	repo := NewClauseRepository(inner, time.Minute)

	for i := 0; i < 3; i++ {
		clauses, err := repo.ListByDocument(context.Background(), "doc-1")
		if err != nil {
			t.Fatalf("ListByDocument() error = %v", err)
		}
		if len(clauses) != 1 {
			t.Fatalf("expected 1 clause, got %d", len(clauses))
		}
	}
	if inner.listCalls != 1 {
		t.Fatalf("expected single store read, got %d", inner.listCalls)
	}
}

func TestUpdateSimplifiedInvalidatesCache(t *testing.T) {
	inner := &countingClauseRepo{clauses: []domain.Clause{{ID: "c-1", DocumentID: "doc-1"}}}
	repo := NewClauseRepository(inner, time.Minute)

	if _, err := repo.ListByDocument(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if err := repo.UpdateSimplified(context.Background(), "c-1", "new text", domain.LevelStudent); err != nil {
		t.Fatalf("UpdateSimplified() error = %v", err)
	}
	if _, err := repo.ListByDocument(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if inner.listCalls != 2 {
		t.Fatalf("expected cache invalidation to force re-read, got %d calls", inner.listCalls)
	}
}

func TestDeleteByDocumentInvalidatesCache(t *testing.T) {
	inner := &countingClauseRepo{clauses: []domain.Clause{{ID: "c-1", DocumentID: "doc-1"}}}
	repo := NewClauseRepository(inner, time.Minute)

	if _, err := repo.ListByDocument(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if err := repo.DeleteByDocument(context.Background(), "doc-1"); err != nil {
		t.Fatalf("DeleteByDocument() error = %v", err)
	}
	if _, err := repo.ListByDocument(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if inner.listCalls != 2 {
		t.Fatalf("expected re-read after delete, got %d calls", inner.listCalls)
	}
}
