package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

func newClauseRepoWithMock(t *testing.T) (*ClauseRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &ClauseRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestCreateBatchUsesOneTransaction(t *testing.T) {
	repo, mock, done := newClauseRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO clauses").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO clauses").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	now := time.Now().UTC()
	clauses := []domain.Clause{
		{ID: "c-1", DocumentID: "doc-1", SectionIndex: 1, OriginalText: "a", ClauseType: domain.TypeObligation, RiskLevel: domain.RiskLow, SimplificationLevel: domain.LevelGeneral, CreatedAt: now},
		{ID: "c-2", DocumentID: "doc-1", SectionIndex: 2, OriginalText: "b", ClauseType: domain.TypeGeneral, RiskLevel: domain.RiskLow, SimplificationLevel: domain.LevelGeneral, CreatedAt: now},
	}
	if err := repo.CreateBatch(context.Background(), clauses); err != nil {
		t.Fatalf("CreateBatch() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateBatchEmptyIsNoop(t *testing.T) {
	repo, mock, done := newClauseRepoWithMock(t)
	defer done()

	if err := repo.CreateBatch(context.Background(), nil); err != nil {
		t.Fatalf("CreateBatch(nil) error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateBatchRollsBackOnFailure(t *testing.T) {
	repo, mock, done := newClauseRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO clauses").WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	clauses := []domain.Clause{{ID: "c-1", DocumentID: "doc-1", SectionIndex: 1, CreatedAt: time.Now()}}
	if err := repo.CreateBatch(context.Background(), clauses); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListByDocumentDecodesJSONLists(t *testing.T) {
	repo, mock, done := newClauseRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "document_id", "section_index", "original_text", "simplified_text", "simplification_level",
		"clause_type", "risk_level", "confidence", "key_phrases", "deadlines", "obligations", "advice", "created_at",
	}).AddRow("c-1", "doc-1", 1, "orig", "simple", "general", "deadline", "high", 0.9,
		[]byte(`["must pay"]`), []byte(`["within 30 days"]`), []byte(`[]`), "", now)

	mock.ExpectQuery("SELECT").WithArgs("doc-1").WillReturnRows(rows)

	clauses, err := repo.ListByDocument(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(clauses))
	}
	clause := clauses[0]
	if clause.ClauseType != domain.TypeDeadline || clause.RiskLevel != domain.RiskHigh {
		t.Fatalf("unexpected clause: %+v", clause)
	}
	if len(clause.Deadlines) != 1 || clause.Deadlines[0] != "within 30 days" {
		t.Fatalf("deadlines not decoded: %v", clause.Deadlines)
	}
	if len(clause.Obligations) != 0 {
		t.Fatalf("obligations should be empty, got %v", clause.Obligations)
	}
}

func TestUpdateSimplifiedNotFound(t *testing.T) {
	repo, mock, done := newClauseRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE clauses").
		WithArgs("missing", "text", "student").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateSimplified(context.Background(), "missing", "text", domain.LevelStudent)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
