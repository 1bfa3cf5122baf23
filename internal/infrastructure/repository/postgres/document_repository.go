package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, owner_id, filename, storage_path, raw_text, document_type, summary, risk_score, status, error_message, created_at, updated_at`

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, owner_id, filename, storage_path, raw_text, document_type, summary, risk_score, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`,
		doc.ID, doc.OwnerID, doc.Filename, doc.StoragePath, doc.RawText, doc.DocumentType,
		doc.Summary, doc.RiskScore, string(doc.Status), doc.Error, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", err)
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2
`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return nil
}

// SaveResults stores the pipeline output alongside the raw text in one
// statement, so a completed document always has its type, summary and score.
func (r *DocumentRepository) SaveResults(ctx context.Context, id string, docType, summary string, riskScore int) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE documents
SET document_type = $2, summary = $3, risk_score = $4, updated_at = $5
WHERE id = $1
`, id, docType, summary, riskScore, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save document results: %w", err)
	}
	return nil
}

func (r *DocumentRepository) SaveRawText(ctx context.Context, id, rawText string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE documents
SET raw_text = $2, updated_at = $3
WHERE id = $1
`, id, rawText, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save raw text: %w", err)
	}
	return nil
}

func (r *DocumentRepository) UpdateSummary(ctx context.Context, id, summary string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE documents
SET summary = $2, updated_at = $3
WHERE id = $1
`, id, summary, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document summary: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "delete document", sql.ErrNoRows)
	}
	return nil
}

// FailStaleProcessing marks documents stuck in processing as failed. The
// worker sweep calls this so a crash mid-pipeline cannot leave a document
// processing forever.
func (r *DocumentRepository) FailStaleProcessing(ctx context.Context, olderThanSeconds int) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $1, error_message = $2, updated_at = $3
WHERE status = $4 AND updated_at < $5
`,
		string(domain.StatusFailed),
		"processing timed out",
		time.Now().UTC(),
		string(domain.StatusProcessing),
		time.Now().UTC().Add(-time.Duration(olderThanSeconds)*time.Second),
	)
	if err != nil {
		return 0, fmt.Errorf("fail stale documents: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("fail stale rows affected: %w", err)
	}
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var status string
	err := row.Scan(
		&doc.ID, &doc.OwnerID, &doc.Filename, &doc.StoragePath, &doc.RawText, &doc.DocumentType,
		&doc.Summary, &doc.RiskScore, &status, &doc.Error, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}
