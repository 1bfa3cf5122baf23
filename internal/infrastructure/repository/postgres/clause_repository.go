package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

type ClauseRepository struct {
	db *sql.DB
}

func NewClauseRepository(db *sql.DB) *ClauseRepository {
	return &ClauseRepository{db: db}
}

const clauseColumns = `id, document_id, section_index, original_text, simplified_text, simplification_level, clause_type, risk_level, confidence, key_phrases, deadlines, obligations, advice, created_at`

// CreateBatch inserts all of a document's clauses in one transaction so a
// partially analyzed document never exposes a partial clause set.
func (r *ClauseRepository) CreateBatch(ctx context.Context, clauses []domain.Clause) error {
	if len(clauses) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clause tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
INSERT INTO clauses (
	id, document_id, section_index, original_text, simplified_text, simplification_level, clause_type, risk_level, confidence, key_phrases, deadlines, obligations, advice, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
`
	for _, clause := range clauses {
		keyPhrases, deadlines, obligations, err := marshalClauseLists(clause)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query,
			clause.ID, clause.DocumentID, clause.SectionIndex, clause.OriginalText,
			clause.SimplifiedText, string(clause.SimplificationLevel), string(clause.ClauseType),
			string(clause.RiskLevel), clause.Confidence, keyPhrases, deadlines, obligations,
			clause.Advice, clause.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert clause %d: %w", clause.SectionIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clause tx: %w", err)
	}
	return nil
}

func (r *ClauseRepository) ListByDocument(ctx context.Context, documentID string) ([]domain.Clause, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+clauseColumns+`
FROM clauses
WHERE document_id = $1
ORDER BY section_index
`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list clauses: %w", err)
	}
	defer rows.Close()

	return collectClauses(rows)
}

// ListWithDeadlinesByOwner returns deadline-bearing clauses across every
// completed document the owner has, for the deadline calendar.
func (r *ClauseRepository) ListWithDeadlinesByOwner(ctx context.Context, ownerID string) ([]domain.Clause, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.document_id, c.section_index, c.original_text, c.simplified_text, c.simplification_level, c.clause_type, c.risk_level, c.confidence, c.key_phrases, c.deadlines, c.obligations, c.advice, c.created_at
FROM clauses c
JOIN documents d ON d.id = c.document_id
WHERE d.owner_id = $1
  AND d.status = $2
  AND (c.clause_type = 'deadline' OR c.deadlines <> '[]'::jsonb)
ORDER BY c.document_id, c.section_index
`, ownerID, string(domain.StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("list deadline clauses: %w", err)
	}
	defer rows.Close()

	return collectClauses(rows)
}

func (r *ClauseRepository) UpdateSimplified(ctx context.Context, id, simplifiedText string, level domain.SimplificationLevel) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE clauses
SET simplified_text = $2, simplification_level = $3
WHERE id = $1
`, id, simplifiedText, string(level))
	if err != nil {
		return fmt.Errorf("update simplified clause: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update simplified rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "update clause", sql.ErrNoRows)
	}
	return nil
}

func (r *ClauseRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM clauses WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete clauses: %w", err)
	}
	return nil
}

func marshalClauseLists(clause domain.Clause) (keyPhrases, deadlines, obligations []byte, err error) {
	if keyPhrases, err = marshalStringList(clause.KeyPhrases); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal key phrases: %w", err)
	}
	if deadlines, err = marshalStringList(clause.Deadlines); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal deadlines: %w", err)
	}
	if obligations, err = marshalStringList(clause.Obligations); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal obligations: %w", err)
	}
	return keyPhrases, deadlines, obligations, nil
}

func marshalStringList(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}

func collectClauses(rows *sql.Rows) ([]domain.Clause, error) {
	var clauses []domain.Clause
	for rows.Next() {
		var clause domain.Clause
		var level, clauseType, riskLevel string
		var keyPhrases, deadlines, obligations []byte

		err := rows.Scan(
			&clause.ID, &clause.DocumentID, &clause.SectionIndex, &clause.OriginalText,
			&clause.SimplifiedText, &level, &clauseType, &riskLevel, &clause.Confidence,
			&keyPhrases, &deadlines, &obligations, &clause.Advice, &clause.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan clause row: %w", err)
		}

		clause.SimplificationLevel = domain.SimplificationLevel(level)
		clause.ClauseType = domain.ClauseType(clauseType)
		clause.RiskLevel = domain.RiskLevel(riskLevel)
		if err := json.Unmarshal(keyPhrases, &clause.KeyPhrases); err != nil {
			return nil, fmt.Errorf("unmarshal key phrases: %w", err)
		}
		if err := json.Unmarshal(deadlines, &clause.Deadlines); err != nil {
			return nil, fmt.Errorf("unmarshal deadlines: %w", err)
		}
		if err := json.Unmarshal(obligations, &clause.Obligations); err != nil {
			return nil, fmt.Errorf("unmarshal obligations: %w", err)
		}
		clauses = append(clauses, clause)
	}
	return clauses, rows.Err()
}
