package usecase

import (
	"context"
	"errors"

	"github.com/avoskres/plainlegal/internal/core/domain"
	"github.com/avoskres/plainlegal/internal/core/ports"
)

// ResimplifyClauseUseCase regenerates a clause's plain-language text at a
// requested audience level. Simplification always starts from the original
// clause text, never from a previous simplification.
type ResimplifyClauseUseCase struct {
	docs       ports.DocumentRepository
	clauses    ports.ClauseRepository
	simplifier ports.ClauseSimplifier
}

func NewResimplifyClauseUseCase(docs ports.DocumentRepository, clauses ports.ClauseRepository, simplifier ports.ClauseSimplifier) *ResimplifyClauseUseCase {
	return &ResimplifyClauseUseCase{docs: docs, clauses: clauses, simplifier: simplifier}
}

func (uc *ResimplifyClauseUseCase) Resimplify(ctx context.Context, ownerID, documentID, clauseID string, level domain.SimplificationLevel) (*domain.Clause, error) {
	if ownerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "resimplify clause", errors.New("missing owner id"))
	}
	doc, err := uc.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != ownerID {
		return nil, domain.WrapError(domain.ErrUnauthorized, "resimplify clause", errors.New("document belongs to another user"))
	}

	all, err := uc.clauses.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	var clause *domain.Clause
	for i := range all {
		if all[i].ID == clauseID {
			clause = &all[i]
			break
		}
	}
	if clause == nil {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "resimplify clause", errors.New("clause not found in document"))
	}

	simplified, err := uc.simplifier.Simplify(ctx, clause.OriginalText, clause.ClauseType, level)
	if err != nil || simplified == "" {
		// Keep the stored text; the caller still sees the current clause.
		return clause, domain.WrapError(domain.ErrTemporary, "resimplify clause", errors.New("simplification unavailable"))
	}

	if err := uc.clauses.UpdateSimplified(ctx, clauseID, simplified, level); err != nil {
		return nil, err
	}
	clause.SimplifiedText = simplified
	clause.SimplificationLevel = level
	return clause, nil
}
