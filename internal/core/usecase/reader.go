package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avoskres/plainlegal/internal/core/domain"
	"github.com/avoskres/plainlegal/internal/core/ports"
)

// ReadDocumentsUseCase serves owner-scoped document reads and deletion.
type ReadDocumentsUseCase struct {
	docs    ports.DocumentRepository
	clauses ports.ClauseRepository
	storage ports.ObjectStorage
}

func NewReadDocumentsUseCase(docs ports.DocumentRepository, clauses ports.ClauseRepository, storage ports.ObjectStorage) *ReadDocumentsUseCase {
	return &ReadDocumentsUseCase{docs: docs, clauses: clauses, storage: storage}
}

func (uc *ReadDocumentsUseCase) Get(ctx context.Context, ownerID, documentID string) (*domain.Document, error) {
	return uc.ownedDocument(ctx, ownerID, documentID)
}

func (uc *ReadDocumentsUseCase) List(ctx context.Context, ownerID string, limit int) ([]domain.Document, error) {
	if ownerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "list documents", errors.New("missing owner id"))
	}
	return uc.docs.ListByOwner(ctx, ownerID, limit)
}

func (uc *ReadDocumentsUseCase) Clauses(ctx context.Context, ownerID, documentID string) ([]domain.Clause, error) {
	if _, err := uc.ownedDocument(ctx, ownerID, documentID); err != nil {
		return nil, err
	}
	return uc.clauses.ListByDocument(ctx, documentID)
}

// Delete removes the stored file, the clauses and the document row. The
// storage removal is best effort so an orphaned file never blocks deletion.
func (uc *ReadDocumentsUseCase) Delete(ctx context.Context, ownerID, documentID string) error {
	doc, err := uc.ownedDocument(ctx, ownerID, documentID)
	if err != nil {
		return err
	}

	if doc.StoragePath != "" {
		if err := uc.storage.Remove(ctx, doc.StoragePath); err != nil {
			slog.Warn("stored_file_remove_failed", "document_id", documentID, "error", err)
		}
	}
	if err := uc.clauses.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete clauses: %w", err)
	}
	if err := uc.docs.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (uc *ReadDocumentsUseCase) ownedDocument(ctx context.Context, ownerID, documentID string) (*domain.Document, error) {
	if ownerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read document", errors.New("missing owner id"))
	}
	doc, err := uc.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != ownerID {
		return nil, domain.WrapError(domain.ErrUnauthorized, "read document", errors.New("document belongs to another user"))
	}
	return doc, nil
}
