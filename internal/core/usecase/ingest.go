package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avoskres/plainlegal/internal/core/domain"
	"github.com/avoskres/plainlegal/internal/core/ports"
)

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".txt":  {},
	".md":   {},
}

type IngestDocumentUseCase struct {
	docs    ports.DocumentRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
	maxSize int64
}

func NewIngestDocumentUseCase(
	docs ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	maxSize int64,
) *IngestDocumentUseCase {
	if maxSize <= 0 {
		maxSize = 16 << 20
	}
	return &IngestDocumentUseCase{
		docs:    docs,
		storage: storage,
		queue:   queue,
		maxSize: maxSize,
	}
}

// Upload stores the file, records the document as processing and queues it
// for the analysis worker. The document id is returned immediately; callers
// poll status afterwards.
func (uc *IngestDocumentUseCase) Upload(ctx context.Context, in ports.UploadInput) (*domain.Document, error) {
	if in.OwnerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", errors.New("missing owner"))
	}
	if in.Filename == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", errors.New("missing filename"))
	}
	ext := strings.ToLower(filepath.Ext(in.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", fmt.Errorf("unsupported file type %q", ext))
	}
	if in.Size > uc.maxSize {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", fmt.Errorf("file exceeds %d bytes", uc.maxSize))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s/%s/%s", in.OwnerID, id, sanitizeFilename(in.Filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, in.Data); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.Document{
		ID:          id,
		OwnerID:     in.OwnerID,
		Filename:    in.Filename,
		StoragePath: storageKey,
		Status:      domain.StatusProcessing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document record: %w", err)
	}

	if err := uc.queue.PublishDocumentQueued(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish processing event: %w", err)
	}

	return doc, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == ".." {
		return "document.bin"
	}
	return base
}
