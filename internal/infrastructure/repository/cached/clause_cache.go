// Package cached decorates repositories with a TTL cache. Clause sets are
// immutable after processing except for re-simplification, so short-lived
// caching cuts the repeated reads done by risk reports, Q&A and summaries.
package cached

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/avoskres/plainlegal/internal/core/domain"
	"github.com/avoskres/plainlegal/internal/core/ports"
)

type ClauseRepository struct {
	inner ports.ClauseRepository
	cache *gocache.Cache
}

func NewClauseRepository(inner ports.ClauseRepository, ttl time.Duration) *ClauseRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ClauseRepository{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (r *ClauseRepository) CreateBatch(ctx context.Context, clauses []domain.Clause) error {
	if err := r.inner.CreateBatch(ctx, clauses); err != nil {
		return err
	}
	if len(clauses) > 0 {
		r.cache.Delete(clauses[0].DocumentID)
	}
	return nil
}

func (r *ClauseRepository) ListByDocument(ctx context.Context, documentID string) ([]domain.Clause, error) {
	if entry, ok := r.cache.Get(documentID); ok {
		if clauses, ok := entry.([]domain.Clause); ok {
			return clauses, nil
		}
	}

	clauses, err := r.inner.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(documentID, clauses)
	return clauses, nil
}

// ListWithDeadlinesByOwner spans documents, so it always goes to the store.
func (r *ClauseRepository) ListWithDeadlinesByOwner(ctx context.Context, ownerID string) ([]domain.Clause, error) {
	return r.inner.ListWithDeadlinesByOwner(ctx, ownerID)
}

func (r *ClauseRepository) UpdateSimplified(ctx context.Context, id, simplifiedText string, level domain.SimplificationLevel) error {
	if err := r.inner.UpdateSimplified(ctx, id, simplifiedText, level); err != nil {
		return err
	}
	// The clause id does not name its document here, so drop everything.
	r.cache.Flush()
	return nil
}

func (r *ClauseRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	if err := r.inner.DeleteByDocument(ctx, documentID); err != nil {
		return err
	}
	r.cache.Delete(documentID)
	return nil
}
