package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/giftshelf/backend/internal/domain"
	"golang.org/x/sync/singleflight"
)

const snapshotCacheKey = "catalog:all"

// CatalogSnapshot loads the full catalog for consumers that need every record.
// Concurrent loads share one fetch, and a fresh copy is reused for ttl.
type CatalogSnapshot struct {
	client domain.CatalogClient
	cache  domain.CacheRepository
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// NewCatalogSnapshot creates a snapshot loader. A nil cache or non-positive ttl disables reuse.
func NewCatalogSnapshot(client domain.CatalogClient, cache domain.CacheRepository, ttl time.Duration, logger *slog.Logger) *CatalogSnapshot {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogSnapshot{
		client: client,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Load returns every raw record in the catalog. A failed fetch returns no records.
func (s *CatalogSnapshot) Load(ctx context.Context) ([]domain.RawProduct, error) {
	if raws, ok := s.fromCache(ctx); ok {
		return raws, nil
	}

	// The shared fetch outlives any single caller's cancellation; each caller
	// stops waiting on its own context instead.
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(snapshotCacheKey, func() (any, error) {
		raws, err := s.client.FetchAll(fetchCtx)
		if err != nil {
			return nil, err
		}
		s.store(fetchCtx, raws)
		return raws, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// callers sort and filter their copy, never the shared one
		shared := res.Val.([]domain.RawProduct)
		return append([]domain.RawProduct(nil), shared...), nil
	}
}

// Invalidate drops the cached snapshot
func (s *CatalogSnapshot) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, snapshotCacheKey)
}

func (s *CatalogSnapshot) fromCache(ctx context.Context) ([]domain.RawProduct, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return nil, false
	}

	data, err := s.cache.Get(ctx, snapshotCacheKey)
	if err != nil {
		return nil, false
	}

	var raws []domain.RawProduct
	if err := json.Unmarshal(data, &raws); err != nil {
		s.logger.Warn("discarding unreadable catalog snapshot", "error", err)
		return nil, false
	}
	return raws, true
}

func (s *CatalogSnapshot) store(ctx context.Context, raws []domain.RawProduct) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}

	data, err := json.Marshal(raws)
	if err != nil {
		s.logger.Warn("failed to encode catalog snapshot", "error", err)
		return
	}
	if err := s.cache.Set(ctx, snapshotCacheKey, data, s.ttl); err != nil {
		s.logger.Warn("failed to cache catalog snapshot", "error", err)
	}
}
