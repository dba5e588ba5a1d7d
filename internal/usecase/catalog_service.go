package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/giftshelf/backend/internal/domain"
	"github.com/giftshelf/backend/internal/infrastructure/catalog"
)

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	Mode           string
	VocabularyMode string
	SnapshotTTL    time.Duration
}

// CatalogService is the query pipeline boundary: listing, lookup and filter options
type CatalogService struct {
	strategy   Strategy
	snapshot   *CatalogSnapshot
	vocabulary *VocabularyResolver
	logger     *slog.Logger
}

// NewCatalogService creates a catalog service with dependencies.
// An empty Mode means ModeServer and an empty VocabularyMode means VocabularyEndpoint.
func NewCatalogService(
	client domain.CatalogClient,
	cache domain.CacheRepository,
	config CatalogServiceConfig,
	logger *slog.Logger,
) (*CatalogService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Mode == "" {
		config.Mode = ModeServer
	}
	if config.VocabularyMode == "" {
		config.VocabularyMode = VocabularyEndpoint
	}

	snapshot := NewCatalogSnapshot(client, cache, config.SnapshotTTL, logger)

	strategy, err := NewStrategy(config.Mode, client, snapshot)
	if err != nil {
		return nil, err
	}

	vocabulary, err := NewVocabularyResolver(config.VocabularyMode, client, snapshot, logger)
	if err != nil {
		return nil, err
	}

	return &CatalogService{
		strategy:   strategy,
		snapshot:   snapshot,
		vocabulary: vocabulary,
		logger:     logger,
	}, nil
}

// Resolve returns one page of products for filters. It either fully succeeds or
// fails with domain.ErrFetchProducts.
func (s *CatalogService) Resolve(ctx context.Context, filters domain.QueryFilters) (*domain.ProductPage, error) {
	page, err := s.strategy.Resolve(ctx, filters)
	if err != nil {
		s.logger.Error("error fetching products", "filters", filters, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchProducts, err)
	}
	return page, nil
}

// GetFilterVocabulary returns the filter options; failures yield an empty vocabulary
func (s *CatalogService) GetFilterVocabulary(ctx context.Context) *domain.FilterVocabulary {
	return s.vocabulary.Resolve(ctx)
}

// GetProductByID scans the full catalog for id.
// A miss and a failed fetch both report domain.ErrProductNotFound.
func (s *CatalogService) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}

	raws, err := s.snapshot.Load(ctx)
	if err != nil {
		s.logger.Error("error fetching product", "id", id, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrProductNotFound, err)
	}

	for _, raw := range raws {
		if raw.ID == id {
			product := catalog.Normalize(raw)
			return &product, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// Refresh drops the cached catalog so the next full read hits the endpoint
func (s *CatalogService) Refresh(ctx context.Context) error {
	return s.snapshot.Invalidate(ctx)
}
