package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/giftshelf/backend/internal/domain"
)

// Vocabulary resolution modes
const (
	VocabularyEndpoint = "endpoint"
	VocabularyLegacy   = "legacy"
)

// VocabularyResolver derives the filter options shown to users.
// It never fails: any error degrades to an empty vocabulary.
type VocabularyResolver struct {
	mode     string
	client   domain.CatalogClient
	snapshot *CatalogSnapshot
	logger   *slog.Logger
}

// NewVocabularyResolver creates a resolver for mode (VocabularyEndpoint or VocabularyLegacy)
func NewVocabularyResolver(mode string, client domain.CatalogClient, snapshot *CatalogSnapshot, logger *slog.Logger) (*VocabularyResolver, error) {
	if mode != VocabularyEndpoint && mode != VocabularyLegacy {
		return nil, fmt.Errorf("unknown vocabulary mode %q (want %q or %q)", mode, VocabularyEndpoint, VocabularyLegacy)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VocabularyResolver{
		mode:     mode,
		client:   client,
		snapshot: snapshot,
		logger:   logger,
	}, nil
}

// Resolve returns the deduplicated filter vocabulary
func (r *VocabularyResolver) Resolve(ctx context.Context) *domain.FilterVocabulary {
	var (
		vocab *domain.FilterVocabulary
		err   error
	)
	if r.mode == VocabularyLegacy {
		vocab, err = r.fromCatalog(ctx)
	} else {
		vocab, err = r.client.FetchFilterVocabulary(ctx)
	}
	if err != nil {
		r.logger.Warn("filter vocabulary unavailable, serving empty options", "mode", r.mode, "error", err)
		return domain.EmptyFilterVocabulary()
	}

	return &domain.FilterVocabulary{
		Categories:       distinct(vocab.Categories),
		Merchants:        distinct(vocab.Merchants),
		AllowedCountries: distinct(vocab.AllowedCountries),
	}
}

// fromCatalog scans every raw category, flattening list values.
// The full catalog exposes no merchant or country vocabulary in this mode.
func (r *VocabularyResolver) fromCatalog(ctx context.Context) (*domain.FilterVocabulary, error) {
	raws, err := r.snapshot.Load(ctx)
	if err != nil {
		return nil, err
	}

	vocab := domain.EmptyFilterVocabulary()
	for _, raw := range raws {
		vocab.Categories = append(vocab.Categories, raw.Category...)
	}
	return vocab, nil
}

// distinct drops empty values and duplicates, keeping first-seen order
func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
