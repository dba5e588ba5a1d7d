package domain

import "errors"

var (
	// ErrCatalogUnavailable is returned when the catalog endpoint cannot be reached or answers non-2xx
	ErrCatalogUnavailable = errors.New("catalog API request failed")

	// ErrInvalidResponseShape is returned when a catalog response lacks the expected products field
	ErrInvalidResponseShape = errors.New("invalid catalog response structure")

	// ErrProductNotFound is returned when an identifier lookup misses
	ErrProductNotFound = errors.New("product not found")

	// ErrFetchProducts is returned by the query pipeline when any underlying fetch fails
	ErrFetchProducts = errors.New("failed to fetch products")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)

// User-facing messages. Nothing more structured than these strings reaches API consumers.
const (
	MessageFetchProducts   = "Failed to fetch products"
	MessageProductNotFound = "Product not found or failed to load."
)
