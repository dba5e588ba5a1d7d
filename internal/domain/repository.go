package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque bytes so every backend stores the same encoding.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogClient defines the interface for interacting with the remote product catalog
type CatalogClient interface {
	FetchPage(ctx context.Context, page, limit int) (*CatalogPage, error)
	FetchAll(ctx context.Context) ([]RawProduct, error)
	Search(ctx context.Context, params SearchParams) (*CatalogPage, error)
	FetchFilterVocabulary(ctx context.Context) (*FilterVocabulary, error)
}

// SessionStore persists the current user per session.
// Get on an unknown session returns an empty User, not an error.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*User, error)
	Set(ctx context.Context, sessionID string, user *User) error
	Clear(ctx context.Context, sessionID string) error
}
