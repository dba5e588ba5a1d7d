package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/giftshelf/backend/internal/domain"
)

const keyPrefix = "session:"

// Store persists the current user per session ID on top of a CacheRepository
type Store struct {
	cache domain.CacheRepository
	ttl   time.Duration
}

// NewStore creates a session store. A non-positive ttl keeps sessions until cleared.
func NewStore(cache domain.CacheRepository, ttl time.Duration) *Store {
	return &Store{cache: cache, ttl: ttl}
}

// Get returns the session's user, or an empty User when none is stored
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, domain.ErrInvalidRequest
	}

	data, err := s.cache.Get(ctx, keyPrefix+sessionID)
	if errors.Is(err, domain.ErrCacheMiss) {
		return &domain.User{}, nil
	}
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &user, nil
}

// Set replaces the session's user
func (s *Store) Set(ctx context.Context, sessionID string, user *domain.User) error {
	if sessionID == "" || user == nil {
		return domain.ErrInvalidRequest
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}
	return s.cache.Set(ctx, keyPrefix+sessionID, data, s.ttl)
}

// Clear removes the session's user (logout)
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrInvalidRequest
	}
	return s.cache.Delete(ctx, keyPrefix+sessionID)
}
