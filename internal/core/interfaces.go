// Package core holds the repository ports the service layer depends on.
package core

import (
	"context"
	"time"

	"github.com/target/crewboard/internal/domain/model"
	"github.com/target/crewboard/internal/domain/prefs"
)

// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// UserPreferenceRepository stores the per-user theme.
type UserPreferenceRepository interface {
	// Get returns the stored preference or a NotFound AppError.
	Get(ctx context.Context, userID string) (*model.UserPreference, error)
	// UpsertTheme creates or replaces the user's theme.
	UpsertTheme(ctx context.Context, userID string, theme prefs.Theme) (*model.UserPreference, error)
}

// EventRepository defines the interface for event data operations.
type EventRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	// SetActive updates the flag and reports whether a row matched.
	SetActive(ctx context.Context, id int64, active bool) (bool, error)
	List(ctx context.Context) ([]*model.Event, error)
}

// TicketRepository persists help tickets.
type TicketRepository interface {
	Create(ctx context.Context, ticket *model.Ticket) error
}

// PostRepository persists bulletin-board posts.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// List returns posts newest first.
	List(ctx context.Context, opts model.PostListOptions) ([]*model.Post, error)
}

// CacheRepository defines the interface for caching operations.
// The data layer provides a Redis implementation.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}
