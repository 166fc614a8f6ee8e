// Package redis provides Redis-based adapters for the crewboard server.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/crewboard/internal/domain/prefs"
)

// DefaultViewModeTTL bounds how long an idle session keeps its simulated view.
const DefaultViewModeTTL = 12 * time.Hour

// viewModeRecord is the stored form of a session's view flags.
type viewModeRecord struct {
	ViewAsEmployee bool `json:"viewAsEmployee"`
	ViewAsManager  bool `json:"viewAsManager"`
}

// ViewModeStore keeps per-session view flags in Redis. Each Save refreshes the
// key TTL.
type ViewModeStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// ViewModeStoreOptions configures a ViewModeStore.
type ViewModeStoreOptions struct {
	Prefix string
	TTL    time.Duration
}

// NewViewModeStore creates a Redis view-mode store with the default prefix and TTL.
func NewViewModeStore(client redis.UniversalClient) *ViewModeStore {
	return NewViewModeStoreWithOptions(client, ViewModeStoreOptions{})
}

// NewViewModeStoreWithOptions creates a Redis view-mode store; zero option
// values fall back to defaults.
func NewViewModeStoreWithOptions(client redis.UniversalClient, opts ViewModeStoreOptions) *ViewModeStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "viewmode:"
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultViewModeTTL
	}
	return &ViewModeStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *ViewModeStore) Get(ctx context.Context, sessionID string) (prefs.ViewPreference, error) {
	if sessionID == "" {
		return prefs.ViewPreference{}, nil
	}

	data, err := s.client.Get(ctx, s.prefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return prefs.ViewPreference{}, nil
		}
		return prefs.ViewPreference{}, fmt.Errorf("redis get: %w", err)
	}

	var rec viewModeRecord
	if unmarshalErr := json.Unmarshal(data, &rec); unmarshalErr != nil {
		return prefs.ViewPreference{}, fmt.Errorf("unmarshal view mode: %w", unmarshalErr)
	}

	if rec.ViewAsEmployee {
		rec.ViewAsManager = false
	}
	return prefs.ViewPreference{ViewAsEmployee: rec.ViewAsEmployee, ViewAsManager: rec.ViewAsManager}, nil
}

func (s *ViewModeStore) Save(ctx context.Context, sessionID string, p prefs.ViewPreference) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}

	rec := viewModeRecord{ViewAsEmployee: p.ViewAsEmployee, ViewAsManager: p.ViewAsManager && !p.ViewAsEmployee}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal view mode: %w", err)
	}

	return s.client.Set(ctx, s.prefix+sessionID, data, s.ttl).Err()
}

func (s *ViewModeStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+sessionID).Err()
}

// SessionViewMode is one stored session entry as seen by Scan.
type SessionViewMode struct {
	SessionID string
	View      prefs.ViewPreference
	TTL       time.Duration
}

const scanBatch = 200

// Scan walks the stored sessions and returns at most limit entries. A
// non-positive limit returns all of them. The second return value reports
// whether more keys remained when the limit was hit.
func (s *ViewModeStore) Scan(ctx context.Context, limit int) ([]SessionViewMode, bool, error) {
	var (
		out    []SessionViewMode
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", scanBatch).Result()
		if err != nil {
			return nil, false, fmt.Errorf("redis scan: %w", err)
		}
		for _, key := range keys {
			if limit > 0 && len(out) >= limit {
				return out, true, nil
			}
			entry, ok, entryErr := s.entry(ctx, key)
			if entryErr != nil {
				return nil, false, entryErr
			}
			if ok {
				out = append(out, entry)
			}
		}
		cursor = next
		if cursor == 0 {
			return out, false, nil
		}
	}
}

func (s *ViewModeStore) entry(ctx context.Context, key string) (SessionViewMode, bool, error) {
	sessionID := strings.TrimPrefix(key, s.prefix)
	view, err := s.Get(ctx, sessionID)
	if err != nil {
		return SessionViewMode{}, false, err
	}
	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return SessionViewMode{}, false, fmt.Errorf("redis ttl: %w", err)
	}
	// Expired between SCAN and TTL.
	if ttl == -2 {
		return SessionViewMode{}, false, nil
	}
	return SessionViewMode{SessionID: sessionID, View: view, TTL: ttl}, true, nil
}

// Clear deletes every stored session and returns how many keys were removed.
func (s *ViewModeStore) Clear(ctx context.Context) (int64, error) {
	var (
		removed int64
		cursor  uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", scanBatch).Result()
		if err != nil {
			return removed, fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			n, delErr := s.client.Del(ctx, keys...).Result()
			if delErr != nil {
				return removed, fmt.Errorf("redis del: %w", delErr)
			}
			removed += n
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
