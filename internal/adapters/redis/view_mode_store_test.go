package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/crewboard/internal/domain/prefs"
	"github.com/target/crewboard/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestViewModeStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewViewModeStoreWithOptions(client, ViewModeStoreOptions{Prefix: "test:viewmode:"})
	ctx := context.Background()
	t.Cleanup(func() { _ = store.Delete(ctx, "sess-1") })

	require.NoError(t, store.Save(ctx, "sess-1", prefs.ViewPreference{Theme: prefs.ThemeDark, ViewAsManager: true}))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, got.ViewAsManager)
	assert.False(t, got.ViewAsEmployee)
	assert.Empty(t, got.Theme, "theme is not part of the view mode")
}

func TestViewModeStore_GetMissingIsZero(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewViewModeStore(client)
	got, err := store.Get(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Equal(t, prefs.ViewPreference{}, got)

	got, err = store.Get(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, prefs.ViewPreference{}, got)
}

func TestViewModeStore_SaveNormalizes(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewViewModeStoreWithOptions(client, ViewModeStoreOptions{Prefix: "test:viewmode:"})
	ctx := context.Background()
	t.Cleanup(func() { _ = store.Delete(ctx, "sess-both") })

	require.NoError(t, store.Save(ctx, "sess-both", prefs.ViewPreference{ViewAsEmployee: true, ViewAsManager: true}))

	got, err := store.Get(ctx, "sess-both")
	require.NoError(t, err)
	assert.True(t, got.ViewAsEmployee)
	assert.False(t, got.ViewAsManager)
}

func TestViewModeStore_TTLAndDelete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewViewModeStoreWithOptions(client, ViewModeStoreOptions{Prefix: "test:viewmode:", TTL: time.Minute})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-ttl", prefs.ViewPreference{ViewAsEmployee: true}))

	ttl, err := client.TTL(ctx, "test:viewmode:sess-ttl").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	require.NoError(t, store.Delete(ctx, "sess-ttl"))
	got, err := store.Get(ctx, "sess-ttl")
	require.NoError(t, err)
	assert.Equal(t, prefs.ViewPreference{}, got)

	assert.NoError(t, store.Delete(ctx, ""))
}

func TestViewModeStore_SaveRequiresSession(t *testing.T) {
	store := NewViewModeStore(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}))
	err := store.Save(context.Background(), "", prefs.Default())
	require.Error(t, err)
}

func TestViewModeStore_ScanAndClear(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewViewModeStoreWithOptions(client, ViewModeStoreOptions{Prefix: "test:scan:viewmode:"})
	ctx := context.Background()
	t.Cleanup(func() { _, _ = store.Clear(ctx) })

	require.NoError(t, store.Save(ctx, "a", prefs.ViewPreference{ViewAsEmployee: true}))
	require.NoError(t, store.Save(ctx, "b", prefs.ViewPreference{ViewAsManager: true}))
	require.NoError(t, store.Save(ctx, "c", prefs.ViewPreference{}))

	all, more, err := store.Scan(ctx, 0)
	require.NoError(t, err)
	assert.False(t, more)
	require.Len(t, all, 3)
	byID := map[string]SessionViewMode{}
	for _, e := range all {
		byID[e.SessionID] = e
		assert.Greater(t, e.TTL, time.Duration(0))
	}
	assert.True(t, byID["a"].View.ViewAsEmployee)
	assert.True(t, byID["b"].View.ViewAsManager)

	limited, more, err := store.Scan(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.True(t, more)

	removed, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	all, _, err = store.Scan(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}
