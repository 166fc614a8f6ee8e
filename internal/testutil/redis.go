package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisLockPrefix = "crewboard:testutil:db_lock:"
	redisLockTTL    = 30 * time.Minute
)

// SetupTestRedis returns a client on an empty logical database that no other
// test package holds. The client is closed and the database released when
// the test ends.
func SetupTestRedis(t testing.TB) *redis.Client {
	t.Helper()

	e, err := loadInfraEnv(nil)
	if err != nil {
		t.Fatal(err)
	}

	addr, ok := reachableRedis(e.redisCandidates())
	if !ok {
		if e.redisRequired() {
			t.Fatal("redis not available at", e.redisCandidates())
		}
		t.Skip("redis not available at", e.redisCandidates())
	}

	db := e.RedisDB
	if db < 0 {
		db = reserveRedisDB(t, addr)
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	t.Cleanup(func() { closeQuietly(t, "redis client", client) })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush redis db %d: %v", db, err)
	}
	return client
}

func reachableRedis(candidates []string) (string, bool) {
	for _, addr := range candidates {
		c := redis.NewClient(&redis.Options{Addr: addr, DialTimeout: time.Second})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(ctx).Err()
		cancel()
		_ = c.Close()
		if err == nil {
			return addr, true
		}
	}
	return "", false
}

// reserveRedisDB claims one of databases 1..15 with a lock key in database 0,
// which FlushDB on the claimed database leaves alone. It falls back to 1 when
// every database is held.
func reserveRedisDB(t testing.TB, addr string) int {
	meta := redis.NewClient(&redis.Options{Addr: addr})
	holder := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())

	for db := 1; db <= 15; db++ {
		key := fmt.Sprintf("%s%d", redisLockPrefix, db)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		ok, err := meta.SetNX(ctx, key, holder, redisLockTTL).Result()
		cancel()
		if err != nil || !ok {
			continue
		}
		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := meta.Del(ctx, key).Err(); err != nil {
				t.Logf("release redis db %d: %v", db, err)
			}
			closeQuietly(t, "redis meta client", meta)
		})
		return db
	}

	closeQuietly(t, "redis meta client", meta)
	t.Logf("every redis test db is held; sharing db 1 at %s", addr)
	return 1
}
