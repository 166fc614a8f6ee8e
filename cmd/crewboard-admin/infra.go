package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	redisadapter "github.com/target/crewboard/internal/adapters/redis"
	"github.com/target/crewboard/internal/bootstrap"
)

var errRedisNotConfigured = errors.New("redis not configured; set REDIS_URI")

// commandScope bounds a command by its timeout and by SIGINT/SIGTERM.
func commandScope(cmdCtx *commandContext, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func withDatabase(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(context.Context, *sql.DB) error,
) error {
	ctx, done := commandScope(cmdCtx, timeout)
	defer done()

	db, err := bootstrap.ConnectDB(ctx, cmdCtx.Config.Postgres, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	return f(ctx, db)
}

func withViewModeStore(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(context.Context, *redisadapter.ViewModeStore) error,
) error {
	if !cmdCtx.Config.Redis.Configured() {
		return errRedisNotConfigured
	}

	ctx, done := commandScope(cmdCtx, timeout)
	defer done()

	client, err := bootstrap.ConnectRedis(ctx, cmdCtx.Config.Redis, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer closeRedis(cmdCtx, client)

	return f(ctx, newViewModeStore(client, cmdCtx))
}

func newViewModeStore(client redis.UniversalClient, cmdCtx *commandContext) *redisadapter.ViewModeStore {
	return redisadapter.NewViewModeStoreWithOptions(client, redisadapter.ViewModeStoreOptions{
		Prefix: cmdCtx.Config.Cache.ViewModePrefix,
		TTL:    cmdCtx.Config.Cache.ViewModeTTL,
	})
}

func closeRedis(cmdCtx *commandContext, client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		cmdCtx.Logger.Warn("redis close failed", "error", err)
	}
}
