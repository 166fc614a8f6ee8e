// Package testutil provides Postgres and Redis harnesses for crewboard
// integration tests. Tests skip when a service is unreachable unless
// TEST_REQUIRE_INFRA, or the per-service variant, is set.
package testutil

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// infraEnv is the test harness environment. The defaults match the test
// profile in docker-compose.
type infraEnv struct {
	DBHost     string `env:"TEST_DB_HOST"     envDefault:"localhost"`
	DBPort     int    `env:"TEST_DB_PORT"     envDefault:"55432"`
	DBUser     string `env:"TEST_DB_USER"     envDefault:"crewboard"`
	DBPassword string `env:"TEST_DB_PASSWORD" envDefault:"crewboard"`
	DBName     string `env:"TEST_DB_NAME"     envDefault:"crewboard"`
	DBSSLMode  string `env:"DB_SSL_MODE"      envDefault:"disable"`

	RedisAddr string `env:"REDIS_ADDR"`
	RedisDB   int    `env:"TEST_REDIS_DB" envDefault:"-1"`

	RequireDB    bool `env:"TEST_REQUIRE_DB"`
	RequireRedis bool `env:"TEST_REQUIRE_REDIS"`
	RequireInfra bool `env:"TEST_REQUIRE_INFRA"`
}

// loadInfraEnv parses environ, or the process environment when environ is nil.
func loadInfraEnv(environ map[string]string) (infraEnv, error) {
	var e infraEnv
	if err := env.ParseWithOptions(&e, env.Options{Environment: environ}); err != nil {
		return infraEnv{}, fmt.Errorf("parse test environment: %w", err)
	}
	return e, nil
}

func (e infraEnv) dbRequired() bool    { return e.RequireDB || e.RequireInfra }
func (e infraEnv) redisRequired() bool { return e.RequireRedis || e.RequireInfra }

// dsn builds the connection string; a non-empty schema is placed first on
// the search path.
func (e infraEnv) dsn(schema string) string {
	q := url.Values{"sslmode": {e.DBSSLMode}}
	if schema != "" {
		q.Set("search_path", schema+",public")
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.DBUser, e.DBPassword),
		Host:     net.JoinHostPort(e.DBHost, strconv.Itoa(e.DBPort)),
		Path:     "/" + e.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// redisCandidates lists the addresses tried in order. REDIS_ADDR, when set,
// is the only one.
func (e infraEnv) redisCandidates() []string {
	if e.RedisAddr != "" {
		return []string{e.RedisAddr}
	}
	return []string{"redis:6379", "localhost:6379", "localhost:56379"}
}

// TestTime is the fixed clock reading the repository tests build on.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}
