package config

import (
	"strings"
	"time"
)

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"crewboard"`
	Password string `env:"PASSWORD" envDefault:"crewboard"`
	Name     string `env:"NAME"     envDefault:"crewboard"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production

	// Pool sizing. The board serves short preference writes and page reads,
	// so a small pool is enough.
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS"    envDefault:"10"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS"    envDefault:"2"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnectTimeout  time.Duration `env:"CONNECT_TIMEOUT"   envDefault:"5s"`

	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// Sanitize restores pool defaults for non-positive values and keeps idle
// connections within the open limit.
func (c *DBConfig) Sanitize() {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 10
	}
	if c.MaxIdleConns < 0 {
		c.MaxIdleConns = 0
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = 5 * time.Minute
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 5 * time.Second
	}
}

// RedisConfig points at the single Redis that holds simulated views and the
// posts cache. URI is either host:port or a redis:// or rediss:// URL; the
// URL form carries its own credentials and database.
type RedisConfig struct {
	URI         string        `env:"URI"          envDefault:"localhost:6379"`
	Password    string        `env:"PASSWORD"     envDefault:""`
	DB          int           `env:"DB"           envDefault:"0"`
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
}

// Configured reports whether a Redis address is set.
func (c *RedisConfig) Configured() bool {
	return c != nil && strings.TrimSpace(c.URI) != ""
}

const (
	defaultViewModePrefix = "viewmode:"
	defaultViewModeTTL    = 12 * time.Hour
	defaultCachePrefix    = "crewboard:"
	defaultPostsTTL       = time.Minute
)

// CacheConfig contains Redis key layout and TTLs.
type CacheConfig struct {
	// ViewModePrefix prefixes the per-session view mode keys.
	ViewModePrefix string `env:"CACHE_VIEW_MODE_PREFIX" envDefault:"viewmode:"`

	// ViewModeTTL is how long an idle session keeps its simulated view.
	ViewModeTTL time.Duration `env:"CACHE_VIEW_MODE_TTL" envDefault:"12h"`

	// Prefix namespaces general cache entries such as the latest posts page.
	Prefix string `env:"CACHE_PREFIX" envDefault:"crewboard:"`

	// PostsTTL is the TTL for the cached first page of posts.
	PostsTTL time.Duration `env:"CACHE_POSTS_TTL" envDefault:"1m"`
}

// Sanitize restores defaults for empty prefixes and non-positive TTLs.
func (c *CacheConfig) Sanitize() {
	if c.ViewModePrefix == "" {
		c.ViewModePrefix = defaultViewModePrefix
	}
	if c.ViewModeTTL <= 0 {
		c.ViewModeTTL = defaultViewModeTTL
	}
	if c.Prefix == "" {
		c.Prefix = defaultCachePrefix
	}
	if c.PostsTTL <= 0 {
		c.PostsTTL = defaultPostsTTL
	}
}
