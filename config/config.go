package config

import "strings"

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: upstream identity headers and role groups
//   - database.go: Postgres, Redis and cache configuration
//   - http.go: HTTP server configuration
//   - client.go: headless client configuration
//   - observability.go: StatsD metrics
type AppConfig struct {
	// Env names the deployment; "development" (or "dev") implies IsDev.
	Env string `env:"CREWBOARD_ENV" envDefault:"production"`
	// IsDev enables the dev identity and debug logging.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Identity configuration
	Auth AuthConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
	Cache    CacheConfig

	// HTTP server configuration
	HTTP HTTPConfig

	// Metrics emission
	Metrics MetricsConfig

	// Client configuration, used by crewboard-client only.
	Client ClientConfig `envPrefix:"CREWBOARD_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.normalizeEnv()

	c.Auth.Sanitize(c.IsDev)
	c.Postgres.Sanitize()
	c.HTTP.Sanitize()
	c.Cache.Sanitize()
	c.Metrics.Sanitize()
	c.Client.Sanitize()
}

func (c *AppConfig) normalizeEnv() {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "", EnvProduction, "prod":
		c.Env = EnvProduction
	case EnvDevelopment, "dev":
		c.Env = EnvDevelopment
		c.IsDev = true
	default:
		c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	}
}
