package config

import (
	"path/filepath"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/crewboard/internal/domain/auth"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}))
	cfg.Sanitize()

	assert.Equal(t, EnvProduction, cfg.Env)
	assert.False(t, cfg.IsDev)
	assert.Equal(t, AuthModeProxy, cfg.Auth.Mode)
	assert.Equal(t, "X-Forwarded-User", cfg.Auth.UserHeader)
	assert.Equal(t, "X-Forwarded-Groups", cfg.Auth.GroupsHeader)
	assert.Equal(t, "crewboard-admins", cfg.Auth.AdminGroup)
	assert.Equal(t, "crewboard-managers", cfg.Auth.ManagerGroup)
	assert.Equal(t, "crewboard", cfg.Postgres.Name)
	assert.Equal(t, 10, cfg.Postgres.MaxOpenConns)
	assert.Equal(t, "localhost:6379", cfg.Redis.URI)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "crewboard_session", cfg.HTTP.SessionCookie)
	assert.Equal(t, 12*time.Hour, cfg.Cache.ViewModeTTL)
	assert.Equal(t, "viewmode:", cfg.Cache.ViewModePrefix)
	assert.Equal(t, time.Minute, cfg.Cache.PostsTTL)
	assert.Equal(t, "http://localhost:8080", cfg.Client.BaseURL)
	assert.NotEmpty(t, cfg.Client.StateFile)
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("DEV", "true")
	t.Setenv("AUTH_MODE", "mock")
	t.Setenv("AUTH_USER_HEADER", "x-remote-user")
	t.Setenv("AUTH_GROUPS_HEADER", "x-remote-groups")
	t.Setenv("AUTH_GROUP_SEPARATOR", ";")
	t.Setenv("ADMIN_GROUP", " ops-admins ")
	t.Setenv("MANAGER_GROUP", "account-managers")
	t.Setenv("DEV_AUTH_USER_ID", "pat")
	t.Setenv("DEV_AUTH_GROUPS", "ops-admins;crew")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, AuthConfig{
		Mode:           AuthModeMock,
		UserHeader:     "X-Remote-User",
		GroupsHeader:   "X-Remote-Groups",
		GroupSeparator: ";",
		DevAuth:        DevAuthConfig{UserID: "pat", Groups: []string{"ops-admins", "crew"}},
		AdminGroup:     "ops-admins",
		ManagerGroup:   "account-managers",
	}, cfg.Auth)

	id, ok := cfg.Auth.DevIdentity()
	require.True(t, ok)
	assert.Equal(t, domainauth.Identity{UserID: "pat", Groups: []string{"ops-admins", "crew"}}, id)
}

func TestAuthConfig_MockRequiresDev(t *testing.T) {
	cfg := AuthConfig{Mode: AuthModeMock, DevAuth: DevAuthConfig{UserID: "pat"}}
	cfg.Sanitize(false)

	assert.Equal(t, AuthModeProxy, cfg.Mode)
	_, ok := cfg.DevIdentity()
	assert.False(t, ok)
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var m AuthMode
	require.NoError(t, m.UnmarshalText([]byte(" MOCK ")))
	assert.Equal(t, AuthModeMock, m)
	assert.Error(t, m.UnmarshalText([]byte("oauth")))
}

func TestAppConfig_SanitizeEnv(t *testing.T) {
	tests := []struct {
		in      string
		wantEnv string
		wantDev bool
	}{
		{in: "", wantEnv: EnvProduction},
		{in: "prod", wantEnv: EnvProduction},
		{in: " Development ", wantEnv: EnvDevelopment, wantDev: true},
		{in: "dev", wantEnv: EnvDevelopment, wantDev: true},
		{in: "Staging", wantEnv: "staging"},
	}
	for _, tt := range tests {
		cfg := AppConfig{Env: tt.in}
		cfg.Sanitize()
		assert.Equal(t, tt.wantEnv, cfg.Env, tt.in)
		assert.Equal(t, tt.wantDev, cfg.IsDev, tt.in)
	}

	cfg := AppConfig{Env: "staging", IsDev: true}
	cfg.Sanitize()
	assert.True(t, cfg.IsDev, "DEV=true is kept outside development")
}

func TestCacheConfig_Sanitize(t *testing.T) {
	c := CacheConfig{ViewModeTTL: -time.Second}
	c.Sanitize()

	assert.Equal(t, CacheConfig{
		ViewModePrefix: "viewmode:",
		ViewModeTTL:    12 * time.Hour,
		Prefix:         "crewboard:",
		PostsTTL:       time.Minute,
	}, c)
}

func TestClientConfig_Sanitize(t *testing.T) {
	c := ClientConfig{BaseURL: " https://crew.example.com/ ", StateFile: "state.yaml", User: " pat "}
	c.Sanitize()

	assert.Equal(t, "https://crew.example.com", c.BaseURL)
	assert.Equal(t, "state.yaml", c.StateFile)
	assert.Equal(t, "pat", c.User)
	assert.Equal(t, 10*time.Second, c.SyncTimeout)
	assert.Equal(t, 15*time.Second, c.Timeout)

	empty := ClientConfig{}
	empty.Sanitize()
	assert.Equal(t, "preferences.yaml", filepath.Base(empty.StateFile))
}

func TestMetricsConfig_Sanitize(t *testing.T) {
	c := MetricsConfig{Enabled: true, StatsdAddress: "  ", Prefix: " .board. "}
	c.Sanitize()
	assert.False(t, c.IsEnabled())
	assert.Equal(t, "board", c.Prefix)

	c = MetricsConfig{Enabled: true, StatsdAddress: " 127.0.0.1:8125 "}
	c.Sanitize()
	assert.True(t, c.IsEnabled())
	assert.Equal(t, "127.0.0.1:8125", c.StatsdAddress)
	assert.Equal(t, "crewboard", c.Prefix)
}

func TestDBConfig_Sanitize(t *testing.T) {
	c := DBConfig{MaxOpenConns: 4, MaxIdleConns: 9}
	c.Sanitize()
	assert.Equal(t, 4, c.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, c.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, c.ConnectTimeout)

	c = DBConfig{MaxIdleConns: -1}
	c.Sanitize()
	assert.Equal(t, 10, c.MaxOpenConns)
	assert.Equal(t, 0, c.MaxIdleConns)
}

func TestRedisConfig_Configured(t *testing.T) {
	var nilCfg *RedisConfig
	assert.False(t, nilCfg.Configured())
	assert.False(t, (&RedisConfig{URI: "  "}).Configured())
	assert.True(t, (&RedisConfig{URI: "localhost:6379"}).Configured())
}
