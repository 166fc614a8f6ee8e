package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultClientBaseURL = "http://localhost:8080"
	defaultSyncTimeout   = 10 * time.Second
	defaultClientTimeout = 15 * time.Second
	stateFileName        = "preferences.yaml"
)

// ClientConfig configures crewboard-client. Flags override these values.
type ClientConfig struct {
	// BaseURL is the crewboard server the client talks to.
	BaseURL string `env:"URL" envDefault:"http://localhost:8080"`

	// StateFile is the durable local preference cache. Empty resolves to
	// <user config dir>/crewboard/preferences.yaml.
	StateFile string `env:"STATE_FILE"`

	// User and Groups are sent in the identity headers when set, for servers
	// reached without the upstream proxy.
	User   string   `env:"USER_ID"`
	Groups []string `env:"GROUPS" envSeparator:","`

	// SyncTimeout bounds each background preference sync.
	SyncTimeout time.Duration `env:"SYNC_TIMEOUT" envDefault:"10s"`

	// Timeout bounds every HTTP request.
	Timeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`
}

// Sanitize fills defaults for empty values.
func (c *ClientConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultClientBaseURL
	}
	if strings.TrimSpace(c.StateFile) == "" {
		c.StateFile = DefaultStateFile()
	}
	c.User = strings.TrimSpace(c.User)
	if c.SyncTimeout <= 0 {
		c.SyncTimeout = defaultSyncTimeout
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultClientTimeout
	}
}

// DefaultStateFile returns the per-user preference cache path, falling back to
// the working directory when no config dir is available.
func DefaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".crewboard", stateFileName)
	}
	return filepath.Join(dir, "crewboard", stateFileName)
}
