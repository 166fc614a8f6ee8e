package config

import (
	"fmt"
	"net/http"
	"strings"

	domainauth "github.com/target/crewboard/internal/domain/auth"
)

// AuthMode selects where request identity comes from.
type AuthMode string

const (
	// AuthModeProxy trusts identity headers set by the upstream proxy.
	AuthModeProxy AuthMode = "proxy"
	// AuthModeMock falls back to the DevAuth identity when headers are absent
	// (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "proxy", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: proxy, mock)", v)
	}
}

const (
	defaultUserHeader   = "X-Forwarded-User"
	defaultGroupsHeader = "X-Forwarded-Groups"
)

// DevAuthConfig controls the mock identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string   `env:"USER_ID" envDefault:"dev-user"`
	Groups []string `env:"GROUPS"  envDefault:"crewboard-admins" envSeparator:";"`
}

// AuthConfig groups identity-related configuration. Authentication itself
// happens upstream; the server only reads the forwarded identity.
type AuthConfig struct {
	// Mode determines where identity comes from.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"proxy"`

	// UserHeader carries the authenticated user id.
	UserHeader string `env:"AUTH_USER_HEADER" envDefault:"X-Forwarded-User"`

	// GroupsHeader carries the user's groups, separated by GroupSeparator.
	GroupsHeader   string `env:"AUTH_GROUPS_HEADER"   envDefault:"X-Forwarded-Groups"`
	GroupSeparator string `env:"AUTH_GROUP_SEPARATOR" envDefault:","`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroup is the group whose members are administrators.
	AdminGroup string `env:"ADMIN_GROUP" envDefault:"crewboard-admins"`

	// ManagerGroup is the group whose members are account managers.
	ManagerGroup string `env:"MANAGER_GROUP" envDefault:"crewboard-managers"`
}

// Sanitize canonicalizes header names and forces mock mode off outside dev.
func (a *AuthConfig) Sanitize(isDev bool) {
	a.UserHeader = canonicalHeader(a.UserHeader, defaultUserHeader)
	a.GroupsHeader = canonicalHeader(a.GroupsHeader, defaultGroupsHeader)
	if a.GroupSeparator == "" {
		a.GroupSeparator = ","
	}
	a.AdminGroup = strings.TrimSpace(a.AdminGroup)
	a.ManagerGroup = strings.TrimSpace(a.ManagerGroup)
	if a.Mode == "" || (a.Mode == AuthModeMock && !isDev) {
		a.Mode = AuthModeProxy
	}
}

// DevIdentity returns the fallback identity when mock mode is active.
func (a *AuthConfig) DevIdentity() (domainauth.Identity, bool) {
	if a.Mode != AuthModeMock || strings.TrimSpace(a.DevAuth.UserID) == "" {
		return domainauth.Identity{}, false
	}
	groups := make([]string, len(a.DevAuth.Groups))
	copy(groups, a.DevAuth.Groups)
	return domainauth.Identity{UserID: strings.TrimSpace(a.DevAuth.UserID), Groups: groups}, true
}

func canonicalHeader(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fallback
	}
	return http.CanonicalHeaderKey(name)
}
