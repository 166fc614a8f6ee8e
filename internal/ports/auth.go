package ports

// Package ports defines interfaces (hexagonal ports) for identity and preference behavior.
// Implementations live in internal/adapters and internal/client; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/target/crewboard/internal/domain/auth"
	"github.com/target/crewboard/internal/domain/prefs"
)

// RoleMapper maps upstream groups to application roles.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}

// ViewModeStore persists the simulated view flags of a browser session.
type ViewModeStore interface {
	// Get returns the stored flags. A session with nothing stored yields the
	// zero preference and no error.
	Get(ctx context.Context, sessionID string) (prefs.ViewPreference, error)
	// Save stores the flags of p; the theme is not part of the view mode.
	Save(ctx context.Context, sessionID string, p prefs.ViewPreference) error
	Delete(ctx context.Context, sessionID string) error
}
