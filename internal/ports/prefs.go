package ports

import (
	"context"

	"github.com/target/crewboard/internal/domain/prefs"
)

// LocalStorage is the client's durable key-value cache, the counterpart of a
// browser's localStorage.
type LocalStorage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	// SetMany writes every pair or none of them.
	SetMany(values map[string]string) error
}

// PreferenceSyncer persists preferences on the server.
type PreferenceSyncer interface {
	SaveTheme(ctx context.Context, theme prefs.Theme) error
	SaveViewMode(ctx context.Context, update prefs.ViewModeUpdate) error
}

// Reloader re-renders the page from the server. It is called after a
// view-mode change has been persisted (or failed to be).
type Reloader interface {
	Reload(ctx context.Context)
}

// ReloaderFunc adapts a function to Reloader.
type ReloaderFunc func(ctx context.Context)

// Reload calls f(ctx).
func (f ReloaderFunc) Reload(ctx context.Context) { f(ctx) }

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(message string)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(message string) bool
}

// Navigator moves the page to another location.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}
