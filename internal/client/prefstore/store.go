// Package prefstore keeps the client's view preferences consistent across the
// in-memory state, local storage and the server copy.
package prefstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/target/crewboard/internal/domain/prefs"
	"github.com/target/crewboard/internal/ports"
	"golang.org/x/sync/errgroup"
)

const defaultSyncTimeout = 10 * time.Second

// ThemeTarget is a page root whose mode classes follow the theme.
type ThemeTarget interface {
	ToggleClass(name string, on bool)
}

// ChangeFunc is notified with the new state after every accepted change.
type ChangeFunc func(prefs.ViewPreference)

// Options configures a Store.
type Options struct {
	Storage ports.LocalStorage
	// Syncer is optional; without it changes stay local.
	Syncer ports.PreferenceSyncer
	// Reloader is called once a view-mode sync has settled.
	Reloader    ports.Reloader
	SyncTimeout time.Duration
	Logger      *slog.Logger
}

// Store owns the ViewPreference. Local writes happen synchronously; server
// syncs run in the background and are not ordered against each other.
type Store struct {
	storage     ports.LocalStorage
	syncer      ports.PreferenceSyncer
	reloader    ports.Reloader
	syncTimeout time.Duration
	logger      *slog.Logger

	mu        sync.Mutex
	state     prefs.ViewPreference
	targets   []ThemeTarget
	listeners []ChangeFunc

	inflight errgroup.Group
}

// New creates a Store holding the default preference until Load is called.
func New(opts Options) (*Store, error) {
	if opts.Storage == nil {
		return nil, errors.New("preference store requires local storage")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.SyncTimeout
	if timeout <= 0 {
		timeout = defaultSyncTimeout
	}
	return &Store{
		storage:     opts.Storage,
		syncer:      opts.Syncer,
		reloader:    opts.Reloader,
		syncTimeout: timeout,
		logger:      logger.With("component", "preference_store"),
		state:       prefs.Default(),
	}, nil
}

// Load reads the preference from local storage. Missing or unreadable values
// fall back to their defaults; a record with both role flags set is
// normalized to the employee view.
func (s *Store) Load() prefs.ViewPreference {
	p := prefs.Default()
	if v, ok := s.storage.Get(prefs.KeyTheme); ok {
		if theme, err := prefs.ParseTheme(v); err == nil {
			p.Theme = theme
		}
	}
	if v, ok := s.storage.Get(prefs.KeyViewAsEmployee); ok {
		p.ViewAsEmployee, _ = prefs.ParseFlag(v)
	}
	if v, ok := s.storage.Get(prefs.KeyViewAsManager); ok {
		p.ViewAsManager, _ = prefs.ParseFlag(v)
	}
	p = p.Normalize()

	s.mu.Lock()
	s.state = p
	s.mu.Unlock()
	return p
}

// Current returns the in-memory preference.
func (s *Store) Current() prefs.ViewPreference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AttachThemeTargets registers the page roots that carry the mode classes and
// applies the current theme to them.
func (s *Store) AttachThemeTargets(targets ...ThemeTarget) {
	s.mu.Lock()
	s.targets = append(s.targets, targets...)
	theme := s.state.Theme
	s.mu.Unlock()

	applyTheme(targets, theme)
}

// OnChange registers fn to run after every accepted change.
func (s *Store) OnChange(fn ChangeFunc) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// SetTheme switches the theme locally, updates the mode classes and syncs the
// server copy in the background. A failed sync is logged and not rolled back.
func (s *Store) SetTheme(ctx context.Context, theme prefs.Theme) error {
	if !theme.Valid() {
		return errors.New("invalid theme " + string(theme))
	}

	s.mu.Lock()
	s.state.Theme = theme
	s.writeLocked(prefs.KeyTheme, string(theme))
	state := s.state
	targets := append([]ThemeTarget(nil), s.targets...)
	listeners := append([]ChangeFunc(nil), s.listeners...)
	s.mu.Unlock()

	applyTheme(targets, theme)
	notify(listeners, state)

	s.background(ctx, "theme", func(ctx context.Context) error {
		if s.syncer == nil {
			return nil
		}
		return s.syncer.SaveTheme(ctx, theme)
	}, nil)
	return nil
}

// SetViewMode turns a simulated role on or off. Enabling one role clears the
// other. Both flags are written locally in a single write and sent to the
// server; once that request settles, successfully or not, the page is reloaded.
// Requesting the value already held is a no-op and reports false. If the local
// write fails nothing changes and nothing is sent.
func (s *Store) SetViewMode(ctx context.Context, role prefs.ViewRole, enabled bool) (bool, error) {
	if role != prefs.ViewRoleEmployee && role != prefs.ViewRoleManager {
		return false, errors.New("invalid view role " + string(role))
	}

	s.mu.Lock()
	if s.state.ViewMode(role) == enabled {
		s.mu.Unlock()
		s.logger.Debug("view mode unchanged", "role", role, "enabled", enabled)
		return false, nil
	}
	next := s.state.WithViewMode(role, enabled)
	if err := s.storage.SetMany(map[string]string{
		prefs.KeyViewAsEmployee: prefs.FormatFlag(next.ViewAsEmployee),
		prefs.KeyViewAsManager:  prefs.FormatFlag(next.ViewAsManager),
	}); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("write view mode: %w", err)
	}
	s.state = next
	state := s.state
	listeners := append([]ChangeFunc(nil), s.listeners...)
	s.mu.Unlock()

	notify(listeners, state)

	update := prefs.FullUpdate(state)
	s.background(ctx, "view_mode", func(ctx context.Context) error {
		if s.syncer == nil {
			return nil
		}
		return s.syncer.SaveViewMode(ctx, update)
	}, s.reloader)
	return true, nil
}

// Wait blocks until every background sync (and its reload) has finished.
func (s *Store) Wait() {
	_ = s.inflight.Wait()
}

// writeLocked writes to local storage; s.mu must be held. Storage failures
// leave the in-memory state authoritative for this session.
func (s *Store) writeLocked(key, value string) {
	if err := s.storage.Set(key, value); err != nil {
		s.logger.Warn("write local storage failed", "key", key, "error", err)
	}
}

// background runs send detached from the caller's cancellation and then calls
// reload, if any.
func (s *Store) background(ctx context.Context, what string, send func(context.Context) error, reload ports.Reloader) {
	base := context.WithoutCancel(ctx)
	s.inflight.Go(func() error {
		syncCtx, cancel := context.WithTimeout(base, s.syncTimeout)
		err := send(syncCtx)
		cancel()
		if err != nil {
			s.logger.Warn("preference sync failed", "preference", what, "error", err)
		}
		if reload != nil {
			reload.Reload(base)
		}
		return nil
	})
}

func applyTheme(targets []ThemeTarget, theme prefs.Theme) {
	for _, t := range targets {
		t.ToggleClass(prefs.ThemeLight.ModeClass(), theme == prefs.ThemeLight)
		t.ToggleClass(prefs.ThemeDark.ModeClass(), theme == prefs.ThemeDark)
	}
}

func notify(listeners []ChangeFunc, p prefs.ViewPreference) {
	for _, fn := range listeners {
		fn(p)
	}
}
