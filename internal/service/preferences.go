package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/crewboard/internal/core"
	domainauth "github.com/target/crewboard/internal/domain/auth"
	"github.com/target/crewboard/internal/domain/prefs"
	"github.com/target/crewboard/internal/domain/visibility"
	apperrors "github.com/target/crewboard/internal/errors"
	"github.com/target/crewboard/internal/observability/metrics"
	"github.com/target/crewboard/internal/observability/statsd"
	"github.com/target/crewboard/internal/ports"
)

// PreferenceServiceOptions groups dependencies for PreferenceService.
type PreferenceServiceOptions struct {
	Themes    core.UserPreferenceRepository
	ViewModes ports.ViewModeStore
	// Metrics is optional.
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// PreferenceService keeps the server copy of a caller's preferences: the theme
// per user in Postgres and the simulated view per session in Redis.
type PreferenceService struct {
	themes    core.UserPreferenceRepository
	viewModes ports.ViewModeStore
	metrics   statsd.Sink
	logger    *slog.Logger
}

// NewPreferenceService constructs a new PreferenceService.
func NewPreferenceService(opts PreferenceServiceOptions) *PreferenceService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PreferenceService{
		themes:    opts.Themes,
		viewModes: opts.ViewModes,
		metrics:   opts.Metrics,
		logger:    logger.With("component", "preference_service"),
	}
}

// PreferenceSnapshot is the caller's effective preference and the visibility
// the page is rendered with.
type PreferenceSnapshot struct {
	Preference prefs.ViewPreference
	Visibility visibility.Directive
}

// Get returns the stored preference for the session, defaulting anything
// missing, and the role-scoped visibility directive.
func (s *PreferenceService) Get(ctx context.Context, sess domainauth.Session) (PreferenceSnapshot, error) {
	p := prefs.Default()

	stored, err := s.themes.Get(ctx, sess.UserID)
	switch {
	case err == nil:
		p.Theme = stored.Theme
	case apperrors.IsNotFound(err):
	default:
		return PreferenceSnapshot{}, fmt.Errorf("load theme: %w", err)
	}

	view, err := s.viewModes.Get(ctx, sess.ID)
	if err != nil {
		return PreferenceSnapshot{}, fmt.Errorf("load view mode: %w", err)
	}
	p.ViewAsEmployee = view.ViewAsEmployee
	p.ViewAsManager = view.ViewAsManager && sess.CanSimulateManager()
	p = p.Normalize()

	return PreferenceSnapshot{
		Preference: p,
		Visibility: visibility.ForRole(sess.Role, p),
	}, nil
}

// SaveTheme validates and stores the user's theme.
func (s *PreferenceService) SaveTheme(ctx context.Context, sess domainauth.Session, theme string) (prefs.Theme, error) {
	t, err := prefs.ParseTheme(theme)
	if err != nil {
		verr := apperrors.ValidationField("theme", err.Error())
		s.emit(metrics.KindTheme, "", verr)
		return "", verr
	}
	if _, upsertErr := s.themes.UpsertTheme(ctx, sess.UserID, t); upsertErr != nil {
		s.emit(metrics.KindTheme, string(t), upsertErr)
		return "", fmt.Errorf("save theme: %w", upsertErr)
	}
	s.emit(metrics.KindTheme, string(t), nil)
	return t, nil
}

// SaveViewMode merges the update into the session's stored view mode. Enabling
// one view clears the other. A request to enable the manager view from a
// session that may not simulate it is ignored for that flag.
func (s *PreferenceService) SaveViewMode(
	ctx context.Context,
	sess domainauth.Session,
	update prefs.ViewModeUpdate,
) (prefs.ViewPreference, error) {
	if update.Empty() {
		return prefs.ViewPreference{}, apperrors.Validation("viewAsEmployee or viewAsManager is required")
	}

	if update.ViewAsManager != nil && *update.ViewAsManager && !sess.CanSimulateManager() {
		s.logger.InfoContext(ctx, "ignoring manager view request",
			"user_id", sess.UserID,
			"role", sess.Role,
		)
		update.ViewAsManager = nil
		if update.ViewAsEmployee == nil {
			s.emit(metrics.KindViewMode, "", errNoop)
			return s.currentViewMode(ctx, sess)
		}
	}

	current, err := s.viewModes.Get(ctx, sess.ID)
	if err != nil {
		return prefs.ViewPreference{}, fmt.Errorf("load view mode: %w", err)
	}

	next := update.ApplyTo(current)
	if !sess.CanSimulateManager() {
		next.ViewAsManager = false
	}
	if saveErr := s.viewModes.Save(ctx, sess.ID, next); saveErr != nil {
		s.emit(metrics.KindViewMode, viewModeLabel(next), saveErr)
		return prefs.ViewPreference{}, fmt.Errorf("save view mode: %w", saveErr)
	}
	s.emit(metrics.KindViewMode, viewModeLabel(next), nil)
	return next, nil
}

// errNoop marks a change request that left the stored value untouched.
var errNoop = errors.New("noop")

func (s *PreferenceService) emit(kind, value string, err error) {
	m := metrics.PreferenceMetric{Kind: kind, Value: value, Result: metrics.ResultSuccess}
	switch {
	case errors.Is(err, errNoop):
		m.Result = metrics.ResultNoop
	case err != nil:
		m.Result = metrics.ResultError
		m.Err = err
	}
	metrics.EmitPreferenceChange(s.metrics, m)
}

func viewModeLabel(p prefs.ViewPreference) string {
	switch {
	case p.ViewAsEmployee:
		return string(prefs.ViewRoleEmployee)
	case p.ViewAsManager:
		return string(prefs.ViewRoleManager)
	default:
		return "none"
	}
}

func (s *PreferenceService) currentViewMode(ctx context.Context, sess domainauth.Session) (prefs.ViewPreference, error) {
	current, err := s.viewModes.Get(ctx, sess.ID)
	if err != nil {
		return prefs.ViewPreference{}, fmt.Errorf("load view mode: %w", err)
	}
	return current.Normalize(), nil
}
