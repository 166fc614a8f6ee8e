package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/target/crewboard/internal/domain/auth"
	"github.com/target/crewboard/internal/domain/prefs"
	"github.com/target/crewboard/internal/domain/visibility"
	"github.com/target/crewboard/internal/service"
)

// PreferenceService is the subset of service.PreferenceService the handlers use.
type PreferenceService interface {
	Get(ctx context.Context, sess domainauth.Session) (service.PreferenceSnapshot, error)
	SaveTheme(ctx context.Context, sess domainauth.Session, theme string) (prefs.Theme, error)
	SaveViewMode(ctx context.Context, sess domainauth.Session, update prefs.ViewModeUpdate) (prefs.ViewPreference, error)
}

// PreferenceHandlers serves theme and view-mode persistence.
type PreferenceHandlers struct {
	Svc    PreferenceService
	Logger *slog.Logger
}

type saveThemeRequest struct {
	Theme string `json:"theme"`
}

type saveViewModeRequest struct {
	ViewAsEmployee *prefs.Flag `json:"viewAsEmployee"`
	ViewAsManager  *prefs.Flag `json:"viewAsManager"`
}

type viewModeResponse struct {
	Status         string `json:"status"`
	ViewAsEmployee bool   `json:"viewAsEmployee"`
	ViewAsManager  bool   `json:"viewAsManager"`
}

type preferencesResponse struct {
	Theme          prefs.Theme                `json:"theme"`
	ViewAsEmployee bool                       `json:"viewAsEmployee"`
	ViewAsManager  bool                       `json:"viewAsManager"`
	Role           domainauth.Role            `json:"role"`
	Visibility     map[visibility.Region]bool `json:"visibility"`
}

// SaveTheme handles POST /save_theme.
func (h *PreferenceHandlers) SaveTheme(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req saveThemeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	theme, err := h.Svc.SaveTheme(r.Context(), sess, req.Theme)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "theme": string(theme)})
}

// SaveViewMode handles POST /save_view_mode. Either flag may be omitted.
func (h *PreferenceHandlers) SaveViewMode(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req saveViewModeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	p, err := h.Svc.SaveViewMode(r.Context(), sess, prefs.ViewModeUpdate{
		ViewAsEmployee: req.ViewAsEmployee.Ptr(),
		ViewAsManager:  req.ViewAsManager.Ptr(),
	})
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, viewModeResponse{
		Status:         "success",
		ViewAsEmployee: p.ViewAsEmployee,
		ViewAsManager:  p.ViewAsManager,
	})
}

// Get handles GET /api/preferences.
func (h *PreferenceHandlers) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}
	snap, err := h.Svc.Get(r.Context(), sess)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, preferencesResponse{
		Theme:          snap.Preference.Theme,
		ViewAsEmployee: snap.Preference.ViewAsEmployee,
		ViewAsManager:  snap.Preference.ViewAsManager,
		Role:           sess.Role,
		Visibility:     snap.Visibility,
	})
}
