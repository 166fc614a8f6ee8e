package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/target/crewboard/internal/domain/auth"
	"github.com/target/crewboard/internal/domain/model"
	"github.com/target/crewboard/internal/domain/prefs"
	"github.com/target/crewboard/internal/domain/visibility"
)

// PageData is the template data for the board page.
type PageData struct {
	Title     string
	CSRFToken string
	Session   domainauth.Session

	Preference prefs.ViewPreference
	ThemeClass string
	DarkTheme  bool

	// Visibility is the directive the regions are rendered with; Grants lists
	// the regions the real role may see at all. Regions outside Grants are not
	// rendered.
	Visibility visibility.Directive
	Grants     visibility.Directive

	CanSimulateEmployee bool
	CanSimulateManager  bool

	Events []*model.Event
}

// PageHandlers renders the role-scoped board.
type PageHandlers struct {
	Renderer *pageRenderer
	Prefs    PreferenceService
	Events   EventService
	Logger   *slog.Logger
}

// Board handles GET /.
func (h *PageHandlers) Board(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	snap, err := h.Prefs.Get(r.Context(), sess)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}

	var events []*model.Event
	if h.Events != nil {
		events, err = h.Events.List(r.Context())
		if err != nil {
			WriteAppError(w, r, h.Logger, err)
			return
		}
	}

	data := PageData{
		Title:               "Crewboard",
		CSRFToken:           GetCSRFToken(r),
		Session:             sess,
		Preference:          snap.Preference,
		ThemeClass:          snap.Preference.Theme.ModeClass(),
		DarkTheme:           snap.Preference.Theme == prefs.ThemeDark,
		Visibility:          snap.Visibility,
		Grants:              visibility.ForRole(sess.Role, prefs.Default()),
		CanSimulateEmployee: sess.Role != domainauth.RoleEmployee,
		CanSimulateManager:  sess.CanSimulateManager(),
		Events:              events,
	}

	w.Header().Set("Cache-Control", "no-store")
	if err := h.Renderer.render(w, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
