package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"

)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth        SessionResolver
	Preferences PreferenceService
	Events      EventService
	Help        HelpService
	Posts       PostService

	// Identity configures how the caller's identity is read.
	Identity IdentityConfig
	CSRF     CSRFConfig

	// HealthChecks are run by /healthz.
	HealthChecks map[string]HealthCheck

	// TemplateFS overrides the embedded templates (tests).
	TemplateFS fs.FS
	Logger     *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates the HTTP router. /healthz is served bare; every other
// route runs behind CSRF protection and identity resolution.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer, err := newPageRenderer(services.TemplateFS, logger)
	if err != nil {
		return nil, err
	}

	prefHandlers := &PreferenceHandlers{Svc: services.Preferences, Logger: logger}
	eventHandlers := &EventHandlers{Svc: services.Events, Logger: logger}
	helpHandlers := &HelpHandlers{Tickets: services.Help, Posts: services.Posts, Logger: logger}
	pageHandlers := &PageHandlers{
		Renderer: renderer,
		Prefs:    services.Preferences,
		Events:   services.Events,
		Logger:   logger,
	}

	app := http.NewServeMux()
	app.HandleFunc("GET /{$}", pageHandlers.Board)
	app.HandleFunc("POST /save_theme", prefHandlers.SaveTheme)
	app.HandleFunc("POST /save_view_mode", prefHandlers.SaveViewMode)
	app.HandleFunc("GET /api/preferences", prefHandlers.Get)
	app.HandleFunc("POST /set_event_status/{eventId}/{status}", eventHandlers.SetStatus)
	app.HandleFunc("GET /api/events", eventHandlers.List)
	app.HandleFunc("POST /help/submit-ticket", helpHandlers.SubmitTicket)
	app.HandleFunc("GET /api/posts", helpHandlers.ListPosts)
	app.HandleFunc("POST /api/posts", helpHandlers.CreatePost)

	identity := services.Identity
	identity.Resolver = services.Auth
	if identity.Logger == nil {
		identity.Logger = logger
	}

	protected := recordRoute(app)
	protected = Identity(identity)(protected)
	csrf := services.CSRF
	if csrf.Logger == nil {
		csrf.Logger = logger
	}
	protected = CSRFProtection(csrf)(protected)

	mux := http.NewServeMux()
	health := healthHandler(services.HealthChecks)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)
	mux.Handle("/", protected)

	return mux, nil
}
