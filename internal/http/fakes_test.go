package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/target/crewboard/internal/adapters/authroles"
	domainauth "github.com/target/crewboard/internal/domain/auth"
	"github.com/target/crewboard/internal/domain/model"
	"github.com/target/crewboard/internal/domain/prefs"
	"github.com/target/crewboard/internal/domain/visibility"
	apperrors "github.com/target/crewboard/internal/errors"
	"github.com/target/crewboard/internal/service"
)

const testCSRFToken = "test-csrf-token"

// fakePreferences keeps one preference per session in memory.
type fakePreferences struct {
	mu       sync.Mutex
	theme    map[string]prefs.Theme
	view     map[string]prefs.ViewPreference
	updates  []prefs.ViewModeUpdate
	getErr   error
	lastSess domainauth.Session
}

func newFakePreferences() *fakePreferences {
	return &fakePreferences{theme: map[string]prefs.Theme{}, view: map[string]prefs.ViewPreference{}}
}

func (f *fakePreferences) Get(_ context.Context, sess domainauth.Session) (service.PreferenceSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return service.PreferenceSnapshot{}, f.getErr
	}
	p := f.view[sess.ID]
	p.Theme = prefs.ThemeLight
	if t, ok := f.theme[sess.UserID]; ok {
		p.Theme = t
	}
	return service.PreferenceSnapshot{Preference: p, Visibility: visibility.ForRole(sess.Role, p)}, nil
}

func (f *fakePreferences) SaveTheme(_ context.Context, sess domainauth.Session, theme string) (prefs.Theme, error) {
	t, err := prefs.ParseTheme(theme)
	if err != nil {
		return "", apperrors.ValidationField("theme", err.Error())
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSess = sess
	f.theme[sess.UserID] = t
	return t, nil
}

func (f *fakePreferences) SaveViewMode(
	_ context.Context,
	sess domainauth.Session,
	update prefs.ViewModeUpdate,
) (prefs.ViewPreference, error) {
	if update.Empty() {
		return prefs.ViewPreference{}, apperrors.Validation("viewAsEmployee or viewAsManager is required")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSess = sess
	f.updates = append(f.updates, update)
	next := update.ApplyTo(f.view[sess.ID])
	f.view[sess.ID] = next
	return next, nil
}

type fakeEvents struct {
	setStatus func(ctx context.Context, id int64, status string) error
	list      func(ctx context.Context) ([]*model.Event, error)
}

func (f *fakeEvents) SetStatus(ctx context.Context, id int64, status string) error {
	if f.setStatus == nil {
		return nil
	}
	return f.setStatus(ctx, id, status)
}

func (f *fakeEvents) List(ctx context.Context) ([]*model.Event, error) {
	if f.list == nil {
		return nil, nil
	}
	return f.list(ctx)
}

type fakeHelp struct {
	submit func(ctx context.Context, req model.CreateTicketRequest) (*model.Ticket, error)
}

func (f *fakeHelp) SubmitTicket(ctx context.Context, req model.CreateTicketRequest) (*model.Ticket, error) {
	return f.submit(ctx, req)
}

type fakePosts struct {
	list   func(ctx context.Context, opts model.PostListOptions) ([]*model.Post, error)
	create func(ctx context.Context, req model.CreatePostRequest) (*model.Post, error)
}

func (f *fakePosts) List(ctx context.Context, opts model.PostListOptions) ([]*model.Post, error) {
	if f.list == nil {
		return nil, nil
	}
	return f.list(ctx, opts)
}

func (f *fakePosts) Create(ctx context.Context, req model.CreatePostRequest) (*model.Post, error) {
	return f.create(ctx, req)
}

type testDeps struct {
	prefs  *fakePreferences
	events *fakeEvents
	help   *fakeHelp
	posts  *fakePosts
	checks map[string]HealthCheck
}

func newTestDeps() *testDeps {
	return &testDeps{
		prefs:  newFakePreferences(),
		events: &fakeEvents{},
		help:   &fakeHelp{},
		posts:  &fakePosts{},
	}
}

func newTestRouter(t *testing.T, deps *testDeps) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h, err := NewRouter(RouterServices{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Roles:  authroles.StaticRoleMapper{AdminGroup: "admins", ManagerGroup: "managers"},
			Logger: logger,
		}),
		Preferences:  deps.prefs,
		Events:       deps.events,
		Help:         deps.help,
		Posts:        deps.posts,
		HealthChecks: deps.checks,
		Logger:       logger,
	})
	require.NoError(t, err)
	return h
}

// caller describes who issues a test request.
type caller struct {
	user      string
	groups    string
	sessionID string
	noCSRF    bool
}

var (
	adminCaller    = caller{user: "ada", groups: "admins", sessionID: "6f1c1c52-3a0b-4f5e-9a55-0d3c7c1e2b11"}
	managerCaller  = caller{user: "max", groups: "managers", sessionID: "8c0e3d0e-7f44-4b8a-a2a4-5d9e1f0c6a22"}
	employeeCaller = caller{user: "eve", groups: "crew", sessionID: "1d2e3f40-5a6b-4c7d-8e9f-a0b1c2d3e4f5"}
)

func serve(t *testing.T, h http.Handler, c caller, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.user != "" {
		req.Header.Set("X-Forwarded-User", c.user)
		req.Header.Set("X-Forwarded-Groups", c.groups)
	}
	if c.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "crewboard_session", Value: c.sessionID})
	}
	if !c.noCSRF {
		req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
		req.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
