package service

import (
	"context"
	"sync"
	"time"

	"github.com/target/crewboard/internal/domain/model"
	"github.com/target/crewboard/internal/domain/prefs"
	apperrors "github.com/target/crewboard/internal/errors"
)

// mockThemeRepo is a test helper with overridable behavior.
type mockThemeRepo struct {
	getFunc    func(context.Context, string) (*model.UserPreference, error)
	upsertFunc func(context.Context, string, prefs.Theme) (*model.UserPreference, error)
}

func (m *mockThemeRepo) Get(ctx context.Context, userID string) (*model.UserPreference, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID)
	}
	return nil, apperrors.NotFound("preference not found")
}

func (m *mockThemeRepo) UpsertTheme(ctx context.Context, userID string, theme prefs.Theme) (*model.UserPreference, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, userID, theme)
	}
	return &model.UserPreference{UserID: userID, Theme: theme}, nil
}

// memoryViewModes is an in-memory ports.ViewModeStore.
type memoryViewModes struct {
	mu      sync.Mutex
	entries map[string]prefs.ViewPreference
	getErr  error
	saveErr error
	saves   int
}

func newMemoryViewModes() *memoryViewModes {
	return &memoryViewModes{entries: map[string]prefs.ViewPreference{}}
}

func (m *memoryViewModes) Get(_ context.Context, sessionID string) (prefs.ViewPreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return prefs.ViewPreference{}, m.getErr
	}
	return m.entries[sessionID], nil
}

func (m *memoryViewModes) Save(_ context.Context, sessionID string, p prefs.ViewPreference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.entries[sessionID] = prefs.ViewPreference{ViewAsEmployee: p.ViewAsEmployee, ViewAsManager: p.ViewAsManager}
	return nil
}

func (m *memoryViewModes) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}

type mockEventRepo struct {
	setActiveFunc func(context.Context, int64, bool) (bool, error)
}

func (m *mockEventRepo) GetByID(context.Context, int64) (*model.Event, error) {
	return nil, apperrors.NotFound("event not found")
}

func (m *mockEventRepo) SetActive(ctx context.Context, id int64, active bool) (bool, error) {
	if m.setActiveFunc != nil {
		return m.setActiveFunc(ctx, id, active)
	}
	return true, nil
}

func (m *mockEventRepo) List(context.Context) ([]*model.Event, error) { return nil, nil }

type recordingTicketRepo struct {
	created []*model.Ticket
	err     error
}

func (r *recordingTicketRepo) Create(_ context.Context, t *model.Ticket) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, t)
	return nil
}

type memoryPostRepo struct {
	posts     []*model.Post
	listCalls int
	// afterRead runs once a List has copied its page, before it returns.
	afterRead func()
}

func (r *memoryPostRepo) Create(_ context.Context, p *model.Post) error {
	r.posts = append([]*model.Post{p}, r.posts...)
	return nil
}

func (r *memoryPostRepo) List(_ context.Context, _ model.PostListOptions) ([]*model.Post, error) {
	r.listCalls++
	page := append([]*model.Post(nil), r.posts...)
	if r.afterRead != nil {
		hook := r.afterRead
		r.afterRead = nil
		hook()
	}
	return page, nil
}

type memoryCache struct {
	data   map[string][]byte
	getErr error
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string][]byte{}} }

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.data[key], nil
}

func (c *memoryCache) Delete(_ context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	delete(c.data, key)
	return ok, nil
}

func (c *memoryCache) Health(context.Context) error { return nil }

// tagSink records counter tags.
type tagSink struct {
	counts []map[string]string
}

func (s *tagSink) Count(_ string, _ int64, tags map[string]string) { s.counts = append(s.counts, tags) }

func (s *tagSink) Timing(string, time.Duration, map[string]string) {}
