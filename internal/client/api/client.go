// Package api is the HTTP client for the crewboard server endpoints used by
// the page scripts: preference sync, event status, help tickets and posts.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/target/crewboard/internal/client/dom"
	"github.com/target/crewboard/internal/domain/model"
	"github.com/target/crewboard/internal/domain/prefs"
	"github.com/target/crewboard/internal/domain/visibility"
	"golang.org/x/net/publicsuffix"
)

const (
	csrfMetaName   = "csrf-token"
	csrfHeaderName = "X-CSRFToken"
	maxErrorBody   = 64 << 10
)

// Config configures a Client.
type Config struct {
	BaseURL string

	// User and Groups are forwarded as identity headers, standing in for the
	// authenticating proxy in front of the server.
	User         string
	Groups       []string
	UserHeader   string
	GroupsHeader string

	Timeout time.Duration
	// Client overrides the HTTP client. Its Jar is replaced when nil.
	Client *http.Client
	Logger *slog.Logger
}

// Client talks to a crewboard server. It keeps cookies (session and CSRF) in a
// jar and the CSRF token read from the page meta tag.
type Client struct {
	base         *url.URL
	hc           *http.Client
	user         string
	groups       string
	userHeader   string
	groupsHeader string
	logger       *slog.Logger

	mu   sync.Mutex
	csrf string
}

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("server returned %d (%s): %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, msg)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// NewClient builds a Client for cfg.BaseURL.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("base url is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", raw)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	if hc.Jar == nil {
		jar, jarErr := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if jarErr != nil {
			return nil, fmt.Errorf("create cookie jar: %w", jarErr)
		}
		hc.Jar = jar
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:         base,
		hc:           hc,
		user:         strings.TrimSpace(cfg.User),
		groups:       strings.Join(cfg.Groups, ","),
		userHeader:   fallback(cfg.UserHeader, "X-Forwarded-User"),
		groupsHeader: fallback(cfg.GroupsHeader, "X-Forwarded-Groups"),
		logger:       logger.With("component", "api_client"),
	}, nil
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

// FetchPage loads the board page and remembers its CSRF token.
func (c *Client) FetchPage(ctx context.Context) (*dom.Document, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer closeBody(resp, c.logger)

	if err = checkStatus(resp); err != nil {
		return nil, err
	}
	doc, err := dom.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	c.mu.Lock()
	c.csrf = doc.MetaContent(csrfMetaName)
	c.mu.Unlock()
	return doc, nil
}

// CSRFToken returns the token read by the last FetchPage.
func (c *Client) CSRFToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.csrf
}

// SaveTheme posts {theme} to /save_theme.
func (c *Client) SaveTheme(ctx context.Context, theme prefs.Theme) error {
	return c.postJSON(ctx, "/save_theme", map[string]string{prefs.KeyTheme: string(theme)}, nil)
}

// SaveViewMode posts the present flags to /save_view_mode as "true"/"false".
func (c *Client) SaveViewMode(ctx context.Context, update prefs.ViewModeUpdate) error {
	if update.Empty() {
		return errors.New("view mode update has no flags")
	}
	body := map[string]string{}
	if update.ViewAsEmployee != nil {
		body[prefs.KeyViewAsEmployee] = prefs.FormatFlag(*update.ViewAsEmployee)
	}
	if update.ViewAsManager != nil {
		body[prefs.KeyViewAsManager] = prefs.FormatFlag(*update.ViewAsManager)
	}
	return c.postJSON(ctx, "/save_view_mode", body, nil)
}

// SetEventStatus marks an event active or inactive.
func (c *Client) SetEventStatus(ctx context.Context, eventID int64, status string) error {
	path := "/set_event_status/" + strconv.FormatInt(eventID, 10) + "/" + url.PathEscape(status)
	return c.postJSON(ctx, path, nil, nil)
}

// TicketResult is the response of /help/submit-ticket.
type TicketResult struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// SubmitTicket raises a help ticket.
func (c *Client) SubmitTicket(ctx context.Context, subject, markdown string) (TicketResult, error) {
	var out TicketResult
	err := c.postJSON(ctx, "/help/submit-ticket", model.CreateTicketRequest{Subject: subject, Markdown: markdown}, &out)
	return out, err
}

// ListPosts returns a page of bulletin-board posts, newest first.
func (c *Client) ListPosts(ctx context.Context, limit, offset int) ([]model.Post, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/api/posts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []model.Post
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePost publishes a post.
func (c *Client) CreatePost(ctx context.Context, content string) (model.Post, error) {
	var out model.Post
	err := c.postJSON(ctx, "/api/posts", model.CreatePostRequest{Content: content}, &out)
	return out, err
}

// ListEvents returns the scheduled shows.
func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	var out []model.Event
	if err := c.getJSON(ctx, "/api/events", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Preferences is the server copy of the caller's preferences.
type Preferences struct {
	prefs.ViewPreference
	Role       string                     `json:"role"`
	Visibility map[visibility.Region]bool `json:"visibility"`
}

// Preferences fetches GET /api/preferences.
func (c *Client) Preferences(ctx context.Context) (Preferences, error) {
	var out Preferences
	err := c.getJSON(ctx, "/api/preferences", &out)
	return out, err
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	if err := c.ensureCSRF(ctx); err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(csrfHeaderName, c.CSRFToken())
	return c.do(req, out)
}

// ensureCSRF loads the page once to obtain the CSRF cookie and token.
func (c *Client) ensureCSRF(ctx context.Context) error {
	if c.CSRFToken() != "" {
		return nil
	}
	if _, err := c.FetchPage(ctx); err != nil {
		return fmt.Errorf("obtain csrf token: %w", err)
	}
	if c.CSRFToken() == "" {
		return errors.New("page did not carry a csrf token")
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + ref.Path
	u.RawPath = ""
	u.RawQuery = ref.RawQuery

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.user != "" {
		req.Header.Set(c.userHeader, c.user)
		if c.groups != "" {
			req.Header.Set(c.groupsHeader, c.groups)
		}
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer closeBody(resp, c.logger)

	if err = checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	se := &StatusError{StatusCode: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil && (payload.Error != "" || payload.Message != "") {
		se.Code = payload.Error
		se.Message = payload.Message
	} else {
		se.Message = strings.TrimSpace(string(data))
	}
	return se
}

func closeBody(resp *http.Response, logger *slog.Logger) {
	if err := resp.Body.Close(); err != nil {
		logger.Debug("close response body", "error", err)
	}
}
