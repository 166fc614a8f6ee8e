package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const boardPage = `<html><head><meta name="csrf-token" content="tok"></head>
<body><nav class="navbar-inverse"><ul class="admin-dropdown"></ul></nav>
<input type="checkbox" id="theme-checkbox"><input type="checkbox" id="view-checkbox">
<div class="admin-field">Rates</div><div class="account-manager-field">Riley</div></body></html>`

type board struct {
	mu        sync.Mutex
	pageLoads int
	viewMode  []map[string]string
}

func (b *board) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		b.pageLoads++
		b.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "csrf_token", Value: "tok", Path: "/"})
		_, _ = w.Write([]byte(boardPage))
	})
	mux.HandleFunc("POST /save_view_mode", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		b.viewMode = append(b.viewMode, body)
		b.mu.Unlock()
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})
	mux.HandleFunc("POST /set_event_status/{id}/{status}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "3" {
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("Success"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func readState(t *testing.T, path string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]string
	require.NoError(t, yaml.Unmarshal(data, &out))
	return out
}

func TestThemeCommand_Offline(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	state := filepath.Join(t.TempDir(), "prefs.yaml")

	stdout, _, err := run(t, "theme", "dark", "--url", dead.URL, "--state", state)
	require.NoError(t, err)
	assert.Contains(t, stdout, "theme set to dark")
	assert.Equal(t, "dark", readState(t, state)["theme"])
}

func TestThemeCommand_Invalid(t *testing.T) {
	_, _, err := run(t, "theme", "sepia", "--state", filepath.Join(t.TempDir(), "p.yaml"))
	require.Error(t, err)
}

func TestViewCommand_SyncsAndReloads(t *testing.T) {
	b := &board{}
	srv := b.server(t)
	state := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(state, []byte("viewAsManager: \"true\"\n"), 0o600))

	stdout, _, err := run(t, "view", "employee", "on", "--url", srv.URL, "--state", state)
	require.NoError(t, err)

	assert.Equal(t, []map[string]string{{"viewAsEmployee": "true", "viewAsManager": "false"}}, b.viewMode)
	assert.Equal(t, 2, b.pageLoads, "initial load and reload")
	assert.Equal(t, map[string]string{"viewAsEmployee": "true", "viewAsManager": "false"}, readState(t, state))
	assert.Contains(t, stdout, "adminFields")
	assert.True(t, strings.Contains(stdout, "hidden"))
}

func TestViewCommand_NoOp(t *testing.T) {
	b := &board{}
	srv := b.server(t)
	state := filepath.Join(t.TempDir(), "prefs.yaml")

	stdout, _, err := run(t, "view", "manager", "off", "--url", srv.URL, "--state", state)
	require.NoError(t, err)
	assert.Contains(t, stdout, "view unchanged")
	assert.Empty(t, b.viewMode)
	assert.Equal(t, 1, b.pageLoads)
}

func TestViewCommand_BadArgs(t *testing.T) {
	state := filepath.Join(t.TempDir(), "prefs.yaml")
	_, _, err := run(t, "view", "admin", "on", "--state", state)
	require.Error(t, err)
	_, _, err = run(t, "view", "employee", "maybe", "--state", state)
	require.Error(t, err)
}

func TestEventStatusCommand(t *testing.T) {
	b := &board{}
	srv := b.server(t)

	stdout, _, err := run(t, "event-status", "3", "inactive", "--url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Success")

	_, stderr, err := run(t, "event-status", "9", "inactive", "--url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, stderr, "Failed to update event status.")

	_, _, err = run(t, "event-status", "x", "active", "--url", srv.URL)
	require.Error(t, err)
}

func TestParseOnOff(t *testing.T) {
	for _, v := range []string{"on", "TRUE", "yes", "1"} {
		got, err := parseOnOff(v)
		require.NoError(t, err)
		assert.True(t, got, v)
	}
	got, err := parseOnOff("off")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestColorEnabled(t *testing.T) {
	assert.False(t, colorEnabled(true, os.Stdout))
	assert.False(t, colorEnabled(false, &bytes.Buffer{}), "non-file writers are never terminals")
	t.Setenv("NO_COLOR", "1")
	assert.False(t, colorEnabled(false, os.Stdout))
}
