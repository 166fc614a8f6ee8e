package prefs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func TestDefault(t *testing.T) {
	assert.Equal(t, ViewPreference{Theme: ThemeLight}, Default())
}

func TestParseTheme(t *testing.T) {
	theme, err := ParseTheme(" Dark ")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)
	assert.Equal(t, "dark-mode", theme.ModeClass())

	_, err = ParseTheme("sepia")
	require.Error(t, err)
}

func TestParseViewRole(t *testing.T) {
	role, err := ParseViewRole("Manager")
	require.NoError(t, err)
	assert.Equal(t, ViewRoleManager, role)

	_, err = ParseViewRole("admin")
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	p := ViewPreference{Theme: "neon", ViewAsEmployee: true, ViewAsManager: true}.Normalize()
	assert.Equal(t, ViewPreference{Theme: ThemeLight, ViewAsEmployee: true}, p)
}

func TestWithViewMode(t *testing.T) {
	tests := []struct {
		name    string
		start   ViewPreference
		role    ViewRole
		enabled bool
		want    ViewPreference
	}{
		{
			name:    "employee clears manager",
			start:   ViewPreference{Theme: ThemeDark, ViewAsManager: true},
			role:    ViewRoleEmployee,
			enabled: true,
			want:    ViewPreference{Theme: ThemeDark, ViewAsEmployee: true},
		},
		{
			name:    "manager clears employee",
			start:   ViewPreference{Theme: ThemeLight, ViewAsEmployee: true},
			role:    ViewRoleManager,
			enabled: true,
			want:    ViewPreference{Theme: ThemeLight, ViewAsManager: true},
		},
		{
			name:    "disabling leaves the other flag alone",
			start:   ViewPreference{Theme: ThemeLight, ViewAsManager: true},
			role:    ViewRoleEmployee,
			enabled: false,
			want:    ViewPreference{Theme: ThemeLight, ViewAsManager: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.WithViewMode(tt.role, tt.enabled)
			assert.Equal(t, tt.want, got)
			assert.False(t, got.ViewAsEmployee && got.ViewAsManager)
		})
	}
}

func TestViewModeUpdate_ApplyTo(t *testing.T) {
	base := ViewPreference{Theme: ThemeLight, ViewAsManager: true}

	got := ViewModeUpdate{ViewAsEmployee: boolPtr(true)}.ApplyTo(base)
	assert.Equal(t, ViewPreference{Theme: ThemeLight, ViewAsEmployee: true}, got)

	got = ViewModeUpdate{ViewAsEmployee: boolPtr(true), ViewAsManager: boolPtr(true)}.ApplyTo(base)
	assert.True(t, got.ViewAsEmployee)
	assert.False(t, got.ViewAsManager)

	got = ViewModeUpdate{}.ApplyTo(base)
	assert.Equal(t, base, got)
	assert.True(t, ViewModeUpdate{}.Empty())
}

func TestFullUpdate(t *testing.T) {
	u := FullUpdate(ViewPreference{ViewAsEmployee: true})
	require.NotNil(t, u.ViewAsEmployee)
	require.NotNil(t, u.ViewAsManager)
	assert.True(t, *u.ViewAsEmployee)
	assert.False(t, *u.ViewAsManager)
}

func TestParseFlag(t *testing.T) {
	v, ok := ParseFlag("true")
	assert.True(t, v)
	assert.True(t, ok)

	v, ok = ParseFlag("false")
	assert.False(t, v)
	assert.True(t, ok)

	_, ok = ParseFlag("yes")
	assert.False(t, ok)
}

func TestFlag_JSON(t *testing.T) {
	var body struct {
		A *Flag `json:"a"`
		B *Flag `json:"b"`
		C *Flag `json:"c"`
		D *Flag `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"true","b":false,"c":"nope"}`), &body))

	assert.Equal(t, boolPtr(true), body.A.Ptr())
	assert.Equal(t, boolPtr(false), body.B.Ptr())
	assert.Equal(t, boolPtr(false), body.C.Ptr())
	assert.Nil(t, body.D.Ptr())

	out, err := json.Marshal(Flag(true))
	require.NoError(t, err)
	assert.JSONEq(t, `"true"`, string(out))

	var f Flag
	require.Error(t, json.Unmarshal([]byte(`12`), &f))
}
