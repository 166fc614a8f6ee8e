// Package prefs contains the per-session view preferences: the UI theme and the
// mutually exclusive "view as" role simulation flags.
package prefs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Storage keys shared by the client cache and the wire format.
const (
	KeyTheme          = "theme"
	KeyViewAsEmployee = "viewAsEmployee"
	KeyViewAsManager  = "viewAsManager"
)

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether the theme is supported.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark:
		return true
	default:
		return false
	}
}

// ModeClass returns the CSS class that activates the theme on a root element.
func (t Theme) ModeClass() string { return string(t) + "-mode" }

// ParseTheme normalizes a theme string and rejects unknown values.
func ParseTheme(value string) (Theme, error) {
	theme := Theme(strings.ToLower(strings.TrimSpace(value)))
	if !theme.Valid() {
		return "", fmt.Errorf("invalid theme %q (valid options: light, dark)", value)
	}
	return theme, nil
}

// ViewRole is a role the user can simulate in the UI.
type ViewRole string

const (
	ViewRoleEmployee ViewRole = "employee"
	ViewRoleManager  ViewRole = "manager"
)

// ParseViewRole normalizes a simulated role name.
func ParseViewRole(value string) (ViewRole, error) {
	role := ViewRole(strings.ToLower(strings.TrimSpace(value)))
	switch role {
	case ViewRoleEmployee, ViewRoleManager:
		return role, nil
	default:
		return "", fmt.Errorf("invalid view role %q (valid options: employee, manager)", value)
	}
}

// ViewPreference is the persisted preference record for one browsing session.
//
// ViewAsEmployee and ViewAsManager are mutually exclusive; use WithViewMode and
// Normalize to keep them that way.
type ViewPreference struct {
	Theme          Theme `json:"theme"`
	ViewAsEmployee bool  `json:"viewAsEmployee"`
	ViewAsManager  bool  `json:"viewAsManager"`
}

// Default returns the preference used when nothing has been persisted yet.
func Default() ViewPreference {
	return ViewPreference{Theme: ThemeLight}
}

// Normalize repairs a record that violates the exclusion rule or carries an
// unknown theme. When both role flags are set the employee view wins because it
// is the more restrictive one.
func (p ViewPreference) Normalize() ViewPreference {
	if !p.Theme.Valid() {
		p.Theme = ThemeLight
	}
	if p.ViewAsEmployee && p.ViewAsManager {
		p.ViewAsManager = false
	}
	return p
}

// ViewMode reports the flag for the given simulated role.
func (p ViewPreference) ViewMode(role ViewRole) bool {
	switch role {
	case ViewRoleEmployee:
		return p.ViewAsEmployee
	case ViewRoleManager:
		return p.ViewAsManager
	default:
		return false
	}
}

// WithViewMode returns a copy with the role flag set. Enabling one role clears
// the other.
func (p ViewPreference) WithViewMode(role ViewRole, enabled bool) ViewPreference {
	switch role {
	case ViewRoleEmployee:
		p.ViewAsEmployee = enabled
		if enabled {
			p.ViewAsManager = false
		}
	case ViewRoleManager:
		p.ViewAsManager = enabled
		if enabled {
			p.ViewAsEmployee = false
		}
	}
	return p
}

// Simulating reports whether any restricted view is active.
func (p ViewPreference) Simulating() bool {
	return p.ViewAsEmployee || p.ViewAsManager
}

// ViewModeUpdate carries one or both role flags of a view-mode change. Nil
// fields are left untouched.
type ViewModeUpdate struct {
	ViewAsEmployee *bool
	ViewAsManager  *bool
}

// FullUpdate builds an update carrying both flags of p.
func FullUpdate(p ViewPreference) ViewModeUpdate {
	employee, manager := p.ViewAsEmployee, p.ViewAsManager
	return ViewModeUpdate{ViewAsEmployee: &employee, ViewAsManager: &manager}
}

// Empty reports whether the update carries no flag.
func (u ViewModeUpdate) Empty() bool {
	return u.ViewAsEmployee == nil && u.ViewAsManager == nil
}

// ApplyTo merges the update into p. A flag enabled by the update clears the
// other one; if the update enables both, the employee view wins.
func (u ViewModeUpdate) ApplyTo(p ViewPreference) ViewPreference {
	if u.ViewAsManager != nil {
		p = p.WithViewMode(ViewRoleManager, *u.ViewAsManager)
	}
	if u.ViewAsEmployee != nil {
		p = p.WithViewMode(ViewRoleEmployee, *u.ViewAsEmployee)
	}
	return p.Normalize()
}

// FormatFlag renders a flag the way it is stored and sent: "true" or "false".
func FormatFlag(v bool) string { return strconv.FormatBool(v) }

// ParseFlag reads a stored flag. Only the exact strings "true" and "false" are
// accepted; anything else reports ok=false.
func ParseFlag(value string) (v bool, ok bool) {
	switch value {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// Flag is a boolean that decodes from either a JSON bool or the strings
// "true"/"false" used by the browser client.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		// Anything but "true" is false, matching the browser client's comparison.
		*f = Flag(strings.EqualFold(strings.TrimSpace(s), "true"))
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("flag must be a boolean or \"true\"/\"false\": %w", err)
	}
	*f = Flag(b)
	return nil
}

// MarshalJSON renders the flag in the string form the server accepts.
func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatFlag(bool(f)))
}

// Ptr returns a pointer to the flag value as a bool.
func (f *Flag) Ptr() *bool {
	if f == nil {
		return nil
	}
	v := bool(*f)
	return &v
}
