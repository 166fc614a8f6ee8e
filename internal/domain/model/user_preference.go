//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"time"

	"github.com/target/crewboard/internal/domain/prefs"
)

// UserPreference is the server copy of a user's theme.
type UserPreference struct {
	UserID    string      `json:"user_id"`
	Theme     prefs.Theme `json:"theme"`
	UpdatedAt time.Time   `json:"updated_at"`
}
