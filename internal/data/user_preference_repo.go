// Package data provides the Postgres and Redis repositories for crewboard.
package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "github.com/target/crewboard/internal/errors"
	"github.com/target/crewboard/internal/domain/model"
	"github.com/target/crewboard/internal/domain/prefs"
)

// UserPreferenceRepo provides database operations for per-user themes.
type UserPreferenceRepo struct {
	DB  *sql.DB
	now func() time.Time
}

// NewUserPreferenceRepo creates a UserPreferenceRepo that stamps writes with
// the wall clock in UTC.
func NewUserPreferenceRepo(db *sql.DB) *UserPreferenceRepo {
	return &UserPreferenceRepo{DB: db, now: utcNow}
}

// WithClock replaces the clock used for updated_at.
func (r *UserPreferenceRepo) WithClock(now func() time.Time) *UserPreferenceRepo {
	r.now = now
	return r
}

func utcNow() time.Time { return time.Now().UTC() }

// Get returns the stored preference for userID.
func (r *UserPreferenceRepo) Get(ctx context.Context, userID string) (*model.UserPreference, error) {
	var (
		p     model.UserPreference
		theme string
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id, theme, updated_at FROM user_preferences WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &theme, &p.UpdatedAt)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	p.Theme = prefs.Theme(theme)
	return &p, nil
}

// UpsertTheme creates or replaces the user's theme.
func (r *UserPreferenceRepo) UpsertTheme(
	ctx context.Context,
	userID string,
	theme prefs.Theme,
) (*model.UserPreference, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if !theme.Valid() {
		return nil, apperrors.ValidationField("theme", "unsupported theme")
	}

	var (
		p      model.UserPreference
		stored string
	)
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO user_preferences (user_id, theme, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET theme = EXCLUDED.theme,
		    updated_at = EXCLUDED.updated_at
		RETURNING user_id, theme, updated_at
	`, userID, string(theme), r.now()).Scan(&p.UserID, &stored, &p.UpdatedAt)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	p.Theme = prefs.Theme(stored)
	return &p, nil
}
