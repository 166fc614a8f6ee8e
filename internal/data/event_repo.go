package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/target/crewboard/internal/data/pgxutil"
	apperrors "github.com/target/crewboard/internal/errors"
	"github.com/target/crewboard/internal/domain/model"
)

const eventColumns = `id, show_name, show_number, account_manager, location, active`

// EventRepo provides database operations for scheduled shows.
type EventRepo struct {
	DB  *sql.DB
	now func() time.Time
}

// NewEventRepo creates an EventRepo that stamps status changes with the wall
// clock in UTC.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{DB: db, now: utcNow}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*model.Event, error) {
	var (
		e              model.Event
		accountManager sql.NullString
		location       sql.NullString
	)
	if err := row.Scan(&e.ID, &e.ShowName, &e.ShowNumber, &accountManager, &location, &e.Active); err != nil {
		return nil, err
	}
	if accountManager.Valid {
		e.AccountManager = &accountManager.String
	}
	if location.Valid {
		e.Location = &location.String
	}
	return &e, nil
}

// GetByID returns the event or a NotFound AppError.
func (r *EventRepo) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	e, err := scanEvent(r.DB.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return e, nil
}

// SetActive updates the active flag under a row lock and reports whether the
// event exists. Writing the current value again leaves updated_at untouched.
func (r *EventRepo) SetActive(ctx context.Context, id int64, active bool) (bool, error) {
	found := false
	err := pgxutil.ReadCommitted(r.DB).Run(ctx, func(tx *sql.Tx) error {
		var current bool
		scanErr := tx.QueryRowContext(ctx,
			`SELECT active FROM events WHERE id = $1 FOR UPDATE`, id,
		).Scan(&current)
		if errors.Is(scanErr, sql.ErrNoRows) {
			return nil
		}
		if scanErr != nil {
			return fmt.Errorf("lock event: %w", scanErr)
		}
		found = true
		if current == active {
			return nil
		}
		if _, execErr := tx.ExecContext(ctx,
			`UPDATE events SET active = $2, updated_at = $3 WHERE id = $1`,
			id, active, r.now(),
		); execErr != nil {
			return fmt.Errorf("update event: %w", execErr)
		}
		return nil
	})
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return found, nil
}

// Create inserts the event and assigns its ID.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	if e == nil {
		return errors.New("event is required")
	}
	now := r.now()
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO events (show_name, show_number, account_manager, location, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id`,
		e.ShowName, e.ShowNumber, e.AccountManager, e.Location, e.Active, now,
	).Scan(&e.ID)
	return apperrors.MapDBError(err)
}

// List returns all events ordered by show number.
func (r *EventRepo) List(ctx context.Context) ([]*model.Event, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY show_number ASC, id ASC`)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Event
	for rows.Next() {
		e, scanErr := scanEvent(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan event: %w", scanErr)
		}
		out = append(out, e)
	}
	if iterErr := rows.Err(); iterErr != nil {
		return nil, apperrors.MapDBError(iterErr)
	}
	return out, nil
}
