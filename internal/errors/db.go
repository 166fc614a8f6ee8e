package errors

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// checkConstraint describes a CHECK constraint declared in the schema
// migrations, keyed by the name Postgres generates for it.
type checkConstraint struct {
	field   string
	message string
}

var checkConstraints = map[string]checkConstraint{
	"user_preferences_theme_check": {field: "theme", message: "Theme must be light or dark."},
	"help_tickets_subject_check":   {field: "subject", message: "Subject must be between 1 and 200 characters."},
}

// MapDBError turns errors from the crewboard repositories into AppErrors:
//   - no rows becomes NotFound
//   - CHECK and NOT NULL violations become Validation with the offending field
//   - a primary-key collision becomes Conflict
//   - deadlines and cancellations, from the context or from Postgres
//     canceling the statement, become Timeout and Canceled
//
// Other Postgres errors are Internal. Errors that did not come from the
// database are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "Request timed out. Please try again.")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, pgx.ErrNoRows):
		return Wrap(err, ErrCodeNotFound, "Resource not found")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.CheckViolation:
		if c, ok := checkConstraints[pgErr.ConstraintName]; ok {
			return &AppError{Code: ErrCodeValidation, Message: c.message, Field: c.field, Cause: pgErr}
		}
		return Wrap(pgErr, ErrCodeValidation, "Invalid data. Please check your input.")
	case pgerrcode.NotNullViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "This field is required.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	case pgerrcode.UniqueViolation:
		return Wrap(pgErr, ErrCodeConflict, "This record already exists.")
	case pgerrcode.QueryCanceled:
		return Wrap(pgErr, ErrCodeTimeout, "Request timed out. Please try again.")
	default:
		return Wrap(pgErr, ErrCodeInternal, "A database error occurred. Please try again.")
	}
}
