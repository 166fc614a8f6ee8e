// Package pgxutil runs database/sql transactions on the pgx driver.
package pgxutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

var errNoTxFunc = errors.New("transaction function is required")

// Runner opens transactions on DB with Opts. A nil Opts uses the driver
// defaults.
type Runner struct {
	DB   *sql.DB
	Opts *sql.TxOptions
}

// ReadCommitted returns a Runner at READ COMMITTED, the level row-lock
// updates such as SetActive use.
func ReadCommitted(db *sql.DB) Runner {
	return Runner{DB: db, Opts: &sql.TxOptions{Isolation: sql.LevelReadCommitted}}
}

// Run commits when fn returns nil and rolls back otherwise, including when fn
// panics.
func (r Runner) Run(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	if fn == nil {
		return errNoTxFunc
	}
	tx, err := r.DB.BeginTx(ctx, r.Opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
