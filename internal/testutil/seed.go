package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"
)

// SeedEvent inserts an event row and returns its id.
func SeedEvent(t testing.TB, db *sql.DB, showName string, showNumber int, active bool) int64 {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id int64
	err := db.QueryRowContext(ctx,
		`INSERT INTO events (show_name, show_number, active) VALUES ($1, $2, $3) RETURNING id`,
		showName, showNumber, active,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to seed event %q: %v", showName, err)
	}
	return id
}
