package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"testing"
	"time"

	// Registers the pgx driver with database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/target/crewboard/internal/migrate"
)

// WithAutoDB runs fn against a freshly migrated schema of its own, so
// packages can run their integration tests in parallel. The schema is dropped
// when the test ends.
func WithAutoDB(t testing.TB, fn func(*sql.DB)) {
	t.Helper()
	fn(openSchemaDB(t))
}

func openSchemaDB(t testing.TB) *sql.DB {
	t.Helper()

	e, err := loadInfraEnv(nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin, err := sql.Open("pgx", e.dsn(""))
	if err != nil {
		t.Fatal("open test database:", err)
	}
	if err := admin.PingContext(ctx); err != nil {
		closeQuietly(t, "admin db", admin)
		if e.dbRequired() {
			t.Fatal("test database not available:", err)
		}
		t.Skip("test database not available:", err)
	}

	schema := newSchemaName()
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		closeQuietly(t, "admin db", admin)
		t.Fatalf("create schema %s: %v", schema, err)
	}

	db, err := sql.Open("pgx", e.dsn(schema))
	if err != nil {
		closeQuietly(t, "admin db", admin)
		t.Fatal("open schema database:", err)
	}
	t.Cleanup(func() {
		closeQuietly(t, "schema db", db)
		cctx, ccancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer ccancel()
		if _, err := admin.ExecContext(cctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		closeQuietly(t, "admin db", admin)
	})

	if err := migrate.Run(ctx, db); err != nil {
		t.Fatalf("migrate schema %s: %v", schema, err)
	}
	return db
}

// newSchemaName returns a lowercase identifier that needs no quoting.
func newSchemaName() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "crew_t" + time.Now().Format("150405000000")
	}
	return "crew_t" + hex.EncodeToString(b)
}

func closeQuietly(t testing.TB, name string, c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		t.Logf("close %s: %v", name, err)
	}
}
