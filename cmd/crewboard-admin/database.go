package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/target/crewboard/internal/bootstrap"
	"github.com/target/crewboard/internal/devseed"
)

// crewboardTables are dropped by db-reset, children first. Keep in step with
// internal/migrate/migrations.
var crewboardTables = []string{
	"help_tickets",
	"posts",
	"events",
	"user_preferences",
	"schema_migrations",
}

// step is one named stage of a database command.
type step struct {
	name string
	run  func(context.Context, *sql.DB) error
}

func migrateStep(cmdCtx *commandContext) step {
	return step{name: "migrate", run: func(ctx context.Context, db *sql.DB) error {
		return bootstrap.RunMigrations(ctx, db, cmdCtx.Logger)
	}}
}

func seedStep(cmdCtx *commandContext) step {
	return step{name: "seed", run: func(ctx context.Context, db *sql.DB) error {
		return devseed.Run(ctx, devseed.NewServices(db), cmdCtx.Logger)
	}}
}

func dropTablesStep() step {
	return step{name: "drop tables", run: func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx, dropTablesSQL())
		return err
	}}
}

func dropTablesSQL() string {
	quoted := make([]string, len(crewboardTables))
	for i, t := range crewboardTables {
		quoted[i] = quoteIdentifier(t)
	}
	return "DROP TABLE IF EXISTS " + strings.Join(quoted, ", ") + " CASCADE"
}

func quoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// runSteps connects once and runs steps in order, stopping at the first
// failure.
func runSteps(cmdCtx *commandContext, timeout time.Duration, steps ...step) error {
	return withDatabase(cmdCtx, timeout, func(ctx context.Context, db *sql.DB) error {
		for _, s := range steps {
			started := time.Now()
			if err := s.run(ctx, db); err != nil {
				return fmt.Errorf("%s: %w", s.name, err)
			}
			cmdCtx.Logger.InfoContext(ctx, "step done",
				"step", s.name,
				"elapsed", time.Since(started).Round(time.Millisecond),
			)
		}
		return nil
	})
}

type migrateOptions struct {
	Timeout time.Duration
}

type dbSeedOptions struct {
	Timeout     time.Duration
	AllowRemote bool
}

type dbResetOptions struct {
	Timeout     time.Duration
	Yes         bool
	Seed        bool
	AllowRemote bool
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args, cmdCtx.Err)
	if err != nil {
		return err
	}
	return runSteps(cmdCtx, opts.Timeout, migrateStep(cmdCtx))
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBSeedFlags(args, cmdCtx.Err)
	if err != nil {
		return err
	}
	if _, err := guardRemoteHost(cmdCtx, opts.AllowRemote, "write development data"); err != nil {
		return err
	}
	return runSteps(cmdCtx, opts.Timeout, migrateStep(cmdCtx), seedStep(cmdCtx))
}

func runDBReset(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBResetFlags(args, cmdCtx.Err)
	if err != nil {
		return err
	}

	pg := cmdCtx.Config.Postgres
	remote, err := guardRemoteHost(cmdCtx, opts.AllowRemote, "drop every crewboard table")
	if err != nil {
		return err
	}
	confirm := dbResetConfirmOptions{
		yes:    opts.Yes,
		target: fmt.Sprintf("database %q on %s", pg.Name, net.JoinHostPort(pg.Host, fmt.Sprint(pg.Port))),
	}
	if remote {
		confirm.remoteHost = pg.Host
	}
	if err := confirmAction(cmdCtx, confirm, "drop and recreate the crewboard tables"); err != nil {
		return err
	}

	steps := []step{dropTablesStep(), migrateStep(cmdCtx)}
	if opts.Seed {
		steps = append(steps, seedStep(cmdCtx))
	}
	return runSteps(cmdCtx, opts.Timeout, steps...)
}

// newFlagSet registers the --timeout flag every database command shares.
func newFlagSet(name string, stderr io.Writer, timeout *time.Duration, what string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.DurationVar(timeout, "timeout", defaultMigrationTimeout, "Maximum time to wait for "+what)
	return fs
}

func parseWithTimeout(fs *flag.FlagSet, args []string, timeout time.Duration) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if timeout <= 0 {
		return errors.New("--timeout must be greater than zero")
	}
	return nil
}

const allowRemoteUsage = "Permit running against a database host that does not look local"

func parseMigrateFlags(args []string, stderr io.Writer) (migrateOptions, error) {
	var opts migrateOptions
	fs := newFlagSet("migrate", stderr, &opts.Timeout, "migrations")
	if err := parseWithTimeout(fs, args, opts.Timeout); err != nil {
		return migrateOptions{}, err
	}
	return opts, nil
}

func parseDBSeedFlags(args []string, stderr io.Writer) (dbSeedOptions, error) {
	var opts dbSeedOptions
	fs := newFlagSet("db-seed", stderr, &opts.Timeout, "migrations and seeding")
	fs.BoolVar(&opts.AllowRemote, "allow-remote", false, allowRemoteUsage)
	if err := parseWithTimeout(fs, args, opts.Timeout); err != nil {
		return dbSeedOptions{}, err
	}
	return opts, nil
}

func parseDBResetFlags(args []string, stderr io.Writer) (dbResetOptions, error) {
	var opts dbResetOptions
	fs := newFlagSet("db-reset", stderr, &opts.Timeout, "the reset")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip the confirmation prompt (local hosts only)")
	fs.BoolVar(&opts.Seed, "seed", false, "Load development data after migrating")
	fs.BoolVar(&opts.AllowRemote, "allow-remote", false, allowRemoteUsage)
	if err := parseWithTimeout(fs, args, opts.Timeout); err != nil {
		return dbResetOptions{}, err
	}
	return opts, nil
}

// guardRemoteHost refuses remote database hosts unless allowed, and then asks
// the operator to type the host name. It reports whether the host is remote.
func guardRemoteHost(cmdCtx *commandContext, allow bool, action string) (bool, error) {
	host := cmdCtx.Config.Postgres.Host
	if !isLikelyRemoteHost(host) {
		return false, nil
	}
	if !allow {
		return true, fmt.Errorf("database host %q does not look local; pass --allow-remote to %s there", host, action)
	}
	return true, requireRemoteHostConfirmation(cmdCtx, action, host)
}

var localHostNames = map[string]bool{
	"localhost":            true,
	"host.docker.internal": true,
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	switch {
	case h == "", localHostNames[h], strings.HasSuffix(h, ".local"), strings.HasSuffix(h, ".localhost"):
		return false
	}
	if ip := net.ParseIP(strings.Trim(h, "[]")); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}
