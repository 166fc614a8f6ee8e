// Command crewboard-admin runs maintenance tasks against the crewboard
// database and the Redis store that holds simulated role views.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/target/crewboard/config"
	"github.com/target/crewboard/internal/bootstrap"
)

const (
	defaultMigrationTimeout = 5 * time.Minute
	defaultRedisTimeout     = 30 * time.Second

	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
	Err    io.Writer
	In     io.Reader
}

type command struct {
	name    string
	group   string
	summary string
	run     func(*commandContext, []string) error
}

const (
	groupDatabase = "Database"
	groupSessions = "Sessions"
)

// commands lists every subcommand in the order usage prints them.
func commands() []command {
	return []command{
		{name: "migrate", group: groupDatabase, summary: "Apply pending schema migrations", run: runMigrations},
		{name: "db-seed", group: groupDatabase, summary: "Migrate, then load development shows, posts and preferences", run: runDBSeed},
		{name: "db-reset", group: groupDatabase, summary: "Drop the crewboard tables, migrate and optionally seed", run: runDBReset},
		{name: "list-view-modes", group: groupSessions, summary: "Show the simulated role view stored for each session", run: runListViewModes},
		{name: "clear-view-modes", group: groupSessions, summary: "Send every session back to its real role view", run: runClearViewModes},
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands() {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func main() {
	c := cli{
		out:        os.Stdout,
		err:        os.Stderr,
		in:         os.Stdin,
		logger:     bootstrap.InitLogger(),
		loadConfig: bootstrap.LoadConfig,
	}
	os.Exit(c.run(context.Background(), os.Args[1:])) //nolint:forbidigo // exit status is the CLI's contract with shell scripts
}

type cli struct {
	out, err   io.Writer
	in         io.Reader
	logger     *slog.Logger
	loadConfig func() (config.AppConfig, error)
}

// run executes one subcommand and returns the process exit status.
func (c cli) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		c.usage()
		return exitUsage
	}
	switch args[0] {
	case "help", "-h", "--help":
		c.usage()
		return exitOK
	}

	cmd, ok := lookup(args[0])
	if !ok {
		_ = writef(c.err, "unknown command %q\n\n", args[0])
		c.usage()
		return exitUsage
	}

	cfg, err := c.loadConfig()
	if err != nil {
		c.logger.ErrorContext(ctx, "load config", "error", err)
		return exitError
	}

	cmdCtx := &commandContext{Ctx: ctx, Logger: c.logger, Config: cfg, Out: c.out, Err: c.err, In: c.in}
	if err := cmd.run(cmdCtx, args[1:]); err != nil {
		c.logger.ErrorContext(ctx, "command failed", "command", cmd.name, "error", err)
		return exitError
	}
	return exitOK
}

func (c cli) usage() {
	if err := printUsage(c.out); err != nil {
		c.logger.Error("print usage failed", "error", err)
	}
}

func printUsage(w io.Writer) error {
	if err := writeln(w, "Usage: crewboard-admin <command> [flags]"); err != nil {
		return err
	}
	group := ""
	for _, c := range commands() {
		if c.group != group {
			group = c.group
			if err := writef(w, "\n%s:\n", group); err != nil {
				return err
			}
		}
		if err := writef(w, "  %-18s %s\n", c.name, c.summary); err != nil {
			return err
		}
	}
	return writeln(w, "\nRun 'crewboard-admin <command> -h' to see a command's flags.")
}
