package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	redisadapter "github.com/target/crewboard/internal/adapters/redis"
	"github.com/target/crewboard/internal/domain/prefs"
)

const defaultViewModeLimit = 100

type listViewModesOptions struct {
	Limit   int
	Timeout time.Duration
}

type clearViewModesOptions struct {
	Prefix  string
	DryRun  bool
	Yes     bool
	Timeout time.Duration
}

func parseListViewModesFlags(args []string, stderr io.Writer) (listViewModesOptions, error) {
	fs := flag.NewFlagSet("list-view-modes", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := listViewModesOptions{}
	fs.IntVar(&opts.Limit, "limit", defaultViewModeLimit, "Maximum sessions to show (0 for all)")
	fs.DurationVar(&opts.Timeout, "timeout", defaultRedisTimeout, "Maximum duration for the scan")

	if err := fs.Parse(args); err != nil {
		return listViewModesOptions{}, err
	}
	if opts.Limit < 0 {
		return listViewModesOptions{}, errors.New("--limit must be zero or greater")
	}
	if opts.Timeout <= 0 {
		return listViewModesOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseClearViewModesFlags(args []string, stderr io.Writer) (clearViewModesOptions, error) {
	fs := flag.NewFlagSet("clear-view-modes", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := clearViewModesOptions{}
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Count matching sessions without deleting")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")
	fs.DurationVar(&opts.Timeout, "timeout", defaultRedisTimeout, "Maximum duration for the scan and delete")

	if err := fs.Parse(args); err != nil {
		return clearViewModesOptions{}, err
	}
	if opts.Timeout <= 0 {
		return clearViewModesOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func runListViewModes(cmdCtx *commandContext, args []string) error {
	opts, err := parseListViewModesFlags(args, cmdCtx.Err)
	if err != nil {
		return err
	}

	return withViewModeStore(cmdCtx, opts.Timeout, func(ctx context.Context, store *redisadapter.ViewModeStore) error {
		entries, more, scanErr := store.Scan(ctx, opts.Limit)
		if scanErr != nil {
			return scanErr
		}
		return printViewModes(cmdCtx.Out, entries, more)
	})
}

func runClearViewModes(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearViewModesFlags(args, cmdCtx.Err)
	if err != nil {
		return err
	}
	opts.Prefix = cmdCtx.Config.Cache.ViewModePrefix

	if confirmErr := confirmAction(cmdCtx, viewModeConfirmOptions{opts}, "clear simulated views"); confirmErr != nil {
		return confirmErr
	}

	return withViewModeStore(cmdCtx, opts.Timeout, func(ctx context.Context, store *redisadapter.ViewModeStore) error {
		if opts.DryRun {
			entries, _, scanErr := store.Scan(ctx, 0)
			if scanErr != nil {
				return scanErr
			}
			return writef(cmdCtx.Out, "Dry run: %d session(s) would be reset.\n", len(entries))
		}
		removed, clearErr := store.Clear(ctx)
		if clearErr != nil {
			return clearErr
		}
		cmdCtx.Logger.Info("cleared view modes", "prefix", opts.Prefix, "removed", removed)
		return writef(cmdCtx.Out, "Reset %d session(s).\n", removed)
	})
}

func printViewModes(w io.Writer, entries []redisadapter.SessionViewMode, more bool) error {
	if len(entries) == 0 {
		return writeln(w, "No simulated views stored.")
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].SessionID < entries[j].SessionID })

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "Session\tView\tExpires In"); err != nil {
		return fmt.Errorf("write view mode header: %w", err)
	}
	for _, e := range entries {
		if err := writef(tw, "%s\t%s\t%s\n", e.SessionID, viewLabel(e.View), ttlLabel(e.TTL)); err != nil {
			return fmt.Errorf("write view mode row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush view modes: %w", err)
	}
	if more {
		if err := writeln(w, "(more sessions exist; raise --limit to see them)"); err != nil {
			return fmt.Errorf("write truncation notice: %w", err)
		}
	}
	return nil
}

func viewLabel(p prefs.ViewPreference) string {
	switch {
	case p.ViewAsEmployee:
		return string(prefs.ViewRoleEmployee)
	case p.ViewAsManager:
		return string(prefs.ViewRoleManager)
	default:
		return "real role"
	}
}

func ttlLabel(ttl time.Duration) string {
	if ttl < 0 {
		return "never"
	}
	return ttl.Truncate(time.Second).String()
}
