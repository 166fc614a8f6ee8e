package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

type confirmOptions interface {
	IsDryRun() bool
	IsYes() bool
	GetTarget() string
	GetWarning() string
}

type dbResetConfirmOptions struct {
	yes        bool
	target     string
	remoteHost string
}

func (d dbResetConfirmOptions) IsDryRun() bool { return false }
func (d dbResetConfirmOptions) IsYes() bool {
	if d.remoteHost != "" {
		return false
	}
	return d.yes
}

func (d dbResetConfirmOptions) GetWarning() string {
	warning := "WARNING: this drops the crewboard tables (preferences, shows, tickets, posts) and every row in them."
	if d.remoteHost != "" {
		warning += fmt.Sprintf(" Host %q appears to be remote; double-check before proceeding.", d.remoteHost)
	}
	return warning
}
func (d dbResetConfirmOptions) GetTarget() string { return d.target }

type viewModeConfirmOptions struct {
	opts clearViewModesOptions
}

func (v viewModeConfirmOptions) IsDryRun() bool { return v.opts.DryRun }
func (v viewModeConfirmOptions) IsYes() bool    { return v.opts.Yes }
func (v viewModeConfirmOptions) GetWarning() string {
	return "WARNING: every session will fall back to its real role view."
}

func (v viewModeConfirmOptions) GetTarget() string {
	return fmt.Sprintf("keys %q", v.opts.Prefix+"*")
}

func confirmAction(cmdCtx *commandContext, opts confirmOptions, actionType string) error {
	if opts.IsDryRun() || opts.IsYes() {
		return nil
	}

	if err := printConfirmationIntro(cmdCtx.Out, opts, actionType); err != nil {
		return err
	}

	if err := write(cmdCtx.Out, "Continue? [y/N]: "); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}
	resp, err := readLine(cmdCtx.In)
	if err != nil {
		if writeErr := writef(cmdCtx.Out, "\nFailed to read confirmation input: %v\n", err); writeErr != nil {
			return fmt.Errorf("aborted by user: report write failed: %w", writeErr)
		}
		return errors.New("aborted by user")
	}
	resp = strings.ToLower(resp)
	if resp == "y" || resp == "yes" {
		return nil
	}
	return errors.New("aborted by user")
}

func printConfirmationIntro(w io.Writer, opts confirmOptions, actionType string) error {
	if err := writeln(w, opts.GetWarning()); err != nil {
		return fmt.Errorf("print confirmation warning: %w", err)
	}
	target := opts.GetTarget()
	if target == "" {
		return nil
	}
	if err := writef(w, "About to %s for %s.\n", actionType, target); err != nil {
		return fmt.Errorf("print confirmation message: %w", err)
	}
	return nil
}

func requireRemoteHostConfirmation(cmdCtx *commandContext, action, host string) error {
	if err := writef(
		cmdCtx.Err,
		"\nWARNING: database host %q does not look like a local address.\n"+
			"This operation will %s.\n",
		host,
		action,
	); err != nil {
		return fmt.Errorf("print remote host warning: %w", err)
	}
	if err := writef(cmdCtx.Err, "Type %q to continue or press enter to abort: ", host); err != nil {
		return fmt.Errorf("print remote host prompt: %w", err)
	}
	resp, err := readLine(cmdCtx.In)
	if err != nil {
		if writeErr := writef(cmdCtx.Err, "\nFailed to read confirmation input: %v\n", err); writeErr != nil {
			return fmt.Errorf("aborted by user: report write failed: %w", writeErr)
		}
		return errors.New("aborted by user")
	}
	if resp != host {
		if writeErr := writeln(cmdCtx.Err, "\nRemote safeguard check failed; aborting."); writeErr != nil {
			return fmt.Errorf("print remote safeguard failure: %w", writeErr)
		}
		return errors.New("aborted by user")
	}
	return nil
}

// readLine accepts a final line without a trailing newline.
func readLine(r io.Reader) (string, error) {
	if r == nil {
		return "", errors.New("no input available")
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func write(w io.Writer, args ...any) error {
	_, err := fmt.Fprint(w, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, args...)
	return err
}
