// Package cmd implements the crewboard-client commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/target/crewboard/config"
	"github.com/target/crewboard/internal/bootstrap"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	verbose bool
	noColor bool

	baseURL   string
	user      string
	groups    []string
	stateFile string

	cfg    config.ClientConfig
	auth   config.AuthConfig
	logger *slog.Logger

	stdout io.Writer
	stderr io.Writer
}

// Execute runs the root command with the process arguments.
func Execute() error {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		return err
	}
	return nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "crewboard-client",
		Short: "Theme and role-view preferences for the crewboard page",
		Long: `crewboard-client keeps your crewboard preferences (theme and the simulated
employee/manager view) in a local preference file, syncs them to the server
and shows which role-scoped regions of the board are visible.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			a.setupLogger()
			return a.loadConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&a.baseURL, "url", "", "crewboard server URL (env CREWBOARD_URL)")
	flags.StringVar(&a.user, "user", "", "User id sent in the identity header (env CREWBOARD_USER_ID)")
	flags.StringSliceVar(&a.groups, "groups", nil, "Groups sent in the identity header (env CREWBOARD_GROUPS)")
	flags.StringVar(&a.stateFile, "state", "", "Local preference file (env CREWBOARD_STATE_FILE)")

	root.AddCommand(
		newShowCmd(a),
		newThemeCmd(a),
		newViewCmd(a),
		newEventsCmd(a),
		newEventStatusCmd(a),
		newTicketCmd(a),
		newPostsCmd(a),
	)
	return root
}

func (a *app) setupLogger() {
	level := log.InfoLevel
	if a.verbose {
		level = log.DebugLevel
	}

	styles := log.DefaultStyles()
	if colorEnabled(a.noColor, a.stderr) {
		styles.Levels[log.DebugLevel] = lipgloss.NewStyle().SetString("DEBUG").Foreground(muted).Bold(true)
		styles.Levels[log.InfoLevel] = lipgloss.NewStyle().SetString("INFO").Foreground(primary).Bold(true)
		styles.Levels[log.WarnLevel] = lipgloss.NewStyle().SetString("WARN").Foreground(warning).Bold(true)
		styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().SetString("ERROR").Foreground(danger).Bold(true)
	}

	handler := log.NewWithOptions(a.stderr, log.Options{
		ReportTimestamp: a.verbose,
		TimeFormat:      time.Kitchen,
		Level:           level,
	})
	handler.SetStyles(styles)
	a.logger = slog.New(handler)
}

// loadConfig reads the env configuration and applies flag overrides.
func (a *app) loadConfig() error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg.Client
	a.auth = cfg.Auth

	if a.baseURL != "" {
		a.cfg.BaseURL = a.baseURL
	}
	if a.user != "" {
		a.cfg.User = a.user
	}
	if len(a.groups) > 0 {
		a.cfg.Groups = a.groups
	}
	if a.stateFile != "" {
		a.cfg.StateFile = a.stateFile
	}
	a.cfg.Sanitize()
	a.logger.Debug("client config", "url", a.cfg.BaseURL, "state_file", a.cfg.StateFile, "user", a.cfg.User)
	return nil
}

func parseOnOff(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", v)
	}
}
