package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/target/crewboard/internal/client/dom"
	"github.com/target/crewboard/internal/domain/prefs"
	"github.com/target/crewboard/internal/domain/visibility"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show local and server preferences and region visibility",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.openBrowser(cmd.Context(), true)
			if err != nil {
				return err
			}
			a.printPreferences(b)

			server, err := b.client.Preferences(cmd.Context())
			if err != nil {
				a.logger.Warn("server preferences unavailable", "error", err)
				return nil
			}
			fmt.Fprintln(a.stdout)
			printTitle(a.stdout, "Server")
			printKV(a.stdout, "Role", server.Role)
			printKV(a.stdout, "Theme", string(server.Theme))
			printKV(a.stdout, "Employee view", onOff(server.ViewAsEmployee))
			printKV(a.stdout, "Manager view", onOff(server.ViewAsManager))
			return nil
		},
	}
}

func newThemeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "theme <light|dark>",
		Short:     "Switch the theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(prefs.ThemeLight), string(prefs.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			theme, err := prefs.ParseTheme(args[0])
			if err != nil {
				return err
			}
			b, err := a.openBrowser(cmd.Context(), true)
			if err != nil {
				return err
			}
			if err = b.store.SetTheme(cmd.Context(), theme); err != nil {
				return err
			}
			b.store.Wait()
			fmt.Fprintln(a.stdout, successStyle.Render("theme set to "+string(theme)))
			return nil
		},
	}
}

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view <employee|manager> <on|off>",
		Short: "Simulate the employee or manager view",
		Long: `Turn a simulated role view on or off. Enabling one view turns the other off.
The page is reloaded from the server once the change has been sent.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := prefs.ParseViewRole(args[0])
			if err != nil {
				return err
			}
			enabled, err := parseOnOff(args[1])
			if err != nil {
				return err
			}
			b, err := a.openBrowser(cmd.Context(), true)
			if err != nil {
				return err
			}
			changed, err := b.store.SetViewMode(cmd.Context(), role, enabled)
			if err != nil {
				return err
			}
			b.store.Wait()
			if !changed {
				fmt.Fprintln(a.stdout, mutedStyle.Render("view unchanged"))
			}
			a.printPreferences(b)
			return nil
		},
	}
}

func (a *app) printPreferences(b *browser) {
	p := b.store.Current()
	printTitle(a.stdout, "Preferences")
	printKV(a.stdout, "Theme", string(p.Theme))
	printKV(a.stdout, "Employee view", onOff(p.ViewAsEmployee))
	printKV(a.stdout, "Manager view", onOff(p.ViewAsManager))
	printKV(a.stdout, "State file", mutedStyle.Render(a.cfg.StateFile))
	fmt.Fprintln(a.stdout)

	directive := visibility.Compute(p)
	doc := b.current()
	rows := make([][]string, 0, len(directive))
	for _, r := range directive.Regions() {
		rows = append(rows, []string{string(r), shown(directive.Visible(r)), pageState(doc, r)})
	}
	renderTable(a.stdout, []string{"Region", "View", "Page"}, rows)
}

// pageState summarizes how the region appears on the loaded page.
func pageState(doc *dom.Document, r visibility.Region) string {
	els := doc.QuerySelectorAll(r.Selector())
	if len(els) == 0 {
		return mutedStyle.Render("not on page")
	}
	hidden := 0
	for _, el := range els {
		if el.Style("display") == visibility.DisplayHidden {
			hidden++
		}
	}
	return strconv.Itoa(len(els)-hidden) + " shown, " + strconv.Itoa(hidden) + " hidden"
}
