package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/target/crewboard/internal/domain/model"
)

func newEventsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List scheduled shows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}
			events, err := client.ListEvents(cmd.Context())
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Fprintln(a.stdout, mutedStyle.Render("no events"))
				return nil
			}
			rows := make([][]string, 0, len(events))
			for _, e := range events {
				rows = append(rows, []string{
					strconv.FormatInt(e.ID, 10),
					e.ShowName,
					strconv.Itoa(e.ShowNumber),
					deref(e.AccountManager),
					deref(e.Location),
					statusLabel(e.Active),
				})
			}
			renderTable(a.stdout, []string{"ID", "Show", "#", "Account manager", "Location", "Status"}, rows)
			return nil
		},
	}
}

func newEventStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "event-status <event-id> <active|inactive>",
		Short:     "Mark a show active or inactive",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(model.EventStatusActive), string(model.EventStatusInactive)},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid event id %q", args[0])
			}
			client, err := a.newClient()
			if err != nil {
				return err
			}
			if err = client.SetEventStatus(cmd.Context(), id, args[1]); err != nil {
				alerter{a}.Alert("Failed to update event status.")
				return err
			}
			fmt.Fprintln(a.stdout, successStyle.Render("Success"))
			return nil
		},
	}
}

func newTicketCmd(a *app) *cobra.Command {
	var subject, file string
	c := &cobra.Command{
		Use:   "ticket",
		Short: "Submit a help ticket",
		Long: `Submit a help ticket. The body is markdown read from --file, or from stdin
when --file is "-" or omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := readBody(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			client, err := a.newClient()
			if err != nil {
				return err
			}
			res, err := client.SubmitTicket(cmd.Context(), subject, body)
			if err != nil {
				alerter{a}.Alert("Failed to submit the help ticket.")
				return err
			}
			fmt.Fprintln(a.stdout, successStyle.Render("Help ticket submitted successfully!")+" "+mutedStyle.Render(res.ID))
			return nil
		},
	}
	c.Flags().StringVarP(&subject, "subject", "s", "", "Ticket subject")
	c.Flags().StringVarP(&file, "file", "f", "", "Markdown file with the ticket body")
	_ = c.MarkFlagRequired("subject")
	return c
}

func newPostsCmd(a *app) *cobra.Command {
	posts := &cobra.Command{
		Use:   "posts",
		Short: "Read and write the bulletin board",
	}

	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}
			items, err := client.ListPosts(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(a.stdout, mutedStyle.Render("no posts"))
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, p := range items {
				created := ""
				if !p.CreatedAt.IsZero() {
					created = p.CreatedAt.Local().Format("2006-01-02 15:04")
				}
				rows = append(rows, []string{p.ID, created, firstLine(p.Content)})
			}
			renderTable(a.stdout, []string{"ID", "Created", "Content"}, rows)
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Maximum number of posts")
	list.Flags().IntVar(&offset, "offset", 0, "Number of posts to skip")

	create := &cobra.Command{
		Use:   "create <content>",
		Short: "Publish a post",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}
			p, err := client.CreatePost(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, successStyle.Render("posted")+" "+mutedStyle.Render(p.ID))
			return nil
		},
	}

	posts.AddCommand(list, create)
	return posts
}

func readBody(stdin io.Reader, file string) (string, error) {
	var (
		data []byte
		err  error
	)
	if file == "" || file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("read ticket body: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("ticket body is empty")
	}
	return string(data), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func statusLabel(active bool) string {
	if active {
		return successStyle.Render("active")
	}
	return mutedStyle.Render("inactive")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
