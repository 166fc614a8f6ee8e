// Package devseed loads a small, repeatable data set for local development.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/target/crewboard/internal/data"
	"github.com/target/crewboard/internal/domain/model"
	"github.com/target/crewboard/internal/domain/prefs"
	"github.com/target/crewboard/internal/service"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB     *sql.DB
	events *data.EventRepo
	posts  *service.PostService
	prefs  *data.UserPreferenceRepo
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		DB:     db,
		events: data.NewEventRepo(db),
		posts:  service.NewPostService(service.PostServiceOptions{Posts: data.NewPostRepo(db)}),
		prefs:  data.NewUserPreferenceRepo(db),
	}
}

// Run seeds shows, bulletin posts and a dark-theme preference for the dev
// user. Rows that already exist are left alone, so Run can be repeated.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	failures := 0
	failures += seedEvents(ctx, svcs.events, logger)
	failures += seedPosts(ctx, svcs.posts, logger)
	failures += seedPreferences(ctx, svcs.prefs, logger)
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

type eventSeed struct {
	showName       string
	showNumber     int
	accountManager string
	location       string
	active         bool
}

func defaultEvents() []eventSeed {
	return []eventSeed{
		{showName: "Spring Expo", showNumber: 3, accountManager: "Riley Park", location: "Hall A", active: true},
		{showName: "Summer Concert Series", showNumber: 8, accountManager: "Jordan Lee", location: "Riverside Stage", active: true},
		{showName: "Harvest Fair", showNumber: 11, accountManager: "Riley Park", active: true},
		{showName: "Winter Gala", showNumber: 12, location: "Grand Ballroom", active: false},
	}
}

func seedEvents(ctx context.Context, repo *data.EventRepo, logger *slog.Logger) int {
	existing, err := repo.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list events", "error", err)
		return 1
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[eventKey(e.ShowName, e.ShowNumber)] = true
	}

	failures := 0
	for _, s := range defaultEvents() {
		if seen[eventKey(s.showName, s.showNumber)] {
			logger.InfoContext(ctx, "event already exists", "show", s.showName, "number", s.showNumber)
			continue
		}
		e := &model.Event{
			ShowName:       s.showName,
			ShowNumber:     s.showNumber,
			AccountManager: optional(s.accountManager),
			Location:       optional(s.location),
			Active:         s.active,
		}
		if createErr := repo.Create(ctx, e); createErr != nil {
			logger.ErrorContext(ctx, "failed to create event", "show", s.showName, "error", createErr)
			failures++
			continue
		}
		logger.InfoContext(ctx, "created event", "show", s.showName, "id", e.ID)
	}
	return failures
}

func defaultPosts() []string {
	return []string{
		"Welcome to the crew board! Check the schedule before every shift.",
		"Load-in for the **Spring Expo** starts at 6am. Bring gloves.",
		"Reminder: submit your availability for next month by Friday.",
	}
}

func seedPosts(ctx context.Context, svc *service.PostService, logger *slog.Logger) int {
	existing, err := svc.List(ctx, model.PostListOptions{Limit: 1})
	if err != nil {
		logger.ErrorContext(ctx, "failed to list posts", "error", err)
		return 1
	}
	if len(existing) > 0 {
		logger.InfoContext(ctx, "posts already seeded")
		return 0
	}

	failures := 0
	for _, content := range defaultPosts() {
		p, createErr := svc.Create(ctx, model.CreatePostRequest{Content: content})
		if createErr != nil {
			logger.ErrorContext(ctx, "failed to create post", "error", createErr)
			failures++
			continue
		}
		logger.InfoContext(ctx, "created post", "id", p.ID)
	}
	return failures
}

// DevUserID matches the default mock identity (DEV_AUTH_USER_ID).
const DevUserID = "dev-user"

func seedPreferences(ctx context.Context, repo *data.UserPreferenceRepo, logger *slog.Logger) int {
	if _, err := repo.Get(ctx, DevUserID); err == nil {
		logger.InfoContext(ctx, "preferences already exist", "user", DevUserID)
		return 0
	}
	if _, err := repo.UpsertTheme(ctx, DevUserID, prefs.ThemeDark); err != nil {
		logger.ErrorContext(ctx, "failed to seed preferences", "user", DevUserID, "error", err)
		return 1
	}
	logger.InfoContext(ctx, "seeded preferences", "user", DevUserID, "theme", prefs.ThemeDark)
	return 0
}

func eventKey(name string, number int) string {
	return fmt.Sprintf("%s#%d", name, number)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
