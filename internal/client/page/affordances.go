package page

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/target/crewboard/internal/client/dom"
)

const (
	workerSelectID       = "worker-select"
	crewFormID           = "crew-form"
	crewIDField          = "crew_id"
	deleteButtonSelector = ".delete-button"
	eventStatusSelector  = ".event-status-button"

	deleteConfirmMessage = "Are you sure you want to delete this?"
	eventStatusFailed    = "Failed to update event status."
)

func bindAffordances(ctx context.Context, doc *dom.Document, opts Options, logger *slog.Logger) {
	bindWorkerSelect(ctx, doc, opts)
	bindDeleteButtons(doc, opts)
	bindCrewForm(doc, opts)
	bindEventStatusButtons(ctx, doc, opts, logger)
}

// WorkerSchedulePath is where the worker selector navigates.
func WorkerSchedulePath(workerID string) string {
	return "/worker/" + url.PathEscape(workerID) + "/schedule"
}

func bindWorkerSelect(ctx context.Context, doc *dom.Document, opts Options) {
	sel := doc.GetElementByID(workerSelectID)
	if sel == nil || opts.Navigator == nil {
		return
	}
	sel.AddEventListener("change", func(ev *dom.Event) {
		id := strings.TrimSpace(ev.Target.Value())
		if id == "" {
			return
		}
		opts.Navigator.Navigate(ctx, WorkerSchedulePath(id))
	})
}

func bindDeleteButtons(doc *dom.Document, opts Options) {
	if opts.Confirmer == nil {
		return
	}
	for _, btn := range doc.QuerySelectorAll(deleteButtonSelector) {
		btn.AddEventListener("click", func(ev *dom.Event) {
			if !opts.Confirmer.Confirm(deleteConfirmMessage) {
				ev.PreventDefault()
			}
		})
	}
}

// ValidateCrewID checks the crew form's required field.
func ValidateCrewID(value string) error {
	return validation.Validate(strings.TrimSpace(value),
		validation.Required.Error("Please enter a Crew ID."),
	)
}

func bindCrewForm(doc *dom.Document, opts Options) {
	form := doc.GetElementByID(crewFormID)
	if form == nil {
		return
	}
	form.AddEventListener("submit", func(ev *dom.Event) {
		value, _ := form.FieldValue(crewIDField)
		if err := ValidateCrewID(value); err != nil {
			ev.PreventDefault()
			if opts.Alerter != nil {
				opts.Alerter.Alert(err.Error())
			}
		}
	})
}

func bindEventStatusButtons(ctx context.Context, doc *dom.Document, opts Options, logger *slog.Logger) {
	if opts.Events == nil {
		return
	}
	for _, btn := range doc.QuerySelectorAll(eventStatusSelector) {
		rawID, _ := btn.Attr("data-event-id")
		status, _ := btn.Attr("data-status")
		btn.AddEventListener("click", func(*dom.Event) {
			id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
			if err == nil {
				err = opts.Events.SetEventStatus(ctx, id, status)
			}
			if err != nil {
				logger.Warn("set event status", "event_id", rawID, "status", status, "error", err)
				if opts.Alerter != nil {
					opts.Alerter.Alert(eventStatusFailed)
				}
				return
			}
			if opts.Reloader != nil {
				opts.Reloader.Reload(ctx)
			}
		})
	}
}
