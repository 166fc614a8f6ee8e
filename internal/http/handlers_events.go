package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/target/crewboard/internal/domain/model"
)

// EventService is the subset of service.EventService the handlers use.
type EventService interface {
	SetStatus(ctx context.Context, id int64, status string) error
	List(ctx context.Context) ([]*model.Event, error)
}

// EventHandlers serves event status changes.
type EventHandlers struct {
	Svc    EventService
	Logger *slog.Logger
}

// SetStatus handles POST /set_event_status/{eventId}/{status}. Success answers
// the plain text "Success".
func (h *EventHandlers) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("eventId"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("event not found"),
		})
		return
	}

	if err := h.Svc.SetStatus(r.Context(), id, r.PathValue("status")); err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "Success")
}

// List handles GET /api/events.
func (h *EventHandlers) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.Svc.List(r.Context())
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	if events == nil {
		events = []*model.Event{}
	}
	WriteJSON(w, http.StatusOK, events)
}
