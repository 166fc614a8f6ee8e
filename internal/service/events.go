package service

import (
	"context"
	"fmt"

	"github.com/target/crewboard/internal/core"
	"github.com/target/crewboard/internal/domain/model"
	apperrors "github.com/target/crewboard/internal/errors"
)

// EventServiceOptions groups dependencies for EventService.
type EventServiceOptions struct {
	Events core.EventRepository
}

// EventService changes the activity state of scheduled shows.
type EventService struct {
	events core.EventRepository
}

// NewEventService constructs a new EventService.
func NewEventService(opts EventServiceOptions) *EventService {
	return &EventService{events: opts.Events}
}

// SetStatus marks the event active or inactive. Unknown statuses are a
// validation error; unknown events are NotFound.
func (s *EventService) SetStatus(ctx context.Context, id int64, status string) error {
	st, ok := model.ParseEventStatus(status)
	if !ok {
		return apperrors.ValidationField("status", fmt.Sprintf("unsupported status %q", status))
	}
	found, err := s.events.SetActive(ctx, id, st.Active())
	if err != nil {
		return fmt.Errorf("set event status: %w", err)
	}
	if !found {
		return apperrors.NotFoundf("event %d not found", id)
	}
	return nil
}

// List returns all events.
func (s *EventService) List(ctx context.Context) ([]*model.Event, error) {
	return s.events.List(ctx)
}
