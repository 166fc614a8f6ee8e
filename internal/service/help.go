package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/target/crewboard/internal/core"
	"github.com/target/crewboard/internal/domain/model"
	apperrors "github.com/target/crewboard/internal/errors"
)

// HelpServiceOptions groups dependencies for HelpService.
type HelpServiceOptions struct {
	Tickets core.TicketRepository
	// Now defaults to time.Now.
	Now func() time.Time
}

// HelpService records help tickets raised from the help page.
type HelpService struct {
	tickets core.TicketRepository
	now     func() time.Time
}

// NewHelpService constructs a new HelpService.
func NewHelpService(opts HelpServiceOptions) *HelpService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &HelpService{tickets: opts.Tickets, now: now}
}

// SubmitTicket validates and stores a ticket. The markdown body is stored as
// typed; rendering it is the reader's concern.
func (s *HelpService) SubmitTicket(ctx context.Context, req model.CreateTicketRequest) (*model.Ticket, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid ticket")
	}

	ticket := &model.Ticket{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Subject:   req.Subject,
		Markdown:  req.Markdown,
		CreatedAt: s.now().UTC(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return ticket, nil
}
