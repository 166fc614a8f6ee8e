package data

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/target/crewboard/internal/errors"
	"github.com/target/crewboard/internal/domain/model"
)

// TicketRepo provides database operations for help tickets.
type TicketRepo struct{ DB *sql.DB }

// NewTicketRepo creates a new TicketRepo.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

// Create inserts the ticket. ID and CreatedAt are assigned by the caller.
func (r *TicketRepo) Create(ctx context.Context, ticket *model.Ticket) error {
	if ticket == nil {
		return errors.New("ticket is required")
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO help_tickets (id, user_id, subject, markdown, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ticket.ID, ticket.UserID, ticket.Subject, ticket.Markdown, ticket.CreatedAt)
	return apperrors.MapDBError(err)
}
