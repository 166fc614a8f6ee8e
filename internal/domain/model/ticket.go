//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	maxTicketSubjectLen  = 200
	maxTicketMarkdownLen = 20000
)

// Ticket is a help request raised from the help board. The body is stored as
// the markdown source the user typed.
type Ticket struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Subject   string    `json:"subject"`
	Markdown  string    `json:"markdown"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTicketRequest is the payload of /help/submit-ticket.
type CreateTicketRequest struct {
	UserID   string `json:"-"`
	Subject  string `json:"subject"`
	Markdown string `json:"markdown"`
}

// Normalize trims surrounding whitespace from the subject.
func (r *CreateTicketRequest) Normalize() {
	r.Subject = strings.TrimSpace(r.Subject)
}

// Validate checks the request before it is stored.
func (r CreateTicketRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
		validation.Field(&r.Subject, validation.Required, validation.RuneLength(1, maxTicketSubjectLen)),
		validation.Field(&r.Markdown, validation.Required, validation.By(notBlank), validation.RuneLength(1, maxTicketMarkdownLen)),
	)
}

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_blank", "cannot be blank")
	}
	return nil
}
