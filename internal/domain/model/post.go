//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const maxPostContentLen = 20000

// Post is a bulletin-board entry.
type Post struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePostRequest is the payload of POST /api/posts.
type CreatePostRequest struct {
	Content string `json:"content"`
}

// Validate checks the request before it is stored.
func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.By(notBlank), validation.RuneLength(1, maxPostContentLen)),
	)
}

// PostListOptions controls paging when listing posts.
type PostListOptions struct {
	Limit  int
	Offset int
}
