package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/target/crewboard/internal/errors"
	"github.com/target/crewboard/internal/domain/model"
)

const (
	defaultPostLimit = 50
	maxPostLimit     = 200
)

// PostRepo provides database operations for bulletin-board posts.
type PostRepo struct{ DB *sql.DB }

// NewPostRepo creates a new PostRepo.
func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

// Create inserts the post. ID and CreatedAt are assigned by the caller.
func (r *PostRepo) Create(ctx context.Context, post *model.Post) error {
	if post == nil {
		return errors.New("post is required")
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO posts (id, content, created_at) VALUES ($1, $2, $3)`,
		post.ID, post.Content, post.CreatedAt,
	)
	return apperrors.MapDBError(err)
}

// List returns posts newest first. A zero limit uses the default page size.
func (r *PostRepo) List(ctx context.Context, opts model.PostListOptions) ([]*model.Post, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPostLimit
	}
	if limit > maxPostLimit {
		limit = maxPostLimit
	}
	offset := max(opts.Offset, 0)

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, content, created_at
		FROM posts
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	defer func() { _ = rows.Close() }()

	posts := make([]*model.Post, 0, limit)
	for rows.Next() {
		var p model.Post
		if scanErr := rows.Scan(&p.ID, &p.Content, &p.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("scan post: %w", scanErr)
		}
		posts = append(posts, &p)
	}
	if iterErr := rows.Err(); iterErr != nil {
		return nil, apperrors.MapDBError(iterErr)
	}
	return posts, nil
}
