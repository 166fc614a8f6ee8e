package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/target/crewboard/internal/domain/model"
)

// HelpService is the subset of service.HelpService the handlers use.
type HelpService interface {
	SubmitTicket(ctx context.Context, req model.CreateTicketRequest) (*model.Ticket, error)
}

// PostService is the subset of service.PostService the handlers use.
type PostService interface {
	List(ctx context.Context, opts model.PostListOptions) ([]*model.Post, error)
	Create(ctx context.Context, req model.CreatePostRequest) (*model.Post, error)
}

// HelpHandlers serves help tickets and the bulletin board.
type HelpHandlers struct {
	Tickets HelpService
	Posts   PostService
	Logger  *slog.Logger
}

type submitTicketResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// SubmitTicket handles POST /help/submit-ticket.
func (h *HelpHandlers) SubmitTicket(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req model.CreateTicketRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.UserID = sess.UserID

	ticket, err := h.Tickets.SubmitTicket(r.Context(), req)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, submitTicketResponse{Status: "submitted", ID: ticket.ID})
}

// ListPosts handles GET /api/posts. limit and offset are optional.
func (h *HelpHandlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	opts := model.PostListOptions{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	posts, err := h.Posts.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	WriteJSON(w, http.StatusOK, posts)
}

// CreatePost handles POST /api/posts.
func (h *HelpHandlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePostRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	post, err := h.Posts.Create(r.Context(), req)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, post)
}

// queryInt returns a non-negative integer query parameter, or 0.
func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
