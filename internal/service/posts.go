package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/target/crewboard/internal/core"
	"github.com/target/crewboard/internal/domain/model"
	apperrors "github.com/target/crewboard/internal/errors"
)

const (
	latestPostsCacheKey    = "posts:latest"
	defaultPostsCacheTTL   = time.Minute
	defaultPostsListLength = 50
)

// PostServiceOptions groups dependencies for PostService.
type PostServiceOptions struct {
	Posts core.PostRepository
	// Cache is optional; when set the first page of posts is cached.
	Cache    core.CacheRepository
	CacheTTL time.Duration
	Now      func() time.Time
	Logger   *slog.Logger
}

// PostService manages the bulletin board.
type PostService struct {
	posts    core.PostRepository
	cache    core.CacheRepository
	cacheTTL time.Duration
	now      func() time.Time
	logger   *slog.Logger

	// cacheGen counts invalidations. A List stores its page only if no Create
	// invalidated the cache after its database read began.
	cacheMu  sync.Mutex
	cacheGen uint64
}

// NewPostService constructs a new PostService.
func NewPostService(opts PostServiceOptions) *PostService {
	s := &PostService{
		posts:    opts.Posts,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		now:      opts.Now,
		logger:   opts.Logger,
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = defaultPostsCacheTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "post_service")
	return s
}

// List returns posts newest first. The default first page is served from the
// cache when one is configured; cache failures fall through to the database.
func (s *PostService) List(ctx context.Context, opts model.PostListOptions) ([]*model.Post, error) {
	cacheable := s.cache != nil && opts.Offset == 0 && (opts.Limit == 0 || opts.Limit == defaultPostsListLength)
	if cacheable {
		if posts, ok := s.cachedLatest(ctx); ok {
			return posts, nil
		}
	}

	gen := s.generation()
	posts, err := s.posts.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	if cacheable {
		s.storeLatest(ctx, gen, posts)
	}
	return posts, nil
}

// Create validates and stores a post, then drops the cached first page.
func (s *PostService) Create(ctx context.Context, req model.CreatePostRequest) (*model.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid post")
	}

	post := &model.Post{
		ID:        uuid.NewString(),
		Content:   req.Content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.invalidateLatest(ctx)
	return post, nil
}

func (s *PostService) generation() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.cacheGen
}

func (s *PostService) invalidateLatest(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cacheGen++
	if _, err := s.cache.Delete(ctx, latestPostsCacheKey); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate posts cache", "error", err)
	}
}

func (s *PostService) cachedLatest(ctx context.Context) ([]*model.Post, bool) {
	data, err := s.cache.Get(ctx, latestPostsCacheKey)
	if err != nil {
		s.logger.WarnContext(ctx, "posts cache read failed", "error", err)
		return nil, false
	}
	if data == nil {
		return nil, false
	}
	var posts []*model.Post
	if unmarshalErr := json.Unmarshal(data, &posts); unmarshalErr != nil {
		s.logger.WarnContext(ctx, "discarding corrupt posts cache entry", "error", unmarshalErr)
		return nil, false
	}
	return posts, true
}

// storeLatest caches posts read at generation gen. A page read before a
// later Create is dropped.
func (s *PostService) storeLatest(ctx context.Context, gen uint64, posts []*model.Post) {
	data, err := json.Marshal(posts)
	if err != nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.cacheGen != gen {
		s.logger.DebugContext(ctx, "skipping posts cache write; posts changed during read")
		return
	}
	if setErr := s.cache.Set(ctx, latestPostsCacheKey, data, s.cacheTTL); setErr != nil {
		s.logger.WarnContext(ctx, "posts cache write failed", "error", setErr)
	}
}
