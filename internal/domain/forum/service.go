package forum

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/linwei/smartliving/pkg/errors"
)

const (
	defaultListLimit   = 50
	defaultSearchLimit = 10
)

// Embedder produces embeddings for free form text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Service is the community forum: posts, comments, like toggling and
// semantic search over post content.
type Service interface {
	CreatePost(ctx context.Context, userID string, req CreatePostRequest) (Post, error)
	Posts(ctx context.Context, category string) ([]Post, error)
	ToggleLike(ctx context.Context, postID, userID string) (liked bool, err error)
	AddComment(ctx context.Context, postID, userID string, req CommentRequest) (Comment, error)
	Comments(ctx context.Context, postID string) ([]Comment, error)
	Search(ctx context.Context, query string, limit int) ([]SearchMatch, error)
}

type service struct {
	repo     Repository
	embedder Embedder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires up the forum domain. embedder may be nil; search then
// degrades to keyword matching.
func NewService(repo Repository, embedder Embedder, logger *slog.Logger) Service {
	return &service{
		repo:     repo,
		embedder: embedder,
		logger:   logger.With("component", "forum.service"),
		now:      time.Now,
	}
}

func validCategory(category string) bool {
	return category == CategoryOutfit || category == CategoryPlant
}

func (s *service) CreatePost(ctx context.Context, userID string, req CreatePostRequest) (Post, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return Post{}, apperrors.Wrap("invalid_input", "title cannot be empty", nil)
	}
	if !validCategory(req.Category) {
		return Post{}, apperrors.Wrap("invalid_input", "category must be outfit or plant", nil)
	}

	now := s.now().UTC()
	post := Post{
		ID:          uuid.NewString(),
		UserID:      userID,
		Category:    req.Category,
		Title:       title,
		Content:     strings.TrimSpace(req.Content),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Embedding failures must not block publishing; the post simply stays
	// out of semantic search results.
	embedding := s.embed(ctx, post.Title+"\n"+post.Content)

	if err := s.repo.InsertPost(ctx, post, embedding); err != nil {
		return Post{}, apperrors.Wrap("storage_error", "failed to create post", err)
	}
	s.logger.Info("forum post created", "category", post.Category)
	return post, nil
}

func (s *service) embed(ctx context.Context, text string) []float32 {
	if s.embedder == nil {
		return nil
	}
	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		s.logger.Warn("post embedding failed", "error", err)
		return nil
	}
	if len(vectors) == 0 {
		return nil
	}
	return vectors[0]
}

func (s *service) Posts(ctx context.Context, category string) ([]Post, error) {
	if category != "" && !validCategory(category) {
		return nil, apperrors.Wrap("invalid_input", "category must be outfit or plant", nil)
	}
	rows, err := s.repo.ListPosts(ctx, category, defaultListLimit)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list posts", err)
	}
	return rows, nil
}

// ToggleLike flips the user's like on a post and reports the resulting state.
func (s *service) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	if _, ok, err := s.repo.GetPost(ctx, postID); err != nil {
		return false, apperrors.Wrap("storage_error", "failed to load post", err)
	} else if !ok {
		return false, apperrors.Wrap("not_found", "post does not exist", nil)
	}

	liked, err := s.repo.HasLike(ctx, postID, userID)
	if err != nil {
		return false, apperrors.Wrap("storage_error", "failed to check like", err)
	}
	if liked {
		if err := s.repo.DeleteLike(ctx, postID, userID); err != nil {
			return false, apperrors.Wrap("storage_error", "failed to remove like", err)
		}
		return false, nil
	}
	if err := s.repo.InsertLike(ctx, postID, userID); err != nil {
		return false, apperrors.Wrap("storage_error", "failed to add like", err)
	}
	return true, nil
}

func (s *service) AddComment(ctx context.Context, postID, userID string, req CommentRequest) (Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return Comment{}, apperrors.Wrap("invalid_input", "comment cannot be empty", nil)
	}
	if _, ok, err := s.repo.GetPost(ctx, postID); err != nil {
		return Comment{}, apperrors.Wrap("storage_error", "failed to load post", err)
	} else if !ok {
		return Comment{}, apperrors.Wrap("not_found", "post does not exist", nil)
	}

	comment := Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.InsertComment(ctx, comment); err != nil {
		return Comment{}, apperrors.Wrap("storage_error", "failed to add comment", err)
	}
	return comment, nil
}

func (s *service) Comments(ctx context.Context, postID string) ([]Comment, error) {
	rows, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list comments", err)
	}
	return rows, nil
}

// Search ranks posts by embedding distance to the query. When no embedding
// can be produced it falls back to keyword matching with zero distances.
func (s *service) Search(ctx context.Context, query string, limit int) ([]SearchMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.Wrap("invalid_input", "query cannot be empty", nil)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	if embedding := s.embed(ctx, query); embedding != nil {
		matches, err := s.repo.NearestPosts(ctx, embedding, limit)
		if err != nil {
			return nil, apperrors.Wrap("storage_error", "semantic search failed", err)
		}
		return matches, nil
	}

	posts, err := s.repo.KeywordPosts(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "keyword search failed", err)
	}
	matches := make([]SearchMatch, 0, len(posts))
	for _, post := range posts {
		matches = append(matches, SearchMatch{Post: post})
	}
	return matches, nil
}
