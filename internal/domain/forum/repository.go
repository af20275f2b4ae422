package forum

import "context"

// Repository abstracts forum persistence. Counter maintenance for likes and
// comments is the repository's job so the stored counts stay consistent.
type Repository interface {
	InsertPost(ctx context.Context, post Post, embedding []float32) error
	ListPosts(ctx context.Context, category string, limit int) ([]Post, error)
	GetPost(ctx context.Context, postID string) (Post, bool, error)

	InsertComment(ctx context.Context, comment Comment) error
	ListComments(ctx context.Context, postID string) ([]Comment, error)

	// HasLike reports whether the user already liked the post.
	HasLike(ctx context.Context, postID, userID string) (bool, error)
	InsertLike(ctx context.Context, postID, userID string) error
	DeleteLike(ctx context.Context, postID, userID string) error

	// NearestPosts returns posts ordered by embedding distance.
	NearestPosts(ctx context.Context, embedding []float32, limit int) ([]SearchMatch, error)
	// KeywordPosts is the degraded search path when no embedding is available.
	KeywordPosts(ctx context.Context, query string, limit int) ([]Post, error)
}
