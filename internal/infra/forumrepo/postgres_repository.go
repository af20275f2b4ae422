package forumrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/linwei/smartliving/internal/domain/forum"
)

// PostgresRepository implements forum.Repository using pgx. Post embeddings
// live in a pgvector column on forum_posts; like and comment counters are
// maintained inside the mutating statements.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const postColumns = `
	p.id, p.user_id, COALESCE(pr.username, ''), p.category, p.title,
	COALESCE(p.content, ''), COALESCE(p.image_url, ''), p.temperature, p.humidity,
	p.likes_count, p.comments_count, p.created_at, p.updated_at`

const postJoin = ` FROM forum_posts p LEFT JOIN profiles pr ON pr.id = p.user_id`

func scanPost(row pgx.Row, extras ...any) (forum.Post, error) {
	var p forum.Post
	dest := []any{&p.ID, &p.UserID, &p.AuthorName, &p.Category, &p.Title,
		&p.Content, &p.ImageURL, &p.Temperature, &p.Humidity,
		&p.LikesCount, &p.CommentsCount, &p.CreatedAt, &p.UpdatedAt}
	dest = append(dest, extras...)
	err := row.Scan(dest...)
	return p, err
}

func (r *PostgresRepository) InsertPost(ctx context.Context, post forum.Post, embedding []float32) error {
	var vec any
	if len(embedding) > 0 {
		vec = pgvector.NewVector(embedding)
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO forum_posts (id, user_id, category, title, content, image_url, temperature, humidity, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, post.ID, post.UserID, post.Category, post.Title, post.Content, post.ImageURL,
		post.Temperature, post.Humidity, vec, post.CreatedAt, post.UpdatedAt)
	return err
}

func (r *PostgresRepository) ListPosts(ctx context.Context, category string, limit int) ([]forum.Post, error) {
	query := `SELECT ` + postColumns + postJoin
	args := []any{limit}
	if category != "" {
		query += ` WHERE p.category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY p.created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []forum.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetPost(ctx context.Context, postID string) (forum.Post, bool, error) {
	p, err := scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+postJoin+` WHERE p.id = $1`, postID))
	if errors.Is(err, pgx.ErrNoRows) {
		return forum.Post{}, false, nil
	}
	if err != nil {
		return forum.Post{}, false, err
	}
	return p, true, nil
}

func (r *PostgresRepository) InsertComment(ctx context.Context, comment forum.Comment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO forum_comments (id, post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, comment.ID, comment.PostID, comment.UserID, comment.Content, comment.CreatedAt); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE forum_posts SET comments_count = comments_count + 1 WHERE id = $1
	`, comment.PostID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepository) ListComments(ctx context.Context, postID string) ([]forum.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.post_id, c.user_id, COALESCE(pr.username, ''), c.content, c.created_at
		FROM forum_comments c
		LEFT JOIN profiles pr ON pr.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []forum.Comment
	for rows.Next() {
		var c forum.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.AuthorName, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) HasLike(ctx context.Context, postID, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM forum_likes WHERE post_id = $1 AND user_id = $2)
	`, postID, userID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) InsertLike(ctx context.Context, postID, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO forum_likes (post_id, user_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, postID, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE forum_posts SET likes_count = likes_count + 1 WHERE id = $1
	`, postID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepository) DeleteLike(ctx context.Context, postID, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		DELETE FROM forum_likes WHERE post_id = $1 AND user_id = $2
	`, postID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx, `
			UPDATE forum_posts SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = $1
		`, postID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepository) NearestPosts(ctx context.Context, embedding []float32, limit int) ([]forum.SearchMatch, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+postColumns+`, p.embedding <-> $1 AS distance`+postJoin+`
		WHERE p.embedding IS NOT NULL
		ORDER BY p.embedding <-> $1
		LIMIT $2
	`, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []forum.SearchMatch
	for rows.Next() {
		var distance float64
		p, err := scanPost(rows, &distance)
		if err != nil {
			return nil, err
		}
		out = append(out, forum.SearchMatch{Post: p, Distance: distance})
	}
	return out, rows.Err()
}

func (r *PostgresRepository) KeywordPosts(ctx context.Context, query string, limit int) ([]forum.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+postColumns+postJoin+`
		WHERE p.title ILIKE '%' || $1 || '%' OR p.content ILIKE '%' || $1 || '%'
		ORDER BY p.created_at DESC
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []forum.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
