package feedbackrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linwei/smartliving/internal/domain/feedback"
)

// PostgresRepository implements feedback.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Insert(ctx context.Context, entry feedback.Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_feedback (id, name, email, content, created_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5)
	`, entry.ID, entry.Name, entry.Email, entry.Content, entry.CreatedAt)
	return err
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]feedback.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, COALESCE(name, ''), COALESCE(email, ''), content, created_at
		FROM user_feedback
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []feedback.Entry
	for rows.Next() {
		var e feedback.Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Content, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
