package devicerepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linwei/smartliving/internal/domain/devices"
)

// PostgresRepository implements devices.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Insert(ctx context.Context, device devices.Device) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO iot_devices (id, user_id, device_name, device_type, location, is_online, temperature, humidity, last_update, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, device.ID, device.UserID, device.Name, device.Type, device.Location, device.IsOnline, device.Temperature, device.Humidity, device.LastUpdate, device.CreatedAt)
	return err
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]devices.Device, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, device_name, device_type, location, is_online, temperature, humidity, last_update, created_at
		FROM iot_devices
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []devices.Device
	for rows.Next() {
		var d devices.Device
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Type, &d.Location, &d.IsOnline, &d.Temperature, &d.Humidity, &d.LastUpdate, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, deviceID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM iot_devices WHERE id = $1 AND user_id = $2
	`, deviceID, userID)
	return err
}
