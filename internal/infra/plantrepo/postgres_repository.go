package plantrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linwei/smartliving/internal/domain/plants"
	"github.com/linwei/smartliving/pkg/i18n"
)

// PostgresRepository implements plants.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const plantColumns = `
	id, name_zh, name_en, description_zh, description_en, meaning_zh, meaning_en,
	care_guide_zh, care_guide_en, image_url,
	optimal_temp_min, optimal_temp_max, optimal_humidity_min, optimal_humidity_max,
	is_daily_featured, COALESCE(featured_date::text, ''), created_at`

func scanPlant(row pgx.Row) (plants.Plant, error) {
	var p plants.Plant
	err := row.Scan(&p.ID, &p.NameZH, &p.NameEN, &p.DescriptionZH, &p.DescriptionEN,
		&p.MeaningZH, &p.MeaningEN, &p.CareGuideZH, &p.CareGuideEN, &p.ImageURL,
		&p.OptimalTempMin, &p.OptimalTempMax, &p.OptimalHumidityMin, &p.OptimalHumidityMax,
		&p.IsDailyFeatured, &p.FeaturedDate, &p.CreatedAt)
	return p, err
}

func (r *PostgresRepository) ListCatalog(ctx context.Context) ([]plants.Plant, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+plantColumns+` FROM plants ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []plants.Plant
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetPlant(ctx context.Context, plantID string) (plants.Plant, bool, error) {
	p, err := scanPlant(r.pool.QueryRow(ctx, `SELECT `+plantColumns+` FROM plants WHERE id = $1`, plantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return plants.Plant{}, false, nil
	}
	if err != nil {
		return plants.Plant{}, false, err
	}
	return p, true, nil
}

func (r *PostgresRepository) FeaturedPlant(ctx context.Context) (plants.Plant, bool, error) {
	p, err := scanPlant(r.pool.QueryRow(ctx, `
		SELECT `+plantColumns+` FROM plants WHERE is_daily_featured ORDER BY featured_date DESC LIMIT 1`))
	if errors.Is(err, pgx.ErrNoRows) {
		return plants.Plant{}, false, nil
	}
	if err != nil {
		return plants.Plant{}, false, err
	}
	return p, true, nil
}

func (r *PostgresRepository) FirstPlant(ctx context.Context) (plants.Plant, bool, error) {
	p, err := scanPlant(r.pool.QueryRow(ctx, `SELECT `+plantColumns+` FROM plants ORDER BY created_at LIMIT 1`))
	if errors.Is(err, pgx.ErrNoRows) {
		return plants.Plant{}, false, nil
	}
	if err != nil {
		return plants.Plant{}, false, err
	}
	return p, true, nil
}

func (r *PostgresRepository) MarkFeatured(ctx context.Context, plantID, featuredDate string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE plants SET is_daily_featured = TRUE, featured_date = $2 WHERE id = $1
	`, plantID, featuredDate)
	return err
}

func (r *PostgresRepository) SaveCareGuide(ctx context.Context, plantID string, lang i18n.Language, guide string) error {
	column := "care_guide_zh"
	if lang == i18n.English {
		column = "care_guide_en"
	}
	_, err := r.pool.Exec(ctx, `UPDATE plants SET `+column+` = $2 WHERE id = $1`, plantID, guide)
	return err
}

func (r *PostgresRepository) InsertUserPlant(ctx context.Context, plant plants.UserPlant) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_plants (id, user_id, plant_id, custom_name, image_url, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, plant.ID, plant.UserID, plant.PlantID, plant.CustomName, plant.ImageURL, plant.Notes, plant.CreatedAt, plant.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetUserPlant(ctx context.Context, userID, userPlantID string) (plants.UserPlant, bool, error) {
	var up plants.UserPlant
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, plant_id, custom_name, image_url, notes, created_at, updated_at
		FROM user_plants
		WHERE id = $1 AND user_id = $2
	`, userPlantID, userID).Scan(&up.ID, &up.UserID, &up.PlantID, &up.CustomName, &up.ImageURL, &up.Notes, &up.CreatedAt, &up.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return plants.UserPlant{}, false, nil
	}
	if err != nil {
		return plants.UserPlant{}, false, err
	}
	return up, true, nil
}

func (r *PostgresRepository) ListUserPlants(ctx context.Context, userID string) ([]plants.UserPlant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, plant_id, custom_name, image_url, notes, created_at, updated_at
		FROM user_plants
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []plants.UserPlant
	for rows.Next() {
		var up plants.UserPlant
		if err := rows.Scan(&up.ID, &up.UserID, &up.PlantID, &up.CustomName, &up.ImageURL, &up.Notes, &up.CreatedAt, &up.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, up)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) DeleteUserPlant(ctx context.Context, userID, userPlantID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM user_plants WHERE id = $1 AND user_id = $2
	`, userPlantID, userID)
	return err
}

func (r *PostgresRepository) InsertCareRecord(ctx context.Context, record plants.CareRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO plant_records (id, user_plant_id, action, notes, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, record.ID, record.UserPlantID, record.Action, record.Notes, record.CreatedAt)
	return err
}

func (r *PostgresRepository) ListCareRecords(ctx context.Context, userPlantID string) ([]plants.CareRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_plant_id, action, notes, created_at
		FROM plant_records
		WHERE user_plant_id = $1
		ORDER BY created_at DESC
	`, userPlantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []plants.CareRecord
	for rows.Next() {
		var rec plants.CareRecord
		if err := rows.Scan(&rec.ID, &rec.UserPlantID, &rec.Action, &rec.Notes, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
