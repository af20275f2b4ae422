package plants

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/linwei/smartliving/pkg/errors"
	"github.com/linwei/smartliving/pkg/i18n"
)

// Repository abstracts plant catalog and garden persistence.
type Repository interface {
	ListCatalog(ctx context.Context) ([]Plant, error)
	GetPlant(ctx context.Context, plantID string) (Plant, bool, error)
	FeaturedPlant(ctx context.Context) (Plant, bool, error)
	FirstPlant(ctx context.Context) (Plant, bool, error)
	MarkFeatured(ctx context.Context, plantID, featuredDate string) error
	SaveCareGuide(ctx context.Context, plantID string, lang i18n.Language, guide string) error

	InsertUserPlant(ctx context.Context, plant UserPlant) error
	GetUserPlant(ctx context.Context, userID, userPlantID string) (UserPlant, bool, error)
	ListUserPlants(ctx context.Context, userID string) ([]UserPlant, error)
	DeleteUserPlant(ctx context.Context, userID, userPlantID string) error

	InsertCareRecord(ctx context.Context, record CareRecord) error
	ListCareRecords(ctx context.Context, userPlantID string) ([]CareRecord, error)
}

// GuideGenerator produces a care guide text for a plant name; it never fails.
type GuideGenerator interface {
	CareGuide(ctx context.Context, plantName string, lang i18n.Language) string
}

// Service manages the plant catalog, the daily feature and per-user gardens.
type Service interface {
	Catalog(ctx context.Context) ([]Plant, error)
	DailyFeatured(ctx context.Context) (Plant, bool, error)
	EnsureCareGuide(ctx context.Context, plantID string, lang i18n.Language) (string, error)
	AddToGarden(ctx context.Context, userID string, req AddPlantRequest) (UserPlant, error)
	Garden(ctx context.Context, userID string) ([]UserPlant, error)
	RemoveFromGarden(ctx context.Context, userID, userPlantID string) error
	LogCare(ctx context.Context, userID, userPlantID string, req CareRecordRequest) (CareRecord, error)
	CareLog(ctx context.Context, userID, userPlantID string) ([]CareRecord, error)
}

type service struct {
	repo   Repository
	guides GuideGenerator
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the plant garden domain.
func NewService(repo Repository, guides GuideGenerator, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		guides: guides,
		logger: logger.With("component", "plants.service"),
		now:    time.Now,
	}
}

func (s *service) Catalog(ctx context.Context) ([]Plant, error) {
	rows, err := s.repo.ListCatalog(ctx)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list plant catalog", err)
	}
	return rows, nil
}

// DailyFeatured returns today's featured plant. When no plant is flagged it
// promotes the first catalog entry and stamps the feature date, mirroring the
// landing page behavior.
func (s *service) DailyFeatured(ctx context.Context) (Plant, bool, error) {
	plant, ok, err := s.repo.FeaturedPlant(ctx)
	if err != nil {
		return Plant{}, false, apperrors.Wrap("storage_error", "failed to load featured plant", err)
	}
	if ok {
		return plant, true, nil
	}

	plant, ok, err = s.repo.FirstPlant(ctx)
	if err != nil {
		return Plant{}, false, apperrors.Wrap("storage_error", "failed to pick featured plant", err)
	}
	if !ok {
		return Plant{}, false, nil
	}

	date := s.now().UTC().Format("2006-01-02")
	if err := s.repo.MarkFeatured(ctx, plant.ID, date); err != nil {
		return Plant{}, false, apperrors.Wrap("storage_error", "failed to mark featured plant", err)
	}
	plant.IsDailyFeatured = true
	plant.FeaturedDate = date
	return plant, true, nil
}

// EnsureCareGuide returns the stored guide for the language, generating and
// persisting one when missing.
func (s *service) EnsureCareGuide(ctx context.Context, plantID string, lang i18n.Language) (string, error) {
	plant, ok, err := s.repo.GetPlant(ctx, plantID)
	if err != nil {
		return "", apperrors.Wrap("storage_error", "failed to load plant", err)
	}
	if !ok {
		return "", apperrors.Wrap("not_found", "plant does not exist", nil)
	}

	if guide := storedGuide(plant, lang); guide != "" {
		return guide, nil
	}

	name := i18n.T(lang, plant.NameZH, plant.NameEN)
	guide := s.guides.CareGuide(ctx, name, lang)
	if err := s.repo.SaveCareGuide(ctx, plant.ID, lang, guide); err != nil {
		// the generated guide is still usable even if persisting it failed
		s.logger.Warn("failed to persist care guide", "plant", plant.ID, "error", err)
	}
	return guide, nil
}

func storedGuide(plant Plant, lang i18n.Language) string {
	if lang == i18n.English {
		return plant.CareGuideEN
	}
	return plant.CareGuideZH
}

func (s *service) AddToGarden(ctx context.Context, userID string, req AddPlantRequest) (UserPlant, error) {
	if strings.TrimSpace(req.PlantID) == "" {
		return UserPlant{}, apperrors.Wrap("invalid_input", "plantId cannot be empty", nil)
	}
	if _, ok, err := s.repo.GetPlant(ctx, req.PlantID); err != nil {
		return UserPlant{}, apperrors.Wrap("storage_error", "failed to load plant", err)
	} else if !ok {
		return UserPlant{}, apperrors.Wrap("not_found", "plant does not exist", nil)
	}

	now := s.now().UTC()
	plant := UserPlant{
		ID:         uuid.NewString(),
		UserID:     userID,
		PlantID:    req.PlantID,
		CustomName: strings.TrimSpace(req.CustomName),
		ImageURL:   strings.TrimSpace(req.ImageURL),
		Notes:      strings.TrimSpace(req.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.InsertUserPlant(ctx, plant); err != nil {
		return UserPlant{}, apperrors.Wrap("storage_error", "failed to add plant to garden", err)
	}
	s.logger.Info("plant added to garden", "plant", plant.PlantID)
	return plant, nil
}

func (s *service) Garden(ctx context.Context, userID string) ([]UserPlant, error) {
	rows, err := s.repo.ListUserPlants(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list garden", err)
	}
	return rows, nil
}

func (s *service) RemoveFromGarden(ctx context.Context, userID, userPlantID string) error {
	if err := s.repo.DeleteUserPlant(ctx, userID, userPlantID); err != nil {
		return apperrors.Wrap("storage_error", "failed to remove plant", err)
	}
	return nil
}

// LogCare appends a care record to one of the caller's plants. The plant must
// belong to the caller; somebody else's plant reads as not_found.
func (s *service) LogCare(ctx context.Context, userID, userPlantID string, req CareRecordRequest) (CareRecord, error) {
	if strings.TrimSpace(req.Action) == "" {
		return CareRecord{}, apperrors.Wrap("invalid_input", "action cannot be empty", nil)
	}
	if err := s.ensureOwnership(ctx, userID, userPlantID); err != nil {
		return CareRecord{}, err
	}
	record := CareRecord{
		ID:          uuid.NewString(),
		UserPlantID: userPlantID,
		Action:      strings.TrimSpace(req.Action),
		Notes:       strings.TrimSpace(req.Notes),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.InsertCareRecord(ctx, record); err != nil {
		return CareRecord{}, apperrors.Wrap("storage_error", "failed to log care record", err)
	}
	return record, nil
}

func (s *service) CareLog(ctx context.Context, userID, userPlantID string) ([]CareRecord, error) {
	if err := s.ensureOwnership(ctx, userID, userPlantID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListCareRecords(ctx, userPlantID)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list care records", err)
	}
	return rows, nil
}

func (s *service) ensureOwnership(ctx context.Context, userID, userPlantID string) error {
	_, ok, err := s.repo.GetUserPlant(ctx, userID, userPlantID)
	if err != nil {
		return apperrors.Wrap("storage_error", "failed to load user plant", err)
	}
	if !ok {
		return apperrors.Wrap("not_found", "plant is not in your garden", nil)
	}
	return nil
}
