package plants

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/linwei/smartliving/pkg/errors"
	"github.com/linwei/smartliving/pkg/i18n"
)

type stubRepository struct {
	catalog     []Plant
	featured    *Plant
	featuredErr error

	markedPlant string
	markedDate  string

	savedGuides map[string]string
	saveErr     error

	userPlants []UserPlant
	records    []CareRecord
}

func (s *stubRepository) ListCatalog(_ context.Context) ([]Plant, error) {
	return s.catalog, nil
}

func (s *stubRepository) GetPlant(_ context.Context, plantID string) (Plant, bool, error) {
	for _, p := range s.catalog {
		if p.ID == plantID {
			return p, true, nil
		}
	}
	return Plant{}, false, nil
}

func (s *stubRepository) FeaturedPlant(_ context.Context) (Plant, bool, error) {
	if s.featuredErr != nil {
		return Plant{}, false, s.featuredErr
	}
	if s.featured == nil {
		return Plant{}, false, nil
	}
	return *s.featured, true, nil
}

func (s *stubRepository) FirstPlant(_ context.Context) (Plant, bool, error) {
	if len(s.catalog) == 0 {
		return Plant{}, false, nil
	}
	return s.catalog[0], true, nil
}

func (s *stubRepository) MarkFeatured(_ context.Context, plantID, featuredDate string) error {
	s.markedPlant = plantID
	s.markedDate = featuredDate
	return nil
}

func (s *stubRepository) SaveCareGuide(_ context.Context, plantID string, lang i18n.Language, guide string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.savedGuides == nil {
		s.savedGuides = make(map[string]string)
	}
	s.savedGuides[plantID+"/"+string(lang)] = guide
	return nil
}

func (s *stubRepository) InsertUserPlant(_ context.Context, plant UserPlant) error {
	s.userPlants = append(s.userPlants, plant)
	return nil
}

func (s *stubRepository) ListUserPlants(_ context.Context, userID string) ([]UserPlant, error) {
	var out []UserPlant
	for _, p := range s.userPlants {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubRepository) GetUserPlant(_ context.Context, userID, userPlantID string) (UserPlant, bool, error) {
	for _, p := range s.userPlants {
		if p.ID == userPlantID && p.UserID == userID {
			return p, true, nil
		}
	}
	return UserPlant{}, false, nil
}

func (s *stubRepository) DeleteUserPlant(_ context.Context, _, _ string) error { return nil }

func (s *stubRepository) InsertCareRecord(_ context.Context, record CareRecord) error {
	s.records = append(s.records, record)
	return nil
}

func (s *stubRepository) ListCareRecords(_ context.Context, _ string) ([]CareRecord, error) {
	return s.records, nil
}

type stubGuides struct {
	guide string
	calls int
}

func (s *stubGuides) CareGuide(_ context.Context, _ string, _ i18n.Language) string {
	s.calls++
	return s.guide
}

func newTestService(repo Repository, guides GuideGenerator) *service {
	return &service{
		repo:   repo,
		guides: guides,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) },
	}
}

func TestDailyFeaturedReturnsFlaggedPlant(t *testing.T) {
	repo := &stubRepository{
		catalog:  []Plant{{ID: "pothos"}, {ID: "spider-plant"}},
		featured: &Plant{ID: "spider-plant", IsDailyFeatured: true},
	}
	svc := newTestService(repo, &stubGuides{})

	plant, ok, err := svc.DailyFeatured(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "spider-plant", plant.ID)
	require.Empty(t, repo.markedPlant, "no promotion when a plant is already featured")
}

func TestDailyFeaturedPromotesFirstCatalogEntry(t *testing.T) {
	repo := &stubRepository{catalog: []Plant{{ID: "pothos"}, {ID: "spider-plant"}}}
	svc := newTestService(repo, &stubGuides{})

	plant, ok, err := svc.DailyFeatured(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "pothos", plant.ID)
	require.True(t, plant.IsDailyFeatured)
	require.Equal(t, "2024-05-01", plant.FeaturedDate)
	require.Equal(t, "pothos", repo.markedPlant)
	require.Equal(t, "2024-05-01", repo.markedDate)
}

func TestDailyFeaturedEmptyCatalog(t *testing.T) {
	svc := newTestService(&stubRepository{}, &stubGuides{})

	_, ok, err := svc.DailyFeatured(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEnsureCareGuideReturnsStoredGuide(t *testing.T) {
	guides := &stubGuides{guide: "generated"}
	repo := &stubRepository{catalog: []Plant{{
		ID:          "pothos",
		CareGuideZH: "浇水指南",
		CareGuideEN: "watering guide",
	}}}
	svc := newTestService(repo, guides)

	guide, err := svc.EnsureCareGuide(context.Background(), "pothos", i18n.Chinese)
	require.NoError(t, err)
	require.Equal(t, "浇水指南", guide)

	guide, err = svc.EnsureCareGuide(context.Background(), "pothos", i18n.English)
	require.NoError(t, err)
	require.Equal(t, "watering guide", guide)

	require.Zero(t, guides.calls)
}

func TestEnsureCareGuideGeneratesAndPersists(t *testing.T) {
	guides := &stubGuides{guide: "generated guide"}
	repo := &stubRepository{catalog: []Plant{{ID: "pothos", NameZH: "绿萝", NameEN: "Pothos"}}}
	svc := newTestService(repo, guides)

	guide, err := svc.EnsureCareGuide(context.Background(), "pothos", i18n.English)
	require.NoError(t, err)
	require.Equal(t, "generated guide", guide)
	require.Equal(t, 1, guides.calls)
	require.Equal(t, "generated guide", repo.savedGuides["pothos/"+string(i18n.English)])
}

func TestEnsureCareGuidePersistFailureStillReturnsGuide(t *testing.T) {
	guides := &stubGuides{guide: "generated guide"}
	repo := &stubRepository{
		catalog: []Plant{{ID: "pothos"}},
		saveErr: errors.New("db down"),
	}
	svc := newTestService(repo, guides)

	guide, err := svc.EnsureCareGuide(context.Background(), "pothos", i18n.Chinese)
	require.NoError(t, err)
	require.Equal(t, "generated guide", guide)
}

func TestEnsureCareGuideUnknownPlant(t *testing.T) {
	svc := newTestService(&stubRepository{}, &stubGuides{})

	_, err := svc.EnsureCareGuide(context.Background(), "missing", i18n.Chinese)
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestAddToGardenValidatesPlant(t *testing.T) {
	repo := &stubRepository{catalog: []Plant{{ID: "pothos"}}}
	svc := newTestService(repo, &stubGuides{})

	_, err := svc.AddToGarden(context.Background(), "u1", AddPlantRequest{PlantID: ""})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.AddToGarden(context.Background(), "u1", AddPlantRequest{PlantID: "missing"})
	require.True(t, apperrors.IsCode(err, "not_found"))

	plant, err := svc.AddToGarden(context.Background(), "u1", AddPlantRequest{PlantID: "pothos", CustomName: " 阳台绿萝 "})
	require.NoError(t, err)
	require.NotEmpty(t, plant.ID)
	require.Equal(t, "阳台绿萝", plant.CustomName)
	require.Len(t, repo.userPlants, 1)
}

func TestLogCareRequiresAction(t *testing.T) {
	repo := &stubRepository{userPlants: []UserPlant{{ID: "up-1", UserID: "u1"}}}
	svc := newTestService(repo, &stubGuides{})

	_, err := svc.LogCare(context.Background(), "u1", "up-1", CareRecordRequest{Action: "  "})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	record, err := svc.LogCare(context.Background(), "u1", "up-1", CareRecordRequest{Action: "water", Notes: "weekly"})
	require.NoError(t, err)
	require.Equal(t, "water", record.Action)
	require.Equal(t, "up-1", record.UserPlantID)
	require.Len(t, repo.records, 1)
}

func TestCareLogScopedToOwner(t *testing.T) {
	repo := &stubRepository{userPlants: []UserPlant{{ID: "up-1", UserID: "user-a"}}}
	svc := newTestService(repo, &stubGuides{})

	record, err := svc.LogCare(context.Background(), "user-a", "up-1", CareRecordRequest{Action: "water"})
	require.NoError(t, err)

	// another user can neither append to nor read the log
	_, err = svc.LogCare(context.Background(), "user-b", "up-1", CareRecordRequest{Action: "water"})
	require.True(t, apperrors.IsCode(err, "not_found"))
	require.Len(t, repo.records, 1)

	_, err = svc.CareLog(context.Background(), "user-b", "up-1")
	require.True(t, apperrors.IsCode(err, "not_found"))

	rows, err := svc.CareLog(context.Background(), "user-a", "up-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, record.ID, rows[0].ID)
}

func TestLogCareUnknownUserPlant(t *testing.T) {
	repo := &stubRepository{}
	svc := newTestService(repo, &stubGuides{})

	_, err := svc.LogCare(context.Background(), "u1", "no-such-plant", CareRecordRequest{Action: "water"})
	require.True(t, apperrors.IsCode(err, "not_found"))
	require.Empty(t, repo.records)
}
