package plantrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/linwei/smartliving/internal/domain/plants"
	"github.com/linwei/smartliving/pkg/i18n"
)

// MemoryRepository keeps the plant catalog and gardens in process memory.
type MemoryRepository struct {
	mu         sync.RWMutex
	catalog    map[string]plants.Plant
	order      []string
	userPlants map[string]plants.UserPlant
	records    map[string][]plants.CareRecord
}

// NewMemoryRepository constructs the repository, optionally seeded with a
// starter catalog.
func NewMemoryRepository(seed ...plants.Plant) *MemoryRepository {
	repo := &MemoryRepository{
		catalog:    make(map[string]plants.Plant),
		userPlants: make(map[string]plants.UserPlant),
		records:    make(map[string][]plants.CareRecord),
	}
	for _, plant := range seed {
		repo.catalog[plant.ID] = plant
		repo.order = append(repo.order, plant.ID)
	}
	return repo
}

func (r *MemoryRepository) ListCatalog(_ context.Context) ([]plants.Plant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]plants.Plant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.catalog[id])
	}
	return out, nil
}

func (r *MemoryRepository) GetPlant(_ context.Context, plantID string) (plants.Plant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	plant, ok := r.catalog[plantID]
	return plant, ok, nil
}

func (r *MemoryRepository) FeaturedPlant(_ context.Context) (plants.Plant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if r.catalog[id].IsDailyFeatured {
			return r.catalog[id], true, nil
		}
	}
	return plants.Plant{}, false, nil
}

func (r *MemoryRepository) FirstPlant(_ context.Context) (plants.Plant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return plants.Plant{}, false, nil
	}
	return r.catalog[r.order[0]], true, nil
}

func (r *MemoryRepository) MarkFeatured(_ context.Context, plantID, featuredDate string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if plant, ok := r.catalog[plantID]; ok {
		plant.IsDailyFeatured = true
		plant.FeaturedDate = featuredDate
		r.catalog[plantID] = plant
	}
	return nil
}

func (r *MemoryRepository) SaveCareGuide(_ context.Context, plantID string, lang i18n.Language, guide string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	plant, ok := r.catalog[plantID]
	if !ok {
		return nil
	}
	if lang == i18n.English {
		plant.CareGuideEN = guide
	} else {
		plant.CareGuideZH = guide
	}
	r.catalog[plantID] = plant
	return nil
}

func (r *MemoryRepository) InsertUserPlant(_ context.Context, plant plants.UserPlant) error {
	r.mu.Lock()
	r.userPlants[plant.ID] = plant
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) GetUserPlant(_ context.Context, userID, userPlantID string) (plants.UserPlant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.userPlants[userPlantID]
	if !ok || row.UserID != userID {
		return plants.UserPlant{}, false, nil
	}
	return row, true, nil
}

func (r *MemoryRepository) ListUserPlants(_ context.Context, userID string) ([]plants.UserPlant, error) {
	r.mu.RLock()
	out := make([]plants.UserPlant, 0)
	for _, row := range r.userPlants {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) DeleteUserPlant(_ context.Context, userID, userPlantID string) error {
	r.mu.Lock()
	if row, ok := r.userPlants[userPlantID]; ok && row.UserID == userID {
		delete(r.userPlants, userPlantID)
		delete(r.records, userPlantID)
	}
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) InsertCareRecord(_ context.Context, record plants.CareRecord) error {
	r.mu.Lock()
	r.records[record.UserPlantID] = append(r.records[record.UserPlantID], record)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) ListCareRecords(_ context.Context, userPlantID string) ([]plants.CareRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := r.records[userPlantID]
	out := make([]plants.CareRecord, len(records))
	copy(out, records)
	return out, nil
}
