package devicerepo

import (
	"context"
	"sort"
	"sync"

	"github.com/linwei/smartliving/internal/domain/devices"
)

// MemoryRepository keeps devices in process memory for tests and dev runs.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]devices.Device
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]devices.Device)}
}

func (r *MemoryRepository) Insert(_ context.Context, device devices.Device) error {
	r.mu.Lock()
	r.rows[device.ID] = device
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]devices.Device, error) {
	r.mu.RLock()
	out := make([]devices.Device, 0, len(r.rows))
	for _, row := range r.rows {
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

func (r *MemoryRepository) Delete(_ context.Context, userID, deviceID string) error {
	r.mu.Lock()
	if row, ok := r.rows[deviceID]; ok && row.UserID == userID {
		delete(r.rows, deviceID)
	}
	r.mu.Unlock()
	return nil
}
