package feedbackrepo

import (
	"context"
	"sync"

	"github.com/linwei/smartliving/internal/domain/feedback"
)

// MemoryRepository keeps feedback entries in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []feedback.Entry
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Insert(_ context.Context, entry feedback.Entry) error {
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) List(_ context.Context, limit int) ([]feedback.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]feedback.Entry, 0, limit)
	// newest first
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
