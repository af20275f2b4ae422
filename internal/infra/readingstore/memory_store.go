package readingstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/linwei/smartliving/internal/domain/environment"
)

type entry struct {
	payload   environment.StoredReading
	expiresAt time.Time
}

// MemoryStore is an in-memory reading store for tests and single-node dev runs.
type MemoryStore struct {
	mu       sync.RWMutex
	readings map[string]entry
	trending map[string]int64
	names    map[string]string
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		readings: make(map[string]entry),
		trending: make(map[string]int64),
		names:    make(map[string]string),
	}
}

// Upsert overwrites the last good reading for the city, last-write-wins.
func (s *MemoryStore) Upsert(_ context.Context, reading environment.StoredReading, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.readings[cityKey(reading.City)] = entry{payload: reading, expiresAt: exp}
	return nil
}

// Get returns the last good reading for the city, if any.
func (s *MemoryStore) Get(_ context.Context, city string) (environment.StoredReading, bool, error) {
	key := cityKey(city)
	s.mu.RLock()
	record, ok := s.readings[key]
	s.mu.RUnlock()
	if !ok {
		return environment.StoredReading{}, false, nil
	}
	if hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.readings, key)
		s.mu.Unlock()
		return environment.StoredReading{}, false, nil
	}
	return record.payload, true, nil
}

// BumpCity increments the query rank for the city.
func (s *MemoryStore) BumpCity(_ context.Context, city string) error {
	if strings.TrimSpace(city) == "" {
		return nil
	}
	s.mu.Lock()
	s.trending[cityKey(city)]++
	if _, ok := s.names[cityKey(city)]; !ok {
		s.names[cityKey(city)] = city
	}
	s.mu.Unlock()
	return nil
}

// TopCities lists the most queried cities, highest rank first.
func (s *MemoryStore) TopCities(_ context.Context, limit int) ([]environment.TrendingCity, error) {
	if limit <= 0 {
		limit = 10
	}
	s.mu.RLock()
	out := make([]environment.TrendingCity, 0, len(s.trending))
	for key, count := range s.trending {
		name := s.names[key]
		if name == "" {
			name = key
		}
		out = append(out, environment.TrendingCity{Name: name, Queries: count})
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Queries == out[j].Queries {
			return out[i].Name < out[j].Name
		}
		return out[i].Queries > out[j].Queries
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cityKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

func hasExpired(expiresAt time.Time) bool {
	return !expiresAt.IsZero() && time.Now().After(expiresAt)
}
