package readingstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/linwei/smartliving/internal/domain/environment"
)

// ValkeyStore persists per-city readings and the trending rank in a
// Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "env"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Upsert overwrites the last good reading for the city, last-write-wins.
func (s *ValkeyStore) Upsert(ctx context.Context, reading environment.StoredReading, ttl time.Duration) error {
	payload, err := json.Marshal(reading)
	if err != nil {
		return err
	}
	key := s.readingKey(reading.City)
	if ttl > 0 {
		cmd := s.client.B().Set().Key(key).Value(string(payload)).Ex(ttl).Build()
		return s.client.Do(ctx, cmd).Error()
	}
	cmd := s.client.B().Set().Key(key).Value(string(payload)).Build()
	return s.client.Do(ctx, cmd).Error()
}

// Get returns the last good reading for the city, if any.
func (s *ValkeyStore) Get(ctx context.Context, city string) (environment.StoredReading, bool, error) {
	cmd := s.client.B().Get().Key(s.readingKey(city)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return environment.StoredReading{}, false, nil
		}
		return environment.StoredReading{}, false, err
	}
	var reading environment.StoredReading
	if err := json.Unmarshal([]byte(payload), &reading); err != nil {
		return environment.StoredReading{}, false, err
	}
	return reading, true, nil
}

// BumpCity increments the query rank for the city.
func (s *ValkeyStore) BumpCity(ctx context.Context, city string) error {
	canonical := cityKey(city)
	if canonical == "" {
		return nil
	}
	if err := s.client.Do(ctx, s.client.B().Zincrby().Key(s.trendingKey()).Increment(1).Member(canonical).Build()).Error(); err != nil {
		return err
	}
	// keep the original display casing alongside the canonical member
	_ = s.client.Do(ctx, s.client.B().Set().Key(s.displayKey(canonical)).Value(city).Nx().Build()).Error()
	return nil
}

// TopCities lists the most queried cities, highest rank first.
func (s *ValkeyStore) TopCities(ctx context.Context, limit int) ([]environment.TrendingCity, error) {
	if limit <= 0 {
		limit = 10
	}
	resp := s.client.Do(ctx, s.client.B().Zrevrange().Key(s.trendingKey()).Start(0).Stop(int64(limit-1)).Withscores().Build())
	arr, err := resp.ToArray()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]environment.TrendingCity, 0, len(arr))
	for i := 0; i < len(arr); {
		var (
			member string
			score  float64
		)
		if tuple, tupleErr := arr[i].ToArray(); tupleErr == nil && len(tuple) == 2 {
			// RESP3 returns [member, score] per element
			if member, err = tuple[0].ToString(); err != nil {
				return nil, err
			}
			if score, err = tuple[1].AsFloat64(); err != nil {
				return nil, err
			}
			i++
		} else {
			// RESP2 returns a flat member, score, member, score list
			if i+1 >= len(arr) {
				break
			}
			if member, err = arr[i].ToString(); err != nil {
				return nil, err
			}
			raw, strErr := arr[i+1].ToString()
			if strErr != nil {
				return nil, strErr
			}
			if score, err = strconv.ParseFloat(raw, 64); err != nil {
				return nil, err
			}
			i += 2
		}

		display := member
		if name, nameErr := s.client.Do(ctx, s.client.B().Get().Key(s.displayKey(member)).Build()).ToString(); nameErr == nil && name != "" {
			display = name
		}
		out = append(out, environment.TrendingCity{Name: display, Queries: int64(score)})
	}
	return out, nil
}

func (s *ValkeyStore) readingKey(city string) string {
	return fmt.Sprintf("%s:reading:%s", s.prefix, cityKey(city))
}

func (s *ValkeyStore) trendingKey() string {
	return s.prefix + ":trending"
}

func (s *ValkeyStore) displayKey(canonical string) string {
	return fmt.Sprintf("%s:city:%s", s.prefix, strings.ToLower(canonical))
}
