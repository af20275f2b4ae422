package readingstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linwei/smartliving/internal/domain/environment"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	reading := environment.StoredReading{City: "北京", Temperature: 21, Humidity: 55, PM25: 42}
	require.NoError(t, store.Upsert(ctx, reading, time.Minute))

	got, ok, err := store.Get(ctx, "北京")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, reading, got)

	// keys are case-insensitive and whitespace-insensitive
	got, ok, err = store.Get(ctx, "  北京 ")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, reading, got)

	_, ok, err = store.Get(ctx, "上海")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreUpsertOverwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, environment.StoredReading{City: "Tokyo", Temperature: 18}, time.Minute))
	require.NoError(t, store.Upsert(ctx, environment.StoredReading{City: "tokyo", Temperature: 25}, time.Minute))

	got, ok, err := store.Get(ctx, "Tokyo")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 25, got.Temperature)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, environment.StoredReading{City: "Oslo"}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := store.Get(ctx, "Oslo")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, environment.StoredReading{City: "Oslo"}, 0))
	time.Sleep(2 * time.Millisecond)

	_, ok, err := store.Get(ctx, "Oslo")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestTopCitiesOrdering(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.BumpCity(ctx, "北京"))
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, store.BumpCity(ctx, "上海"))
	}
	require.NoError(t, store.BumpCity(ctx, "广州"))
	require.NoError(t, store.BumpCity(ctx, "   "))

	cities, err := store.TopCities(ctx, 2)
	require.NoError(t, err)
	require.Len(t, cities, 2)
	require.Equal(t, "上海", cities[0].Name)
	require.EqualValues(t, 5, cities[0].Queries)
	require.Equal(t, "北京", cities[1].Name)

	all, err := store.TopCities(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3, "blank city names are not ranked")
}

func TestBumpCityKeepsFirstSeenDisplayName(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.BumpCity(ctx, "Tokyo"))
	require.NoError(t, store.BumpCity(ctx, "TOKYO"))

	cities, err := store.TopCities(ctx, 10)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	require.Equal(t, "Tokyo", cities[0].Name)
	require.EqualValues(t, 2, cities[0].Queries)
}
