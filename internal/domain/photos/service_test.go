package photos

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linwei/smartliving/internal/infra/pexels"
)

type stubPhotoClient struct {
	results map[string]*pexels.Photo
	err     error
	queries []string
}

func (s *stubPhotoClient) Search(_ context.Context, query string) (*pexels.Photo, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.results[query], nil
}

const fallback = "https://images.example.com/default.jpg"

func newTestService(client PhotoClient) Service {
	return NewService(Config{FallbackURL: fallback}, client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCityBackgroundPrimaryQuery(t *testing.T) {
	client := &stubPhotoClient{results: map[string]*pexels.Photo{
		"Tokyo city skyline landmark": {URL: "https://images.example.com/tokyo.jpg"},
	}}
	svc := newTestService(client)

	url := svc.CityBackground(context.Background(), "Tokyo")
	require.Equal(t, "https://images.example.com/tokyo.jpg", url)
	require.Equal(t, []string{"Tokyo city skyline landmark"}, client.queries)
}

func TestCityBackgroundAlternateQuery(t *testing.T) {
	client := &stubPhotoClient{results: map[string]*pexels.Photo{
		"Oslo": {URL: "https://images.example.com/oslo.jpg"},
	}}
	svc := newTestService(client)

	url := svc.CityBackground(context.Background(), "Oslo")
	require.Equal(t, "https://images.example.com/oslo.jpg", url)
	require.Equal(t, []string{"Oslo city skyline landmark", "Oslo"}, client.queries)
}

func TestCityBackgroundFallbackOnEmptyResults(t *testing.T) {
	svc := newTestService(&stubPhotoClient{})
	require.Equal(t, fallback, svc.CityBackground(context.Background(), "Nowhere"))
}

func TestCityBackgroundFallbackOnError(t *testing.T) {
	svc := newTestService(&stubPhotoClient{err: errors.New("rate limited")})
	require.Equal(t, fallback, svc.CityBackground(context.Background(), "Paris"))
}

func TestCityBackgroundEmptyCity(t *testing.T) {
	client := &stubPhotoClient{}
	svc := newTestService(client)
	require.Equal(t, fallback, svc.CityBackground(context.Background(), "  "))
	require.Empty(t, client.queries, "no provider call for an empty city")
}
