// Package photos picks a background photograph for the current city.
package photos

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linwei/smartliving/internal/infra/pexels"
)

// Service resolves a city name to a background image URL. It never fails:
// provider errors and empty results both degrade to the fixed default photo.
type Service interface {
	CityBackground(ctx context.Context, city string) string
}

// PhotoClient is implemented by the photo provider.
type PhotoClient interface {
	Search(ctx context.Context, query string) (*pexels.Photo, error)
}

// Config carries the fallback image used when every search comes up empty.
type Config struct {
	FallbackURL string
}

type service struct {
	cfg    Config
	client PhotoClient
	logger *slog.Logger
}

// NewService wires up the background photo picker.
func NewService(cfg Config, client PhotoClient, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		client: client,
		logger: logger.With("component", "photos.service"),
	}
}

// CityBackground tries a scenery-biased query first, then the bare city name,
// then the fixed default.
func (s *service) CityBackground(ctx context.Context, city string) string {
	city = strings.TrimSpace(city)
	if city == "" {
		return s.cfg.FallbackURL
	}

	photo, err := s.client.Search(ctx, fmt.Sprintf("%s city skyline landmark", city))
	if err != nil {
		s.logger.Warn("photo search failed, using fallback image", "city", city, "error", err)
		return s.cfg.FallbackURL
	}
	if photo == nil {
		photo, err = s.client.Search(ctx, city)
		if err != nil || photo == nil {
			if err != nil {
				s.logger.Warn("alternate photo search failed", "city", city, "error", err)
			}
			return s.cfg.FallbackURL
		}
	}
	if photo.URL == "" {
		return s.cfg.FallbackURL
	}
	return photo.URL
}
