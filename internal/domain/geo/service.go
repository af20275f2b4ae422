package geo

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/linwei/smartliving/pkg/errors"
	"github.com/linwei/smartliving/pkg/i18n"
)

// Service resolves free-text city names into coordinates.
type Service interface {
	Resolve(ctx context.Context, cityName string, lang i18n.Language) (Place, error)
}

// Geocoder is implemented by the geocoding provider client. A nil second
// return with no error means the provider answered but knew no such city.
type Geocoder interface {
	Search(ctx context.Context, name string, lang i18n.Language) (*Place, error)
}

type service struct {
	geocoder Geocoder
	logger   *slog.Logger
}

// NewService wires up the city resolver.
func NewService(geocoder Geocoder, logger *slog.Logger) Service {
	return &service{
		geocoder: geocoder,
		logger:   logger.With("component", "geo.service"),
	}
}

// Resolve performs a single geocoding attempt, no retries. Unknown city and
// unreachable provider are distinct error codes so callers can tell the
// difference.
func (s *service) Resolve(ctx context.Context, cityName string, lang i18n.Language) (Place, error) {
	name := strings.TrimSpace(cityName)
	if name == "" {
		return Place{}, apperrors.Wrap("invalid_input", "city name cannot be empty", nil)
	}

	place, err := s.geocoder.Search(ctx, name, lang)
	if err != nil {
		return Place{}, apperrors.Wrap("geo_unavailable", "geocoding provider unreachable", err)
	}
	if place == nil {
		s.logger.Info("city not found", "city", name)
		return Place{}, apperrors.Wrap("city_not_found", "no match for city name", nil)
	}
	s.logger.Info("city resolved", "city", name, "name", place.Name, "lat", place.Latitude, "lon", place.Longitude)
	return *place, nil
}
