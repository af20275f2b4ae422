package environment

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/linwei/smartliving/internal/domain/geo"
	"github.com/linwei/smartliving/internal/infra/openmeteo"
	apperrors "github.com/linwei/smartliving/pkg/errors"
	"github.com/linwei/smartliving/pkg/i18n"
)

// Defaults applied when the provider answers without a field. PM2.5 also
// falls back to its default when the whole air quality call fails.
const (
	DefaultTemperature = 20
	DefaultHumidity    = 60
	DefaultPM25        = 50
)

// Service aggregates geocoding, weather and air quality into one reading.
type Service interface {
	Snapshot(ctx context.Context, cityName string, lang i18n.Language) (Reading, error)
	LastKnown(ctx context.Context, cityName string) (StoredReading, bool, error)
	TrendingCities(ctx context.Context, limit int) ([]TrendingCity, error)
}

// WeatherClient is the current-conditions provider.
type WeatherClient interface {
	CurrentConditions(ctx context.Context, lat, lon float64) (openmeteo.Conditions, error)
}

// AirQualityClient is the PM2.5 provider.
type AirQualityClient interface {
	CurrentPM25(ctx context.Context, lat, lon float64) (*float64, error)
}

// Store keeps the last good reading per city and the trending rank.
type Store interface {
	Upsert(ctx context.Context, reading StoredReading, ttl time.Duration) error
	Get(ctx context.Context, city string) (StoredReading, bool, error)
	BumpCity(ctx context.Context, city string) error
	TopCities(ctx context.Context, limit int) ([]TrendingCity, error)
}

// Config wires runtime knobs for the aggregator.
type Config struct {
	ReadingTTL time.Duration
}

type service struct {
	cfg        Config
	resolver   geo.Service
	weather    WeatherClient
	airQuality AirQualityClient
	store      Store
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires up the weather and air quality aggregator.
func NewService(cfg Config, resolver geo.Service, weather WeatherClient, airQuality AirQualityClient, store Store, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		resolver:   resolver,
		weather:    weather,
		airQuality: airQuality,
		store:      store,
		logger:     logger.With("component", "environment.service"),
		now:        time.Now,
	}
}

// Snapshot chains city resolution, the weather call and the PM2.5 call. The
// air quality fetch runs only after weather succeeded and its failure never
// fails the snapshot; it degrades to the neutral default instead.
func (s *service) Snapshot(ctx context.Context, cityName string, lang i18n.Language) (Reading, error) {
	place, err := s.resolver.Resolve(ctx, cityName, lang)
	if err != nil {
		return Reading{}, err
	}

	conditions, err := s.weather.CurrentConditions(ctx, place.Latitude, place.Longitude)
	if err != nil {
		// Sentinel result: zeroed fields, nothing persisted.
		s.logger.Warn("weather fetch failed", "city", place.Name, "error", err)
		return Reading{Valid: false, CityName: place.Name}, nil
	}

	reading := Reading{
		Temperature: roundOrDefault(conditions.Temperature, DefaultTemperature),
		Humidity:    roundOrDefault(conditions.Humidity, DefaultHumidity),
		PM25:        DefaultPM25,
		Valid:       true,
		CityName:    place.Name,
		Country:     place.Country,
		UpdatedAt:   s.now().UTC().Format(time.RFC3339),
	}

	pm25, err := s.airQuality.CurrentPM25(ctx, place.Latitude, place.Longitude)
	if err != nil {
		s.logger.Warn("air quality fetch failed, using default", "city", place.Name, "error", err)
	} else if pm25 != nil {
		reading.PM25 = int(math.Round(*pm25))
	}

	s.persist(ctx, reading)
	s.logger.Info("environment snapshot", "city", reading.CityName, "temperature", reading.Temperature, "humidity", reading.Humidity, "pm25", reading.PM25)
	return reading, nil
}

// persist is best effort; a broken cache must not fail the snapshot.
func (s *service) persist(ctx context.Context, reading Reading) {
	stored := StoredReading{
		City:        reading.CityName,
		Temperature: reading.Temperature,
		Humidity:    reading.Humidity,
		PM25:        reading.PM25,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.store.Upsert(ctx, stored, s.cfg.ReadingTTL); err != nil {
		s.logger.Warn("reading upsert failed", "city", stored.City, "error", err)
	}
	if err := s.store.BumpCity(ctx, stored.City); err != nil {
		s.logger.Warn("trending bump failed", "city", stored.City, "error", err)
	}
}

func (s *service) LastKnown(ctx context.Context, cityName string) (StoredReading, bool, error) {
	city := strings.TrimSpace(cityName)
	if city == "" {
		return StoredReading{}, false, apperrors.Wrap("invalid_input", "city name cannot be empty", nil)
	}
	return s.store.Get(ctx, city)
}

func (s *service) TrendingCities(ctx context.Context, limit int) ([]TrendingCity, error) {
	return s.store.TopCities(ctx, limit)
}

func roundOrDefault(value *float64, fallback int) int {
	if value == nil {
		return fallback
	}
	return int(math.Round(*value))
}
