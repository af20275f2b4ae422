// Package openmeteo talks to the Open-Meteo API family: geocoding, current
// weather conditions and current air quality. Each endpoint lives on its own
// host, so the client carries three base URLs.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/linwei/smartliving/internal/domain/geo"
	"github.com/linwei/smartliving/pkg/i18n"
	"github.com/linwei/smartliving/pkg/metrics"
)

const (
	defaultGeoBaseURL        = "https://geocoding-api.open-meteo.com/v1/search"
	defaultWeatherBaseURL    = "https://api.open-meteo.com/v1/forecast"
	defaultAirQualityBaseURL = "https://air-quality-api.open-meteo.com/v1/air-quality"
)

// Conditions is a current weather sample. Pointer fields stay nil when the
// provider omits them, so callers can apply their own defaults.
type Conditions struct {
	Temperature *float64
	Humidity    *float64
}

// Client fetches geocoding, weather and air quality data.
type Client struct {
	geoBaseURL        string
	weatherBaseURL    string
	airQualityBaseURL string
	httpClient        *http.Client
	metrics           *metrics.Registry
}

// NewClient builds an API client; empty base URLs fall back to the public hosts.
func NewClient(geoBaseURL, weatherBaseURL, airQualityBaseURL string, reg *metrics.Registry) *Client {
	return &Client{
		geoBaseURL:        orDefault(geoBaseURL, defaultGeoBaseURL),
		weatherBaseURL:    orDefault(weatherBaseURL, defaultWeatherBaseURL),
		airQualityBaseURL: orDefault(airQualityBaseURL, defaultAirQualityBaseURL),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		metrics: reg,
	}
}

func orDefault(value, fallback string) string {
	clean := strings.TrimRight(strings.TrimSpace(value), "/")
	if clean == "" {
		return fallback
	}
	return clean
}

// Search returns the single best geocoding match, or nil when the provider
// answered with zero results.
func (c *Client) Search(ctx context.Context, name string, lang i18n.Language) (*geo.Place, error) {
	endpoint := fmt.Sprintf("%s?name=%s&count=1&language=%s&format=json",
		c.geoBaseURL, url.QueryEscape(name), string(lang))

	body, err := c.get(ctx, "geocoding", endpoint)
	if err != nil {
		return nil, err
	}

	var raw geocodingResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode geocoding response: %w", err)
	}
	if len(raw.Results) == 0 {
		return nil, nil
	}

	first := raw.Results[0]
	return &geo.Place{
		Name:      first.Name,
		Latitude:  first.Latitude,
		Longitude: first.Longitude,
		Country:   first.Country,
	}, nil
}

// CurrentConditions fetches current temperature and relative humidity for a
// coordinate pair.
func (c *Client) CurrentConditions(ctx context.Context, lat, lon float64) (Conditions, error) {
	endpoint := fmt.Sprintf("%s?latitude=%s&longitude=%s&current=temperature_2m,relative_humidity_2m&timezone=auto",
		c.weatherBaseURL, formatCoord(lat), formatCoord(lon))

	body, err := c.get(ctx, "weather", endpoint)
	if err != nil {
		return Conditions{}, err
	}

	var raw forecastResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return Conditions{}, fmt.Errorf("decode weather response: %w", err)
	}
	return Conditions{
		Temperature: raw.Current.Temperature2m,
		Humidity:    raw.Current.RelativeHumidity2m,
	}, nil
}

// CurrentPM25 fetches the current PM2.5 value. A nil pointer means the
// provider answered without the field.
func (c *Client) CurrentPM25(ctx context.Context, lat, lon float64) (*float64, error) {
	endpoint := fmt.Sprintf("%s?latitude=%s&longitude=%s&current=pm2_5",
		c.airQualityBaseURL, formatCoord(lat), formatCoord(lon))

	body, err := c.get(ctx, "air_quality", endpoint)
	if err != nil {
		return nil, err
	}

	var raw airQualityResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode air quality response: %w", err)
	}
	return raw.Current.PM25, nil
}

func (c *Client) get(ctx context.Context, provider, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", provider, err)
	}

	resp, err := c.httpClient.Do(req)
	c.metrics.ReportProvider(provider, err)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%s request error: status=%d body=%s", provider, resp.StatusCode, string(payload))
	}

	return io.ReadAll(resp.Body)
}

func formatCoord(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}

type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Country   string  `json:"country"`
	} `json:"results"`
}

type forecastResponse struct {
	Current struct {
		Temperature2m      *float64 `json:"temperature_2m"`
		RelativeHumidity2m *float64 `json:"relative_humidity_2m"`
	} `json:"current"`
}

type airQualityResponse struct {
	Current struct {
		PM25 *float64 `json:"pm2_5"`
	} `json:"current"`
}
