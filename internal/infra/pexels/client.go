// Package pexels queries the Pexels photo search API.
package pexels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/linwei/smartliving/pkg/metrics"
)

const defaultBaseURL = "https://api.pexels.com/v1/search"

// Photo is the slice of the search result the service cares about.
type Photo struct {
	URL string
}

// Client performs photo searches.
type Client struct {
	apiKey      string
	baseURL     string
	perPage     int
	orientation string
	httpClient  *http.Client
	metrics     *metrics.Registry
}

// NewClient constructs a Pexels client. An empty key makes searches fail at
// call time.
func NewClient(apiKey, baseURL string, perPage int, orientation string, reg *metrics.Registry) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if perPage <= 0 {
		perPage = 15
	}
	if orientation == "" {
		orientation = "landscape"
	}
	return &Client{
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     strings.TrimRight(baseURL, "/"),
		perPage:     perPage,
		orientation: orientation,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		metrics: reg,
	}
}

// Search returns the first matching photo, or nil when the provider answered
// with zero photos.
func (c *Client) Search(ctx context.Context, query string) (*Photo, error) {
	if c.apiKey == "" {
		return nil, errors.New("pexels api key not configured")
	}

	endpoint := fmt.Sprintf("%s?query=%s&per_page=%d&orientation=%s",
		c.baseURL, url.QueryEscape(query), c.perPage, url.QueryEscape(c.orientation))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build photo request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	c.metrics.ReportProvider("photos", err)
	if err != nil {
		return nil, fmt.Errorf("photo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("photo request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode photo response: %w", err)
	}
	if len(raw.Photos) == 0 {
		return nil, nil
	}
	return &Photo{URL: raw.Photos[0].Src.Large2x}, nil
}

type searchResponse struct {
	Photos []struct {
		Src struct {
			Large2x string `json:"large2x"`
		} `json:"src"`
	} `json:"photos"`
}
