// Package pisensor fetches live readings from the tunnelled Raspberry Pi
// sensor endpoint.
package pisensor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linwei/smartliving/internal/domain/telemetry"
	"github.com/linwei/smartliving/pkg/metrics"
)

// Client performs plain GETs against the fixed device endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	metrics    *metrics.Registry
}

// NewClient builds the telemetry client.
func NewClient(endpoint string, reg *metrics.Registry) *Client {
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		metrics: reg,
	}
}

// Fetch retrieves the current device reading.
func (c *Client) Fetch(ctx context.Context) (telemetry.Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return telemetry.Reading{}, fmt.Errorf("build telemetry request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	c.metrics.ReportProvider("telemetry", err)
	if err != nil {
		return telemetry.Reading{}, fmt.Errorf("telemetry request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return telemetry.Reading{}, fmt.Errorf("telemetry request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var reading telemetry.Reading
	if err := json.NewDecoder(resp.Body).Decode(&reading); err != nil {
		return telemetry.Reading{}, fmt.Errorf("decode telemetry response: %w", err)
	}
	return reading, nil
}
