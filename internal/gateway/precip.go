package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// FallbackDailyPrecipMM is the regional seasonal average substituted when the
// precipitation provider is unavailable: ~1000mm/yr. Fallback samples are
// cached so repeated failures do not hammer the provider, and always carry
// IsReal=false.
const FallbackDailyPrecipMM = 2.74

// PrecipClient fetches a daily precipitation series for a point and averages
// it; the gateway extrapolates avgDaily×365 to an annual figure.
type PrecipClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewPrecipClient builds a client against baseURL with a bounded timeout.
func NewPrecipClient(baseURL string, timeout time.Duration, logger *slog.Logger) *PrecipClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PrecipClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type precipResponse struct {
	Daily struct {
		PrecipitationSum []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// Fetch returns the average daily precipitation in mm over the provider's
// trailing window.
func (c *PrecipClient) Fetch(ctx context.Context, lat, lng float64) (float64, error) {
	url := fmt.Sprintf(
		"%s/v1/archive?latitude=%f&longitude=%f&daily=precipitation_sum&past_days=92",
		c.baseURL, lat, lng,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build precipitation request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("precipitation provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read precipitation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("precipitation provider returned status %d", resp.StatusCode)
	}

	var payload precipResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("malformed precipitation payload: %w", err)
	}
	if len(payload.Daily.PrecipitationSum) == 0 {
		return 0, fmt.Errorf("precipitation payload contained no days")
	}

	var sum float64
	for _, v := range payload.Daily.PrecipitationSum {
		sum += v
	}
	return sum / float64(len(payload.Daily.PrecipitationSum)), nil
}
