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

// missingValueSentinel marks gaps in the satellite daily series. Days at this
// value must be excluded before averaging, never averaged in as data.
const missingValueSentinel = -999.0

// ClimateObservation is a normalized point reading averaged from the
// provider's daily series.
type ClimateObservation struct {
	AvgIrradiance  float64 // kWh/m²/day
	AvgTemperature float64 // °C
}

// ClimateClient fetches daily irradiance and temperature series for a point
// from the satellite climate provider and averages them.
type ClimateClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClimateClient builds a client against baseURL with a bounded timeout.
func NewClimateClient(baseURL string, timeout time.Duration, logger *slog.Logger) *ClimateClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ClimateClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// climateResponse mirrors the slice of the provider payload the gateway
// consumes: per-parameter maps of day → value.
type climateResponse struct {
	Properties struct {
		Parameter struct {
			Irradiance  map[string]float64 `json:"ALLSKY_SFC_SW_DWN"`
			Temperature map[string]float64 `json:"T2M"`
		} `json:"parameter"`
	} `json:"properties"`
}

// Fetch queries a one-year daily window ending today and returns the averaged
// scalars. Errors cover transport failures, non-2xx statuses, and payloads
// with no usable days.
func (c *ClimateClient) Fetch(ctx context.Context, lat, lng float64) (*ClimateObservation, error) {
	end := time.Now()
	start := end.AddDate(-1, 0, 0)
	url := fmt.Sprintf(
		"%s/api/temporal/daily/point?parameters=ALLSKY_SFC_SW_DWN,T2M&community=RE&latitude=%f&longitude=%f&start=%s&end=%s&format=JSON",
		c.baseURL, lat, lng, start.Format("20060102"), end.Format("20060102"),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build climate request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("climate provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read climate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("climate provider returned status %d", resp.StatusCode)
	}

	var payload climateResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("malformed climate payload: %w", err)
	}

	irr, okIrr := averageExcludingSentinel(payload.Properties.Parameter.Irradiance)
	temp, okTemp := averageExcludingSentinel(payload.Properties.Parameter.Temperature)
	if !okIrr || !okTemp {
		return nil, fmt.Errorf("climate payload contained no usable days")
	}

	return &ClimateObservation{AvgIrradiance: irr, AvgTemperature: temp}, nil
}

// averageExcludingSentinel averages a daily series, skipping the provider's
// missing-value code. The second return is false when no day survives.
func averageExcludingSentinel(series map[string]float64) (float64, bool) {
	var sum float64
	var n int
	for _, v := range series {
		if v <= missingValueSentinel {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
