package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/FACorreiaa/urbansense-api/internal/types"
)

// AirQualityClient queries ground stations inside a bounding box. A station
// qualifies only if it reports PM2.5. When zero stations qualify the gateway
// falls back to a single model-estimate point from the same provider.
type AirQualityClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewAirQualityClient builds a client against baseURL with a bounded timeout.
func NewAirQualityClient(baseURL string, timeout time.Duration, logger *slog.Logger) *AirQualityClient {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &AirQualityClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type airStationsResponse struct {
	Results []struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Coordinates struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"coordinates"`
		Measurements []struct {
			Parameter string  `json:"parameter"`
			Value     float64 `json:"value"`
		} `json:"measurements"`
	} `json:"results"`
}

// FetchStations returns the qualifying stations in the box. An empty slice
// with a nil error means the provider answered but no station reported PM2.5.
func (c *AirQualityClient) FetchStations(ctx context.Context, bounds types.Bounds) ([]types.AirStation, error) {
	url := fmt.Sprintf(
		"%s/v3/locations?bbox=%f,%f,%f,%f&parameter=pm25&limit=100",
		c.baseURL, bounds.West, bounds.South, bounds.East, bounds.North,
	)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var payload airStationsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("malformed air-quality payload: %w", err)
	}

	stations := make([]types.AirStation, 0, len(payload.Results))
	for _, r := range payload.Results {
		pm25, found := 0.0, false
		for _, m := range r.Measurements {
			if m.Parameter == "pm25" {
				pm25, found = m.Value, true
				break
			}
		}
		if !found {
			continue
		}
		stations = append(stations, types.AirStation{
			ID:   strconv.FormatInt(r.ID, 10),
			Name: r.Name,
			Location: types.GeoPoint{
				Lat: r.Coordinates.Latitude,
				Lng: r.Coordinates.Longitude,
			},
			PM25:       pm25,
			SourceType: "station",
		})
	}
	return stations, nil
}

type airModelResponse struct {
	Hourly struct {
		PM25 []float64 `json:"pm2_5"`
	} `json:"hourly"`
}

// FetchModelEstimate returns a single modelled PM2.5 value for the center of
// the box, used when no ground station qualifies.
func (c *AirQualityClient) FetchModelEstimate(ctx context.Context, center types.GeoPoint) (float64, error) {
	url := fmt.Sprintf(
		"%s/v1/air-quality?latitude=%f&longitude=%f&hourly=pm2_5&past_days=1",
		c.baseURL, center.Lat, center.Lng,
	)

	body, err := c.get(ctx, url)
	if err != nil {
		return 0, err
	}

	var payload airModelResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("malformed air-quality model payload: %w", err)
	}
	if len(payload.Hourly.PM25) == 0 {
		return 0, fmt.Errorf("air-quality model payload contained no readings")
	}

	var sum float64
	for _, v := range payload.Hourly.PM25 {
		sum += v
	}
	return sum / float64(len(payload.Hourly.PM25)), nil
}

func (c *AirQualityClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build air-quality request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("air-quality provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read air-quality response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("air-quality provider returned status %d", resp.StatusCode)
	}
	return body, nil
}
