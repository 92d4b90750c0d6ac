package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/FACorreiaa/urbansense-api/internal/geo"
	"github.com/FACorreiaa/urbansense-api/internal/types"
)

// BuildingClient fetches building footprint polygons for a bounding box from
// the OSM-style footprint provider. Every fetch is a full-replacement snapshot
// for the requested viewport.
type BuildingClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewBuildingClient builds a client against baseURL with a bounded timeout.
func NewBuildingClient(baseURL string, timeout time.Duration, logger *slog.Logger) *BuildingClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &BuildingClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type overpassResponse struct {
	Elements []struct {
		Type     string `json:"type"`
		ID       int64  `json:"id"`
		Geometry []struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"geometry"`
	} `json:"elements"`
}

// Fetch returns the buildings whose footprint rings close inside the box.
// Area and centroid are derived here, once, and cached on each struct.
func (c *BuildingClient) Fetch(ctx context.Context, bounds types.Bounds) ([]*types.Building, error) {
	query := fmt.Sprintf(
		`[out:json][timeout:25];way["building"](%f,%f,%f,%f);out geom;`,
		bounds.South, bounds.West, bounds.North, bounds.East,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/interpreter",
		strings.NewReader(url.Values{"data": {query}}.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build footprint request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("footprint provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read footprint response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("footprint provider returned status %d", resp.StatusCode)
	}

	var payload overpassResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("malformed footprint payload: %w", err)
	}

	buildings := make([]*types.Building, 0, len(payload.Elements))
	for _, el := range payload.Elements {
		if el.Type != "way" || len(el.Geometry) < 3 {
			continue
		}
		ring := make([]types.GeoPoint, 0, len(el.Geometry))
		for _, g := range el.Geometry {
			ring = append(ring, types.GeoPoint{Lat: g.Lat, Lng: g.Lon})
		}
		buildings = append(buildings, NewBuilding(strconv.FormatInt(el.ID, 10), ring))
	}
	return buildings, nil
}

// NewBuilding derives the cached area and centroid for a footprint ring.
func NewBuilding(id string, ring []types.GeoPoint) *types.Building {
	return &types.Building{
		ID:       id,
		Boundary: ring,
		AreaM2:   geo.PolygonArea(ring),
		Centroid: geo.Centroid(ring),
	}
}
