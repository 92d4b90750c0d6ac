// Package analysis hosts the viewport pipeline: grid sampling, clustering,
// and per-building estimation, all fed by the upstream gateway. Batches fan
// out concurrently; the gateway's shared throttle is the only serialization
// point.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/urbansense-api/internal/domain/scoring"
	"github.com/FACorreiaa/urbansense-api/internal/gateway"
	"github.com/FACorreiaa/urbansense-api/internal/geo"
	"github.com/FACorreiaa/urbansense-api/internal/types"
)

// PriorityZoneThreshold flags clusters whose composite priority score marks
// them for intervention (cool roofs, greening, rainwater capture).
const PriorityZoneThreshold = 0.6

// fanOutLimit caps concurrent cell/cluster workers. Outbound request rate is
// governed by the gateway throttle, not this limit.
const fanOutLimit = 16

// Upstream is the slice of the gateway the analysis pipeline consumes.
type Upstream interface {
	FetchClimate(ctx context.Context, lat, lng float64) (types.ClimateSample, error)
	FetchPrecipitation(ctx context.Context, lat, lng float64) (types.ClimateSample, error)
	FetchAirQuality(ctx context.Context, bounds types.Bounds) (types.AirQualityResult, error)
	FetchBuildings(ctx context.Context, bounds types.Bounds) (gateway.BuildingSnapshot, error)
}

var _ Service = (*ServiceImpl)(nil)

// Service is the outward-facing analysis contract consumed by the rendering
// layer. Results are always structurally valid: upstream trouble degrades
// individual capabilities or drops individual points, never the whole shape.
type Service interface {
	AnalyzeBuilding(ctx context.Context, b *types.Building) (*types.BuildingAnalysis, error)
	AnalyzeArea(ctx context.Context, bounds types.Bounds, mode types.AreaMode, zoom int) ([]types.ScoredPoint, error)
}

// ServiceImpl wires the samplers to the gateway.
type ServiceImpl struct {
	logger   *slog.Logger
	upstream Upstream
	grid     *GridSampler
	clusters *ClusterBuilder
}

// NewService builds the analysis service.
func NewService(upstream Upstream, grid *GridSampler, clusters *ClusterBuilder, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		upstream: upstream,
		grid:     grid,
		clusters: clusters,
	}
}

func validPoint(p types.GeoPoint) bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lng) &&
		p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// neighborhoodBounds pads a centroid by the micro heat model's neighbour
// radius so the footprint query covers every building that can count.
func neighborhoodBounds(p types.GeoPoint) types.Bounds {
	latPad := scoring.NeighborRadiusM / 111000.0
	lngPad := latPad / math.Cos(p.Lat*math.Pi/180)
	return types.Bounds{
		South: p.Lat - latPad,
		West:  p.Lng - lngPad,
		North: p.Lat + latPad,
		East:  p.Lng + lngPad,
	}
}

// AnalyzeBuilding combines one footprint with point climate data into annual
// solar, water, and heat estimates. Climate, precipitation, and the
// neighbourhood footprint snapshot are fetched concurrently; each capability
// in the result carries its own real/estimated tag, so mixed outcomes are
// normal. A missing snapshot degrades the heat estimate to the no-neighbours
// case rather than failing the call.
func (s *ServiceImpl) AnalyzeBuilding(ctx context.Context, b *types.Building) (*types.BuildingAnalysis, error) {
	ctx, span := otel.Tracer("AnalysisService").Start(ctx, "AnalyzeBuilding")
	defer span.End()

	if b == nil {
		return nil, fmt.Errorf("analyze building: %w", types.ErrBadRequest)
	}
	if len(b.Boundary) >= 3 {
		if b.AreaM2 <= 0 {
			b.AreaM2 = geo.PolygonArea(b.Boundary)
		}
		b.Centroid = geo.Centroid(b.Boundary)
	}
	if b.AreaM2 <= 0 || !validPoint(b.Centroid) {
		return nil, fmt.Errorf("analyze building %q: %w", b.ID, types.ErrMissingBoundary)
	}
	span.SetAttributes(attribute.String("building.id", b.ID), attribute.Float64("building.area_m2", b.AreaM2))

	var climate, precip types.ClimateSample
	neighbors := []*types.Building{b}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		climate, err = s.upstream.FetchClimate(gctx, b.Centroid.Lat, b.Centroid.Lng)
		return err
	})
	g.Go(func() error {
		var err error
		precip, err = s.upstream.FetchPrecipitation(gctx, b.Centroid.Lat, b.Centroid.Lng)
		return err
	})
	g.Go(func() error {
		snap, err := s.upstream.FetchBuildings(gctx, neighborhoodBounds(b.Centroid))
		if err == nil && snap.IsReal && len(snap.Buildings) > 0 {
			neighbors = snap.Buildings
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "building analysis rejected")
		return nil, err
	}

	result := AnalyzeBuildingLocal(b, climate, precip, neighbors)
	if !result.Solar.IsReal || !result.Water.IsReal {
		s.logger.InfoContext(ctx, "building analysis degraded",
			slog.String("building_id", b.ID),
			slog.Bool("solar_real", result.Solar.IsReal),
			slog.Bool("water_real", result.Water.IsReal),
		)
	}
	return result, nil
}

// AnalyzeArea scores a viewport as a grid of cells or as building clusters.
// Points whose climate query soft-fails are omitted; callers must expect
// fewer points than cells requested. There is no overall pass deadline: slow
// providers degrade the pass to sparse output rather than failing it.
func (s *ServiceImpl) AnalyzeArea(ctx context.Context, bounds types.Bounds, mode types.AreaMode, zoom int) ([]types.ScoredPoint, error) {
	ctx, span := otel.Tracer("AnalysisService").Start(ctx, "AnalyzeArea", trace.WithAttributes(
		attribute.String("mode", string(mode)),
		attribute.Int("zoom", zoom),
	))
	defer span.End()

	if !bounds.Valid() {
		return nil, fmt.Errorf("analyze area: %w", types.ErrInvalidBounds)
	}
	if mode != types.AreaModeGrid && mode != types.AreaModeCluster {
		return nil, fmt.Errorf("analyze area: %q: %w", mode, types.ErrUnknownMode)
	}

	snapshot, err := s.upstream.FetchBuildings(ctx, bounds)
	if err != nil {
		return nil, err
	}
	if !snapshot.IsReal {
		s.logger.WarnContext(ctx, "footprint snapshot unavailable, scoring without buildings",
			slog.String("note", snapshot.SourceNote))
	}

	airNorm, hasAir := s.areaAirQuality(ctx, bounds)

	var points []types.ScoredPoint
	switch mode {
	case types.AreaModeGrid:
		points = s.scoreGrid(ctx, bounds, zoom, snapshot.Buildings, airNorm, hasAir)
	case types.AreaModeCluster:
		points = s.scoreClusters(ctx, snapshot.Buildings, airNorm, hasAir)
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Lat != points[j].Lat {
			return points[i].Lat < points[j].Lat
		}
		return points[i].Lng < points[j].Lng
	})
	span.SetAttributes(attribute.Int("points", len(points)))
	return points, nil
}

// areaAirQuality fetches the per-pass air-quality context: the mean PM2.5 of
// qualifying stations (or the model point) normalized through the AQI scale.
func (s *ServiceImpl) areaAirQuality(ctx context.Context, bounds types.Bounds) (float64, bool) {
	result, err := s.upstream.FetchAirQuality(ctx, bounds)
	if err != nil || !result.IsReal || len(result.Locations) == 0 {
		return 0, false
	}
	var sum float64
	for _, st := range result.Locations {
		sum += st.PM25
	}
	aqi, _ := scoring.AQIFromPM25(sum / float64(len(result.Locations)))
	return scoring.AQINormalized(aqi), true
}

// scoreGrid queries the gateway once per cell, in parallel; the gateway's
// throttle serializes the outbound rate.
func (s *ServiceImpl) scoreGrid(ctx context.Context, bounds types.Bounds, zoom int, buildings []*types.Building, airNorm float64, hasAir bool) []types.ScoredPoint {
	cells := s.grid.Sample(bounds, zoom, buildings)

	var mu sync.Mutex
	var points []types.ScoredPoint

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for _, cell := range cells {
		cell := cell
		g.Go(func() error {
			center := CellCenter(cell)
			climate, err := s.upstream.FetchClimate(gctx, center.Lat, center.Lng)
			if err != nil || !climate.IsReal || climate.AvgTemperature == nil {
				// Soft-failed cells contribute no point; sparse output is
				// expected and must not fail the pass.
				return nil
			}

			density := BuildingDensity(cell)
			greenDeficit := density // built-up fraction as green-space proxy
			scores := types.ScoreVector{
				Heat:          scoring.NormalizedTemp(*climate.AvgTemperature),
				Density:       density,
				GreenDeficit:  greenDeficit,
				AirQuality:    airNorm,
				HasAirQuality: hasAir,
			}
			scores.Composite = scoring.UrbanHeatIntensity(scores.Heat, density, greenDeficit)

			mu.Lock()
			points = append(points, types.ScoredPoint{
				Lat:           center.Lat,
				Lng:           center.Lng,
				Scores:        scores,
				BuildingCount: len(cell.Buildings),
				IsReal:        true,
			})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers only ever return nil; soft failures are skipped
	return points
}

// scoreClusters builds the cluster set and scores each against its regional
// baseline climate sample.
func (s *ServiceImpl) scoreClusters(ctx context.Context, buildings []*types.Building, airNorm float64, hasAir bool) []types.ScoredPoint {
	clusters := s.clusters.Build(buildings)

	var mu sync.Mutex
	var points []types.ScoredPoint

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for _, cluster := range clusters {
		cluster := cluster
		g.Go(func() error {
			climate, err := s.upstream.FetchClimate(gctx, cluster.Centroid.Lat, cluster.Centroid.Lng)
			if err != nil || !climate.IsReal || climate.AvgTemperature == nil {
				return nil
			}

			scores := scoreCluster(cluster, *climate.AvgTemperature, airNorm, hasAir)
			mu.Lock()
			points = append(points, types.ScoredPoint{
				Lat:            cluster.Centroid.Lat,
				Lng:            cluster.Centroid.Lng,
				Scores:         scores,
				BuildingCount:  cluster.BuildingCount,
				IsReal:         true,
				IsPriorityZone: scores.Composite >= PriorityZoneThreshold,
			})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return points
}

// scoreCluster computes the priority composite for one cluster from its
// regional baseline temperature.
func scoreCluster(cluster *types.Cluster, baselineTempC, airNorm float64, hasAir bool) types.ScoreVector {
	var totalArea float64
	largeRoofs := 0
	for _, b := range cluster.Buildings {
		totalArea += b.AreaM2
		if b.AreaM2 > scoring.LargeRoofAreaM2 {
			largeRoofs++
		}
	}

	groundM2 := cluster.BoundingAreaKm2 * 1e6
	densityRisk := 1.0
	if groundM2 > totalArea {
		densityRisk = totalArea / groundM2
	}
	greenDeficit := densityRisk

	scores := types.ScoreVector{
		Heat:             scoring.HeatRisk(baselineTempC),
		Density:          densityRisk,
		GreenDeficit:     greenDeficit,
		RooftopPotential: scoring.RooftopPotential(largeRoofs),
		AirQuality:       airNorm,
		HasAirQuality:    hasAir,
	}
	scores.Composite = scoring.PriorityScore(scores.Heat, densityRisk, greenDeficit, scores.RooftopPotential)
	return scores
}
