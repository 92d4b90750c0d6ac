// Package gateway is the upstream-data access layer: every outbound call to a
// third-party geodata provider goes through its shared cache and shared
// throttle. Upstream unavailability never surfaces as an error; it is
// normalized into tagged results with IsReal=false and a human-readable note.
// Errors are reserved for malformed caller input.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/urbansense-api/internal/types"
)

// ClimateProvider is the satellite solar+temperature source.
type ClimateProvider interface {
	Fetch(ctx context.Context, lat, lng float64) (*ClimateObservation, error)
}

// PrecipProvider is the daily precipitation source.
type PrecipProvider interface {
	Fetch(ctx context.Context, lat, lng float64) (float64, error)
}

// AirProvider is the ground-station air-quality source with a model-estimate
// fallback endpoint.
type AirProvider interface {
	FetchStations(ctx context.Context, bounds types.Bounds) ([]types.AirStation, error)
	FetchModelEstimate(ctx context.Context, center types.GeoPoint) (float64, error)
}

// BuildingProvider is the footprint polygon source.
type BuildingProvider interface {
	Fetch(ctx context.Context, bounds types.Bounds) ([]*types.Building, error)
}

// Gateway fronts all providers with one cache and one throttle.
type Gateway struct {
	logger    *slog.Logger
	cache     *Cache
	throttle  *Throttle
	climate   ClimateProvider
	precip    PrecipProvider
	air       AirProvider
	buildings BuildingProvider
}

// New wires the gateway from its injected collaborators.
func New(cache *Cache, throttle *Throttle, climate ClimateProvider, precip PrecipProvider,
	air AirProvider, buildings BuildingProvider, logger *slog.Logger) *Gateway {
	return &Gateway{
		logger:    logger,
		cache:     cache,
		throttle:  throttle,
		climate:   climate,
		precip:    precip,
		air:       air,
		buildings: buildings,
	}
}

func validCoords(lat, lng float64) bool {
	return !math.IsNaN(lat) && !math.IsNaN(lng) &&
		lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// FetchClimate returns the averaged solar irradiance and temperature for a
// point. Soft failures are returned with IsReal=false and are not cached.
func (g *Gateway) FetchClimate(ctx context.Context, lat, lng float64) (types.ClimateSample, error) {
	ctx, span := otel.Tracer("UpstreamGateway").Start(ctx, "FetchClimate")
	defer span.End()
	span.SetAttributes(attribute.Float64("lat", lat), attribute.Float64("lng", lng))

	if !validCoords(lat, lng) {
		return types.ClimateSample{}, fmt.Errorf("fetch climate: %w", types.ErrMissingCoords)
	}

	key := QuantizeKey("climate", lat, lng)
	if v, ok := g.cache.Get(key); ok {
		return v.(types.ClimateSample), nil
	}

	if err := g.throttle.Wait(ctx); err != nil {
		return softClimate(lat, lng, "request cancelled while throttled"), nil
	}

	obs, err := g.climate.Fetch(ctx, lat, lng)
	if err != nil {
		upstreamRequests.WithLabelValues("climate", "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "climate fetch failed")
		g.logger.WarnContext(ctx, "climate provider soft failure", slog.Any("error", err))
		return softClimate(lat, lng, "climate data unavailable: "+err.Error()), nil
	}
	upstreamRequests.WithLabelValues("climate", "ok").Inc()

	sample := types.ClimateSample{
		Latitude:       lat,
		Longitude:      lng,
		AvgIrradiance:  types.Float64Ptr(obs.AvgIrradiance),
		AvgTemperature: types.Float64Ptr(obs.AvgTemperature),
		IsReal:         true,
	}
	g.cache.Set(key, sample)
	return sample, nil
}

// FetchPrecipitation returns the annual precipitation extrapolated from the
// provider's daily average. When the provider fails, a documented regional
// fallback constant is substituted; the fallback IS cached so repeated
// failures do not hammer the provider, and always carries IsReal=false.
func (g *Gateway) FetchPrecipitation(ctx context.Context, lat, lng float64) (types.ClimateSample, error) {
	ctx, span := otel.Tracer("UpstreamGateway").Start(ctx, "FetchPrecipitation")
	defer span.End()

	if !validCoords(lat, lng) {
		return types.ClimateSample{}, fmt.Errorf("fetch precipitation: %w", types.ErrMissingCoords)
	}

	key := QuantizeKey("precip", lat, lng)
	if v, ok := g.cache.Get(key); ok {
		return v.(types.ClimateSample), nil
	}

	if err := g.throttle.Wait(ctx); err != nil {
		return softClimate(lat, lng, "request cancelled while throttled"), nil
	}

	avgDaily, err := g.precip.Fetch(ctx, lat, lng)
	sample := types.ClimateSample{Latitude: lat, Longitude: lng}
	if err != nil {
		upstreamRequests.WithLabelValues("precipitation", "fallback").Inc()
		span.RecordError(err)
		g.logger.WarnContext(ctx, "precipitation provider failed, using regional fallback",
			slog.Any("error", err))
		sample.AnnualPrecipitation = types.Float64Ptr(FallbackDailyPrecipMM * 365)
		sample.IsReal = false
		sample.SourceNote = "provider unavailable; regional seasonal average substituted"
	} else {
		upstreamRequests.WithLabelValues("precipitation", "ok").Inc()
		sample.AnnualPrecipitation = types.Float64Ptr(avgDaily * 365)
		sample.IsReal = true
	}
	g.cache.Set(key, sample)
	return sample, nil
}

// FetchAirQuality returns the qualifying PM2.5 stations in the box, falling
// back to a single regional model-estimate point when none qualify. Only when
// the model call also fails does it return an explicit no-data result.
func (g *Gateway) FetchAirQuality(ctx context.Context, bounds types.Bounds) (types.AirQualityResult, error) {
	ctx, span := otel.Tracer("UpstreamGateway").Start(ctx, "FetchAirQuality")
	defer span.End()

	if !bounds.Valid() {
		return types.AirQualityResult{}, fmt.Errorf("fetch air quality: %w", types.ErrInvalidBounds)
	}

	center := bounds.Center()
	key := QuantizeKey("air", center.Lat, center.Lng)
	if v, ok := g.cache.Get(key); ok {
		return v.(types.AirQualityResult), nil
	}

	if err := g.throttle.Wait(ctx); err != nil {
		return types.AirQualityResult{IsReal: false, SourceNote: "request cancelled while throttled"}, nil
	}

	stations, err := g.air.FetchStations(ctx, bounds)
	if err != nil {
		upstreamRequests.WithLabelValues("air", "error").Inc()
		span.RecordError(err)
		g.logger.WarnContext(ctx, "air-quality station query failed", slog.Any("error", err))
		stations = nil
	} else {
		upstreamRequests.WithLabelValues("air", "ok").Inc()
	}

	if len(stations) > 0 {
		result := types.AirQualityResult{Locations: stations, IsReal: true}
		g.cache.Set(key, result)
		return result, nil
	}

	// Zero qualifying stations: one model-estimate point for the center.
	if err := g.throttle.Wait(ctx); err != nil {
		return types.AirQualityResult{IsReal: false, SourceNote: "request cancelled while throttled"}, nil
	}
	pm25, err := g.air.FetchModelEstimate(ctx, center)
	if err != nil {
		upstreamRequests.WithLabelValues("air_model", "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "air-quality model fallback failed")
		g.logger.WarnContext(ctx, "air-quality model fallback failed", slog.Any("error", err))
		return types.AirQualityResult{
			IsReal:     false,
			SourceNote: "no qualifying stations and model estimate unavailable",
		}, nil
	}
	upstreamRequests.WithLabelValues("air_model", "ok").Inc()

	result := types.AirQualityResult{
		Locations: []types.AirStation{{
			ID:         "model-" + key,
			Name:       "regional model estimate",
			Location:   center,
			PM25:       pm25,
			SourceType: "model",
		}},
		IsReal:     true,
		SourceNote: "no qualifying ground stations; regional model estimate substituted",
	}
	g.cache.Set(key, result)
	return result, nil
}

// BuildingSnapshot is a full-replacement building set for one viewport.
type BuildingSnapshot struct {
	Buildings  []*types.Building
	IsReal     bool
	SourceNote string
}

// FetchBuildings returns the footprint snapshot for the box. Provider failure
// yields an empty snapshot tagged IsReal=false; snapshots are cached per
// quantized viewport.
func (g *Gateway) FetchBuildings(ctx context.Context, bounds types.Bounds) (BuildingSnapshot, error) {
	ctx, span := otel.Tracer("UpstreamGateway").Start(ctx, "FetchBuildings")
	defer span.End()

	if !bounds.Valid() {
		return BuildingSnapshot{}, fmt.Errorf("fetch buildings: %w", types.ErrInvalidBounds)
	}

	key := fmt.Sprintf("buildings:%.3f,%.3f,%.3f,%.3f", bounds.South, bounds.West, bounds.North, bounds.East)
	if v, ok := g.cache.Get(key); ok {
		return v.(BuildingSnapshot), nil
	}

	if err := g.throttle.Wait(ctx); err != nil {
		return BuildingSnapshot{SourceNote: "request cancelled while throttled"}, nil
	}

	buildings, err := g.buildings.Fetch(ctx, bounds)
	if err != nil {
		upstreamRequests.WithLabelValues("buildings", "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "footprint fetch failed")
		g.logger.WarnContext(ctx, "footprint provider soft failure", slog.Any("error", err))
		return BuildingSnapshot{SourceNote: "building footprints unavailable: " + err.Error()}, nil
	}
	upstreamRequests.WithLabelValues("buildings", "ok").Inc()

	snap := BuildingSnapshot{Buildings: buildings, IsReal: true}
	g.cache.Set(key, snap)
	return snap, nil
}

func softClimate(lat, lng float64, note string) types.ClimateSample {
	return types.ClimateSample{
		Latitude:   lat,
		Longitude:  lng,
		IsReal:     false,
		SourceNote: note,
	}
}
