package main

import (
	"log/slog"

	"github.com/FACorreiaa/urbansense-api/internal/domain/analysis"
	"github.com/FACorreiaa/urbansense-api/internal/gateway"
	"github.com/FACorreiaa/urbansense-api/pkg/config"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	// Upstream access layer
	Cache    *gateway.Cache
	Throttle *gateway.Throttle
	Gateway  *gateway.Gateway

	// Services
	AnalysisService analysis.Service
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	deps.initGateway()
	deps.initServices()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initGateway wires the shared cache, shared throttle, and provider clients.
func (d *Dependencies) initGateway() {
	up := d.Config.Upstream

	d.Cache = gateway.NewCache(d.Config.Cache.TTL, d.Config.Cache.MaxEntries)
	d.Throttle = gateway.NewThrottle(up.ThrottleInterval)

	climate := gateway.NewClimateClient(up.ClimateBaseURL, up.ClimateTimeout, d.Logger)
	precip := gateway.NewPrecipClient(up.PrecipBaseURL, up.PrecipTimeout, d.Logger)
	air := gateway.NewAirQualityClient(up.AirQualityBaseURL, up.AirQualityTimeout, d.Logger)
	buildings := gateway.NewBuildingClient(up.BuildingsBaseURL, up.BuildingsTimeout, d.Logger)

	d.Gateway = gateway.New(d.Cache, d.Throttle, climate, precip, air, buildings, d.Logger)
	d.Logger.Info("upstream gateway initialized",
		"cache_ttl", d.Config.Cache.TTL.String(),
		"throttle_interval", up.ThrottleInterval.String(),
	)
}

// initServices initializes the analysis service layer.
func (d *Dependencies) initServices() {
	d.AnalysisService = analysis.NewService(
		d.Gateway,
		analysis.NewGridSampler(),
		analysis.NewClusterBuilder(analysis.DefaultClusterThresholdDeg, analysis.MinClusterSize),
		d.Logger,
	)
	d.Logger.Info("services initialized")
}
