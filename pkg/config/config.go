// Package config loads service configuration from the environment. main
// loads a .env file first via godotenv, so local development and container
// deployments share the same knobs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Cache    CacheConfig
}

// ServerConfig covers the HTTP surface.
type ServerConfig struct {
	Port               string
	RateLimitPerSecond int
	RateLimitBurst     int
}

// UpstreamConfig covers the provider endpoints and the shared throttle.
type UpstreamConfig struct {
	ClimateBaseURL    string
	PrecipBaseURL     string
	AirQualityBaseURL string
	BuildingsBaseURL  string

	ClimateTimeout    time.Duration
	PrecipTimeout     time.Duration
	AirQualityTimeout time.Duration
	BuildingsTimeout  time.Duration

	ThrottleInterval time.Duration
}

// CacheConfig bounds the gateway cache.
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// Load reads the environment, applying documented defaults for everything
// optional. It fails only on values that parse but make no sense.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			RateLimitPerSecond: getEnvInt("RATE_LIMIT_PER_SECOND", 20),
			RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 40),
		},
		Upstream: UpstreamConfig{
			ClimateBaseURL:    getEnv("CLIMATE_BASE_URL", "https://power.larc.nasa.gov"),
			PrecipBaseURL:     getEnv("PRECIP_BASE_URL", "https://archive-api.open-meteo.com"),
			AirQualityBaseURL: getEnv("AIR_QUALITY_BASE_URL", "https://api.openaq.org"),
			BuildingsBaseURL:  getEnv("BUILDINGS_BASE_URL", "https://overpass-api.de"),
			ClimateTimeout:    getEnvDuration("CLIMATE_TIMEOUT", 15*time.Second),
			PrecipTimeout:     getEnvDuration("PRECIP_TIMEOUT", 10*time.Second),
			AirQualityTimeout: getEnvDuration("AIR_QUALITY_TIMEOUT", 8*time.Second),
			BuildingsTimeout:  getEnvDuration("BUILDINGS_TIMEOUT", 15*time.Second),
			ThrottleInterval:  getEnvDuration("THROTTLE_INTERVAL", 500*time.Millisecond),
		},
		Cache: CacheConfig{
			TTL:        getEnvDuration("CACHE_TTL", 24*time.Hour),
			MaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 1000),
		},
	}

	if cfg.Cache.MaxEntries <= 0 {
		return nil, fmt.Errorf("CACHE_MAX_ENTRIES must be positive")
	}
	if cfg.Upstream.ThrottleInterval <= 0 {
		return nil, fmt.Errorf("THROTTLE_INTERVAL must be positive")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
