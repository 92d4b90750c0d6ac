package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/urbansense-api/pkg/middleware"
)

// SetupRouter configures all routes and returns the HTTP handler.
func SetupRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	h := NewAnalysisHandler(deps.AnalysisService, deps.Logger)
	mux.HandleFunc("POST /v1/analyze/building", h.AnalyzeBuilding)
	mux.HandleFunc("GET /v1/analyze/area", h.AnalyzeArea)

	registerUtilityRoutes(mux, deps)

	var handler http.Handler = mux
	if deps.Config.Server.RateLimitPerSecond > 0 && deps.Config.Server.RateLimitBurst > 0 {
		limiter := rate.NewLimiter(
			rate.Limit(float64(deps.Config.Server.RateLimitPerSecond)),
			deps.Config.Server.RateLimitBurst,
		)
		handler = middleware.RateLimit(limiter)(handler)
	}
	handler = middleware.Logging(deps.Logger)(handler)
	handler = middleware.Recovery(deps.Logger)(handler)
	handler = middleware.RequestID(handler)

	// Enable CORS for the map frontend during development.
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept-Encoding", "Content-Type", "X-Request-ID"},
	})

	return corsHandler.Handler(handler)
}

// registerUtilityRoutes registers health check and metrics routes.
func registerUtilityRoutes(mux *http.ServeMux, deps *Dependencies) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	deps.Logger.Info("registered health check", "path", "/health")

	mux.Handle("/metrics", promhttp.Handler())
	deps.Logger.Info("registered metrics", "path", "/metrics")
}
