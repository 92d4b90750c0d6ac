package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/FACorreiaa/urbansense-api/internal/domain/analysis"
	"github.com/FACorreiaa/urbansense-api/internal/types"
)

// AnalysisHandler is the thin JSON adapter over the analysis service. Hard
// failures map to 400; everything else is a 200 whose body carries its own
// real/estimated tags, so the rendering layer never needs error handling to
// draw a degraded view.
type AnalysisHandler struct {
	service analysis.Service
	logger  *slog.Logger
}

// NewAnalysisHandler builds the handler.
func NewAnalysisHandler(service analysis.Service, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{service: service, logger: logger}
}

type analyzeBuildingRequest struct {
	Building *types.Building `json:"building"`
}

// AnalyzeBuilding handles POST /v1/analyze/building.
func (h *AnalysisHandler) AnalyzeBuilding(w http.ResponseWriter, r *http.Request) {
	var req analyzeBuildingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.service.AnalyzeBuilding(r.Context(), req.Building)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// AnalyzeArea handles GET /v1/analyze/area.
func (h *AnalysisHandler) AnalyzeArea(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	bounds, err := parseBounds(q.Get("south"), q.Get("west"), q.Get("north"), q.Get("east"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "south, west, north, east must be valid coordinates")
		return
	}

	mode := types.AreaMode(q.Get("mode"))
	if mode == "" {
		mode = types.AreaModeGrid
	}
	zoom, _ := strconv.Atoi(q.Get("zoom"))

	points, err := h.service.AnalyzeArea(r.Context(), bounds, mode, zoom)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if points == nil {
		points = []types.ScoredPoint{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"points": points,
		"count":  len(points),
	})
}

func (h *AnalysisHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, types.ErrBadRequest),
		errors.Is(err, types.ErrMissingCoords),
		errors.Is(err, types.ErrInvalidBounds),
		errors.Is(err, types.ErrMissingBoundary),
		errors.Is(err, types.ErrUnknownMode):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "analysis failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func parseBounds(south, west, north, east string) (types.Bounds, error) {
	s, err := strconv.ParseFloat(south, 64)
	if err != nil {
		return types.Bounds{}, err
	}
	w, err := strconv.ParseFloat(west, 64)
	if err != nil {
		return types.Bounds{}, err
	}
	n, err := strconv.ParseFloat(north, 64)
	if err != nil {
		return types.Bounds{}, err
	}
	e, err := strconv.ParseFloat(east, 64)
	if err != nil {
		return types.Bounds{}, err
	}
	return types.Bounds{South: s, West: w, North: n, East: e}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
