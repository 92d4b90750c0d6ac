package analysis

import (
	"math"

	"github.com/FACorreiaa/urbansense-api/internal/geo"
	"github.com/FACorreiaa/urbansense-api/internal/types"
)

// Zoom tiers map the viewer's scale onto one of three discrete cell sizes:
// finer cells at high zoom, coarser at low zoom.
const (
	zoomFine   = 16
	zoomMedium = 14

	cellSizeFineDeg   = 0.002
	cellSizeMediumDeg = 0.005
	cellSizeCoarseDeg = 0.01
)

// CellSizeForZoom picks the grid resolution tier for a zoom level.
func CellSizeForZoom(zoom int) float64 {
	switch {
	case zoom >= zoomFine:
		return cellSizeFineDeg
	case zoom >= zoomMedium:
		return cellSizeMediumDeg
	default:
		return cellSizeCoarseDeg
	}
}

// GridSampler partitions a viewport into a uniform lat/lng grid and
// aggregates the building snapshot into per-cell feature vectors. It holds no
// state between passes.
type GridSampler struct{}

// NewGridSampler returns a sampler.
func NewGridSampler() *GridSampler {
	return &GridSampler{}
}

// Sample enumerates every cell covering bounds at the zoom-derived size and
// assigns each building to exactly one cell by half-open centroid membership.
// Cell Lat/Lng is the south-west corner.
func (s *GridSampler) Sample(bounds types.Bounds, zoom int, buildings []*types.Building) []*types.GridCell {
	size := CellSizeForZoom(zoom)

	rows := int(math.Ceil((bounds.North - bounds.South) / size))
	cols := int(math.Ceil((bounds.East - bounds.West) / size))
	if rows <= 0 || cols <= 0 {
		return nil
	}

	cells := make([]*types.GridCell, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cells[r*cols+c] = &types.GridCell{
				Lat:     bounds.South + float64(r)*size,
				Lng:     bounds.West + float64(c)*size,
				SizeDeg: size,
			}
		}
	}

	for _, b := range buildings {
		r := int(math.Floor((b.Centroid.Lat - bounds.South) / size))
		c := int(math.Floor((b.Centroid.Lng - bounds.West) / size))
		if r < 0 || r >= rows || c < 0 || c >= cols {
			continue
		}
		cell := cells[r*cols+c]
		cell.Buildings = append(cell.Buildings, b)
	}

	return cells
}

// BuildingDensity is the cell's footprint coverage fraction, clamped to 1.
// Cell ground area corrects the east-west extent by cos(lat).
func BuildingDensity(cell *types.GridCell) float64 {
	var total float64
	for _, b := range cell.Buildings {
		total += b.AreaM2
	}
	ground := geo.CellGroundAreaM2(cell.Lat+cell.SizeDeg/2, cell.SizeDeg)
	if ground <= 0 {
		return 0
	}
	return math.Min(total/ground, 1)
}

// CellCenter is the point a cell's climate query and output score refer to.
func CellCenter(cell *types.GridCell) types.GeoPoint {
	return types.GeoPoint{
		Lat: cell.Lat + cell.SizeDeg/2,
		Lng: cell.Lng + cell.SizeDeg/2,
	}
}
