package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/urbansense-api/internal/types"
)

func TestCellSizeForZoom(t *testing.T) {
	assert.Equal(t, cellSizeFineDeg, CellSizeForZoom(18))
	assert.Equal(t, cellSizeFineDeg, CellSizeForZoom(16))
	assert.Equal(t, cellSizeMediumDeg, CellSizeForZoom(15))
	assert.Equal(t, cellSizeMediumDeg, CellSizeForZoom(14))
	assert.Equal(t, cellSizeCoarseDeg, CellSizeForZoom(12))
	assert.Equal(t, cellSizeCoarseDeg, CellSizeForZoom(0))
}

func TestGridSample(t *testing.T) {
	s := NewGridSampler()
	bounds := types.Bounds{South: 0, West: 0, North: 0.02, East: 0.02}

	t.Run("covers the box at the coarse tier", func(t *testing.T) {
		cells := s.Sample(bounds, 10, nil)
		// 0.02/0.01 = 2 rows x 2 cols.
		require.Len(t, cells, 4)
		for _, c := range cells {
			assert.Equal(t, cellSizeCoarseDeg, c.SizeDeg)
		}
	})

	t.Run("assigns each building to exactly one cell by centroid", func(t *testing.T) {
		buildings := []*types.Building{
			{ID: "a", AreaM2: 100, Centroid: types.GeoPoint{Lat: 0.001, Lng: 0.001}},
			{ID: "b", AreaM2: 100, Centroid: types.GeoPoint{Lat: 0.015, Lng: 0.015}},
			// Sits exactly on the boundary: half-open membership puts it in
			// the upper cell, never both.
			{ID: "c", AreaM2: 100, Centroid: types.GeoPoint{Lat: 0.01, Lng: 0.001}},
			// Outside the viewport entirely.
			{ID: "d", AreaM2: 100, Centroid: types.GeoPoint{Lat: 0.5, Lng: 0.5}},
		}
		cells := s.Sample(bounds, 10, buildings)

		total := 0
		for _, c := range cells {
			total += len(c.Buildings)
		}
		assert.Equal(t, 3, total)

		// c landed in the row starting at lat 0.01.
		for _, cell := range cells {
			for _, b := range cell.Buildings {
				if b.ID == "c" {
					assert.InDelta(t, 0.01, cell.Lat, 1e-12)
				}
			}
		}
	})
}

func TestBuildingDensity(t *testing.T) {
	cell := &types.GridCell{Lat: 0, Lng: 0, SizeDeg: 0.01}

	t.Run("empty cell has zero density", func(t *testing.T) {
		assert.Equal(t, 0.0, BuildingDensity(cell))
	})

	t.Run("density is footprint coverage fraction", func(t *testing.T) {
		// Cell ground area at the equator is ~1110m x 1110m ≈ 1.23e6 m².
		cell.Buildings = []*types.Building{{AreaM2: 123210}}
		d := BuildingDensity(cell)
		assert.InDelta(t, 0.1, d, 0.005)
	})

	t.Run("density clamps at 1", func(t *testing.T) {
		cell.Buildings = []*types.Building{{AreaM2: 1e9}}
		assert.Equal(t, 1.0, BuildingDensity(cell))
	})
}

func TestCellCenter(t *testing.T) {
	cell := &types.GridCell{Lat: 10, Lng: 20, SizeDeg: 0.01}
	c := CellCenter(cell)
	assert.InDelta(t, 10.005, c.Lat, 1e-12)
	assert.InDelta(t, 20.005, c.Lng, 1e-12)
}
