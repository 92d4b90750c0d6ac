package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/urbansense-api/internal/types"
)

// squareRing builds a square of the given side (in degrees) centered on lat/lng.
func squareRing(lat, lng, sideDeg float64) []types.GeoPoint {
	h := sideDeg / 2
	return []types.GeoPoint{
		{Lat: lat - h, Lng: lng - h},
		{Lat: lat - h, Lng: lng + h},
		{Lat: lat + h, Lng: lng + h},
		{Lat: lat + h, Lng: lng - h},
	}
}

func TestPolygonArea(t *testing.T) {
	t.Run("unit square at equator matches expected area", func(t *testing.T) {
		// 0.001° x 0.001° square at the equator is ~111.19m per side.
		ring := squareRing(0, 0, 0.001)
		got := PolygonArea(ring)

		side := 0.001 * math.Pi / 180 * EarthRadiusM
		want := side * side
		assert.InEpsilon(t, want, got, 0.01)
	})

	t.Run("non-negative regardless of winding", func(t *testing.T) {
		ring := squareRing(45, 9, 0.001)
		// Reverse the ring (clockwise winding).
		rev := make([]types.GeoPoint, len(ring))
		for i, p := range ring {
			rev[len(ring)-1-i] = p
		}
		assert.Greater(t, PolygonArea(ring), 0.0)
		assert.InEpsilon(t, PolygonArea(ring), PolygonArea(rev), 1e-9)
	})

	t.Run("area shrinks with latitude", func(t *testing.T) {
		atEquator := PolygonArea(squareRing(0, 0, 0.001))
		atSixty := PolygonArea(squareRing(60, 0, 0.001))
		assert.Less(t, atSixty, atEquator)
	})

	t.Run("degenerate ring returns default area", func(t *testing.T) {
		assert.Equal(t, DefaultAreaM2, PolygonArea(nil))
		assert.Equal(t, DefaultAreaM2, PolygonArea([]types.GeoPoint{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}))
	})
}

func TestCentroid(t *testing.T) {
	t.Run("symmetric square returns its exact center", func(t *testing.T) {
		c := Centroid(squareRing(12.97, 77.59, 0.002))
		assert.InDelta(t, 12.97, c.Lat, 1e-9)
		assert.InDelta(t, 77.59, c.Lng, 1e-9)
	})

	t.Run("empty ring returns origin", func(t *testing.T) {
		assert.Equal(t, types.GeoPoint{}, Centroid(nil))
	})
}

func TestDistance(t *testing.T) {
	a := types.GeoPoint{Lat: 10, Lng: 20}
	b := types.GeoPoint{Lat: 10.003, Lng: 20.004}

	assert.InDelta(t, 0.005, DistanceDeg(a, b), 1e-9)

	// One degree of latitude is ~111km.
	c := types.GeoPoint{Lat: 11, Lng: 20}
	assert.InDelta(t, 111000, DistanceM(a, c), 1)
}

func TestBoundsAreaKm2(t *testing.T) {
	b := types.Bounds{South: 0, West: 0, North: 0.1, East: 0.2}
	assert.InDelta(t, 11.1*22.2, BoundsAreaKm2(b), 1e-6)
}

func TestCellGroundAreaM2(t *testing.T) {
	// At the equator a 0.01° cell is 1110m on each side.
	area := CellGroundAreaM2(0, 0.01)
	assert.InDelta(t, 1110*1110, area, 1)

	// At 60°N the east-west side halves.
	assert.InDelta(t, area/2, CellGroundAreaM2(60, 0.01), area*0.001)
}
