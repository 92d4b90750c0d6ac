// Package geo holds the small set of pure geometry helpers the analysis
// pipeline needs. All functions are approximations tuned for building-scale
// polygons inside a single city viewport; none are valid near the poles or
// across large latitude spans.
package geo

import (
	"math"

	"github.com/FACorreiaa/urbansense-api/internal/types"
)

const (
	// EarthRadiusM is Earth's mean radius.
	EarthRadiusM = 6371000.0

	// KmPerDegree is the flat-earth conversion used for city-scale
	// bounding boxes.
	KmPerDegree = 111.0

	// DefaultAreaM2 is returned for degenerate rings so callers always
	// have some area to reason about.
	DefaultAreaM2 = 100.0
)

// PolygonArea returns the area in m² of a closed ring of geographic points
// using the planar shoelace formula scaled to the sphere, with cos(lat)
// correction for longitude spacing. Rings with fewer than 3 points return
// DefaultAreaM2 rather than failing. The result is always non-negative.
func PolygonArea(ring []types.GeoPoint) float64 {
	if len(ring) < 3 {
		return DefaultAreaM2
	}

	meanLat := 0.0
	for _, p := range ring {
		meanLat += p.Lat
	}
	meanLat = meanLat / float64(len(ring)) * math.Pi / 180

	sum := 0.0
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi := ring[i].Lng * math.Pi / 180 * math.Cos(meanLat)
		yi := ring[i].Lat * math.Pi / 180
		xj := ring[j].Lng * math.Pi / 180 * math.Cos(meanLat)
		yj := ring[j].Lat * math.Pi / 180
		sum += xi*yj - xj*yi
	}

	return math.Abs(sum) / 2 * EarthRadiusM * EarthRadiusM
}

// Centroid returns the arithmetic mean of the ring's vertices. Not a true
// area-weighted centroid, but close enough for near-convex footprints.
// An empty ring returns the origin.
func Centroid(ring []types.GeoPoint) types.GeoPoint {
	if len(ring) == 0 {
		return types.GeoPoint{}
	}
	var lat, lng float64
	for _, p := range ring {
		lat += p.Lat
		lng += p.Lng
	}
	n := float64(len(ring))
	return types.GeoPoint{Lat: lat / n, Lng: lng / n}
}

// DistanceDeg returns the planar degree distance between two points. Used as
// the cluster linkage metric, which only needs to be consistent within one
// city-scale viewport.
func DistanceDeg(a, b types.GeoPoint) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

// DistanceM returns an approximate metric distance between two nearby points,
// correcting longitude by cos(lat).
func DistanceM(a, b types.GeoPoint) float64 {
	latM := (a.Lat - b.Lat) * KmPerDegree * 1000
	lngM := (a.Lng - b.Lng) * KmPerDegree * 1000 * math.Cos(a.Lat*math.Pi/180)
	return math.Sqrt(latM*latM + lngM*lngM)
}

// BoundsAreaKm2 converts a lat/lng bounding box to km² with the fixed
// 111 km/degree factor.
func BoundsAreaKm2(b types.Bounds) float64 {
	return (b.North - b.South) * KmPerDegree * (b.East - b.West) * KmPerDegree
}

// CellGroundAreaM2 returns the ground area of a square degree cell at the
// given latitude, shrinking the east-west extent by cos(lat).
func CellGroundAreaM2(lat, sizeDeg float64) float64 {
	side := sizeDeg * KmPerDegree * 1000
	return side * side * math.Cos(lat*math.Pi/180)
}
