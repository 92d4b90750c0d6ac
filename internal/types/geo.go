package types

// GeoPoint is a WGS84 coordinate in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a geographic bounding box. South/West are inclusive,
// North/East exclusive when used for cell membership.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Valid reports whether the box is non-degenerate and correctly ordered.
func (b Bounds) Valid() bool {
	return b.North > b.South && b.East > b.West
}

// Center returns the midpoint of the box.
func (b Bounds) Center() GeoPoint {
	return GeoPoint{
		Lat: (b.South + b.North) / 2,
		Lng: (b.West + b.East) / 2,
	}
}

// Contains reports half-open membership: south/west edges in, north/east out.
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.South && p.Lat < b.North && p.Lng >= b.West && p.Lng < b.East
}
