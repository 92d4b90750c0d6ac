package types

// Building is one footprint from the building provider. AreaM2 and Centroid
// are derived once at construction and cached on the struct. A building set is
// always a full-replacement snapshot for the current viewport; there is no
// incremental diffing between fetches.
type Building struct {
	ID       string     `json:"id"`
	Boundary []GeoPoint `json:"boundary"`
	AreaM2   float64    `json:"area_m2"`
	Centroid GeoPoint   `json:"centroid"`
}

// Cluster is a spatial concentration of buildings used as the unit of analysis
// for priority zones. Invariant: at least MinClusterSize members; smaller
// groups are discarded, never emitted.
type Cluster struct {
	ID              string      `json:"id"`
	Buildings       []*Building `json:"-"`
	BuildingCount   int         `json:"building_count"`
	Centroid        GeoPoint    `json:"centroid"`
	BoundingAreaKm2 float64     `json:"bounding_area_km2"`
	Scores          ScoreVector `json:"scores"`
}

// GridCell is one cell of a sampled viewport grid. Ephemeral, recomputed per
// analysis pass.
type GridCell struct {
	Lat       float64        `json:"lat"`
	Lng       float64        `json:"lng"`
	SizeDeg   float64        `json:"size_deg"`
	Buildings []*Building    `json:"-"`
	Climate   *ClimateSample `json:"climate,omitempty"`
	Scores    ScoreVector    `json:"scores"`
}
