package types

// ScoreVector holds the normalized sub-scores for a cell or cluster, each in
// [0,1], plus the composite index produced by the fixed weighted formula for
// the analysis mode that computed it.
type ScoreVector struct {
	Heat             float64 `json:"heat"`
	Density          float64 `json:"density"`
	GreenDeficit     float64 `json:"green_deficit"`
	RooftopPotential float64 `json:"rooftop_potential"`
	AirQuality       float64 `json:"air_quality,omitempty"`
	HasAirQuality    bool    `json:"has_air_quality"`
	Composite        float64 `json:"composite"`
}

// ScoredPoint is one output point of an area analysis. Cells or clusters whose
// climate query soft-failed are omitted entirely, so callers must expect fewer
// points than cells requested.
type ScoredPoint struct {
	Lat            float64     `json:"lat"`
	Lng            float64     `json:"lng"`
	Scores         ScoreVector `json:"scores"`
	BuildingCount  int         `json:"building_count"`
	IsReal         bool        `json:"is_real"`
	IsPriorityZone bool        `json:"is_priority_zone,omitempty"`
	SourceNote     string      `json:"source_note,omitempty"`
}

// HeatTier is the per-building heat risk classification.
type HeatTier string

const (
	HeatTierLow    HeatTier = "Low"
	HeatTierMedium HeatTier = "Medium"
	HeatTierHigh   HeatTier = "High"
)

// SolarEstimate is the solar capability section of a building analysis.
type SolarEstimate struct {
	AnnualEnergyKWh float64 `json:"annual_energy_kwh"`
	CO2OffsetKg     float64 `json:"co2_offset_kg"`
	IsReal          bool    `json:"is_real"`
	SourceNote      string  `json:"source_note,omitempty"`
}

// WaterEstimate is the rainwater harvesting section.
type WaterEstimate struct {
	AnnualLiters        float64 `json:"annual_liters"`
	HouseholdsSupported int     `json:"households_supported"`
	IsReal              bool    `json:"is_real"`
	SourceNote          string  `json:"source_note,omitempty"`
}

// HeatEstimate is the urban-heat section. EstimatedTemp applies the
// building-level micro adjustment on top of the regional baseline.
type HeatEstimate struct {
	Tier          HeatTier `json:"tier"`
	EstimatedTemp *float64 `json:"estimated_temp,omitempty"` // °C
	IsReal        bool     `json:"is_real"`
	SourceNote    string   `json:"source_note,omitempty"`
}

// BuildingAnalysis is the full per-building result. Partial success is
// first-class: each capability carries its own real/estimated tag, so a
// building can have real solar data next to a soft-failed water estimate.
type BuildingAnalysis struct {
	BuildingID string        `json:"building_id"`
	AreaM2     float64       `json:"area_m2"`
	Centroid   GeoPoint      `json:"centroid"`
	Solar      SolarEstimate `json:"solar"`
	Water      WaterEstimate `json:"water"`
	Heat       HeatEstimate  `json:"heat"`
}

// AreaMode selects the unit of analysis for an area pass.
type AreaMode string

const (
	AreaModeGrid    AreaMode = "grid"
	AreaModeCluster AreaMode = "cluster"
)
