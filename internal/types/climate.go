package types

// ClimateSample is the canonical shape returned by the upstream gateway for
// any point query. When IsReal is false every numeric pointer is nil and
// SourceNote says why; callers must never treat a nil field as zero.
type ClimateSample struct {
	Latitude            float64  `json:"latitude"`
	Longitude           float64  `json:"longitude"`
	AvgIrradiance       *float64 `json:"avg_irradiance,omitempty"`       // kWh/m²/day
	AvgTemperature      *float64 `json:"avg_temperature,omitempty"`      // °C
	AnnualPrecipitation *float64 `json:"annual_precipitation,omitempty"` // mm/yr
	IsReal              bool     `json:"is_real"`
	SourceNote          string   `json:"source_note,omitempty"`
}

// AirStation is one qualifying ground station (or the regional model estimate
// when no station reports PM2.5).
type AirStation struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Location   GeoPoint `json:"location"`
	PM25       float64  `json:"pm25"`
	SourceType string   `json:"source_type"` // "station" or "model"
}

// AirQualityResult is the gateway's air-quality answer for an area.
type AirQualityResult struct {
	Locations  []AirStation `json:"locations"`
	IsReal     bool         `json:"is_real"`
	SourceNote string       `json:"source_note,omitempty"`
}

// Float64Ptr is a small helper for building samples.
func Float64Ptr(v float64) *float64 { return &v }
