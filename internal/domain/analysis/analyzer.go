package analysis

import (
	"math"

	"github.com/FACorreiaa/urbansense-api/internal/domain/scoring"
	"github.com/FACorreiaa/urbansense-api/internal/types"
)

// Deterministic per-building estimate formulas. These are part of the output
// contract; the constants document the assumed system characteristics.
const (
	panelEfficiency    = 0.20    // commodity rooftop PV
	performanceRatio   = 0.85    // inverter and wiring losses
	co2PerKWh          = 0.5     // kg CO2 offset per kWh
	runoffCoefficient  = 0.90    // rooftop collection efficiency
	litersPerHousehold = 50000.0 // annual non-potable demand per household

	heatTierHighAreaM2   = 1000.0
	heatTierMediumAreaM2 = 500.0
)

// SolarEstimate converts footprint area and averaged daily irradiance into an
// annual generation figure: area × irradiance × 365 × efficiency × PR.
func SolarEstimate(areaM2, avgIrradiance float64) (annualKWh, co2OffsetKg float64) {
	annualKWh = areaM2 * avgIrradiance * 365 * panelEfficiency * performanceRatio
	return annualKWh, co2PerKWh * annualKWh
}

// WaterEstimate converts footprint area and annual rainfall into harvested
// liters and the number of households that volume supports.
func WaterEstimate(areaM2, annualRainfallMM float64) (annualLiters float64, households int) {
	annualLiters = areaM2 * annualRainfallMM * runoffCoefficient
	return annualLiters, int(math.Floor(annualLiters / litersPerHousehold))
}

// HeatTierForArea classifies heat risk by footprint area alone. Deliberately
// simpler than the area-level heat model; the two are separate by design.
func HeatTierForArea(areaM2 float64) types.HeatTier {
	switch {
	case areaM2 > heatTierHighAreaM2:
		return types.HeatTierHigh
	case areaM2 > heatTierMediumAreaM2:
		return types.HeatTierMedium
	default:
		return types.HeatTierLow
	}
}

// AnalyzeBuildingLocal assembles the full analysis from already-fetched
// climate samples. neighbors is the viewport snapshot used by the micro heat
// model; pass only the subject when no snapshot is available.
func AnalyzeBuildingLocal(b *types.Building, climate, precip types.ClimateSample, neighbors []*types.Building) *types.BuildingAnalysis {
	out := &types.BuildingAnalysis{
		BuildingID: b.ID,
		AreaM2:     b.AreaM2,
		Centroid:   b.Centroid,
	}

	if climate.AvgIrradiance != nil {
		annual, co2 := SolarEstimate(b.AreaM2, *climate.AvgIrradiance)
		out.Solar = types.SolarEstimate{
			AnnualEnergyKWh: annual,
			CO2OffsetKg:     co2,
			IsReal:          climate.IsReal,
			SourceNote:      climate.SourceNote,
		}
	} else {
		out.Solar = types.SolarEstimate{IsReal: false, SourceNote: climate.SourceNote}
	}

	if precip.AnnualPrecipitation != nil {
		liters, households := WaterEstimate(b.AreaM2, *precip.AnnualPrecipitation)
		out.Water = types.WaterEstimate{
			AnnualLiters:        liters,
			HouseholdsSupported: households,
			IsReal:              precip.IsReal,
			SourceNote:          precip.SourceNote,
		}
	} else {
		out.Water = types.WaterEstimate{IsReal: false, SourceNote: precip.SourceNote}
	}

	out.Heat = types.HeatEstimate{Tier: HeatTierForArea(b.AreaM2)}
	if climate.AvgTemperature != nil {
		est := scoring.BuildingTemp(*climate.AvgTemperature, b, neighbors)
		out.Heat.EstimatedTemp = types.Float64Ptr(est)
		out.Heat.IsReal = climate.IsReal
		out.Heat.SourceNote = climate.SourceNote
	} else {
		out.Heat.IsReal = false
		out.Heat.SourceNote = climate.SourceNote
	}

	return out
}
