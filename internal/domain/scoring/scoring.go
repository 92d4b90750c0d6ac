// Package scoring implements the normalized sub-scores and the fixed
// weighted composite indices. Weights and clamp bounds are part of the output
// contract and must not be retuned without versioning the API.
package scoring

const (
	// LargeRoofAreaM2 is the footprint area above which a roof counts as
	// "large" for rooftop potential.
	LargeRoofAreaM2 = 500.0

	// LargeRoofTarget is the large-roof count at which rooftop potential
	// saturates at 1.
	LargeRoofTarget = 5.0
)

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NormalizedTemp maps a regional temperature onto [0,1] over the 20–40°C
// comfort-to-extreme range.
func NormalizedTemp(tempC float64) float64 {
	return Clamp((tempC-20)/(40-20), 0, 1)
}

// HeatRisk maps a temperature onto [0,1] over the 28–38°C intervention range.
func HeatRisk(tempC float64) float64 {
	return Clamp((tempC-28)/10, 0, 1)
}

// RooftopPotential saturates the count of large roofs against the target.
func RooftopPotential(largeRoofCount int) float64 {
	v := float64(largeRoofCount) / LargeRoofTarget
	if v > 1 {
		return 1
	}
	return v
}

// UrbanHeatIntensity is the area-level composite heat index.
func UrbanHeatIntensity(normTemp, buildingDensity, greenDeficit float64) float64 {
	return 0.5*normTemp + 0.3*buildingDensity + 0.2*greenDeficit
}

// PriorityScore is the intervention priority composite. All inputs must
// already be in [0,1].
func PriorityScore(heatRisk, densityRisk, greenDeficit, rooftopPotential float64) float64 {
	return 0.35*heatRisk + 0.25*densityRisk + 0.25*greenDeficit + 0.15*rooftopPotential
}
