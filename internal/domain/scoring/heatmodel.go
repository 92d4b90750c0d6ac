package scoring

import (
	"github.com/FACorreiaa/urbansense-api/internal/geo"
	"github.com/FACorreiaa/urbansense-api/internal/types"
)

// Building-level micro-adjustment model. Turns one regional baseline
// temperature into a per-building estimate using only footprint geometry and
// neighbour counts, so a whole viewport costs a single gateway query. This
// model intentionally uses different weights and baselines than the
// area-level urban heat intensity index; the two are distinct named models
// and must not be unified.
const (
	microWeightSize    = 0.29 // building size as albedo/absorption proxy
	microWeightGreen   = 0.21 // green-deficit proxy, negated local density
	microWeightDensity = 0.12 // neighbours within 100m
	microWeightHeight  = 0.08 // height proxy from area thresholding

	// NeighborRadiusM is the neighbour-count radius; callers fetching a
	// footprint snapshot for the model should pad their query box by it.
	NeighborRadiusM = 100.0

	neighborSaturation = 10.0
)

// LocalDensityFactor counts neighbours whose centroid falls within 100m of
// the subject building and saturates the count at 10.
func LocalDensityFactor(b *types.Building, all []*types.Building) float64 {
	count := 0
	for _, other := range all {
		if other.ID == b.ID {
			continue
		}
		if geo.DistanceM(b.Centroid, other.Centroid) <= NeighborRadiusM {
			count++
		}
	}
	return Clamp(float64(count)/neighborSaturation, 0, 1)
}

// MicroHeatDelta returns the °C adjustment added to the regional baseline for
// one building.
func MicroHeatDelta(b *types.Building, localDensity float64) float64 {
	sizeNorm := Clamp(b.AreaM2/2000, 0, 1)
	greenDeficit := -localDensity

	var heightProxy float64
	switch {
	case b.AreaM2 > 1000:
		heightProxy = 1
	case b.AreaM2 > 400:
		heightProxy = 0.5
	}

	return microWeightSize*sizeNorm +
		microWeightGreen*greenDeficit +
		microWeightDensity*localDensity +
		microWeightHeight*heightProxy
}

// BuildingTemp applies the micro model on top of a regional baseline.
func BuildingTemp(baselineC float64, b *types.Building, all []*types.Building) float64 {
	return baselineC + MicroHeatDelta(b, LocalDensityFactor(b, all))
}
