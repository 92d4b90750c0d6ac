package analysis

import (
	"github.com/google/uuid"

	"github.com/FACorreiaa/urbansense-api/internal/geo"
	"github.com/FACorreiaa/urbansense-api/internal/types"
)

const (
	// DefaultClusterThresholdDeg is the planar-degree linkage distance
	// (~111m). Planar rather than geodesic: only consistency within one
	// city-scale viewport matters.
	DefaultClusterThresholdDeg = 0.001

	// MinClusterSize is the smallest group emitted as a cluster. Smaller
	// groups are discarded so clusters represent genuine concentrations,
	// not isolated structures.
	MinClusterSize = 3
)

// ClusterBuilder groups nearby buildings by single-linkage expansion: a
// building joins a cluster if it is within the threshold of any member.
type ClusterBuilder struct {
	thresholdDeg float64
	minSize      int
}

// NewClusterBuilder builds a cluster builder; non-positive arguments fall
// back to the defaults.
func NewClusterBuilder(thresholdDeg float64, minSize int) *ClusterBuilder {
	if thresholdDeg <= 0 {
		thresholdDeg = DefaultClusterThresholdDeg
	}
	if minSize <= 0 {
		minSize = MinClusterSize
	}
	return &ClusterBuilder{thresholdDeg: thresholdDeg, minSize: minSize}
}

// Build clusters the snapshot. Every emitted cluster has at least minSize
// members; isolated buildings never appear in the output.
func (cb *ClusterBuilder) Build(buildings []*types.Building) []*types.Cluster {
	visited := make([]bool, len(buildings))
	var clusters []*types.Cluster

	for i := range buildings {
		if visited[i] {
			continue
		}
		visited[i] = true
		members := []*types.Building{buildings[i]}

		// Frontier expansion: newly added members pull in their own
		// neighbours, so chains of nearby buildings merge.
		for cursor := 0; cursor < len(members); cursor++ {
			for j := range buildings {
				if visited[j] {
					continue
				}
				if geo.DistanceDeg(members[cursor].Centroid, buildings[j].Centroid) <= cb.thresholdDeg {
					visited[j] = true
					members = append(members, buildings[j])
				}
			}
		}

		if len(members) < cb.minSize {
			continue
		}
		clusters = append(clusters, cb.finalize(members))
	}

	return clusters
}

func (cb *ClusterBuilder) finalize(members []*types.Building) *types.Cluster {
	var latSum, lngSum float64
	box := types.Bounds{
		South: members[0].Centroid.Lat, North: members[0].Centroid.Lat,
		West: members[0].Centroid.Lng, East: members[0].Centroid.Lng,
	}
	for _, b := range members {
		latSum += b.Centroid.Lat
		lngSum += b.Centroid.Lng
		if b.Centroid.Lat < box.South {
			box.South = b.Centroid.Lat
		}
		if b.Centroid.Lat > box.North {
			box.North = b.Centroid.Lat
		}
		if b.Centroid.Lng < box.West {
			box.West = b.Centroid.Lng
		}
		if b.Centroid.Lng > box.East {
			box.East = b.Centroid.Lng
		}
	}

	n := float64(len(members))
	return &types.Cluster{
		ID:              uuid.NewString(),
		Buildings:       members,
		BuildingCount:   len(members),
		Centroid:        types.GeoPoint{Lat: latSum / n, Lng: lngSum / n},
		BoundingAreaKm2: geo.BoundsAreaKm2(box),
	}
}
