package metric

import (
	"sort"

	"github.com/michaltopolski/riona-go/internal/dataset"
)

// Neighbor is a candidate row and its distance to the test instance.
type Neighbor struct {
	Index int
	Dist  float64
}

// Neighbors ranks candidates by distance to test and returns the first k,
// ordered (dist ascending, index ascending). The index tie-break is
// mandatory: it is what makes the result deterministic when several
// candidates land on the same distance. If k exceeds len(candidates) the
// full candidate list is returned, no error.
func Neighbors(ds *dataset.Dataset, stats Stats, cfg DistanceConfig, test dataset.Instance, candidates []int, k int) []Neighbor {
	neighbors := make([]Neighbor, len(candidates))
	for i, idx := range candidates {
		neighbors[i] = Neighbor{
			Index: idx,
			Dist:  InstanceDistance(ds, stats, cfg, test, ds.Rows[idx]),
		}
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Dist != neighbors[j].Dist {
			return neighbors[i].Dist < neighbors[j].Dist
		}
		return neighbors[i].Index < neighbors[j].Index
	})

	if k > len(neighbors) {
		k = len(neighbors)
	}
	if k < 0 {
		k = 0
	}
	return neighbors[:k]
}

// Indices extracts the row indices of a neighbor list, in the same order.
func Indices(neighbors []Neighbor) []int {
	idx := make([]int, len(neighbors))
	for i, n := range neighbors {
		idx[i] = n.Index
	}
	return idx
}
