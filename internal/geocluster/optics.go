// Package geocluster groups complaint coordinates in two stages: an OPTICS
// density pass with a haversine metric that separates dense regions from
// noise, then a seeded K-Means partition over the surviving points. Both
// stages report aggregate statistics; cluster ids are not stable across runs
// with different parameters.
package geocluster

import (
	"container/heap"
	"math"
	"sort"
)

// Noise marks a point that belongs to no dense region.
const Noise = -1

// DefaultReachabilityQuantile is the quantile of finite reachability
// distances used as the extraction threshold when none is configured.
const DefaultReachabilityQuantile = 0.75

// haversine returns the great-circle distance between two points given in
// radians, on the unit sphere.
func haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := lat2 - lat1
	dLng := lng2 - lng1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * math.Asin(math.Min(1, math.Sqrt(a)))
}

// optics computes the OPTICS ordering and reachability distances for the
// given radian coordinates. minSamples counts the point itself, matching the
// usual library convention. Max eps is unbounded; the extraction step applies
// the actual density cutoff.
func optics(lat, lng []float64, minSamples int) (order []int, reach, core []float64) {
	n := len(lat)
	reach = make([]float64, n)
	core = make([]float64, n)
	processed := make([]bool, n)
	order = make([]int, 0, n)

	dist := func(i, j int) float64 { return haversine(lat[i], lng[i], lat[j], lng[j]) }

	// Core distance: distance to the minSamples-th nearest neighbor.
	neighbors := make([]float64, n)
	for i := 0; i < n; i++ {
		reach[i] = math.Inf(1)
		for j := 0; j < n; j++ {
			neighbors[j] = dist(i, j)
		}
		sort.Float64s(neighbors)
		if minSamples <= n {
			core[i] = neighbors[minSamples-1]
		} else {
			core[i] = math.Inf(1)
		}
	}

	seeds := &seedQueue{}
	for start := 0; start < n; start++ {
		if processed[start] {
			continue
		}
		processed[start] = true
		order = append(order, start)
		update(start, dist, core, reach, processed, seeds)

		for seeds.Len() > 0 {
			p := heap.Pop(seeds).(seedItem).index
			if processed[p] {
				continue
			}
			processed[p] = true
			order = append(order, p)
			update(p, dist, core, reach, processed, seeds)
		}
	}
	return order, reach, core
}

func update(p int, dist func(int, int) float64, core, reach []float64, processed []bool, seeds *seedQueue) {
	if math.IsInf(core[p], 1) {
		return
	}
	for q := range reach {
		if processed[q] {
			continue
		}
		newReach := math.Max(core[p], dist(p, q))
		if newReach < reach[q] {
			reach[q] = newReach
			heap.Push(seeds, seedItem{index: q, reach: newReach})
		}
	}
}

// extract performs a DBSCAN-style sweep of the OPTICS ordering at the given
// eps, labeling each point with a cluster id or Noise.
func extract(order []int, reach, core []float64, eps float64) []int {
	labels := make([]int, len(order))
	for i := range labels {
		labels[i] = Noise
	}
	cluster := -1
	for _, p := range order {
		if reach[p] > eps {
			if core[p] <= eps {
				cluster++
				labels[p] = cluster
			}
			continue
		}
		if cluster >= 0 {
			labels[p] = cluster
		}
	}
	return labels
}

// reachabilityQuantile picks the extraction eps as a quantile of the finite
// reachability distances. Returns +Inf when no point ever became reachable.
func reachabilityQuantile(reach []float64, q float64) float64 {
	finite := make([]float64, 0, len(reach))
	for _, r := range reach {
		if !math.IsInf(r, 1) {
			finite = append(finite, r)
		}
	}
	if len(finite) == 0 {
		return math.Inf(1)
	}
	sort.Float64s(finite)
	idx := int(q * float64(len(finite)-1))
	return finite[idx]
}

type seedItem struct {
	index int
	reach float64
}

// seedQueue is a min-heap on reachability with index as a deterministic
// tie-break.
type seedQueue []seedItem

func (q seedQueue) Len() int { return len(q) }
func (q seedQueue) Less(i, j int) bool {
	if q[i].reach != q[j].reach {
		return q[i].reach < q[j].reach
	}
	return q[i].index < q[j].index
}
func (q seedQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *seedQueue) Push(x any)        { *q = append(*q, x.(seedItem)) }
func (q *seedQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
