package cluster

import (
	"math"
	"math/rand"

	"github.com/rotisserie/eris"
)

const (
	kmeansMaxIter = 300
	kmeansTol     = 1e-4
)

// KMeansResult holds a finished fit.
type KMeansResult struct {
	Labels    []int
	Centroids [][]float64
	// Inertia is the sum of squared distances from each point to its assigned
	// centroid; lower means tighter clusters.
	Inertia float64
}

// KMeans partitions points into k clusters using k-means++ initialization
// seeded from the given source, so repeated runs over the same input produce
// the same labeling. Initial centers are drawn with probability proportional
// to squared distance from the nearest already-chosen center (non-greedy
// k-means++); assignment ties go to the lowest cluster index.
func KMeans(points [][]float64, k int, seed int64) (*KMeansResult, error) {
	if k <= 0 {
		return nil, eris.Errorf("cluster: k must be positive, got %d", k)
	}
	if len(points) < k {
		return nil, eris.Errorf("cluster: %d points cannot fill %d clusters", len(points), k)
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(points, k, rng)
	labels := make([]int, len(points))

	var inertia float64
	for iter := 0; iter < kmeansMaxIter; iter++ {
		inertia = 0
		for i, p := range points {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				if d := sqDist(p, centroid); d < bestDist {
					best, bestDist = c, d
				}
			}
			labels[i] = best
			inertia += bestDist
		}

		next := recomputeCentroids(points, labels, k, rng)
		if maxShift(centroids, next) < kmeansTol {
			centroids = next
			break
		}
		centroids = next
	}

	// Final assignment against the last centroid update.
	inertia = 0
	for i, p := range points {
		best, bestDist := 0, math.Inf(1)
		for c, centroid := range centroids {
			if d := sqDist(p, centroid); d < bestDist {
				best, bestDist = c, d
			}
		}
		labels[i] = best
		inertia += bestDist
	}

	return &KMeansResult{Labels: labels, Centroids: centroids, Inertia: inertia}, nil
}

// seedCentroids implements k-means++ seeding.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := points[rng.Intn(len(points))]
	centroids = append(centroids, append([]float64(nil), first...))

	dists := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centroids {
				if sd := sqDist(p, c); sd < d {
					d = sd
				}
			}
			dists[i] = d
			total += d
		}
		var idx int
		if total == 0 {
			// All remaining points coincide with a center; any choice works.
			idx = rng.Intn(len(points))
		} else {
			target := rng.Float64() * total
			var cum float64
			for i, d := range dists {
				cum += d
				if cum >= target {
					idx = i
					break
				}
			}
		}
		centroids = append(centroids, append([]float64(nil), points[idx]...))
	}
	return centroids
}

func recomputeCentroids(points [][]float64, labels []int, k int, rng *rand.Rand) [][]float64 {
	dim := len(points[0])
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		c := labels[i]
		counts[c]++
		for d, x := range p {
			sums[c][d] += x
		}
	}
	for c := range sums {
		if counts[c] == 0 {
			// Re-seed an emptied cluster from a random point to keep k stable.
			copy(sums[c], points[rng.Intn(len(points))])
			continue
		}
		for d := range sums[c] {
			sums[c][d] /= float64(counts[c])
		}
	}
	return sums
}

func maxShift(a, b [][]float64) float64 {
	var max float64
	for i := range a {
		if d := sqDist(a[i], b[i]); d > max {
			max = d
		}
	}
	return max
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
