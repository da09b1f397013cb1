package geocluster

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/urbandata-br/ruido-cli/internal/cluster"
)

// Sentinel conditions the spatial pipeline reports instead of raising from
// inside the numerics. ErrNoData means nothing survived to cluster (empty
// input or everything was noise); ErrInsufficientData means fewer clean
// points than the requested partition count.
var (
	ErrNoData           = eris.New("geocluster: no clusterable points")
	ErrInsufficientData = eris.New("geocluster: fewer points than requested clusters")
)

// Point is one geolocated complaint, in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// DensityCluster summarizes one OPTICS cluster. The median coordinate is
// used rather than the mean because it is robust to stragglers at the
// cluster edge.
type DensityCluster struct {
	ID        int     `json:"id"`
	Count     int     `json:"count"`
	MedianLat float64 `json:"median_lat"`
	MedianLng float64 `json:"median_lng"`
	// Predominant is the partition cluster most of this density cluster's
	// members landed in, or -1 before the partition pass runs.
	Predominant int `json:"predominant_partition"`
}

// PartitionCluster summarizes one K-Means partition.
type PartitionCluster struct {
	ID      int     `json:"id"`
	Count   int     `json:"count"`
	MeanLat float64 `json:"mean_lat"`
	MeanLng float64 `json:"mean_lng"`
}

// Options configures a spatial clustering run.
type Options struct {
	// MinSamples is the OPTICS minimum neighborhood size (the point itself
	// counts).
	MinSamples int
	// Clusters is the K-Means partition count over non-noise points.
	Clusters int
	// ReachabilityQuantile tunes the density cutoff; zero means
	// DefaultReachabilityQuantile.
	ReachabilityQuantile float64
	Seed                 int64
}

// Result is the two-level spatial grouping.
type Result struct {
	// DensityLabels and PartitionLabels are parallel to the input points;
	// noise points carry Noise in both.
	DensityLabels   []int
	PartitionLabels []int

	Density    []DensityCluster
	Partitions []PartitionCluster
	// Inertia is the partition pass fit-quality signal.
	Inertia float64
}

// Run executes the density pass then the partition pass. It fails with
// ErrNoData when the input is empty or OPTICS marks every point as noise,
// and with ErrInsufficientData when fewer points survive noise removal than
// the requested partition count. Both are reported conditions, not crashes.
func Run(points []Point, opts Options) (*Result, error) {
	if opts.ReachabilityQuantile <= 0 {
		opts.ReachabilityQuantile = DefaultReachabilityQuantile
	}
	if opts.Seed == 0 {
		opts.Seed = cluster.DefaultSeed
	}

	densityLabels, density, err := DensityPass(points, opts.MinSamples, opts.ReachabilityQuantile)
	if err != nil {
		return nil, err
	}

	clean := make([]Point, 0, len(points))
	cleanIdx := make([]int, 0, len(points))
	for i, lbl := range densityLabels {
		if lbl != Noise {
			clean = append(clean, points[i])
			cleanIdx = append(cleanIdx, i)
		}
	}
	if len(clean) == 0 {
		return nil, eris.Wrap(ErrNoData, "geocluster: density pass marked every point as noise")
	}
	if len(clean) < opts.Clusters {
		return nil, eris.Wrapf(ErrInsufficientData, "geocluster: %d clean points for k=%d", len(clean), opts.Clusters)
	}

	fit, err := cluster.KMeans(coords(clean), opts.Clusters, opts.Seed)
	if err != nil {
		return nil, eris.Wrap(err, "geocluster: partition pass")
	}

	partitionLabels := make([]int, len(points))
	for i := range partitionLabels {
		partitionLabels[i] = Noise
	}
	for j, idx := range cleanIdx {
		partitionLabels[idx] = fit.Labels[j]
	}

	partitions := summarizePartitions(clean, fit.Labels, opts.Clusters)
	crossReference(density, densityLabels, partitionLabels)

	return &Result{
		DensityLabels:   densityLabels,
		PartitionLabels: partitionLabels,
		Density:         density,
		Partitions:      partitions,
		Inertia:         fit.Inertia,
	}, nil
}

// DensityPass runs OPTICS over the points and summarizes each detected
// cluster with its median coordinate and size.
func DensityPass(points []Point, minSamples int, quantile float64) ([]int, []DensityCluster, error) {
	if len(points) == 0 {
		return nil, nil, eris.Wrap(ErrNoData, "geocluster: empty input")
	}
	if minSamples < 2 {
		return nil, nil, eris.Errorf("geocluster: min samples must be at least 2, got %d", minSamples)
	}

	lat := make([]float64, len(points))
	lng := make([]float64, len(points))
	for i, p := range points {
		lat[i] = p.Lat * math.Pi / 180
		lng[i] = p.Lng * math.Pi / 180
	}

	order, reach, core := optics(lat, lng, minSamples)
	eps := reachabilityQuantile(reach, quantile)
	labels := extract(order, reach, core, eps)

	return labels, summarizeDensity(points, labels), nil
}

func summarizeDensity(points []Point, labels []int) []DensityCluster {
	groups := make(map[int][]Point)
	for i, lbl := range labels {
		if lbl == Noise {
			continue
		}
		groups[lbl] = append(groups[lbl], points[i])
	}
	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]DensityCluster, 0, len(ids))
	for _, id := range ids {
		members := groups[id]
		out = append(out, DensityCluster{
			ID:          id,
			Count:       len(members),
			MedianLat:   median(members, func(p Point) float64 { return p.Lat }),
			MedianLng:   median(members, func(p Point) float64 { return p.Lng }),
			Predominant: Noise,
		})
	}
	return out
}

func summarizePartitions(clean []Point, labels []int, k int) []PartitionCluster {
	sums := make([]PartitionCluster, k)
	for i := range sums {
		sums[i].ID = i
	}
	for i, p := range clean {
		c := labels[i]
		sums[c].Count++
		sums[c].MeanLat += p.Lat
		sums[c].MeanLng += p.Lng
	}
	for i := range sums {
		if sums[i].Count > 0 {
			sums[i].MeanLat /= float64(sums[i].Count)
			sums[i].MeanLng /= float64(sums[i].Count)
		}
	}
	return sums
}

// crossReference fills each density cluster's predominant partition id by
// majority vote over its members; ties go to the lower partition id.
func crossReference(density []DensityCluster, densityLabels, partitionLabels []int) {
	votes := make(map[int]map[int]int)
	for i, dl := range densityLabels {
		if dl == Noise || partitionLabels[i] == Noise {
			continue
		}
		if votes[dl] == nil {
			votes[dl] = make(map[int]int)
		}
		votes[dl][partitionLabels[i]]++
	}
	for i := range density {
		best, bestCount := Noise, 0
		for part, count := range votes[density[i].ID] {
			if count > bestCount || (count == bestCount && part < best) {
				best, bestCount = part, count
			}
		}
		density[i].Predominant = best
	}
}

func coords(points []Point) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = []float64{p.Lat, p.Lng}
	}
	return out
}

func median(points []Point, get func(Point) float64) float64 {
	vals := make([]float64, len(points))
	for i, p := range points {
		vals[i] = get(p)
	}
	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}
