package geocluster

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/urbandata-br/ruido-cli/internal/cluster"
)

// DefaultElbowMaxK is the largest k the elbow diagnostic fits by default.
const DefaultElbowMaxK = 10

// ElbowPoint is one inertia observation of the elbow curve.
type ElbowPoint struct {
	K       int     `json:"k"`
	Inertia float64 `json:"inertia"`
}

// Elbow fits K-Means at k = 1..maxK over the given (already noise-filtered)
// points and returns the within-cluster sum of squares for each k. There is
// no automatic best-k selection: the curve exists so an operator can pick k
// by eye. The fits are independent, so they run concurrently. maxK is capped
// at the number of points.
func Elbow(ctx context.Context, points []Point, maxK int, seed int64) ([]ElbowPoint, error) {
	if len(points) == 0 {
		return nil, eris.Wrap(ErrNoData, "geocluster: elbow over empty input")
	}
	if maxK <= 0 {
		maxK = DefaultElbowMaxK
	}
	if maxK > len(points) {
		maxK = len(points)
	}

	data := coords(points)
	out := make([]ElbowPoint, maxK)

	g, _ := errgroup.WithContext(ctx)
	for k := 1; k <= maxK; k++ {
		k := k
		g.Go(func() error {
			fit, err := cluster.KMeans(data, k, seed)
			if err != nil {
				return eris.Wrapf(err, "geocluster: elbow fit k=%d", k)
			}
			out[k-1] = ElbowPoint{K: k, Inertia: fit.Inertia}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
