package export

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbandata-br/ruido-cli/internal/geocluster"
)

func TestWritePoints_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	points := []ClusteredPoint{
		{Lat: -23.42, Lng: -51.93, Density: 0, Partition: 1},
		{Lat: -23.30, Lng: -51.80, Density: 1, Partition: 0},
		{Lat: -20.00, Lng: -45.00, Density: -1, Partition: -1},
	}
	require.NoError(t, WritePoints(dir, points))

	r, err := shp.Open(filepath.Join(dir, "points.shp"))
	require.NoError(t, err)
	defer r.Close()

	fields := r.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "DENSITY", fields[0].String())
	assert.Equal(t, "PARTITION", fields[1].String())

	n := 0
	for r.Next() {
		i, shape := r.Shape()
		pt, ok := shape.(*shp.Point)
		require.True(t, ok)
		assert.InDelta(t, points[i].Lng, pt.X, 1e-9)
		assert.InDelta(t, points[i].Lat, pt.Y, 1e-9)
		n++
	}
	assert.Equal(t, 3, n)
	assert.Equal(t, "1", r.ReadAttribute(0, 1))
	assert.Equal(t, "-1", r.ReadAttribute(2, 0))
}

func TestWriteCentroids_BothKinds(t *testing.T) {
	dir := t.TempDir()
	density := []geocluster.DensityCluster{
		{ID: 0, Count: 4, MedianLat: -23.4185, MedianLng: -51.93},
	}
	partitions := []geocluster.PartitionCluster{
		{ID: 0, Count: 4, MeanLat: -23.4185, MeanLng: -51.93},
		{ID: 1, Count: 4, MeanLat: -23.3005, MeanLng: -51.80},
	}
	require.NoError(t, WriteCentroids(dir, density, partitions))

	r, err := shp.Open(filepath.Join(dir, "centroids.shp"))
	require.NoError(t, err)
	defer r.Close()

	n := 0
	for r.Next() {
		n++
	}
	assert.Equal(t, 3, n)
	assert.Equal(t, "density", r.ReadAttribute(0, 0))
	assert.Equal(t, "partition", r.ReadAttribute(1, 0))
	assert.Equal(t, "partition", r.ReadAttribute(2, 0))
	assert.Equal(t, "1", r.ReadAttribute(2, 1))
	assert.Equal(t, "4", r.ReadAttribute(2, 2))
}

func TestWritePoints_BadDirectory(t *testing.T) {
	err := WritePoints("/nonexistent/dir", nil)
	assert.Error(t, err)
}
