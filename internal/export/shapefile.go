// Package export writes spatial clustering results as shapefiles so GIS
// tools can consume them alongside the GeoJSON output.
package export

import (
	"path/filepath"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/urbandata-br/ruido-cli/internal/geocluster"
)

// ClusteredPoint pairs a coordinate with its two cluster assignments.
type ClusteredPoint struct {
	Lat       float64
	Lng       float64
	Density   int
	Partition int
}

// WritePoints saves clustered complaint points to dir/points.shp with the
// density and partition cluster ids as attributes.
func WritePoints(dir string, points []ClusteredPoint) error {
	path := filepath.Join(dir, "points.shp")
	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer w.Close()

	w.SetFields([]shp.Field{
		shp.NumberField("DENSITY", 10),
		shp.NumberField("PARTITION", 10),
	})

	for i, p := range points {
		w.Write(&shp.Point{X: p.Lng, Y: p.Lat})
		w.WriteAttribute(i, 0, p.Density)
		w.WriteAttribute(i, 1, p.Partition)
	}
	return nil
}

// WriteCentroids saves the density medians and partition means to
// dir/centroids.shp. The KIND attribute separates the two layers.
func WriteCentroids(dir string, density []geocluster.DensityCluster, partitions []geocluster.PartitionCluster) error {
	path := filepath.Join(dir, "centroids.shp")
	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer w.Close()

	w.SetFields([]shp.Field{
		shp.StringField("KIND", 10),
		shp.NumberField("CLUSTER", 10),
		shp.NumberField("COUNT", 10),
	})

	row := 0
	for _, d := range density {
		w.Write(&shp.Point{X: d.MedianLng, Y: d.MedianLat})
		w.WriteAttribute(row, 0, "density")
		w.WriteAttribute(row, 1, d.ID)
		w.WriteAttribute(row, 2, d.Count)
		row++
	}
	for _, p := range partitions {
		w.Write(&shp.Point{X: p.MeanLng, Y: p.MeanLat})
		w.WriteAttribute(row, 0, "partition")
		w.WriteAttribute(row, 1, p.ID)
		w.WriteAttribute(row, 2, p.Count)
		row++
	}
	return nil
}
