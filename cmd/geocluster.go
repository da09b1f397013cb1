package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbandata-br/ruido-cli/internal/export"
	"github.com/urbandata-br/ruido-cli/internal/geocluster"
	"github.com/urbandata-br/ruido-cli/internal/geofile"
)

var (
	geoclusterIn         string
	geoclusterMinSamples int
	geoclusterK          int
	geoclusterElbow      bool
	geoclusterShapeDir   string
)

var geoclusterCmd = &cobra.Command{
	Use:   "geocluster",
	Short: "Group complaint locations by spatial density",
	Long: "Runs the two-stage spatial pipeline: an OPTICS density pass with a haversine " +
		"metric removes noise points, then K-Means partitions the remainder. Reports " +
		"median centroids per density cluster, mean centroids and inertia per partition, " +
		"and the predominant partition for each density cluster. Ungeolocated records " +
		"are excluded up front.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := geofile.Read(geoclusterIn)
		if err != nil {
			return eris.Wrap(err, "geocluster: load input")
		}

		points := make([]geocluster.Point, 0, len(records))
		for _, rec := range records {
			if rec.Geolocated {
				points = append(points, geocluster.Point{Lat: rec.Latitude, Lng: rec.Longitude})
			}
		}

		log := zap.L().With(zap.String("component", "geocluster"))
		log.Info("spatial input",
			zap.Int("records", len(records)),
			zap.Int("geolocated", len(points)),
		)

		minSamples := geoclusterMinSamples
		if minSamples <= 0 {
			minSamples = cfg.Spatial.MinSamples
		}
		k := geoclusterK
		if k <= 0 {
			k = cfg.Spatial.Clusters
		}

		result, err := geocluster.Run(points, geocluster.Options{
			MinSamples:           minSamples,
			Clusters:             k,
			ReachabilityQuantile: cfg.Spatial.ReachabilityQuantile,
			Seed:                 cfg.Spatial.Seed,
		})
		if err != nil {
			// Degenerate inputs are a reported condition, not a crash: tell
			// the operator which knob to turn and exit cleanly.
			if eris.Is(err, geocluster.ErrNoData) {
				log.Warn("no usable clusters: every point was noise or input was empty; lower --min-samples")
				return nil
			}
			if eris.Is(err, geocluster.ErrInsufficientData) {
				log.Warn("fewer clean points than requested clusters; lower --clusters or --min-samples")
				return nil
			}
			return eris.Wrap(err, "geocluster: run")
		}

		clean := 0
		for _, lbl := range result.DensityLabels {
			if lbl != geocluster.Noise {
				clean++
			}
		}
		log.Info("density pass complete",
			zap.Int("clusters", len(result.Density)),
			zap.Int("clean_points", clean),
			zap.Int("noise_points", len(points)-clean),
		)
		for _, d := range result.Density {
			log.Info("density cluster",
				zap.Int("id", d.ID),
				zap.Int("count", d.Count),
				zap.Float64("median_lat", d.MedianLat),
				zap.Float64("median_lng", d.MedianLng),
				zap.Int("predominant_partition", d.Predominant),
			)
		}
		log.Info("partition pass complete", zap.Float64("inertia", result.Inertia))
		for _, p := range result.Partitions {
			log.Info("partition cluster",
				zap.Int("id", p.ID),
				zap.Int("count", p.Count),
				zap.Float64("mean_lat", p.MeanLat),
				zap.Float64("mean_lng", p.MeanLng),
			)
		}

		if geoclusterElbow {
			cleanPoints := make([]geocluster.Point, 0, clean)
			for i, lbl := range result.DensityLabels {
				if lbl != geocluster.Noise {
					cleanPoints = append(cleanPoints, points[i])
				}
			}
			curve, err := geocluster.Elbow(cmd.Context(), cleanPoints, cfg.Spatial.ElbowMaxK, cfg.Spatial.Seed)
			if err != nil {
				return eris.Wrap(err, "geocluster: elbow diagnostic")
			}
			for _, pt := range curve {
				log.Info("elbow", zap.Int("k", pt.K), zap.Float64("inertia", pt.Inertia))
			}
		}

		if geoclusterShapeDir != "" {
			clustered := make([]export.ClusteredPoint, 0, clean)
			for i, lbl := range result.DensityLabels {
				if lbl == geocluster.Noise {
					continue
				}
				clustered = append(clustered, export.ClusteredPoint{
					Lat:       points[i].Lat,
					Lng:       points[i].Lng,
					Density:   lbl,
					Partition: result.PartitionLabels[i],
				})
			}
			if err := export.WritePoints(geoclusterShapeDir, clustered); err != nil {
				return eris.Wrap(err, "geocluster: export points")
			}
			if err := export.WriteCentroids(geoclusterShapeDir, result.Density, result.Partitions); err != nil {
				return eris.Wrap(err, "geocluster: export centroids")
			}
			log.Info("shapefiles written", zap.String("dir", geoclusterShapeDir))
		}
		return nil
	},
}

func init() {
	geoclusterCmd.Flags().StringVar(&geoclusterIn, "in", "", "input GeoJSON file (required)")
	geoclusterCmd.Flags().IntVar(&geoclusterMinSamples, "min-samples", 0, "OPTICS minimum neighborhood size (default: from config)")
	geoclusterCmd.Flags().IntVar(&geoclusterK, "clusters", 0, "K-Means partition count (default: from config)")
	geoclusterCmd.Flags().BoolVar(&geoclusterElbow, "elbow", false, "also compute the inertia-vs-k elbow curve")
	geoclusterCmd.Flags().StringVar(&geoclusterShapeDir, "shapefile", "", "directory to write point and centroid shapefiles")
	_ = geoclusterCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(geoclusterCmd)
}
