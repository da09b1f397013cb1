// Package geofile reads and writes the complaint feature collection. Each
// pipeline run is a full read-transform-write cycle: the whole file is loaded
// into memory, records are transformed, and the collection is written back
// with derived properties added and unknown properties preserved verbatim.
package geofile

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/urbandata-br/ruido-cli/internal/model"
)

type rawFeature struct {
	Type       string          `json:"type"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

type rawCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

// Read loads every feature of the collection into records. Features with a
// missing, malformed or out-of-range geometry are kept — the text pipeline
// still wants them — but flagged ungeolocated and excluded from spatial
// outputs. A missing file is a hard error before any processing starts.
func Read(path string) ([]*model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geofile: read %s", path)
	}

	var fc rawCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "geofile: parse %s", path)
	}

	log := zap.L().With(zap.String("component", "geofile"))
	records := make([]*model.Record, 0, len(fc.Features))
	skippedGeometry := 0
	for _, f := range fc.Features {
		rec := fromProperties(f.Properties)
		if lng, lat, ok := decodePoint(f.Geometry); ok && inRange(lat, lng) {
			rec.Longitude = lng
			rec.Latitude = lat
			rec.Geolocated = true
		} else {
			skippedGeometry++
		}
		records = append(records, rec)
	}
	if skippedGeometry > 0 {
		log.Warn("features without usable geometry",
			zap.Int("count", skippedGeometry),
			zap.Int("total", len(fc.Features)),
		)
	}
	return records, nil
}

// Write persists the records as a feature collection, derived properties
// included.
func Write(path string, records []*model.Record) error {
	features := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		raw, err := encodeFeature(rec)
		if err != nil {
			return err
		}
		features = append(features, raw)
	}
	out := struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}{Type: "FeatureCollection", Features: features}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return eris.Wrap(err, "geofile: marshal collection")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "geofile: write %s", path)
	}
	return nil
}

func decodePoint(raw json.RawMessage) (lng, lat float64, ok bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, 0, false
	}
	var g geom.T
	if err := geojson.Unmarshal(raw, &g); err != nil {
		return 0, 0, false
	}
	pt, isPoint := g.(*geom.Point)
	if !isPoint {
		return 0, 0, false
	}
	coords := pt.FlatCoords()
	if len(coords) < 2 {
		return 0, 0, false
	}
	// GeoJSON order: longitude first.
	return coords[0], coords[1], true
}

func encodeFeature(rec *model.Record) (json.RawMessage, error) {
	var geometry json.RawMessage = json.RawMessage("null")
	if rec.Geolocated {
		g := geom.NewPointFlat(geom.XY, []float64{rec.Longitude, rec.Latitude})
		raw, err := geojson.Marshal(g)
		if err != nil {
			return nil, eris.Wrap(err, "geofile: marshal geometry")
		}
		geometry = raw
	}
	feature := struct {
		Type       string          `json:"type"`
		Geometry   json.RawMessage `json:"geometry"`
		Properties map[string]any  `json:"properties"`
	}{Type: "Feature", Geometry: geometry, Properties: toProperties(rec)}

	raw, err := json.Marshal(feature)
	if err != nil {
		return nil, eris.Wrap(err, "geofile: marshal feature")
	}
	return raw, nil
}

func inRange(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
