package geofile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbandata-br/ruido-cli/internal/model"
)

const sampleCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [-51.93, -23.42]},
      "properties": {
        "Protocolo": "2023-0001",
        "Descrição": "Som alto vindo do bar",
        "DataInclusao_BR": "22:15:00 14-01-2023",
        "Bairro": "Zona 7"
      }
    },
    {
      "type": "Feature",
      "geometry": null,
      "properties": {
        "Protocolo": "2023-0002",
        "Descrição": "Obra de madrugada"
      }
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [-251.0, -23.42]},
      "properties": {
        "Protocolo": "2023-0003",
        "Descrição": "Latidos constantes"
      }
    },
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]},
      "properties": {
        "Protocolo": "2023-0004",
        "Descrição": "Culto com som"
      }
    }
  ]
}`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "complaints.geojson")
	require.NoError(t, os.WriteFile(path, []byte(sampleCollection), 0o644))
	return path
}

func TestRead_GeolocationFlag(t *testing.T) {
	records, err := Read(writeSample(t))
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.True(t, records[0].Geolocated)
	assert.Equal(t, -51.93, records[0].Longitude)
	assert.Equal(t, -23.42, records[0].Latitude)

	// Null, out-of-range and non-point geometries all survive as records but
	// never enter the spatial pipeline.
	assert.False(t, records[1].Geolocated)
	assert.False(t, records[2].Geolocated)
	assert.False(t, records[3].Geolocated)
}

func TestRead_BaseFields(t *testing.T) {
	records, err := Read(writeSample(t))
	require.NoError(t, err)

	rec := records[0]
	assert.Equal(t, "2023-0001", rec.Protocol)
	assert.Equal(t, "Som alto vindo do bar", rec.Description)
	require.True(t, rec.HasTime)
	assert.Equal(t, 22, rec.IncludedAt.Hour())
	assert.Equal(t, 14, rec.IncludedAt.Day())
	assert.Equal(t, "Zona 7", rec.Extra["Bairro"])

	assert.False(t, records[1].HasTime)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read("/nonexistent/complaints.geojson")
	assert.Error(t, err)
}

func TestRead_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.geojson")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := Read(path)
	assert.Error(t, err)
}

func TestRoundTrip_PreservesRecordsAndExtras(t *testing.T) {
	records, err := Read(writeSample(t))
	require.NoError(t, err)

	// Simulate a classify run on the first record.
	records[0].Tokens = []string{"som", "alto", "bar"}
	records[0].SourceType = "musica"
	records[0].Context = model.MatchResult{Label: "bar_evento", Score: 1, Terms: []string{"bar"}}
	records[0].Modality = model.MatchResult{Label: "musica", Score: 1, Terms: []string{"som"}}
	records[0].TimeWindows = []string{"noite"}
	records[0].TextCluster = "cluster_2"

	out := filepath.Join(t.TempDir(), "classified.geojson")
	require.NoError(t, Write(out, records))

	reread, err := Read(out)
	require.NoError(t, err)
	require.Len(t, reread, 4)

	rec := reread[0]
	assert.True(t, rec.Geolocated)
	assert.Equal(t, []string{"som", "alto", "bar"}, rec.Tokens)
	assert.Equal(t, "musica", rec.SourceType)
	assert.Equal(t, "bar_evento", rec.Context.Label)
	assert.Equal(t, 1, rec.Context.Score)
	assert.Equal(t, []string{"bar"}, rec.Context.Terms)
	assert.Equal(t, []string{"noite"}, rec.TimeWindows)
	assert.Equal(t, "cluster_2", rec.TextCluster)
	assert.Equal(t, "Zona 7", rec.Extra["Bairro"])

	assert.False(t, reread[1].Geolocated)
	assert.Equal(t, "2023-0002", reread[1].Protocol)
}

func TestWrite_UnclassifiedRecordStaysBare(t *testing.T) {
	rec := &model.Record{
		Protocol:    "x",
		Description: "d",
		Extra:       map[string]any{model.PropProtocol: "x", model.PropDescription: "d"},
	}
	props := toProperties(rec)

	_, hasSource := props[model.PropSourceType]
	assert.False(t, hasSource)
	_, hasTokens := props[model.PropTokens]
	assert.False(t, hasTokens)
}

func TestToProperties_EmptySlicesStayArrays(t *testing.T) {
	rec := &model.Record{
		SourceType:  model.SourceTypeUndefined,
		Tokens:      []string{},
		TimeWindows: nil,
	}
	props := toProperties(rec)

	assert.Equal(t, []string{}, props[model.PropTokens])
	assert.Equal(t, []string{}, props[model.PropTimeWindows])
	assert.Equal(t, []string{}, props[model.PropContextTerms])
}
