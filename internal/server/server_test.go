package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbandata-br/ruido-cli/internal/config"
	"github.com/urbandata-br/ruido-cli/internal/model"
)

func testServer() *Server {
	records := []*model.Record{
		{
			Protocol:    "2023-0001",
			Description: "Som alto vindo do bar",
			Latitude:    -23.42,
			Longitude:   -51.93,
			Geolocated:  true,
			Tokens:      []string{"som", "alto", "bar"},
			SourceType:  "musica",
			Context:     model.MatchResult{Label: "bar_evento", Score: 1},
			TimeWindows: []string{"noite"},
			TextCluster: "cluster_2",
		},
		{
			Protocol:    "2023-0002",
			Description: "Obra de madrugada",
			Tokens:      []string{"obra"},
			SourceType:  "obra",
			TimeWindows: []string{"madrugada"},
		},
		{
			Protocol:   "2023-0003",
			SourceType: model.SourceTypeUndefined,
		},
	}
	// High limits keep the middleware out of the way for handler tests.
	return New(records, config.Server{RateLimit: 1000, RateBurst: 1000})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, testServer().Router(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRecords_Filters(t *testing.T) {
	router := testServer().Router()

	rec := get(t, router, "/records?source_type=musica")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total   int `json:"total"`
		Records []struct {
			Protocol string   `json:"protocol"`
			Latitude *float64 `json:"latitude"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "2023-0001", body.Records[0].Protocol)
	require.NotNil(t, body.Records[0].Latitude)
	assert.Equal(t, -23.42, *body.Records[0].Latitude)

	rec = get(t, router, "/records?window=madrugada")
	body.Records = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "2023-0002", body.Records[0].Protocol)
	assert.Nil(t, body.Records[0].Latitude, "ungeolocated records carry no coordinates")

	rec = get(t, router, "/records?source_type=inexistente")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Zero(t, body.Total)
	assert.NotNil(t, body.Records)
}

func TestRecords_Pagination(t *testing.T) {
	router := testServer().Router()

	rec := get(t, router, "/records?limit=1")
	var body struct {
		Total   int              `json:"total"`
		Records []map[string]any `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	assert.Len(t, body.Records, 1)

	rec = get(t, router, "/records?limit=1&offset=2")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	require.Len(t, body.Records, 1)
	assert.Equal(t, "2023-0003", body.Records[0]["protocol"])
}

func TestSummary(t *testing.T) {
	router := testServer().Router()

	rec := get(t, router, "/summary/source-types")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []struct {
		Label string `json:"Label"`
		Count int    `json:"Count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, 1, row.Count)
	}

	rec = get(t, router, "/summary/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEvaluate(t *testing.T) {
	router := testServer().Router()

	payload := `[
		{"name": "festa-noturna", "modalities": ["musica"], "windows": ["noite"]},
		{"name": "sem-match", "contexts": ["industria"]}
	]`
	req := httptest.NewRequest(http.MethodPost, "/rules/evaluate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Counts    map[string]int      `json:"counts"`
		Protocols map[string][]string `json:"protocols"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Counts["festa-noturna"])
	assert.Equal(t, 0, body.Counts["sem-match"])
	assert.Equal(t, []string{"2023-0001"}, body.Protocols["festa-noturna"])
}

func TestEvaluate_RejectsBadInput(t *testing.T) {
	router := testServer().Router()

	req := httptest.NewRequest(http.MethodPost, "/rules/evaluate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/rules/evaluate", strings.NewReader(`[{"tokens":["som"]}]`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	srv := New(nil, config.Server{RateLimit: 1, RateBurst: 1})
	router := srv.Router()

	first := get(t, router, "/health")
	assert.Equal(t, http.StatusOK, first.Code)

	second := get(t, router, "/health")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRequestID_PropagatesCallerID(t *testing.T) {
	router := testServer().Router()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
