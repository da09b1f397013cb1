// Package server exposes classified records to the presentation layer over a
// read-only HTTP API. No classification logic lives here: handlers call into
// the core packages and serialize their results.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/urbandata-br/ruido-cli/internal/config"
	"github.com/urbandata-br/ruido-cli/internal/model"
	"github.com/urbandata-br/ruido-cli/internal/report"
	"github.com/urbandata-br/ruido-cli/internal/rules"
)

// Server serves one loaded record set. The records are read once at startup
// and never mutated; every handler is a pure view over them.
type Server struct {
	records []*model.Record
	cfg     config.Server
}

// New builds a Server over an already-classified record set.
func New(records []*model.Record, cfg config.Server) *Server {
	return &Server{records: records, cfg: cfg}
}

// Router assembles the route tree with CORS, request-id and rate-limit
// middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(requestID)
	r.Use(rateLimit(s.cfg.RateLimit, s.cfg.RateBurst))

	r.Get("/health", s.handleHealth)
	r.Get("/records", s.handleRecords)
	r.Get("/summary/{field}", s.handleSummary)
	r.Post("/rules/evaluate", s.handleEvaluate)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type recordView struct {
	Protocol    string   `json:"protocol"`
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	SourceType  string   `json:"source_type"`
	Context     string   `json:"context"`
	TimeWindows []string `json:"time_windows"`
	TextCluster string   `json:"text_cluster"`
	Tokens      []string `json:"tokens"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sourceType := q.Get("source_type")
	context := q.Get("context")
	window := q.Get("window")
	limit := intParam(q.Get("limit"), 100)
	offset := intParam(q.Get("offset"), 0)

	var views []recordView
	matched := 0
	for _, rec := range s.records {
		if sourceType != "" && rec.SourceType != sourceType {
			continue
		}
		if context != "" && rec.Context.Label != context {
			continue
		}
		if window != "" && !containsString(rec.TimeWindows, window) {
			continue
		}
		matched++
		if matched <= offset || len(views) >= limit {
			continue
		}
		views = append(views, toView(rec))
	}
	if views == nil {
		views = []recordView{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": matched, "records": views})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, "field")
	var rows []report.Frequency
	switch field {
	case "source-types":
		rows = report.Breakdown(s.records, func(r *model.Record) string { return r.SourceType })
	case "contexts":
		rows = report.Breakdown(s.records, func(r *model.Record) string { return r.Context.Label })
	case "clusters":
		rows = report.Breakdown(s.records, func(r *model.Record) string { return r.TextCluster })
	default:
		http.Error(w, `{"error":"unknown summary field"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var ruleList []rules.Rule
	if err := json.NewDecoder(r.Body).Decode(&ruleList); err != nil {
		http.Error(w, `{"error":"invalid rule list"}`, http.StatusBadRequest)
		return
	}
	for _, rule := range ruleList {
		if rule.Name == "" {
			http.Error(w, `{"error":"every rule needs a name"}`, http.StatusBadRequest)
			return
		}
	}

	counts := make(map[string]int, len(ruleList))
	matches := make(map[string][]string, len(ruleList))
	for _, rule := range ruleList {
		counts[rule.Name] = 0
	}
	for _, rec := range s.records {
		for _, name := range rules.Evaluate(rec, ruleList) {
			counts[name]++
			if rec.Protocol != "" {
				matches[name] = append(matches[name], rec.Protocol)
			}
		}
	}
	zap.L().Info("evaluated ad hoc rules",
		zap.Int("rules", len(ruleList)),
		zap.Int("records", len(s.records)),
	)
	writeJSON(w, http.StatusOK, map[string]any{"counts": counts, "protocols": matches})
}

func toView(rec *model.Record) recordView {
	v := recordView{
		Protocol:    rec.Protocol,
		Description: rec.Description,
		SourceType:  rec.SourceType,
		Context:     rec.Context.Label,
		TimeWindows: rec.TimeWindows,
		TextCluster: rec.TextCluster,
		Tokens:      rec.Tokens,
	}
	if rec.Geolocated {
		lat, lng := rec.Latitude, rec.Longitude
		v.Latitude, v.Longitude = &lat, &lng
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
