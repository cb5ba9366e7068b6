// Package server exposes a built summary dataset over HTTP for interactive
// filtering consumers. All handlers are read-only; the dataset is immutable
// for the lifetime of the server.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/agdataworks/soilsum-cli/internal/aggregate"
	"github.com/agdataworks/soilsum-cli/internal/export"
	"github.com/agdataworks/soilsum-cli/internal/model"
)

// Server serves one summary dataset plus its auxiliary tables.
type Server struct {
	dataset *aggregate.Dataset
	sites   []model.Site
	refs    []model.Reference
	limiter *rate.Limiter
}

// New creates a Server. Sites and refs may be nil when the auxiliary
// tables were not loaded. rps caps request throughput; zero disables the
// limiter.
func New(ds *aggregate.Dataset, sites []model.Site, refs []model.Reference, rps float64) *Server {
	s := &Server{dataset: ds, sites: sites, refs: refs}
	if rps > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
	return s
}

// Router builds the chi router with CORS, request logging, and the rate
// limiter applied to every route.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))
	r.Use(s.rateLimit)

	r.Get("/health", s.handleHealth)
	r.Get("/summary", s.handleSummary)
	r.Get("/depths", s.handleDepths)
	r.Get("/sites", s.handleSites)
	r.Get("/references", s.handleReferences)
	return r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"rows":   len(s.dataset.Base),
	})
}

// handleSummary returns cumulative rows by default; ?kind=base selects the
// base summary. Remaining query params filter on equality.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rows := s.dataset.Cumulative
	if q.Get("kind") == "base" {
		rows = s.dataset.Base
	}

	match := func(row model.SummaryRow) bool {
		k := row.Key
		return matches(q.Get("review_id"), k.ReviewID) &&
			matches(q.Get("group_facet"), row.GroupFacet) &&
			matches(q.Get("nutrient_group"), k.NutrientGroup) &&
			matches(q.Get("depth"), k.SampleDepth) &&
			matches(q.Get("year"), k.SampleYear)
	}

	var out []export.Row
	for _, row := range rows {
		if match(row) {
			out = append(out, export.ToRow(row))
		}
	}

	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit >= 0 && limit < len(out) {
		out = out[:limit]
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDepths(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dataset.Depths.Levels())
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	type site struct {
		StudyID  string       `json:"study_id"`
		SiteName string       `json:"site_name"`
		Country  string       `json:"country"`
		Lat      export.Float `json:"lat"`
		Lon      export.Float `json:"lon"`
		Region   string       `json:"region"`
	}
	out := make([]site, 0, len(s.sites))
	for _, st := range s.sites {
		if !matches(region, st.Region) {
			continue
		}
		out = append(out, site{
			StudyID:  st.StudyID,
			SiteName: st.SiteName,
			Country:  st.Country,
			Lat:      export.Float(st.Lat),
			Lon:      export.Float(st.Lon),
			Region:   st.Region,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReferences(w http.ResponseWriter, _ *http.Request) {
	type ref struct {
		PaperID string `json:"paper_id"`
		Display string `json:"display"`
	}
	out := make([]ref, 0, len(s.refs))
	for _, rf := range s.refs {
		out = append(out, ref{PaperID: rf.PaperID, Display: rf.Display})
	}
	writeJSON(w, http.StatusOK, out)
}

func matches(want, got string) bool {
	return want == "" || want == got
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}
