package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hamed0406/tcpmonitor/internal/domain"
	"github.com/hamed0406/tcpmonitor/internal/repo"
	"github.com/hamed0406/tcpmonitor/internal/report"
)

// Server exposes read-only views of a running monitor.
type Server struct {
	Logger   *zap.Logger
	Targets  []domain.Target
	Services []string
	Stats    repo.StatsStore
	Clock    clockwork.Clock
}

func NewServer(l *zap.Logger, targets []domain.Target, stats repo.StatsStore, clock clockwork.Clock) *Server {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Server{
		Logger:   l,
		Targets:  targets,
		Services: domain.Services(targets),
		Stats:    stats,
		Clock:    clock,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/targets", s.handleListTargets)
	r.Get("/api/stats", s.handleStats)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// StatsResponse is the body of GET /api/stats: the open window, not yet reset.
type StatsResponse struct {
	Services []domain.ReportRecord `json:"services"`
}

func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Targets)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	recs := report.Records(s.Clock.Now(), s.Services, s.Stats.Peek())
	s.Logger.Debug("stats_served", zap.Int("services", len(recs)))
	writeJSON(w, StatsResponse{Services: recs})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
