package web

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"Homefeed/internal/domain"
	"Homefeed/internal/ports"
)

// Server renders the aggregated homepage and exposes the raw aggregate as
// JSON. Each request re-runs the cache-checked pipelines, so a request is
// never slower than the slowest cache-miss fetch.
type Server struct {
	aggregator ports.Aggregator
	logger     *slog.Logger
	tmpl       *template.Template
}

// NewServer wires the aggregator into the HTTP layer.
func NewServer(aggregator ports.Aggregator, logger *slog.Logger) *Server {
	tmpl := template.Must(template.New("page").Funcs(template.FuncMap{
		"permalink":   CheckinPermalink,
		"coverURL":    CoverURL,
		"statusLabel": StatusLabel,
		"location":    LocationString,
		"formatDate":  FormatDate,
	}).Parse(pageTemplate))

	return &Server{aggregator: aggregator, logger: logger, tmpl: tmpl}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/api/aggregate", s.handleAggregate)
	r.Get("/healthz", s.handleHealthz)
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	result := s.aggregator.Aggregate(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, pageData{Result: result}); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	result := s.aggregator.Aggregate(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error("encode aggregate", "error", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type pageData struct {
	Result domain.AggregateResult
}
