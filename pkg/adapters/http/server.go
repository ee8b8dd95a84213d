// Package http serves built networks and their views over a read-only JSON API.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/portnet/internal/presentation/graph"
	"github.com/aretw0/portnet/internal/presentation/views"
	"github.com/aretw0/portnet/pkg/domain"
	"github.com/aretw0/portnet/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultTopHubs is the hub count returned when the request does not set top.
const DefaultTopHubs = 20

// Server holds the dependencies of the API handlers.
type Server struct {
	Store    ports.NetworkStore
	Events   ports.EventSource
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithEvents enables /daily, served from the raw records of source.
func WithEvents(source ports.EventSource) Option {
	return func(s *Server) { s.Events = source }
}

// WithGatherer exposes the collectors of g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.Gatherer = g }
}

// WithLogger sets the request error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.Logger = logger }
}

// NewHandler creates the HTTP handler for the datasets held by store.
func NewHandler(store ports.NetworkStore, opts ...Option) http.Handler {
	s := &Server{
		Store:  store,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/datasets", s.ListDatasets)
	r.Route("/datasets/{id}", func(r chi.Router) {
		r.Get("/", s.GetNetwork)
		r.Get("/ports", s.GetPorts)
		r.Get("/edges", s.GetEdges)
		r.Get("/hubs", s.GetHubs)
		r.Get("/routes", s.GetRoutes)
		r.Get("/graph", s.GetGraph)
	})
	r.Get("/daily", s.GetDaily)
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListDatasets handles GET /datasets.
func (s *Server) ListDatasets(w http.ResponseWriter, r *http.Request) {
	names, err := s.Store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, names)
}

// GetNetwork handles GET /datasets/{id}.
func (s *Server) GetNetwork(w http.ResponseWriter, r *http.Request) {
	if n, ok := s.load(w, r); ok {
		writeJSON(w, n)
	}
}

// GetPorts handles GET /datasets/{id}/ports.
func (s *Server) GetPorts(w http.ResponseWriter, r *http.Request) {
	if n, ok := s.load(w, r); ok {
		writeJSON(w, nonNil(n.Ports))
	}
}

// GetEdges handles GET /datasets/{id}/edges.
func (s *Server) GetEdges(w http.ResponseWriter, r *http.Request) {
	if n, ok := s.load(w, r); ok {
		writeJSON(w, nonNil(n.Edges))
	}
}

// GetHubs handles GET /datasets/{id}/hubs?metric=&top=.
func (s *Server) GetHubs(w http.ResponseWriter, r *http.Request) {
	metric, err := views.ParseHubMetric(r.URL.Query().Get("metric"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	top, err := intParam(r, "top", DefaultTopHubs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if n, ok := s.load(w, r); ok {
		writeJSON(w, views.TopHubs(n.Ports, metric, top))
	}
}

// GetRoutes handles GET /datasets/{id}/routes?rank_by=&top=.
// top is clamped to the route view bounds.
func (s *Server) GetRoutes(w http.ResponseWriter, r *http.Request) {
	routes, _, ok := s.routes(w, r)
	if ok {
		writeJSON(w, routes)
	}
}

// GetGraph handles GET /datasets/{id}/graph and returns a Mermaid diagram of the top
// routes with the top hubs highlighted.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	routes, n, ok := s.routes(w, r)
	if !ok {
		return
	}
	overlay := &graph.GraphOverlay{Selected: r.URL.Query().Get("port_id")}
	for _, h := range views.TopHubs(n.Ports, views.MetricTotalStrength, 10) {
		overlay.Hubs = append(overlay.Hubs, h.PortID)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, graph.GenerateMermaid(routes, n.Ports, overlay))
}

// GetDaily handles GET /daily?port_id=.
func (s *Server) GetDaily(w http.ResponseWriter, r *http.Request) {
	if s.Events == nil {
		http.Error(w, "no event source configured", http.StatusNotFound)
		return
	}
	records, err := s.Events.Load(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, views.DailyVisits(records, r.URL.Query().Get("port_id")))
}

func (s *Server) routes(w http.ResponseWriter, r *http.Request) ([]views.Route, *domain.Network, bool) {
	rank, err := views.ParseRouteRank(r.URL.Query().Get("rank_by"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}
	top, err := intParam(r, "top", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}
	n, ok := s.load(w, r)
	if !ok {
		return nil, nil, false
	}
	return views.TopRoutes(n.Edges, rank, views.ClampTopRoutes(top)), n, true
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*domain.Network, bool) {
	n, err := s.Store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return n, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrDatasetNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.Logger.Error("request failed", "path", r.URL.Path, "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
