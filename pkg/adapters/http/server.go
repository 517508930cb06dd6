package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/gamestate/internal/logging"
	"github.com/aretw0/gamestate/internal/presentation/graph"
	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/dsl"
	"github.com/aretw0/gamestate/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxEventBody bounds the size of a POST /events body.
const maxEventBody = 64 << 10

// Host is the running session as seen from HTTP handlers.
// *runner.Runner implements it.
type Host interface {
	Snapshot() *domain.Snapshot
	Enqueue(e domain.Event) error
}

// Server serves the introspection and control API.
type Server struct {
	host     Host
	def      *dsl.Definition
	streams  *StreamManager
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithDefinition enables GET /graph.
func WithDefinition(def *dsl.Definition) Option {
	return func(s *Server) {
		s.def = def
	}
}

// WithStreams enables GET /stream. Register the manager as a tick observer
// so it sees every snapshot.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.streams = sm
	}
}

// WithGatherer enables GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for host.
func NewHandler(host Host, opts ...Option) http.Handler {
	s := &Server{host: host, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.Health)
	r.Get("/state", s.State)
	r.Post("/events", s.PostEvent)
	if s.def != nil {
		r.Get("/graph", s.Graph)
	}
	if s.streams != nil {
		r.Get("/stream", s.streams.ServeHTTP)
	}
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	status := "starting"
	if s.host.Snapshot() != nil {
		status = "ok"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status}, s.logger)
}

// State handles GET /state.
func (s *Server) State(w http.ResponseWriter, r *http.Request) {
	snap := s.host.Snapshot()
	if snap == nil {
		http.Error(w, "session not started", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, snap, s.logger)
}

// PostEvent handles POST /events. The body is a single event as accepted by
// domain.DecodeEvent. The event is queued, not delivered, so the response
// is 202 Accepted.
func (s *Server) PostEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	e, err := domain.DecodeEvent(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		s.logger.Warn("PostEvent: invalid event", "err", err)
		return
	}
	if err := s.host.Enqueue(e); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, runner.ErrQueueFull) {
			code = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), code)
		return
	}
	s.logger.Debug("PostEvent: queued", "event", e.String())
	writeJSON(w, http.StatusAccepted, e, s.logger)
}

// Graph handles GET /graph. Add ?overlay=false to omit the active path.
func (s *Server) Graph(w http.ResponseWriter, r *http.Request) {
	var overlay *graph.Overlay
	if r.URL.Query().Get("overlay") != "false" {
		overlay = graph.OverlayFrom(s.host.Snapshot())
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, graph.GenerateMermaid(s.def, overlay))
}

func writeJSON(w http.ResponseWriter, code int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
