package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lazypower/halflife/internal/store"
)

// Server is the halflife HTTP API server.
type Server struct {
	db       *store.DB
	router   chi.Router
	version  string
	started  time.Time
	halfLife float64 // default half-life hours when a request omits it
}

// New creates a new Server with the given session store, default half-life,
// and version string.
func New(db *store.DB, defaultHalfLifeHours float64, version string) *Server {
	s := &Server{
		db:       db,
		version:  version,
		started:  time.Now(),
		halfLife: defaultHalfLifeHours,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/doses", s.handleListDoses)
		r.Post("/doses", s.handleAddDose)
		r.Delete("/doses", s.handleClearDoses)
		r.Delete("/doses/{doseID}", s.handleDeleteDose)

		r.Get("/level", s.handleLevel)
		r.Get("/series", s.handleSeries)
	})

	r.NotFound(spaHandler())

	s.router = r
}

// requestLogger logs each request with method, path, status, and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}
	count, _ := s.db.CountDoses()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"doses":   count,
	})
}
