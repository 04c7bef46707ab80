package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/terra-clan/nebula-guide/internal/config"
	"github.com/terra-clan/nebula-guide/internal/health"
	"github.com/terra-clan/nebula-guide/internal/session"
	"github.com/terra-clan/nebula-guide/internal/wizard"
)

// Server represents the HTTP server: the wizard API plus the front end assets
type Server struct {
	config     config.ServerConfig
	router     *chi.Mux
	controller *wizard.Controller
	sessions   session.Store
	health     *health.Registry
	assets     http.Handler
}

// NewServer creates a new server
func NewServer(
	cfg config.ServerConfig,
	controller *wizard.Controller,
	sessions session.Store,
	registry *health.Registry,
	assets http.Handler,
) *Server {
	if registry == nil {
		registry = health.NewRegistry(0)
	}
	s := &Server{
		config:     cfg,
		controller: controller,
		sessions:   sessions,
		health:     registry,
		assets:     assets,
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	timeout := s.config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Everything else belongs to the single-page front end
	r.NotFound(s.handleFallback)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/questionnaire", s.handleGetQuestionnaire)

		r.Route("/wizards", func(r chi.Router) {
			r.Post("/", s.handleCreateWizard)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(s.loadWizard)
				r.Get("/", s.handleGetWizard)
				r.Delete("/", s.handleDeleteWizard)
				r.Post("/actions", s.handleDispatch)
				r.Get("/report", s.handleGetReport)
				r.Get("/share", s.handleShare)
			})
		})
	})

	s.router = r
}

func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") || s.assets == nil ||
		(r.Method != http.MethodGet && r.Method != http.MethodHead) {
		respondError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}
	s.assets.ServeHTTP(w, r)
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
