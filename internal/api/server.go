package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/cdcadmin/internal/api/docs"
	"github.com/edvin/cdcadmin/internal/api/handler"
	mw "github.com/edvin/cdcadmin/internal/api/middleware"
	"github.com/edvin/cdcadmin/internal/config"
	"github.com/edvin/cdcadmin/internal/core"
)

// Backend is the part of the CDC client the router uses directly: a
// reachability check and token verification.
type Backend interface {
	mw.Verifier
	Ping(ctx context.Context) error
}

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	backend  Backend
	cfg      *config.Config
	mcp      http.Handler
}

// NewServer builds the console router. mcp is mounted at /mcp when non-nil.
func NewServer(logger zerolog.Logger, cfg *config.Config, services *core.Services, backend Backend, mcp http.Handler) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: services,
		backend:  backend,
		cfg:      cfg,
		mcp:      mcp,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
	s.router.Use(mw.CORS(s.cfg.CORSOrigins))
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	// API documentation (no auth required)
	s.router.Get("/docs/openapi.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(docs.SwaggerJSON())
	})
	s.router.Get("/docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(scalarHTML))
	})

	auth := handler.NewAuth(s.services.Auth)
	s.router.Post("/auth/login", auth.Login)

	pageSize := s.cfg.PageSize
	requireAuth := mw.Auth(s.backend, s.cfg.AuthCacheTTL, time.Now)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/me", auth.Me)

		dashboard := handler.NewDashboard(s.services.Dashboard)
		r.Get("/dashboard", dashboard.Get)

		// Live state over WebSocket (token may be passed as a query param)
		live := handler.NewLive(s.services.Store, s.logger)
		r.Get("/live", live.Stream)

		conn := handler.NewConnection(s.services.Connection, pageSize)
		r.Get("/connections", conn.List)
		r.Post("/connections", conn.Create)
		r.Post("/connections/test", conn.TestUnsaved)
		r.Put("/connections/{id}", conn.Update)
		r.Delete("/connections/{id}", conn.Delete)
		r.Post("/connections/{id}/test", conn.Test)

		pipeline := handler.NewPipeline(s.services.Pipeline, pageSize)
		r.Get("/pipelines", pipeline.List)
		r.Post("/pipelines", pipeline.Create)
		r.Put("/pipelines/{id}", pipeline.Update)
		r.Delete("/pipelines/{id}", pipeline.Delete)
		r.Post("/pipelines/{id}/run", pipeline.Run)
		r.Get("/runs", pipeline.Runs)

		user := handler.NewUser(s.services.User, pageSize)
		r.Get("/users", user.List)
		r.Post("/users", user.Create)
		r.Put("/users/{id}", user.Update)
		r.Delete("/users/{id}", user.Delete)
		r.Get("/roles", user.Roles)
	})

	if s.mcp != nil {
		s.router.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Handle("/mcp", s.mcp)
		})
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.backend.Ping(ctx); err != nil {
		checks["cdc_api"] = err.Error()
		healthy = false
	} else {
		checks["cdc_api"] = "ok"
	}

	select {
	case <-s.services.Store.Done():
		checks["store"] = "stopped"
		healthy = false
	default:
		checks["store"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

const scalarHTML = `<!DOCTYPE html>
<html>
<head>
  <title>CDC Console API</title>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
</head>
<body>
  <script id="api-reference" data-url="/docs/openapi.json"></script>
  <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`
