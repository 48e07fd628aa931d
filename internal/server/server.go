// Package server wires the HTTP surface: routing, middleware, static files
// and the JSON handlers for auth, tasks and stats.
package server

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/zenstudy/backend/internal/auth"
	"github.com/zenstudy/backend/internal/middleware"
	"github.com/zenstudy/backend/internal/service"
)

// Server holds the services behind the HTTP surface.
type Server struct {
	authService  *service.AuthService
	taskService  *service.TaskService
	statsService *service.StatsService
	jwtManager   *auth.JWTManager
	staticPath   string
	logger       *slog.Logger
}

// New creates a server over the given services. staticPath may be empty to
// disable static file serving.
func New(
	authService *service.AuthService,
	taskService *service.TaskService,
	statsService *service.StatsService,
	jwtManager *auth.JWTManager,
	staticPath string,
	logger *slog.Logger,
) *Server {
	return &Server{
		authService:  authService,
		taskService:  taskService,
		statsService: statsService,
		jwtManager:   jwtManager,
		staticPath:   staticPath,
		logger:       logger,
	}
}

// Handler builds the full routed handler, wrapped for HTTP/2 cleartext.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	r.Use(middleware.Logging(s.logger))
	r.Use(middleware.Metrics(routePattern))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.jwtManager))

			r.Get("/tasks", s.handleListTasks)
			r.Post("/tasks", s.handleCreateTask)
			r.Put("/tasks/{id}", s.handleUpdateTask)
			r.Delete("/tasks/{id}", s.handleDeleteTask)

			r.Get("/stats", s.handleGetStats)
			r.Post("/stats/addpoints", s.handleAddPoints)
			r.Get("/dashboard", s.handleDashboard)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	if s.staticPath != "" {
		r.NotFound(s.serveStatic)
	}

	// HTTP/2 without TLS for local deployments.
	return h2c.NewHandler(r, &http2.Server{})
}

// serveStatic serves files from staticPath, falling back to index.html for
// unknown paths so client-side routing keeps working.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	urlPath := r.URL.Path
	if urlPath == "/" {
		urlPath = "/index.html"
	}

	filePath := filepath.Join(s.staticPath, filepath.Clean(urlPath))
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(s.staticPath, "index.html"))
		return
	}
	http.ServeFile(w, r, filePath)
}

// routePattern reports the chi route that matched, for metrics labels.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
