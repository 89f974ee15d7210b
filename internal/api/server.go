package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"golistarr/internal/api/handlers"
	"golistarr/internal/api/middleware"
	"golistarr/internal/config"
	"golistarr/internal/controllers"
	"golistarr/internal/services/filestore"
)

// Server represents the HTTP server
type Server struct {
	server        *http.Server
	files         *filestore.Store
	listCtrl      *controllers.ListController
	analyticsCtrl *controllers.AnalyticsController
	logger        *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, files *filestore.Store, listCtrl *controllers.ListController, analyticsCtrl *controllers.AnalyticsController, logger *logrus.Logger) *Server {
	s := &Server{
		files:         files,
		listCtrl:      listCtrl,
		analyticsCtrl: analyticsCtrl,
		logger:        logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.Handle("GET /health", healthHandler)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// File uploads
	filesHandler := handlers.NewFilesHandler(s.files, s.logger)
	mux.HandleFunc("POST /api/files", filesHandler.Upload)

	// List CRUD
	listsHandler := handlers.NewListsHandler(s.listCtrl, s.logger)
	mux.HandleFunc("POST /api/lists", listsHandler.Create)
	mux.HandleFunc("GET /api/lists", listsHandler.List)
	mux.HandleFunc("GET /api/lists/{id}", listsHandler.Get)
	mux.HandleFunc("DELETE /api/lists/{id}", listsHandler.Delete)

	// Analytics
	analyticsHandler := handlers.NewAnalyticsHandler(s.analyticsCtrl, s.logger)
	mux.HandleFunc("GET /api/lists/{id}/analytics/genres", analyticsHandler.Genres)
	mux.HandleFunc("GET /api/lists/{id}/analytics/types", analyticsHandler.Types)
	mux.HandleFunc("GET /api/lists/{id}/analytics/ratings", analyticsHandler.Ratings)
	mux.HandleFunc("GET /api/lists/{id}/analytics/years", analyticsHandler.Years)
	mux.HandleFunc("GET /api/lists/{id}/analytics/countries", analyticsHandler.Countries)
	mux.HandleFunc("GET /api/lists/{id}/analytics/companies", analyticsHandler.Companies)
	mux.HandleFunc("GET /api/lists/{id}/analytics/amount", analyticsHandler.Amount)
	mux.HandleFunc("GET /api/lists/{id}/analytics/actors", analyticsHandler.Actors)
	mux.HandleFunc("GET /api/lists/{id}/analytics/directors", analyticsHandler.Directors)
	mux.HandleFunc("GET /api/lists/{id}/analytics/media", analyticsHandler.Media)
	mux.HandleFunc("GET /api/lists/{id}/analytics/upcoming", analyticsHandler.Upcoming)
	mux.HandleFunc("GET /api/lists/{id}/analytics/filters/genres", analyticsHandler.GenreFilters)
	mux.HandleFunc("GET /api/lists/{id}/analytics/filters/years", analyticsHandler.YearFilters)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
