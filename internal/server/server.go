// Package server wires the HTTP API, static files and the catalog reloader.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"busnet/internal/config"
	"busnet/internal/handler"
)

// Server is the HTTP server for the network explorer.
type Server struct {
	router chi.Router
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a Server with all routes registered.
func New(cfg *config.Config, reloader *Reloader, logger *slog.Logger) *Server {
	h := handler.New(reloader, logger)

	r := chi.NewRouter()
	r.Use(securityHeaders)
	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(waitForData(reloader.Ready()))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Get("/routes", h.Routes)
		r.Get("/routes.geojson", h.RoutesGeoJSON)
		r.Get("/routes/{id}", h.RouteDetail)
		r.Get("/stops/{id}", h.StopDetail)
		r.Get("/cities/{city}", h.City)
		r.Get("/cities/{city}/stops.geojson", h.CityStopsGeoJSON)
	})

	r.Get("/cities/{city}", h.CityPage)

	fileServer := http.FileServer(http.Dir(cfg.PublicDir))
	r.Handle("/*", staticCacheHandler(fileServer))

	return &Server{router: r, cfg: cfg, logger: logger}
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
