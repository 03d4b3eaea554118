package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/fcv-2025.net/grader/internal/adapter/metrics"
	"gitlab.com/fcv-2025.net/grader/internal/config"
	"gitlab.com/fcv-2025.net/grader/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/grader/internal/handlers"
	"gitlab.com/fcv-2025.net/grader/internal/handlers/gradings"
)

type ServiceProvider struct {
	grading      gradings.Dependencies
	jwt          primary.JWTService
	healthChecks map[string]handlers.Pinger
	metrics      *prometheus.Registry
}

// NewServiceProvider bundles what the routes need. jwt may be nil to leave
// the API unguarded.
func NewServiceProvider(
	grading gradings.Dependencies,
	jwt primary.JWTService,
	healthChecks map[string]handlers.Pinger,
	metricsRegistry *prometheus.Registry,
) *ServiceProvider {
	return &ServiceProvider{
		grading:      grading,
		jwt:          jwt,
		healthChecks: healthChecks,
		metrics:      metricsRegistry,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	cfg             *config.HTTPConfig
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(cfg *config.HTTPConfig, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		cfg:             cfg,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	if s.ServiceProvider.grading.Grading == nil || s.ServiceProvider.grading.Languages == nil {
		return errors.New("grading service and language registry are required")
	}

	middleware := handlers.New(s.ServiceProvider.jwt, s.logger)

	r := mux.NewRouter()
	r.Use(middleware.AccessLog)
	handlers.NewHealthHandler(s.ServiceProvider.healthChecks, s.logger).RegisterRoutes(r)
	if s.ServiceProvider.metrics != nil {
		r.Handle("/metrics", metrics.Handler(s.ServiceProvider.metrics)).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTMiddleware)
	gradings.NewGradingHandler(s.ServiceProvider.grading, s.logger).RegisterRoutes(api)

	s.router = r
	return nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) {
	// Set up server
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr, "service", s.ServiceName)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
	}
}
