package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/petrolea/pedidos-api/internal/config"
	"github.com/petrolea/pedidos-api/internal/pkg/health"
	"github.com/petrolea/pedidos-api/internal/pkg/logger"
	"github.com/petrolea/pedidos-api/internal/service"
)

// Server is the HTTP server.
type Server struct {
	pedidos    service.PedidoService
	auth       service.AuthService
	logger     logger.Logger
	authCfg    config.AuthConfig
	hc         *health.DBHealthChecker
	httpServer *http.Server
}

// NewServer creates a new Server with all routes mounted.
func NewServer(
	pedidos service.PedidoService,
	auth service.AuthService,
	logger logger.Logger,
	authCfg config.AuthConfig,
	serverCfg config.HTTPServerConfig,
	hc *health.DBHealthChecker,
) *Server {
	srv := &Server{
		pedidos: pedidos,
		auth:    auth,
		logger:  logger,
		authCfg: authCfg,
		hc:      hc,
	}

	r := chi.NewRouter()
	r.Use(recoveryMiddleware(logger))
	r.Use(metricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", srv.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", srv.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(authCfg.JWTSecret))

			r.Route("/pedidos", func(r chi.Router) {
				r.Get("/", srv.handleListPedidos)
				r.Post("/", srv.handleCreatePedido)
				r.Get("/buscar", srv.handleSearchPedidos)
				r.Get("/{id}", srv.handleGetPedido)
				r.Put("/{id}", srv.handleUpdatePedido)
				r.Delete("/{id}", srv.handleDeletePedido)
				r.Patch("/{id}/estado", srv.handleChangeEstado)
			})
			r.Get("/estadisticas", srv.handleEstadisticas)
		})
	})

	srv.httpServer = &http.Server{
		Handler:      r,
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		IdleTimeout:  serverCfg.IdleTimeout,
	}

	return srv
}

// Start the server.
func (s *Server) Start(addr string) error {
	s.httpServer.Addr = addr
	s.logger.Infow("server listening", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("shutting down server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.hc != nil && !s.hc.IsHealthy() {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
