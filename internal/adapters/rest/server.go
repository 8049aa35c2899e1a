package rest

import (
	"context"
	"net/http"
	"time"

	"catalog-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

func NewServer(cfg ServerConfig,
	catalogHandlers *CatalogHandler,
	referralHandlers *ReferralHandler,
	healthHandler *HealthHandler,
	baseLogger port.LoggerPort) *Server {

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(MetricsMiddleware, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", traceHeader},
		ExposedHeaders: []string{traceHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", healthHandler.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/collection-data/{giftName}", catalogHandlers.GetCollectionData)
		r.Get("/items/{giftName}", catalogHandlers.GetItems)
		r.Get("/attributes/{giftName}", catalogHandlers.GetAttributes)
		r.Get("/stats/{giftName}", catalogHandlers.GetStats)
		r.Get("/list-exports", catalogHandlers.ListExports)
		r.Get("/check-file/{giftName}", catalogHandlers.CheckFile)

		r.Post("/referral", referralHandlers.AddReferral)
		r.Get("/referral", referralHandlers.GetInvitedUsers)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

// Handler корневой http.Handler, нужен тестам
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
