package rest

import (
	"context"
	"fmt"
	"net/http"

	"land-scanner-service/internal/constants"
	"land-scanner-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	ServiceName    string
}

// Handlers groups the handler sets mounted under /api/v1.
type Handlers struct {
	Scans   *ScanHandlers
	Admin   *AdminHandlers
	Parcels *ParcelHandlers
}

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

func NewRouter(cfg ServerConfig, h Handlers, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route(constants.APIPrefix, func(r chi.Router) {
		r.Route("/scans", func(r chi.Router) {
			r.Post("/", h.Scans.HandleStartScan)
			r.Get("/", h.Scans.HandleListScanRuns)
			r.Get("/{scanRunID}", h.Scans.HandleGetScanRun)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/adapters", h.Admin.HandleListAdapters)
			r.Post("/adapters/test", h.Admin.HandleTestAdapter)
			r.Post("/connectivity", h.Admin.HandleProbeConnectivity)
			r.Get("/health", h.Admin.HandleHealth)
			r.Get("/config", h.Admin.HandleGetConfig)
		})

		r.Route("/parcels", func(r chi.Router) {
			r.Get("/", h.Parcels.HandleSearchParcels)
			r.Get("/{parcelID}", h.Parcels.HandleGetParcel)
		})
	})

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "land-scanner-service"
	}
	return otelhttp.NewHandler(r, serviceName)
}

func NewServer(cfg ServerConfig, h Handlers, baseLogger port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: NewRouter(cfg, h, baseLogger),
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
