package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"land-scanner-service/internal/adapters/configfile"
	logger_adapter "land-scanner-service/internal/adapters/logger"
	"land-scanner-service/internal/adapters/memory"
	postgres_adapter "land-scanner-service/internal/adapters/postgres"
	"land-scanner-service/internal/adapters/probe"
	rabbitmq_adapter "land-scanner-service/internal/adapters/rabbitmq"
	"land-scanner-service/internal/adapters/registry"
	"land-scanner-service/internal/adapters/rest"
	"land-scanner-service/internal/configs"
	"land-scanner-service/internal/constants"
	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/port"
	"land-scanner-service/internal/core/usecase"
	fluentlogger "land-scanner-service/pkg/fluent_logger"
	"land-scanner-service/pkg/postgres"
	"land-scanner-service/pkg/rabbitmq/rabbitmq_common"
	"land-scanner-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	config *configs.AppConfig
	logger port.LoggerPort

	appCtx    context.Context
	cancelApp context.CancelFunc

	dbPool        *pgxpool.Pool
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
	fluentClient  *fluent.Fluent
	registry      *registry.Registry

	server    *rest.Server
	startScan *usecase.StartScanUseCase
	scheduler *usecase.WeeklyScheduler
}

// NewApp is the composition root.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	a := &App{config: appConfig}
	ok := false
	defer func() {
		if !ok {
			a.closeResources()
		}
	}()

	baseLogger, err := a.initLoggers()
	if err != nil {
		return nil, err
	}
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	a.logger = appLogger

	a.appCtx, a.cancelApp = context.WithCancel(contextkeys.ContextWithLogger(context.Background(), baseLogger))

	store, err := a.initStore()
	if err != nil {
		appLogger.Error("Failed to initialize storage", err, nil)
		return nil, err
	}
	appLogger.Info("Storage initialized", port.Fields{"backend": appConfig.StorageBackend})

	configProvider, err := a.initScanConfigProvider()
	if err != nil {
		appLogger.Error("Failed to initialize scan config provider", err, nil)
		return nil, err
	}

	events, err := a.initEvents(baseLogger)
	if err != nil {
		appLogger.Error("Failed to initialize event publisher", err, nil)
		return nil, err
	}

	a.registry, err = registry.NewDefault(registry.Config{
		LandWatchBaseURL:  appConfig.Adapters.LandWatchBaseURL,
		HallHallBaseURL:   appConfig.Adapters.HallHallBaseURL,
		Timeout:           appConfig.Adapters.Timeout,
		RandomDelay:       appConfig.Adapters.RandomDelay,
		BrowserEnabled:    appConfig.Adapters.BrowserEnabled,
		BrowserRatePerMin: appConfig.Adapters.BrowserRatePerMin,
	})
	if err != nil {
		appLogger.Error("Failed to build adapter registry", err, nil)
		return nil, fmt.Errorf("failed to build adapter registry: %w", err)
	}
	appLogger.Info("Adapter registry initialized", port.Fields{"adapters": len(a.registry.List())})

	orchestrator := usecase.NewScanOrchestrator(configProvider, a.registry, store, events, nil)
	a.startScan = usecase.NewStartScanUseCase(a.appCtx, orchestrator)
	if appConfig.SchedulerEnabled {
		a.scheduler = usecase.NewWeeklyScheduler(configProvider, store.ScanRuns, a.startScan)
	}

	handlers := rest.Handlers{
		Scans: rest.NewScanHandlers(
			a.startScan,
			usecase.NewGetScanRunsUseCase(store.ScanRuns),
			usecase.NewGetScanRunUseCase(store.ScanRuns),
		),
		Admin: rest.NewAdminHandlers(
			usecase.NewListAdaptersUseCase(a.registry),
			usecase.NewTestAdapterUseCase(a.registry, appConfig.Adapters.Timeout),
			usecase.NewProbeConnectivityUseCase(probe.NewHTTPProber(appConfig.Adapters.ProbeTimeout), appConfig.Adapters.LandWatchBaseURL),
			usecase.NewGetHealthUseCase(store, configProvider),
			usecase.NewGetScanConfigUseCase(configProvider),
		),
		Parcels: rest.NewParcelHandlers(
			usecase.NewSearchParcelsUseCase(store.Parcels, configProvider),
			usecase.NewGetParcelDetailsUseCase(store),
		),
	}
	a.server = rest.NewServer(rest.ServerConfig{
		Port:           appConfig.Port,
		AllowedOrigins: appConfig.CORSOrigins,
		ServiceName:    appConfig.AppName,
	}, handlers, baseLogger)
	appLogger.Info("All components initialized.", nil)

	ok = true
	return a, nil
}

func (a *App) initLoggers() (port.LoggerPort, error) {
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(a.config.StdoutLogger.Level),
		IsJSON:   a.config.StdoutLogger.JSON,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if a.config.FluentBit.Enabled {
		client, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      a.config.FluentBit.Host,
			Port:      a.config.FluentBit.Port,
			TagPrefix: a.config.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		a.fluentClient = client

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(client, logger_adapter.ParseLevel(a.config.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}
	baseLogger := multiLogger.WithFields(port.Fields{"service_name": a.config.AppName})
	baseLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": a.config.FluentBit.Enabled,
	})
	return baseLogger, nil
}

func (a *App) initStore() (port.Store, error) {
	if a.config.StorageBackend == configs.StorageBackendMemory {
		return memory.NewStore().Ports(), nil
	}

	pool, err := postgres.NewClient(a.appCtx, postgres.Config{
		DatabaseURL: a.config.Database.URL,
		MaxConns:    a.config.Database.MaxConns,
	})
	if err != nil {
		return port.Store{}, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	a.dbPool = pool
	return postgres_adapter.NewStore(pool)
}

func (a *App) initScanConfigProvider() (port.ScanConfigProvider, error) {
	if a.config.ScanConfig.Source == configs.ScanConfigSourcePostgres {
		return postgres_adapter.NewConfigStore(a.dbPool)
	}
	return configfile.NewProvider(a.config.ScanConfig.Path), nil
}

func (a *App) initEvents(baseLogger port.LoggerPort) (port.ScanEventsPort, error) {
	if !a.config.RabbitMQ.Enabled {
		a.logger.Info("RabbitMQ disabled, scan events will not be published", nil)
		return rabbitmq_adapter.NoopScanEventsPublisher{}, nil
	}

	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	connManager, err := rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: a.config.RabbitMQ.URL}, connManagerBridge)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	a.connManager = connManager

	producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		ExchangeName:             constants.ScanEventsExchange,
		ExchangeType:             constants.ScanEventsExchangeType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
	}, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	a.eventProducer = producer
	a.logger.Info("RabbitMQ Event Producer initialized.", nil)

	return rabbitmq_adapter.NewScanEventsPublisher(producer)
}

// Run serves HTTP until a signal arrives or the server fails, then shuts
// everything down in reverse order.
func (a *App) Run() error {
	var wg sync.WaitGroup
	defer a.closeResources()

	if a.scheduler != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.logger.Info("Weekly scheduler started", nil)
			a.scheduler.Run(a.appCtx)
			a.logger.Info("Weekly scheduler stopped", nil)
		}()
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- a.server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals...", nil)
	var runErr error
	select {
	case s := <-quit:
		a.logger.Warn("Received signal, shutting down", port.Fields{"signal": s.String()})
	case err := <-serverErrors:
		if err != nil {
			a.logger.Error("HTTP server failed, shutting down", err, nil)
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("Error stopping HTTP server", err, nil)
	}

	// Cancelling appCtx marks an in-flight scan as cancelled.
	a.cancelApp()
	a.logger.Info("Waiting for background processes to finish...", nil)
	wg.Wait()
	a.startScan.Wait()
	a.logger.Info("All background processes finished.", nil)

	return runErr
}

func (a *App) closeResources() {
	if a.cancelApp != nil {
		a.cancelApp()
	}
	logf := func(msg string, err error) {
		if a.logger != nil {
			a.logger.Error(msg, err, nil)
			return
		}
		log.Printf("App: %s: %v\n", msg, err)
	}

	if a.registry != nil {
		if err := a.registry.Close(); err != nil {
			logf("Error closing adapters", err)
		}
		a.registry = nil
	}
	if a.eventProducer != nil {
		if err := a.eventProducer.Close(); err != nil {
			logf("Error closing event producer", err)
		}
		a.eventProducer = nil
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			logf("Error closing RabbitMQ connection manager", err)
		}
		a.connManager = nil
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.dbPool = nil
	}
	if a.logger != nil {
		a.logger.Info("Application shut down gracefully.", nil)
	}
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			log.Printf("App: Error closing fluent client: %v\n", err)
		}
		a.fluentClient = nil
	}
}
