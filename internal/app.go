package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	cache_adapter "catalog-service/internal/adapters/cache"
	logger_adapter "catalog-service/internal/adapters/logger"
	postgres_adapter "catalog-service/internal/adapters/postgres"
	rabbitmq_adapter "catalog-service/internal/adapters/rabbitmq"
	"catalog-service/internal/adapters/rest"
	"catalog-service/internal/configs"
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/usecase"
	fluentlogger "catalog-service/pkg/fluent_logger"
	"catalog-service/pkg/postgres"
	"catalog-service/pkg/rabbitmq/rabbitmq_common"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App структура приложения
type App struct {
	config        *configs.AppConfig
	dbPool        *pgxpool.Pool
	referralsPool *pgxpool.Pool // nil, если рефералы в основной базе
	redisClient   *redis.Client
	apiServer     *rest.Server
	fluentClient  *fluent.Fluent
	connManager   *rabbitmq_common.ConnectionManager
	logger        port.LoggerPort

	importListener port.EventListenerPort
}

// NewApp composition root: здесь создаются и связываются все зависимости
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app := &App{config: appConfig, logger: contextkeys.NoopLogger()}
	// при ошибке сборки закрываем то, что уже успели открыть
	ok := false
	defer func() {
		if !ok {
			app.closeResources()
		}
	}()

	// --- 1. ЛОГГЕРЫ ---
	baseLogger, err := app.initLoggers()
	if err != nil {
		return nil, err
	}
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	app.logger = appLogger

	// --- 2. POSTGRES ---
	ctx := context.Background()
	app.dbPool, err = postgres.NewClient(ctx, postgres.Config{
		DatabaseURL: appConfig.Database.URL,
		MaxConns:    appConfig.Database.MaxConns,
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", port.Fields{"max_conns": appConfig.Database.MaxConns})

	referralsPool := app.dbPool
	if appConfig.Database.ReferralsURL != "" && appConfig.Database.ReferralsURL != appConfig.Database.URL {
		app.referralsPool, err = postgres.NewClient(ctx, postgres.Config{
			DatabaseURL: appConfig.Database.ReferralsURL,
			MaxConns:    appConfig.Database.MaxConns,
		})
		if err != nil {
			appLogger.Error("Failed to connect to referrals database", err, nil)
			return nil, fmt.Errorf("failed to connect to referrals database: %w", err)
		}
		referralsPool = app.referralsPool
		appLogger.Info("Connected to separate referrals database.", nil)
	}

	if err := postgres_adapter.EnsureCollectionsSchema(ctx, app.dbPool, appConfig.Database.CollectionsSchema); err != nil {
		appLogger.Error("Failed to ensure collections schema", err, nil)
		return nil, err
	}
	if appConfig.Database.RunMigrations {
		if err := postgres_adapter.RunMigrations(ctx, referralsPool); err != nil {
			appLogger.Error("Failed to run migrations", err, nil)
			return nil, err
		}
		appLogger.Info("Database migrations applied.", nil)
	}

	schema := appConfig.Database.CollectionsSchema
	itemRepo, err := postgres_adapter.NewItemRepository(app.dbPool, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create item repository: %w", err)
	}
	collectionRepo, err := postgres_adapter.NewCollectionRepository(app.dbPool, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection repository: %w", err)
	}
	referralRepo, err := postgres_adapter.NewReferralRepository(referralsPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create referral repository: %w", err)
	}
	appLogger.Info("Postgres storage adapters initialized.", nil)

	// --- 3. КЭШИ ---
	cacheOpts := cache_adapter.Options{
		Backend:   appConfig.Cache.Backend,
		TTL:       appConfig.Cache.TTL,
		KeyPrefix: appConfig.Cache.KeyPrefix,
	}
	if appConfig.Cache.Backend == cache_adapter.BackendRedis {
		app.redisClient = redis.NewClient(&redis.Options{
			Addr:     appConfig.Cache.RedisAddr,
			Password: appConfig.Cache.RedisPass,
			DB:       appConfig.Cache.RedisDB,
		})
		if err := app.redisClient.Ping(ctx).Err(); err != nil {
			appLogger.Error("Failed to connect to Redis", err, port.Fields{"addr": appConfig.Cache.RedisAddr})
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		cacheOpts.Redis = app.redisClient
	}

	attributesCache, err := cache_adapter.New[domain.AttributeDistribution]("attributes", cacheOpts)
	if err != nil {
		return nil, err
	}
	statsCache, err := cache_adapter.New[domain.CollectionStats]("stats", cacheOpts)
	if err != nil {
		return nil, err
	}
	collectionsCache, err := cache_adapter.New[[]domain.CollectionInfo]("collections", cacheOpts)
	if err != nil {
		return nil, err
	}
	appLogger.Info("Result caches initialized.", port.Fields{"backend": cacheOpts.Backend, "ttl": cacheOpts.TTL.String()})

	// --- 4. USE CASES ---
	getItemsUseCase := usecase.NewGetItemsUseCase(itemRepo, usecase.PaginationConfig{
		DefaultLimit: appConfig.Catalog.DefaultLimit,
		MaxLimit:     appConfig.Catalog.MaxLimit,
	})
	getAttributesUseCase := usecase.NewGetAttributesUseCase(itemRepo, attributesCache, appConfig.Catalog.PriorityTraits)
	getStatsUseCase := usecase.NewGetStatsUseCase(collectionRepo, statsCache)
	listCollectionsUseCase := usecase.NewListCollectionsUseCase(collectionRepo, collectionsCache)
	checkCollectionUseCase := usecase.NewCheckCollectionUseCase(collectionRepo)
	getCollectionDataUseCase := usecase.NewGetCollectionDataUseCase(getItemsUseCase, getAttributesUseCase, getStatsUseCase)
	addReferralUseCase := usecase.NewAddReferralUseCase(referralRepo)
	getInvitedUsersUseCase := usecase.NewGetInvitedUsersUseCase(referralRepo)

	// --- 5. ИМПОРТ ИЗ RABBITMQ ---
	if appConfig.RabbitMQ.Enabled {
		importAdapter, err := postgres_adapter.NewItemImportAdapter(app.dbPool, schema)
		if err != nil {
			return nil, fmt.Errorf("failed to create item import adapter: %w", err)
		}
		importItemsUseCase := usecase.NewImportItemsUseCase(importAdapter)

		connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
		app.connManager, err = rabbitmq_common.NewConnectionManager(
			rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger),
		)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

		app.importListener, err = rabbitmq_adapter.NewItemImportConsumerAdapter(
			rabbitmq_adapter.ImportConsumerConfig(appConfig.RabbitMQ.URL),
			importItemsUseCase,
			appConfig.RabbitMQ.BatchSize,
			appConfig.RabbitMQ.BatchTimeout,
			baseLogger,
			app.connManager,
		)
		if err != nil {
			appLogger.Error("Failed to create item import listener", err, nil)
			return nil, err
		}
		appLogger.Info("Item import listener initialized.", nil)
	}

	// --- 6. REST ---
	catalogHandlers := rest.NewCatalogHandler(
		getItemsUseCase,
		getAttributesUseCase,
		getStatsUseCase,
		listCollectionsUseCase,
		checkCollectionUseCase,
		getCollectionDataUseCase,
	)
	referralHandlers := rest.NewReferralHandler(addReferralUseCase, getInvitedUsersUseCase)
	healthHandler := rest.NewHealthHandler(app.dbPool)

	app.apiServer = rest.NewServer(rest.ServerConfig{
		Port:           appConfig.Rest.PORT,
		AllowedOrigins: appConfig.Rest.CORSAllowedOrigins,
	}, catalogHandlers, referralHandlers, healthHandler, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	ok = true
	return app, nil
}

// initLoggers stdout всегда, Fluent Bit по конфигурации
func (a *App) initLoggers() (port.LoggerPort, error) {
	cfg := a.config
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(cfg.StdoutLogger.Level),
		IsJSON:   cfg.StdoutLogger.JSON,
		UseColor: cfg.StdoutLogger.Colors,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if cfg.FluentBit.Enabled {
		client, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		a.fluentClient = client

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(client, logger_adapter.ParseLevel(cfg.FluentBit.Level))
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

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": cfg.AppName})
	baseLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers),
		"fluent_enabled": cfg.FluentBit.Enabled,
	})
	return baseLogger, nil
}

// Run запускает компоненты и управляет их жизненным циклом
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	var wg sync.WaitGroup
	errorsCh := make(chan error, 2)

	a.logger.Info("Application is starting...", nil)

	if a.importListener != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listenerLogger := a.logger.WithFields(port.Fields{"listener_name": "Item Import Listener"})
			if err := a.importListener.Start(appCtx); err != nil {
				listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
				errorsCh <- fmt.Errorf("item import listener error: %w", err)
				return
			}
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}()
	}

	go func() {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)

	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	a.logger.Info("Shutdown sequence initiated...", nil)

	// сначала слушатели: недоработанная пачка доводится до конца
	cancelApp()
	wg.Wait()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.config.Rest.ShutdownTimeout)
	defer cancelShutdown()
	if err := a.apiServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("Error during API server shutdown", err, nil)
	}

	a.closeResources()
	return runErr
}

// closeResources порядок: слушатели, брокер, кэш, пулы, fluent
func (a *App) closeResources() {
	if a.importListener != nil {
		if err := a.importListener.Close(); err != nil {
			a.logger.Error("Error closing item import listener", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Error closing Redis client", err, nil)
		}
	}
	if a.referralsPool != nil {
		a.referralsPool.Close()
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent может быть уже недоступен, поэтому в stdout
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}
