package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"

	"github.com/iho/vestlock/internal/adapter/gateway"
	httpAdapter "github.com/iho/vestlock/internal/adapter/http"
	"github.com/iho/vestlock/internal/adapter/http/handler"
	memoryRepo "github.com/iho/vestlock/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/vestlock/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/vestlock/internal/adapter/repository/redis"
	"github.com/iho/vestlock/internal/infrastructure/config"
	"github.com/iho/vestlock/internal/infrastructure/eventpublisher"
	"github.com/iho/vestlock/internal/infrastructure/logger"
	"github.com/iho/vestlock/internal/infrastructure/metrics"
	"github.com/iho/vestlock/internal/infrastructure/postgres"
	"github.com/iho/vestlock/internal/infrastructure/redis"
	"github.com/iho/vestlock/internal/ledger"
	"github.com/iho/vestlock/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "vestlock",
	})

	rate, err := cfg.Rate()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid conversion rate")
	}

	ctx := context.Background()

	// Operation journal: PostgreSQL when configured, otherwise in-memory.
	var (
		pool    *pgxpool.Pool
		journal usecase.Journal
	)
	if cfg.DatabaseURL != "" {
		pool, err = postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL: cfg.DatabaseURL,
			MaxConns:    cfg.DatabaseMaxConns,
			MinConns:    cfg.DatabaseMinConns,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}

		journal = postgresRepo.NewJournalRepository(pool)
		log.Info().Msg("connected to postgres")
	} else {
		journal = memoryRepo.NewJournalRepository()
		log.Warn().Msg("no DATABASE_URL configured, journal is in-memory and will not survive restarts")
	}

	// Idempotency and report caching: only with Redis.
	var (
		redisClient      *redislib.Client
		idempotencyStore usecase.IdempotencyStore
		reportCache      handler.ReportCache
	)
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()

		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		reportCache = redisRepo.NewCache(redisClient)
		log.Info().Msg("connected to redis")
	}

	m := metrics.New()

	engine := ledger.New(rate, cfg.VestingDuration)
	log.Info().
		Str("conversion_rate", rate.String()).
		Dur("vesting_duration", cfg.VestingDuration).
		Msg("vesting engine initialized")

	ledgerUC := usecase.NewLedgerUseCase(
		engine,
		gateway.NewLogGateway(log),
		journal,
		postgresRepo.NewULIDGenerator(),
		postgresRepo.NewRetrier(log),
		m,
		log,
	)

	// Rebuild in-memory state from the journal before accepting traffic.
	if err := ledgerUC.Restore(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to restore ledger state from journal")
	}

	// Outbox drain worker.
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		Journal:   journal,
		Publisher: eventpublisher.NewLogPublisher(log),
		Logger:    log,
		Metrics:   m,
		BatchSize: cfg.PublishBatchSize,
		Interval:  cfg.PublishInterval,
	})
	go func() {
		if err := publisher.Start(publisherCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC, reportCache, cfg.ConsistencyCacheTTL),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Logger:           log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
