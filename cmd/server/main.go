package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/cashbook/internal/adapter/http"
	"github.com/iho/cashbook/internal/adapter/http/handler"
	postgresRepo "github.com/iho/cashbook/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/cashbook/internal/adapter/repository/redis"
	"github.com/iho/cashbook/internal/infrastructure/config"
	"github.com/iho/cashbook/internal/infrastructure/logger"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
	"github.com/iho/cashbook/internal/infrastructure/redis"
	"github.com/iho/cashbook/internal/statement"
	"github.com/iho/cashbook/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	idGen := postgresRepo.NewULIDGenerator()

	store, err := openStore(ctx, cfg, idGen, log)
	if err != nil {
		return err
	}
	defer store.close()
	log.Info().Str("driver", cfg.StoreDriver).Msg("entry store ready")

	var (
		redisClient      *goredis.Client
		redisPinger      handler.Pinger
		idempotencyStore usecase.IdempotencyStore
	)
	if cfg.RedisEnabled() {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()
		log.Info().Msg("connected to redis")

		redisClient = client
		redisPinger = handler.PingFunc(redis.Pinger(client))
		idempotencyStore = redisRepo.NewIdempotencyStore(client)
	}

	sink, closeSink, err := newSink(cfg, redisClient, idGen)
	if err != nil {
		return err
	}
	defer closeSink()
	if sink != nil {
		log.Info().Str("sink", sink.Name()).Msg("statement sharing enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(registry)

	formatter := statement.NewFormatter(statement.Options{
		DateLayout: cfg.StatementDateLayout,
		Title:      cfg.StatementTitle,
		Locale:     cfg.StatementLocale,
	})

	entryUC := usecase.NewEntryUseCase(store.repo, recorder, log)
	statementUC := usecase.NewStatementUseCase(entryUC, formatter, sink, recorder, log)
	ledgerUC := usecase.NewLedgerUseCase(entryUC)
	_ = checkLedger(ctx, ledgerUC, log)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		EntryHandler:       handler.NewEntryHandler(entryUC),
		StatementHandler:   handler.NewStatementHandler(statementUC),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC),
		HealthHandler:      handler.NewHealthHandler(store.pinger, redisPinger),
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		MetricsRegisterer:  registry,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
