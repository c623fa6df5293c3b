package main

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/adapter/http/handler"
	"github.com/iho/cashbook/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/cashbook/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/cashbook/internal/adapter/repository/redis"
	sqliteRepo "github.com/iho/cashbook/internal/adapter/repository/sqlite"
	amqpsink "github.com/iho/cashbook/internal/adapter/sink/amqp"
	redissink "github.com/iho/cashbook/internal/adapter/sink/redis"
	"github.com/iho/cashbook/internal/adapter/sink/sharelink"
	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/config"
	"github.com/iho/cashbook/internal/infrastructure/postgres"
	"github.com/iho/cashbook/internal/usecase"
)

type entryStore struct {
	repo   usecase.EntryRepository
	pinger handler.Pinger
	close  func()
}

func openStore(ctx context.Context, cfg *config.Config, idGen usecase.IDGenerator, log zerolog.Logger) (*entryStore, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
			return nil, err
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseConnectTimeout,
			Logger:         log,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}

		return &entryStore{
			repo:   postgresRepo.NewEntryRepository(pool, idGen),
			pinger: pool,
			close:  pool.Close,
		}, nil

	case config.StoreSQLite:
		repo, err := sqliteRepo.NewEntryRepository(cfg.SQLitePath, idGen)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}

		return &entryStore{
			repo:   repo,
			pinger: repo,
			close:  func() { _ = repo.Close() },
		}, nil

	case config.StoreMemory:
		repo := memory.NewEntryRepository(idGen)
		log.Warn().Msg("using in-memory entry store; data is lost on restart")

		return &entryStore{
			repo:   repo,
			pinger: repo,
			close:  func() {},
		}, nil
	}

	return nil, fmt.Errorf("%w: unknown STORE_DRIVER %q", config.ErrInvalidConfig, cfg.StoreDriver)
}

// newSink returns a nil sink when sharing is disabled.
func newSink(cfg *config.Config, client *goredis.Client, idGen usecase.IDGenerator) (usecase.ExportSink, func(), error) {
	noop := func() {}

	switch cfg.ExportSink {
	case config.SinkNone:
		return nil, noop, nil

	case config.SinkLink:
		sink, err := sharelink.New(cfg.ShareBaseURL)
		if err != nil {
			return nil, noop, err
		}
		return sink, noop, nil

	case config.SinkRedis:
		if client == nil {
			return nil, noop, fmt.Errorf("%w: redis sink needs REDIS_URL", config.ErrInvalidConfig)
		}
		return redissink.New(redisRepo.NewStatementStore(client), idGen, cfg.ShareTTL), noop, nil

	case config.SinkAMQP:
		conn, err := amqpsink.Dial(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to amqp: %w", err)
		}
		sink := amqpsink.New(conn.Channel(), idGen, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		return sink, func() { _ = conn.Close() }, nil
	}

	return nil, noop, fmt.Errorf("%w: unknown EXPORT_SINK %q", config.ErrInvalidConfig, cfg.ExportSink)
}

// checkLedger reconciles the stored ledger once at startup. Problems are
// logged; serving continues so the entries can be corrected through the API.
func checkLedger(ctx context.Context, ledger *usecase.LedgerUseCase, log zerolog.Logger) error {
	err := ledger.CheckLedgerConsistency(ctx)
	switch {
	case err == nil:
		log.Info().Msg("ledger consistent")
	case errors.Is(err, domain.ErrInconsistentLedger):
		log.Warn().Err(err).Msg("ledger failed reconciliation")
	default:
		log.Error().Err(err).Msg("ledger reconciliation could not run")
	}
	return err
}
