// Package redis keeps shared statements in Redis behind an opaque token.
package redis

import (
	"context"
	"fmt"
	"time"

	redisrepo "github.com/iho/cashbook/internal/adapter/repository/redis"
	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/statement"
	"github.com/iho/cashbook/internal/usecase"
)

// Name identifies this sink in receipts, logs and metrics.
const Name = "redis"

// SharedPath is the API path a token is served from.
const SharedPath = "/api/v1/statement/shared/"

// Sink stores statements and hands out tokens.
type Sink struct {
	store *redisrepo.StatementStore
	idGen usecase.IDGenerator
	ttl   time.Duration
	now   func() time.Time
}

// New creates a Sink.
func New(store *redisrepo.StatementStore, idGen usecase.IDGenerator, ttl time.Duration) *Sink {
	return &Sink{
		store: store,
		idGen: idGen,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Name implements usecase.ExportSink.
func (s *Sink) Name() string { return Name }

// Deliver stores the statement and returns its token.
func (s *Sink) Deliver(ctx context.Context, st *statement.Statement) (*domain.ShareReceipt, error) {
	token := s.idGen.Generate()

	if err := s.store.Save(ctx, token, st, s.ttl); err != nil {
		return nil, fmt.Errorf("store statement: %w", err)
	}

	receipt := &domain.ShareReceipt{
		Sink:  Name,
		Token: token,
		URL:   SharedPath + token,
	}
	if s.ttl > 0 {
		expires := s.now().UTC().Add(s.ttl)
		receipt.ExpiresAt = &expires
	}

	return receipt, nil
}

// Shared implements usecase.SharedStatementReader.
func (s *Sink) Shared(ctx context.Context, token string) (*statement.Statement, error) {
	return s.store.Load(ctx, token)
}
