package usecase

import (
	"context"
	"time"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/statement"
)

// EntryRepository is the Entry Store. It owns entry identity and persistence.
type EntryRepository interface {
	// ListAll returns every entry ascending by date, ties in insertion order.
	ListAll(ctx context.Context) ([]*domain.Entry, error)
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	// Insert assigns and returns the new entry ID.
	Insert(ctx context.Context, entry *domain.Entry) (string, error)
	Update(ctx context.Context, entry *domain.Entry) error
	Delete(ctx context.Context, id string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// ExportSink delivers a rendered statement outside the service.
type ExportSink interface {
	Name() string
	Deliver(ctx context.Context, st *statement.Statement) (*domain.ShareReceipt, error)
}

// SharedStatementReader is implemented by sinks that keep delivered statements.
type SharedStatementReader interface {
	Shared(ctx context.Context, token string) (*statement.Statement, error)
}

// Recorder receives ledger metrics. Implementations must be safe for concurrent use.
type Recorder interface {
	EntryMutated(op string)
	StoreError(op string)
	LedgerSize(n int)
	BalanceComputed(d time.Duration)
	StatementRendered(target string)
	StatementShared(sink string)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete successfully.
	Release(ctx context.Context, key string) error
}

type nopRecorder struct{}

func (nopRecorder) EntryMutated(string)           {}
func (nopRecorder) StoreError(string)             {}
func (nopRecorder) LedgerSize(int)                {}
func (nopRecorder) BalanceComputed(time.Duration) {}
func (nopRecorder) StatementRendered(string)      {}
func (nopRecorder) StatementShared(string)        {}
