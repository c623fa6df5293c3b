// Package memory is an in-process Entry Store for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

type record struct {
	entry *domain.Entry
	seq   int64
}

// EntryRepository implements usecase.EntryRepository in memory.
type EntryRepository struct {
	mu      sync.RWMutex
	idGen   usecase.IDGenerator
	records map[string]record
	nextSeq int64
}

// NewEntryRepository creates an empty EntryRepository.
func NewEntryRepository(idGen usecase.IDGenerator) *EntryRepository {
	return &EntryRepository{
		idGen:   idGen,
		records: make(map[string]record),
	}
}

// ListAll returns copies of all entries by date, then insertion order.
func (r *EntryRepository) ListAll(ctx context.Context) ([]*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]record, 0, len(r.records))
	for _, rec := range r.records {
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		if c := recs[i].entry.Date.Compare(recs[j].entry.Date); c != 0 {
			return c < 0
		}
		return recs[i].seq < recs[j].seq
	})

	entries := make([]*domain.Entry, len(recs))
	for i, rec := range recs {
		entries[i] = rec.entry.Clone()
	}

	return entries, nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return rec.entry.Clone(), nil
}

// Insert stores a new entry under a generated ID.
func (r *EntryRepository) Insert(ctx context.Context, entry *domain.Entry) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := entry.Clone()
	stored.ID = r.idGen.Generate()
	stored.Balance = decimal.Zero
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt

	r.nextSeq++
	r.records[stored.ID] = record{entry: stored, seq: r.nextSeq}

	return stored.ID, nil
}

// Update replaces an entry, keeping its insertion position.
func (r *EntryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[entry.ID]
	if !ok {
		return domain.ErrEntryNotFound
	}

	updated := entry.Clone()
	updated.Balance = decimal.Zero
	updated.CreatedAt = rec.entry.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	rec.entry = updated
	r.records[entry.ID] = rec

	return nil
}

// Delete removes an entry.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(r.records, id)

	return nil
}

// Ping always succeeds.
func (r *EntryRepository) Ping(ctx context.Context) error {
	return nil
}
