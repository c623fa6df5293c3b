// Package sqlite is a single-file Entry Store backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"

	_ "modernc.org/sqlite"
)

const (
	selectColumns = `id, entry_date, particulars, debit_country, debit, credit_country, credit, created_at, updated_at`

	listEntries = `SELECT ` + selectColumns + ` FROM entries ORDER BY entry_date, rowid`
	getEntry    = `SELECT ` + selectColumns + ` FROM entries WHERE id = ?`
	insertEntry = `INSERT INTO entries (` + selectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	updateEntry = `UPDATE entries
SET entry_date = ?, particulars = ?, debit_country = ?, debit = ?, credit_country = ?, credit = ?, updated_at = ?
WHERE id = ?`
	deleteEntry = `DELETE FROM entries WHERE id = ?`
)

// EntryRepository implements usecase.EntryRepository on SQLite.
type EntryRepository struct {
	db    *sql.DB
	idGen usecase.IDGenerator
	now   func() time.Time
}

// NewEntryRepository opens (creating if needed) the database at dbPath and
// applies migrations.
func NewEntryRepository(dbPath string, idGen usecase.IDGenerator) (*EntryRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer; a single connection serialises mutations.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &EntryRepository{
		db:    db,
		idGen: idGen,
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close closes the database.
func (r *EntryRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection.
func (r *EntryRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListAll returns every entry by date, then insertion order.
func (r *EntryRepository) ListAll(ctx context.Context) ([]*domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx, listEntries)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx, getEntry, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return e, nil
}

// Insert stores a new entry and returns its generated ID.
func (r *EntryRepository) Insert(ctx context.Context, entry *domain.Entry) (string, error) {
	id := r.idGen.Generate()
	now := formatTime(r.now())

	_, err := r.db.ExecContext(ctx, insertEntry,
		id,
		entry.Date.String(),
		entry.Particulars,
		entry.DebitCountry.String(),
		entry.Debit.String(),
		entry.CreditCountry.String(),
		entry.Credit.String(),
		now,
		now,
	)
	if err != nil {
		return "", fmt.Errorf("insert entry: %w", err)
	}

	return id, nil
}

// Update rewrites an entry's fields in place.
func (r *EntryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	res, err := r.db.ExecContext(ctx, updateEntry,
		entry.Date.String(),
		entry.Particulars,
		entry.DebitCountry.String(),
		entry.Debit.String(),
		entry.CreditCountry.String(),
		entry.Credit.String(),
		formatTime(r.now()),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}

	return requireAffected(res)
}

// Delete removes an entry.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteEntry, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*domain.Entry, error) {
	var (
		e                                  domain.Entry
		date, created, updated             string
		debitCountry, debit, creditCountry string
		credit                             string
	)

	if err := s.Scan(&e.ID, &date, &e.Particulars, &debitCountry, &debit, &creditCountry, &credit, &created, &updated); err != nil {
		return nil, err
	}

	var err error
	if e.Date, err = domain.ParseDate(date); err != nil {
		return nil, fmt.Errorf("entry %s: %w", e.ID, err)
	}

	amounts := []struct {
		raw string
		dst *decimal.Decimal
	}{
		{debitCountry, &e.DebitCountry},
		{debit, &e.Debit},
		{creditCountry, &e.CreditCountry},
		{credit, &e.Credit},
	}
	for _, a := range amounts {
		if *a.dst, err = decimal.NewFromString(a.raw); err != nil {
			return nil, fmt.Errorf("entry %s: bad amount %q: %w", e.ID, a.raw, err)
		}
	}

	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("entry %s: bad created_at %q: %w", e.ID, created, err)
	}
	if e.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("entry %s: bad updated_at %q: %w", e.ID, updated, err)
	}

	return &e, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
