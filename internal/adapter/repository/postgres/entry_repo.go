package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/postgres/generated"
	"github.com/iho/cashbook/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository on PostgreSQL.
type EntryRepository struct {
	queries *generated.Queries
	idGen   usecase.IDGenerator
	now     func() time.Time
}

// NewEntryRepository creates a new EntryRepository. db is usually a *pgxpool.Pool.
func NewEntryRepository(db generated.DBTX, idGen usecase.IDGenerator) *EntryRepository {
	return &EntryRepository{
		queries: generated.New(db),
		idGen:   idGen,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ListAll returns every entry by date, then insertion order.
func (r *EntryRepository) ListAll(ctx context.Context) ([]*domain.Entry, error) {
	rows, err := r.queries.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	row, err := r.queries.GetEntry(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	return rowToEntry(row), nil
}

// Insert stores a new entry and returns its generated ID.
func (r *EntryRepository) Insert(ctx context.Context, entry *domain.Entry) (string, error) {
	now := r.now()

	row, err := r.queries.CreateEntry(ctx, generated.CreateEntryParams{
		ID:            r.idGen.Generate(),
		EntryDate:     dateToPgDate(entry.Date),
		Particulars:   entry.Particulars,
		DebitCountry:  decimalToNumeric(entry.DebitCountry),
		Debit:         decimalToNumeric(entry.Debit),
		CreditCountry: decimalToNumeric(entry.CreditCountry),
		Credit:        decimalToNumeric(entry.Credit),
		CreatedAt:     timeToPgTimestamptz(now),
		UpdatedAt:     timeToPgTimestamptz(now),
	})
	if err != nil {
		return "", err
	}

	return row.ID, nil
}

// Update rewrites an entry's fields in place.
func (r *EntryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	n, err := r.queries.UpdateEntry(ctx, generated.UpdateEntryParams{
		ID:            entry.ID,
		EntryDate:     dateToPgDate(entry.Date),
		Particulars:   entry.Particulars,
		DebitCountry:  decimalToNumeric(entry.DebitCountry),
		Debit:         decimalToNumeric(entry.Debit),
		CreditCountry: decimalToNumeric(entry.CreditCountry),
		Credit:        decimalToNumeric(entry.Credit),
		UpdatedAt:     timeToPgTimestamptz(r.now()),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// Delete removes an entry.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteEntry(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

func rowToEntry(row generated.Entry) *domain.Entry {
	return &domain.Entry{
		ID:            row.ID,
		Date:          pgDateToDate(row.EntryDate),
		Particulars:   row.Particulars,
		DebitCountry:  numericToDecimal(row.DebitCountry),
		Debit:         numericToDecimal(row.Debit),
		CreditCountry: numericToDecimal(row.CreditCountry),
		Credit:        numericToDecimal(row.Credit),
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}
