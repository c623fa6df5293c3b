package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashbook/internal/domain"
	pginfra "github.com/iho/cashbook/internal/infrastructure/postgres"
)

func TestEntryRepository_RoundTrip(t *testing.T) {
	dsn := os.Getenv("CASHBOOK_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CASHBOOK_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	require.NoError(t, pginfra.RunMigrations(dsn, zerolog.Nop()))

	pool, err := pginfra.NewPool(ctx, dsn, 2, 0)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE entries")
	require.NoError(t, err)

	repo := NewEntryRepository(pool, NewULIDGenerator())

	laterID, err := repo.Insert(ctx, &domain.Entry{
		Date:        domain.MustParseDate("2024-01-02"),
		Particulars: "Bob",
		Debit:       decimal.RequireFromString("40.25"),
	})
	require.NoError(t, err)

	_, err = repo.Insert(ctx, &domain.Entry{
		Date:        domain.MustParseDate("2024-01-01"),
		Particulars: "Alice",
		Credit:      decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	entries, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Alice", entries[0].Particulars)
	assert.True(t, entries[1].Debit.Equal(decimal.RequireFromString("40.25")))

	got, err := repo.GetByID(ctx, laterID)
	require.NoError(t, err)
	got.Particulars = "Bob (edited)"
	require.NoError(t, repo.Update(ctx, got))

	require.NoError(t, repo.Delete(ctx, laterID))
	_, err = repo.GetByID(ctx, laterID)
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}
