package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createEntry = `-- name: CreateEntry :one
INSERT INTO entries (id, entry_date, particulars, debit_country, debit, credit_country, credit, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, seq, entry_date, particulars, debit_country, debit, credit_country, credit, created_at, updated_at
`

type CreateEntryParams struct {
	ID            string             `json:"id"`
	EntryDate     pgtype.Date        `json:"entry_date"`
	Particulars   string             `json:"particulars"`
	DebitCountry  pgtype.Numeric     `json:"debit_country"`
	Debit         pgtype.Numeric     `json:"debit"`
	CreditCountry pgtype.Numeric     `json:"credit_country"`
	Credit        pgtype.Numeric     `json:"credit"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) (Entry, error) {
	row := q.db.QueryRow(ctx, createEntry,
		arg.ID,
		arg.EntryDate,
		arg.Particulars,
		arg.DebitCountry,
		arg.Debit,
		arg.CreditCountry,
		arg.Credit,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i Entry
	err := row.Scan(
		&i.ID,
		&i.Seq,
		&i.EntryDate,
		&i.Particulars,
		&i.DebitCountry,
		&i.Debit,
		&i.CreditCountry,
		&i.Credit,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteEntry = `-- name: DeleteEntry :execrows
DELETE FROM entries WHERE id = $1
`

func (q *Queries) DeleteEntry(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteEntry, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getEntry = `-- name: GetEntry :one
SELECT id, seq, entry_date, particulars, debit_country, debit, credit_country, credit, created_at, updated_at FROM entries
WHERE id = $1
`

func (q *Queries) GetEntry(ctx context.Context, id string) (Entry, error) {
	row := q.db.QueryRow(ctx, getEntry, id)
	var i Entry
	err := row.Scan(
		&i.ID,
		&i.Seq,
		&i.EntryDate,
		&i.Particulars,
		&i.DebitCountry,
		&i.Debit,
		&i.CreditCountry,
		&i.Credit,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listEntries = `-- name: ListEntries :many
SELECT id, seq, entry_date, particulars, debit_country, debit, credit_country, credit, created_at, updated_at FROM entries
ORDER BY entry_date, seq
`

func (q *Queries) ListEntries(ctx context.Context) ([]Entry, error) {
	rows, err := q.db.Query(ctx, listEntries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Entry
	for rows.Next() {
		var i Entry
		if err := rows.Scan(
			&i.ID,
			&i.Seq,
			&i.EntryDate,
			&i.Particulars,
			&i.DebitCountry,
			&i.Debit,
			&i.CreditCountry,
			&i.Credit,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateEntry = `-- name: UpdateEntry :execrows
UPDATE entries
SET entry_date = $2, particulars = $3, debit_country = $4, debit = $5, credit_country = $6, credit = $7, updated_at = $8
WHERE id = $1
`

type UpdateEntryParams struct {
	ID            string             `json:"id"`
	EntryDate     pgtype.Date        `json:"entry_date"`
	Particulars   string             `json:"particulars"`
	DebitCountry  pgtype.Numeric     `json:"debit_country"`
	Debit         pgtype.Numeric     `json:"debit"`
	CreditCountry pgtype.Numeric     `json:"credit_country"`
	Credit        pgtype.Numeric     `json:"credit"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateEntry(ctx context.Context, arg UpdateEntryParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateEntry,
		arg.ID,
		arg.EntryDate,
		arg.Particulars,
		arg.DebitCountry,
		arg.Debit,
		arg.CreditCountry,
		arg.Credit,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
