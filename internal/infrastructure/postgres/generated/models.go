package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Entry struct {
	ID            string             `json:"id"`
	Seq           int64              `json:"seq"`
	EntryDate     pgtype.Date        `json:"entry_date"`
	Particulars   string             `json:"particulars"`
	DebitCountry  pgtype.Numeric     `json:"debit_country"`
	Debit         pgtype.Numeric     `json:"debit"`
	CreditCountry pgtype.Numeric     `json:"credit_country"`
	Credit        pgtype.Numeric     `json:"credit"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}
