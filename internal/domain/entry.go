package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is a single ledger line.
// Balance is derived from the ordered ledger on every read and is never persisted.
type Entry struct {
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Date          Date
	ID            string
	Particulars   string
	DebitCountry  decimal.Decimal
	Debit         decimal.Decimal
	CreditCountry decimal.Decimal
	Credit        decimal.Decimal
	Balance       decimal.Decimal
}

// Net returns credit minus debit.
func (e *Entry) Net() decimal.Decimal {
	return e.Credit.Sub(e.Debit)
}

// Clone returns a shallow copy of the entry.
func (e *Entry) Clone() *Entry {
	c := *e
	return &c
}

// ShareReceipt describes where a shared statement was delivered.
type ShareReceipt struct {
	ExpiresAt *time.Time
	Sink      string
	URL       string
	Token     string
}
