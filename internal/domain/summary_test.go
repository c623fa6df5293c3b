package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	ledger := ComputeBalances([]*Entry{
		{Date: MustParseDate("2024-01-01"), Particulars: "Alice", Credit: decimal.NewFromInt(100), CreditCountry: decimal.NewFromInt(3)},
		{Date: MustParseDate("2024-01-02"), Particulars: "Bob", Debit: decimal.NewFromInt(40), DebitCountry: decimal.NewFromInt(1)},
	})

	s, err := Summarize(ledger, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Count != 2 {
		t.Fatalf("expected count 2, got %d", s.Count)
	}
	if !s.TotalCredit.Equal(decimal.NewFromInt(100)) || !s.TotalDebit.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("unexpected totals %+v", s)
	}
	if !s.TotalCreditCountry.Equal(decimal.NewFromInt(3)) || !s.TotalDebitCountry.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("unexpected country totals %+v", s)
	}
	if !s.ClosingBalance.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected closing balance 60, got %s", s.ClosingBalance)
	}
}

func TestSummarize_PartialViewSkipsConsistencyCheck(t *testing.T) {
	t.Parallel()

	ledger := ComputeBalances([]*Entry{
		{Date: MustParseDate("2024-01-01"), Particulars: "Alice", Credit: decimal.NewFromInt(100)},
		{Date: MustParseDate("2024-01-02"), Particulars: "Bob", Debit: decimal.NewFromInt(40)},
	})

	s, err := Summarize(ledger[1:], false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.ClosingBalance.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected running balance 60 carried into view, got %s", s.ClosingBalance)
	}
}

func TestSummarize_DetectsInconsistency(t *testing.T) {
	t.Parallel()

	corrupt := []*Entry{
		{Particulars: "Alice", Credit: decimal.NewFromInt(100), Balance: decimal.NewFromInt(90)},
	}

	if _, err := Summarize(corrupt, true); !errors.Is(err, ErrInconsistentLedger) {
		t.Fatalf("expected ErrInconsistentLedger, got %v", err)
	}
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	s, err := Summarize(nil, true)
	if err != nil || s.Count != 0 || !s.ClosingBalance.IsZero() {
		t.Fatalf("expected zero summary, got %+v err=%v", s, err)
	}
}
