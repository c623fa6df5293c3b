package domain

import "github.com/shopspring/decimal"

// Summary holds the totals of an entry sequence.
type Summary struct {
	Count              int
	TotalDebitCountry  decimal.Decimal
	TotalDebit         decimal.Decimal
	TotalCreditCountry decimal.Decimal
	TotalCredit        decimal.Decimal
	ClosingBalance     decimal.Decimal
}

// Summarize totals balanced entries. The closing balance is the balance of the
// last entry; when entries span the whole ledger it must equal credit minus
// debit, otherwise ErrInconsistentLedger is returned alongside the totals.
func Summarize(entries []*Entry, wholeLedger bool) (Summary, error) {
	var s Summary

	for _, e := range entries {
		if e == nil {
			continue
		}
		s.Count++
		s.TotalDebitCountry = s.TotalDebitCountry.Add(e.DebitCountry)
		s.TotalDebit = s.TotalDebit.Add(e.Debit)
		s.TotalCreditCountry = s.TotalCreditCountry.Add(e.CreditCountry)
		s.TotalCredit = s.TotalCredit.Add(e.Credit)
		s.ClosingBalance = e.Balance
	}

	if wholeLedger && !s.ClosingBalance.Equal(s.TotalCredit.Sub(s.TotalDebit)) {
		return s, ErrInconsistentLedger
	}

	return s, nil
}
