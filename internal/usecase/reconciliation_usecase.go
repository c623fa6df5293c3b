package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
)

// Discrepancy describes one stored entry that breaks a ledger invariant.
type Discrepancy struct {
	EntryID string
	Reason  string
}

// ReconciliationReport is the result of a full ledger check.
type ReconciliationReport struct {
	TotalEntries    int
	ClosingBalance  decimal.Decimal
	ExpectedBalance decimal.Decimal
	Discrepancies   []Discrepancy
	Consistent      bool
	CheckedAt       time.Time
}

// GenerateReconciliationReport re-reads the whole ledger and checks that
// stored rows still satisfy entry validation, arrive in date order and carry
// unique IDs. It also re-sums credit minus debit row by row and compares the
// result with every balance the balance engine produced; that part is a
// self-test of the engine and fails only if the engine itself is broken.
func (uc *LedgerUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	ledger, err := uc.entries.Ledger(ctx)
	if err != nil {
		return nil, err
	}

	report := reconcile(ledger)
	report.CheckedAt = uc.now().UTC()

	if !report.Consistent {
		uc.logger.Warn().
			Int("discrepancies", len(report.Discrepancies)).
			Msg("ledger reconciliation found discrepancies")
	}

	return report, nil
}

// reconcile checks a balanced ledger. ExpectedBalance is summed from the raw
// amounts; ClosingBalance is the balance carried by the last entry.
func reconcile(ledger []*domain.Entry) *ReconciliationReport {
	report := &ReconciliationReport{
		TotalEntries:    len(ledger),
		ClosingBalance:  decimal.Zero,
		ExpectedBalance: decimal.Zero,
		Discrepancies:   make([]Discrepancy, 0),
	}

	seen := make(map[string]struct{}, len(ledger))
	for i, e := range ledger {
		if _, dup := seen[e.ID]; dup {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{EntryID: e.ID, Reason: "duplicate id"})
		}
		seen[e.ID] = struct{}{}

		if err := domain.ValidateEntry(e); err != nil {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{EntryID: e.ID, Reason: err.Error()})
		}

		if i > 0 && e.Date.Before(ledger[i-1].Date) {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				EntryID: e.ID,
				Reason:  fmt.Sprintf("out of order: %s after %s", e.Date, ledger[i-1].Date),
			})
		}

		report.ExpectedBalance = report.ExpectedBalance.Add(e.Credit).Sub(e.Debit)
		if !e.Balance.Equal(report.ExpectedBalance) {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				EntryID: e.ID,
				Reason:  fmt.Sprintf("balance %s, expected %s", e.Balance, report.ExpectedBalance),
			})
		}
		report.ClosingBalance = e.Balance
	}

	report.Consistent = len(report.Discrepancies) == 0

	return report
}

// CheckLedgerConsistency returns ErrInconsistentLedger when the report is not clean.
func (uc *LedgerUseCase) CheckLedgerConsistency(ctx context.Context) error {
	report, err := uc.GenerateReconciliationReport(ctx)
	if err != nil {
		return err
	}

	if !report.Consistent {
		return fmt.Errorf("%w: %d discrepancies, closing=%s expected=%s",
			domain.ErrInconsistentLedger,
			len(report.Discrepancies),
			report.ClosingBalance,
			report.ExpectedBalance,
		)
	}

	return nil
}
