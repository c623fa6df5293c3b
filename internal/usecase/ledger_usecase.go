package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/domain"
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	entries *EntryUseCase
	logger  zerolog.Logger
	now     func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(entries *EntryUseCase) *LedgerUseCase {
	return &LedgerUseCase{
		entries: entries,
		logger:  entries.logger,
		now:     time.Now,
	}
}

// Summary totals the entries matching spec. For an unfiltered ledger the
// closing balance is also checked against credits minus debits.
func (uc *LedgerUseCase) Summary(ctx context.Context, spec domain.FilterSpec) (domain.Summary, error) {
	ledger, err := uc.entries.Ledger(ctx)
	if err != nil {
		return domain.Summary{}, err
	}

	if spec.IsEmpty() {
		return domain.Summarize(ledger, true)
	}

	return domain.Summarize(domain.Filter(ledger, spec), false)
}
