package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
)

// ErrStore wraps every Entry Store failure other than a missing entry.
var ErrStore = errors.New("entry store failure")

// EntryUseCase handles entry business logic.
type EntryUseCase struct {
	entryRepo EntryRepository
	recorder  Recorder
	logger    zerolog.Logger
	today     func() domain.Date
}

// NewEntryUseCase creates a new EntryUseCase. A nil recorder disables metrics.
func NewEntryUseCase(entryRepo EntryRepository, recorder Recorder, logger zerolog.Logger) *EntryUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &EntryUseCase{
		entryRepo: entryRepo,
		recorder:  recorder,
		logger:    logger,
		today:     domain.Today,
	}
}

// EntryInput represents the caller-editable fields of an entry.
// An empty Date means today on create and "unchanged" on update.
type EntryInput struct {
	Date          string
	Particulars   string
	DebitCountry  decimal.Decimal
	Debit         decimal.Decimal
	CreditCountry decimal.Decimal
	Credit        decimal.Decimal
}

// Ledger returns the whole ledger with running balances, in ledger order.
func (uc *EntryUseCase) Ledger(ctx context.Context) ([]*domain.Entry, error) {
	entries, err := uc.entryRepo.ListAll(ctx)
	if err != nil {
		return nil, uc.storeError(OpList, err)
	}

	start := time.Now()
	balanced := domain.ComputeBalances(entries)
	uc.recorder.BalanceComputed(time.Since(start))
	uc.recorder.LedgerSize(len(balanced))

	return balanced, nil
}

// ListEntries returns the entries matching spec. Balances are computed over
// the full ledger before filtering, so each entry keeps its true balance.
func (uc *EntryUseCase) ListEntries(ctx context.Context, spec domain.FilterSpec) ([]*domain.Entry, error) {
	ledger, err := uc.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Filter(ledger, spec), nil
}

// GetEntry retrieves an entry by ID together with its running balance.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	if _, err := uc.entryRepo.GetByID(ctx, id); err != nil {
		return nil, uc.storeError(OpGet, err)
	}

	ledger, err := uc.Ledger(ctx)
	if err != nil {
		return nil, err
	}

	for _, e := range ledger {
		if e.ID == id {
			return e, nil
		}
	}

	// Deleted between the two reads.
	return nil, domain.ErrEntryNotFound
}

// CreateEntry validates and stores a new entry.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, input EntryInput) (*domain.Entry, error) {
	date := uc.today()
	if strings.TrimSpace(input.Date) != "" {
		d, err := domain.ParseDate(input.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		date = d
	}

	now := time.Now().UTC()
	entry := &domain.Entry{
		Date:          date,
		Particulars:   strings.TrimSpace(input.Particulars),
		DebitCountry:  input.DebitCountry,
		Debit:         input.Debit,
		CreditCountry: input.CreditCountry,
		Credit:        input.Credit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := domain.ValidateEntry(entry); err != nil {
		return nil, err
	}

	id, err := uc.entryRepo.Insert(ctx, entry)
	if err != nil {
		return nil, uc.storeError(OpCreate, err)
	}
	entry.ID = id

	uc.recorder.EntryMutated(OpCreate)
	uc.logger.Info().Str("entry_id", id).Str("date", entry.Date.String()).Msg("entry created")

	return entry, nil
}

// UpdateEntry replaces the editable fields of an existing entry.
func (uc *EntryUseCase) UpdateEntry(ctx context.Context, id string, input EntryInput) (*domain.Entry, error) {
	existing, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, uc.storeError(OpGet, err)
	}

	updated := existing.Clone()
	if strings.TrimSpace(input.Date) != "" {
		d, err := domain.ParseDate(input.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		updated.Date = d
	}
	updated.Particulars = strings.TrimSpace(input.Particulars)
	updated.DebitCountry = input.DebitCountry
	updated.Debit = input.Debit
	updated.CreditCountry = input.CreditCountry
	updated.Credit = input.Credit
	updated.UpdatedAt = time.Now().UTC()

	if err := domain.ValidateEntry(updated); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Update(ctx, updated); err != nil {
		return nil, uc.storeError(OpUpdate, err)
	}

	uc.recorder.EntryMutated(OpUpdate)
	uc.logger.Info().Str("entry_id", id).Msg("entry updated")

	return updated, nil
}

// DeleteEntry removes an entry permanently.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, id string) error {
	if err := uc.entryRepo.Delete(ctx, id); err != nil {
		return uc.storeError(OpDelete, err)
	}

	uc.recorder.EntryMutated(OpDelete)
	uc.logger.Info().Str("entry_id", id).Msg("entry deleted")

	return nil
}

// storeError passes not-found through and wraps everything else as ErrStore.
func (uc *EntryUseCase) storeError(op string, err error) error {
	if errors.Is(err, domain.ErrEntryNotFound) {
		return err
	}

	uc.recorder.StoreError(op)
	uc.logger.Error().Err(err).Str("op", op).Msg("entry store failure")

	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
