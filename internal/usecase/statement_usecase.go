package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/statement"
)

// StatementUseCase renders statements and hands them to an export sink.
type StatementUseCase struct {
	entries   *EntryUseCase
	formatter *statement.Formatter
	sink      ExportSink
	recorder  Recorder
	logger    zerolog.Logger
}

// NewStatementUseCase creates a new StatementUseCase. sink may be nil, in
// which case sharing is unavailable.
func NewStatementUseCase(
	entries *EntryUseCase,
	formatter *statement.Formatter,
	sink ExportSink,
	recorder Recorder,
	logger zerolog.Logger,
) *StatementUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &StatementUseCase{
		entries:   entries,
		formatter: formatter,
		sink:      sink,
		recorder:  recorder,
		logger:    logger,
	}
}

// StatementInput selects the entries and the output representation.
type StatementInput struct {
	Filter domain.FilterSpec
	Target statement.Target
}

// Render produces a statement for the entries matching the filter.
func (uc *StatementUseCase) Render(ctx context.Context, input StatementInput) (*statement.Statement, error) {
	if input.Target == "" {
		input.Target = statement.TargetCSV
	}

	entries, err := uc.entries.ListEntries(ctx, input.Filter)
	if err != nil {
		return nil, err
	}

	st, err := uc.formatter.Render(entries, input.Target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	uc.recorder.StatementRendered(string(st.Target))

	return st, nil
}

// Share renders a statement (text unless asked otherwise) and delivers it
// through the configured sink.
func (uc *StatementUseCase) Share(ctx context.Context, input StatementInput) (*domain.ShareReceipt, error) {
	if uc.sink == nil {
		return nil, ErrSharingDisabled
	}
	if input.Target == "" {
		input.Target = statement.TargetText
	}

	st, err := uc.Render(ctx, input)
	if err != nil {
		return nil, err
	}

	receipt, err := uc.sink.Deliver(ctx, st)
	if err != nil {
		uc.logger.Error().Err(err).Str("sink", uc.sink.Name()).Msg("statement delivery failed")
		return nil, fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	uc.recorder.StatementShared(uc.sink.Name())
	uc.logger.Info().
		Str("sink", uc.sink.Name()).
		Int("entries", st.Entries).
		Msg("statement shared")

	return receipt, nil
}

// GetShared returns a previously shared statement. Only sinks that keep
// delivered statements support this.
func (uc *StatementUseCase) GetShared(ctx context.Context, token string) (*statement.Statement, error) {
	reader, ok := uc.sink.(SharedStatementReader)
	if !ok {
		return nil, domain.ErrShareNotFound
	}
	return reader.Shared(ctx, token)
}
