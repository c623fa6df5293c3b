package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/statement"
	"github.com/iho/cashbook/internal/usecase"
)

var validate = validator.New()

// Amount is a leniently decoded money value. It accepts JSON numbers,
// numeric strings ("12.5", "12,5") and null; anything else decodes to zero.
type Amount struct {
	decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		a.Decimal = decimal.Zero
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			a.Decimal = decimal.Zero
			return nil
		}
		a.Decimal = domain.CoerceAmount(s)
	default:
		a.Decimal = domain.CoerceAmount(string(b))
	}

	return nil
}

// EntryRequest represents a request to create or update an entry.
type EntryRequest struct {
	Date          string `json:"date" validate:"max=32"`
	Particulars   string `json:"particulars" validate:"max=1024"`
	DebitCountry  Amount `json:"debit_country"`
	Debit         Amount `json:"debit"`
	CreditCountry Amount `json:"credit_country"`
	Credit        Amount `json:"credit"`
}

// Validate checks structural limits. Business rules live in the domain.
func (r *EntryRequest) Validate() error {
	return validateStruct(r)
}

// ToUseCaseInput converts to use case input.
func (r *EntryRequest) ToUseCaseInput() usecase.EntryInput {
	return usecase.EntryInput{
		Date:          r.Date,
		Particulars:   r.Particulars,
		DebitCountry:  r.DebitCountry.Decimal,
		Debit:         r.Debit.Decimal,
		CreditCountry: r.CreditCountry.Decimal,
		Credit:        r.Credit.Decimal,
	}
}

// ShareStatementRequest represents a request to share a statement.
// Filter fields mirror the statement query parameters.
type ShareStatementRequest struct {
	Format string `json:"format" validate:"omitempty,oneof=csv text"`
	Query  string `json:"q" validate:"max=255"`
	From   string `json:"from" validate:"max=32"`
	To     string `json:"to" validate:"max=32"`
}

// Validate checks structural limits.
func (r *ShareStatementRequest) Validate() error {
	return validateStruct(r)
}

// ToUseCaseInput converts to use case input.
func (r *ShareStatementRequest) ToUseCaseInput() (usecase.StatementInput, error) {
	spec, err := domain.ParseFilterSpec(r.Query, r.From, r.To)
	if err != nil {
		return usecase.StatementInput{}, err
	}

	target, err := statement.ParseTarget(r.Format, statement.TargetText)
	if err != nil {
		return usecase.StatementInput{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	return usecase.StatementInput{Filter: spec, Target: target}, nil
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}
