package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxParticularsLength = 255
	MaxAmount            = "1000000000000" // 1 trillion
	AmountPlaces         = 2
)

var maxAmount = decimal.RequireFromString(MaxAmount)

// ValidateParticulars checks the free-text label of an entry.
func ValidateParticulars(particulars string) error {
	particulars = strings.TrimSpace(particulars)

	if particulars == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidParticulars)
	}

	if utf8.RuneCountInString(particulars) > MaxParticularsLength {
		return fmt.Errorf("%w: %w: exceeds %d characters", ErrValidation, ErrInvalidParticulars, MaxParticularsLength)
	}

	return nil
}

// ValidateAmounts checks that no amount is negative or oversized and that
// the entry moves money in at least one direction.
func ValidateAmounts(debitCountry, debit, creditCountry, credit decimal.Decimal) error {
	named := []struct {
		name  string
		value decimal.Decimal
	}{
		{"debit_country", debitCountry},
		{"debit", debit},
		{"credit_country", creditCountry},
		{"credit", credit},
	}
	for _, a := range named {
		if a.value.IsNegative() {
			return fmt.Errorf("%w: %w: %s", ErrValidation, ErrNegativeAmount, a.name)
		}
		if a.value.GreaterThan(maxAmount) {
			return fmt.Errorf("%w: %s exceeds %s", ErrValidation, a.name, MaxAmount)
		}
		if !a.value.Equal(a.value.Round(AmountPlaces)) {
			return fmt.Errorf("%w: %w: %s has more than %d decimal places", ErrValidation, ErrAmountPrecision, a.name, AmountPlaces)
		}
	}

	if debit.IsZero() && credit.IsZero() {
		return fmt.Errorf("%w: %w", ErrValidation, ErrMissingAmount)
	}

	return nil
}

// ValidateEntry runs every boundary rule on an entry about to be persisted.
func ValidateEntry(e *Entry) error {
	if err := ValidateParticulars(e.Particulars); err != nil {
		return err
	}

	if e.Date.IsZero() {
		return fmt.Errorf("%w: %w: date is required", ErrValidation, ErrInvalidDate)
	}

	return ValidateAmounts(e.DebitCountry, e.Debit, e.CreditCountry, e.Credit)
}

// CoerceAmount converts caller-supplied text to an amount rounded half-up to
// cents, defaulting to zero when the value cannot be parsed. When both "," and
// "." appear, the last one is the decimal separator and the other groups
// thousands ("1,234.50", "1.234,50"). A lone comma is a decimal separator.
func CoerceAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return decimal.Zero
	}

	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		group, sep := ",", "."
		if comma > dot {
			group, sep = ".", ","
		}
		at := max(dot, comma)
		whole := s[:at]
		if strings.Contains(whole, sep) {
			return decimal.Zero
		}
		s = strings.ReplaceAll(whole, group, "") + "." + s[at+1:]
	case comma >= 0:
		if strings.Count(s, ",") != 1 {
			return decimal.Zero
		}
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return d.Round(AmountPlaces)
}
