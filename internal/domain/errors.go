package domain

import "errors"

var (
	// ErrValidation is wrapped by every input rule violation.
	ErrValidation = errors.New("validation failed")

	// Entry errors
	ErrInvalidParticulars = errors.New("particulars are required")
	ErrMissingAmount      = errors.New("either debit or credit must be non-zero")
	ErrNegativeAmount     = errors.New("amounts must not be negative")
	ErrAmountPrecision    = errors.New("amounts are limited to cents")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidDateRange   = errors.New("start date is after end date")
	ErrEntryNotFound      = errors.New("entry not found")

	// Ledger errors
	ErrInconsistentLedger = errors.New("ledger is inconsistent: closing balance does not match totals")

	// Statement sharing
	ErrShareNotFound = errors.New("shared statement not found")
)

// IsValidation reports whether err is a rejected-input error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidParticulars) ||
		errors.Is(err, ErrMissingAmount) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrAmountPrecision) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidDateRange)
}
