package usecase

import "errors"

var (
	// ErrSharingDisabled is returned when no export sink is configured.
	ErrSharingDisabled = errors.New("statement sharing is not configured")

	// ErrDelivery wraps export sink failures.
	ErrDelivery = errors.New("statement delivery failed")
)
