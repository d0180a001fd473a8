package domain

import "errors"

// Expected outcomes are sentinel errors so callers and the HTTP layer can
// branch with errors.Is without parsing messages. Storage failures that are
// not one of these are treated as transient or integrity errors upstream.
var (
	// Conflict: a precondition held by another live row.
	ErrBatteryUnavailable  = errors.New("battery is not available")
	ErrUserHasActiveRental = errors.New("user already has an active rental")
	ErrRentalNotActive     = errors.New("rental is not active")

	// Not found.
	ErrBatteryNotFound = errors.New("battery not found")
	ErrRentalNotFound  = errors.New("rental not found")
	ErrStationNotFound = errors.New("station not found")
	ErrPaymentNotFound = errors.New("payment not found")

	// Settlement preconditions.
	ErrPaymentNotCompleted   = errors.New("payment is not completed")
	ErrRefundExceedsOriginal = errors.New("refund amount exceeds original payment")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInvalidTransition     = errors.New("status transition not permitted")

	// Authorization.
	ErrForbidden = errors.New("caller is not permitted to perform this action")
)
