package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled},
	// COMPLETED only moves to REFUNDED, and only through the refund
	// operation that inserts the counter-payment in the same transaction.
	PaymentStatusCompleted: {PaymentStatusRefunded},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

// Payment rows are insert-only: a refund is a new row with a negative amount
// pointing back at the original via RefundOf, never an edit of the original
// beyond flipping its status to REFUNDED.
type Payment struct {
	ID          int32         `json:"id"`
	UserID      int32         `json:"user_id"`
	RentalID    *int32        `json:"rental_id,omitempty"`
	AmountCents int32         `json:"amount_cents"` // negative for refunds
	Currency    string        `json:"currency"`
	Method      string        `json:"payment_method"`
	Status      PaymentStatus `json:"status"`
	Reference   string        `json:"reference"`
	RefundOf    *int32        `json:"refund_of,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty"`
	CreatedOn   time.Time     `json:"created_on"`
	UpdatedOn   time.Time     `json:"updated_on"`
}
