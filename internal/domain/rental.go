package domain

import "time"

type RentalStatus string

const (
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusCompleted RentalStatus = "COMPLETED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusActive: {RentalStatusCompleted, RentalStatusCancelled},
	// COMPLETED and CANCELLED are terminal.
}

func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	for _, allowed := range rentalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s RentalStatus) IsTerminal() bool {
	return s == RentalStatusCompleted || s == RentalStatusCancelled
}

func (s RentalStatus) Valid() bool {
	switch s {
	case RentalStatusActive, RentalStatusCompleted, RentalStatusCancelled:
		return true
	}
	return false
}

// RentalPaymentStatus tracks settlement progress on the rental itself. It is
// driven exclusively by the payment service.
type RentalPaymentStatus string

const (
	RentalPaymentStatusUnpaid    RentalPaymentStatus = "UNPAID"
	RentalPaymentStatusPending   RentalPaymentStatus = "PENDING"
	RentalPaymentStatusCompleted RentalPaymentStatus = "COMPLETED"
)

// Rental couples one battery and one user between pickup and return or
// cancellation. TotalCostCents and ReturnDate stay nil while the rental is
// ACTIVE; neither field changes once the rental reaches a terminal status.
type Rental struct {
	ID              int32               `json:"id"`
	UserID          int32               `json:"user_id"`
	BatteryID       int32               `json:"battery_id"`
	PickupStationID int32               `json:"pickup_station_id"`
	ReturnStationID *int32              `json:"return_station_id,omitempty"`
	Status          RentalStatus        `json:"status"`
	RentalDate      time.Time           `json:"rental_date"`
	ReturnDate      *time.Time          `json:"return_date,omitempty"`
	TotalCostCents  *int32              `json:"total_cost_cents,omitempty"`
	PaymentStatus   RentalPaymentStatus `json:"payment_status"`
	CreatedOn       time.Time           `json:"created_on"`
	UpdatedOn       time.Time           `json:"updated_on"`
}
