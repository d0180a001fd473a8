// Package queue defines the events the rental engine emits to subscribers
// (admin views, station displays) and the machinery to publish them.
// Emission is fire-and-forget: it happens strictly after commit and a broken
// subscriber can never fail a rental or payment operation.
package queue

const (
	EventRentalCreated   = "rental.created"
	EventRentalCompleted = "rental.completed"
	EventBatteryReturned = "battery.returned"
	EventRentalCancelled = "rental.cancelled"
	EventPaymentUpdated  = "payment.updated"
)

// Envelope wraps every published payload with a unique ID and the event name
// so consumers on a shared queue can route without inspecting the body.
type Envelope struct {
	EventID   string      `json:"event_id"`
	Event     string      `json:"event"`
	EmittedAt string      `json:"emitted_at"`
	Payload   interface{} `json:"payload"`
}

// RentalEvent carries enough for downstream consumers to render or notify
// without querying the primary database.
type RentalEvent struct {
	RentalID        int32  `json:"rental_id"`
	UserID          int32  `json:"user_id"`
	BatteryID       int32  `json:"battery_id"`
	BatterySerial   string `json:"battery_serial,omitempty"`
	PickupStationID int32  `json:"pickup_station_id"`
	ReturnStationID *int32 `json:"return_station_id,omitempty"`
	Status          string `json:"status"`
	RentalHours     int32  `json:"rental_hours,omitempty"`
	TotalCostCents  int32  `json:"total_cost_cents,omitempty"`
}

type PaymentEvent struct {
	PaymentID   int32  `json:"payment_id"`
	UserID      int32  `json:"user_id"`
	RentalID    *int32 `json:"rental_id,omitempty"`
	AmountCents int32  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	Reference   string `json:"reference"`
}
