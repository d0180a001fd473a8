package repository

import (
	"context"
	"time"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/domain"
)

// SwapParams carries the inputs for opening a rental. The repository checks
// both preconditions (battery available, no active rental for the user) and
// performs both writes inside one transaction.
type SwapParams struct {
	UserID          int32
	BatteryID       int32
	PickupStationID int32
	RentalDate      time.Time
}

// ReturnParams closes a rental. Status is re-checked inside the transaction
// so the second of two concurrent returns fails with ErrRentalNotActive.
type ReturnParams struct {
	RentalID        int32
	ReturnStationID int32
	ReturnDate      time.Time
	TotalCostCents  int32
}

type BatteryRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Battery, error)
	GetBySerial(ctx context.Context, serial string) (*domain.Battery, error)
}

type RentalRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	FindActiveByUser(ctx context.Context, userID int32) (*domain.Rental, error)
	FindActiveByBattery(ctx context.Context, batteryID int32) (*domain.Rental, error)
	ListByUser(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error)

	// Atomic dual-entity transitions. Each runs in a single transaction
	// that locks the battery row and, for Complete/Cancel, the rental row.
	Swap(ctx context.Context, p SwapParams) (*domain.Rental, error)
	Complete(ctx context.Context, p ReturnParams) (*domain.Rental, error)
	Cancel(ctx context.Context, rentalID int32) (*domain.Rental, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id int32) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Payment, int32, error)
	ListByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error)

	// UpdateStatus moves a PENDING payment to a terminal status and, when
	// the payment settles a rental, flips the rental's payment_status in
	// the same transaction.
	UpdateStatus(ctx context.Context, id int32, status domain.PaymentStatus, notes string) (*domain.Payment, error)

	// Refund inserts the compensating payment and marks the original
	// REFUNDED atomically, returning the new refund row.
	Refund(ctx context.Context, originalID int32, refundAmountCents int32, reference, reason string) (*domain.Payment, error)
}

// StationRepository is the read-only collaborator interface; station CRUD
// lives outside this service.
type StationRepository interface {
	Exists(ctx context.Context, id int32) (bool, error)
}
