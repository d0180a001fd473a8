package service

import (
	"context"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/domain"
)

// ReturnResult is handed back to the caller of a return; the payment that
// settles it is created separately through the PaymentService.
type ReturnResult struct {
	Rental         *domain.Rental `json:"rental"`
	RentalHours    int32          `json:"rental_hours"`
	TotalCostCents int32          `json:"total_cost_cents"`
}

// RefundResult identifies the compensating payment written by a refund.
type RefundResult struct {
	RefundID          int32 `json:"refund_id"`
	RefundAmountCents int32 `json:"refund_amount_cents"`
}

// CreatePaymentInput carries the fields accepted when registering a payment.
// A zero UserID means the caller pays for themselves; Currency defaults to
// the configured billing currency.
type CreatePaymentInput struct {
	UserID      int32
	RentalID    *int32
	AmountCents int32
	Method      string
	Currency    string
	Notes       string
}

// BatteryState pairs a battery with its active rental, when the caller is
// allowed to see it.
type BatteryState struct {
	Battery      *domain.Battery `json:"battery"`
	ActiveRental *domain.Rental  `json:"active_rental,omitempty"`
}

type RentalService interface {
	CreateRental(ctx context.Context, caller domain.Caller, userID, batteryID, pickupStationID int32) (*domain.Rental, error)
	ReturnRental(ctx context.Context, caller domain.Caller, rentalID, returnStationID int32) (*ReturnResult, error)
	CancelRental(ctx context.Context, caller domain.Caller, rentalID int32) (*domain.Rental, error)
	GetRental(ctx context.Context, caller domain.Caller, rentalID int32) (*domain.Rental, error)
	GetActiveRental(ctx context.Context, caller domain.Caller) (*domain.Rental, error)
	LookupBattery(ctx context.Context, caller domain.Caller, serial string) (*BatteryState, error)
	ListRentals(ctx context.Context, caller domain.Caller, status string, page, pageSize int32) ([]domain.Rental, int32, error)
}

type PaymentService interface {
	CreatePayment(ctx context.Context, caller domain.Caller, in CreatePaymentInput) (*domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, caller domain.Caller, paymentID int32, status domain.PaymentStatus, notes string) (*domain.Payment, error)
	RefundPayment(ctx context.Context, caller domain.Caller, paymentID int32, refundAmountCents int32, reason string) (*RefundResult, error)
	ListRentalPayments(ctx context.Context, caller domain.Caller, rentalID int32) ([]domain.Payment, error)
	BulkUpdateStatus(ctx context.Context, caller domain.Caller, paymentIDs []int32, status domain.PaymentStatus) (int32, error)
	GetPayment(ctx context.Context, caller domain.Caller, paymentID int32) (*domain.Payment, error)
	ListPayments(ctx context.Context, caller domain.Caller, page, pageSize int32) ([]domain.Payment, int32, error)
}
