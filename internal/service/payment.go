package service

import (
	"context"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/domain"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/logger"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/queue"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/repository"

	"github.com/google/uuid"
)

type paymentService struct {
	paymentRepo repository.PaymentRepository
	rentalRepo  repository.RentalRepository
	notifier    queue.Notifier
	currency    string
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	rentalRepo repository.RentalRepository,
	notifier queue.Notifier,
	currency string,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		rentalRepo:  rentalRepo,
		notifier:    notifier,
		currency:    currency,
	}
}

// CreatePayment registers payment intent. No money moves here; the gateway
// confirms asynchronously through UpdatePaymentStatus.
func (s *paymentService) CreatePayment(ctx context.Context, caller domain.Caller, in CreatePaymentInput) (*domain.Payment, error) {
	userID := in.UserID
	if userID == 0 {
		userID = caller.UserID
	}
	if userID != caller.UserID && !caller.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if in.AmountCents <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	if in.RentalID != nil {
		if _, err := s.rentalRepo.GetByID(ctx, *in.RentalID); err != nil {
			return nil, err
		}
	}

	currency := in.Currency
	if currency == "" {
		currency = s.currency
	}

	p := &domain.Payment{
		UserID:      userID,
		RentalID:    in.RentalID,
		AmountCents: in.AmountCents,
		Currency:    currency,
		Method:      in.Method,
		Status:      domain.PaymentStatusPending,
		Reference:   uuid.NewString(),
		Notes:       in.Notes,
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.emitPaymentUpdated(p)
	return p, nil
}

// UpdatePaymentStatus applies a gateway outcome to a pending payment.
// REFUNDED is never reachable here; refunds go through RefundPayment so the
// counter-payment is written in the same transaction.
func (s *paymentService) UpdatePaymentStatus(ctx context.Context, caller domain.Caller, paymentID int32, status domain.PaymentStatus, notes string) (*domain.Payment, error) {
	if !caller.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if !status.Valid() || status == domain.PaymentStatusPending || status == domain.PaymentStatusRefunded {
		return nil, domain.ErrInvalidTransition
	}

	p, err := s.paymentRepo.UpdateStatus(ctx, paymentID, status, notes)
	if err != nil {
		return nil, err
	}

	s.emitPaymentUpdated(p)
	return p, nil
}

// RefundPayment issues a compensating payment against a completed one. A
// zero refund amount means a full refund.
func (s *paymentService) RefundPayment(ctx context.Context, caller domain.Caller, paymentID int32, refundAmountCents int32, reason string) (*RefundResult, error) {
	if !caller.IsStaff() {
		return nil, domain.ErrForbidden
	}

	original, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if refundAmountCents == 0 {
		refundAmountCents = original.AmountCents
	}
	if refundAmountCents < 0 {
		return nil, domain.ErrInvalidAmount
	}

	refund, err := s.paymentRepo.Refund(ctx, paymentID, refundAmountCents, uuid.NewString(), reason)
	if err != nil {
		return nil, err
	}

	s.emitPaymentUpdated(refund)
	return &RefundResult{
		RefundID:          refund.ID,
		RefundAmountCents: refundAmountCents,
	}, nil
}

// BulkUpdateStatus applies one status across many payments. Each row update
// is independent, so partial success is expected: the returned count is the
// number of rows actually updated, and per-row failures are only logged.
func (s *paymentService) BulkUpdateStatus(ctx context.Context, caller domain.Caller, paymentIDs []int32, status domain.PaymentStatus) (int32, error) {
	if !caller.IsStaff() {
		return 0, domain.ErrForbidden
	}
	if !status.Valid() || status == domain.PaymentStatusPending || status == domain.PaymentStatusRefunded {
		return 0, domain.ErrInvalidTransition
	}

	var updated int32
	for _, id := range paymentIDs {
		p, err := s.paymentRepo.UpdateStatus(ctx, id, status, "")
		if err != nil {
			logger.Warn("Bulk status update skipped payment", "payment_id", id, "status", status, "error", err)
			continue
		}
		updated++
		s.emitPaymentUpdated(p)
	}
	return updated, nil
}

func (s *paymentService) GetPayment(ctx context.Context, caller domain.Caller, paymentID int32) (*domain.Payment, error) {
	p, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccessPayment(p) {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

// ListRentalPayments returns the settlement history of one rental, including
// refund counter-payments.
func (s *paymentService) ListRentalPayments(ctx context.Context, caller domain.Caller, rentalID int32) ([]domain.Payment, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccessRental(rt) {
		return nil, domain.ErrForbidden
	}
	return s.paymentRepo.ListByRental(ctx, rentalID)
}

func (s *paymentService) ListPayments(ctx context.Context, caller domain.Caller, page, pageSize int32) ([]domain.Payment, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.paymentRepo.ListByUser(ctx, caller.UserID, page, pageSize)
}

func (s *paymentService) emitPaymentUpdated(p *domain.Payment) {
	s.notifier.Emit(queue.EventPaymentUpdated, queue.PaymentEvent{
		PaymentID:   p.ID,
		UserID:      p.UserID,
		RentalID:    p.RentalID,
		AmountCents: p.AmountCents,
		Currency:    p.Currency,
		Status:      string(p.Status),
		Reference:   p.Reference,
	})
}
