package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/domain"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, user_id, rental_id, amount_cents, currency, payment_method,
	status, reference, refund_of, COALESCE(notes, ''), processed_at, created_on, updated_on`

func scanPayment(row rowScanner) (*domain.Payment, error) {
	p := &domain.Payment{}
	var rentalID, refundOf sql.NullInt32
	var processedAt sql.NullTime
	err := row.Scan(&p.ID, &p.UserID, &rentalID, &p.AmountCents, &p.Currency, &p.Method,
		&p.Status, &p.Reference, &refundOf, &p.Notes, &processedAt, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if rentalID.Valid {
		v := rentalID.Int32
		p.RentalID = &v
	}
	if refundOf.Valid {
		v := refundOf.Int32
		p.RefundOf = &v
	}
	if processedAt.Valid {
		v := processedAt.Time
		p.ProcessedAt = &v
	}
	return p, nil
}

// Create registers a pending payment. When the payment is tied to a rental
// the rental's payment_status moves UNPAID -> PENDING inside the same
// transaction so the two rows never disagree.
func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO payments (user_id, rental_id, amount_cents, currency, payment_method, status, reference, refund_of, notes, processed_at, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11) RETURNING id, created_on, updated_on`,
		p.UserID, p.RentalID, p.AmountCents, p.Currency, p.Method, p.Status, p.Reference, p.RefundOf, p.Notes, p.ProcessedAt, time.Now(),
	).Scan(&p.ID, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrRentalNotFound
		}
		return err
	}

	if p.RentalID != nil && p.Status == domain.PaymentStatusPending {
		_, err = tx.ExecContext(ctx,
			`UPDATE rentals SET payment_status = $1, updated_on = $2 WHERE id = $3 AND payment_status = $4`,
			domain.RentalPaymentStatusPending, time.Now(), *p.RentalID, domain.RentalPaymentStatusUnpaid)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *paymentRepository) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	return p, err
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Payment, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM payments WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, *p)
	}
	return payments, count, rows.Err()
}

func (r *paymentRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE rental_id = $1 ORDER BY created_on ASC`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// UpdateStatus moves a payment out of PENDING. The row is locked and the
// transition table consulted inside the transaction; completing a payment
// that settles a rental also flips the rental's payment_status atomically.
func (r *paymentRepository) UpdateStatus(ctx context.Context, id int32, status domain.PaymentStatus, notes string) (*domain.Payment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`
	p, err := scanPayment(tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	if status == domain.PaymentStatusRefunded || !p.Status.CanTransitionTo(status) {
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now()
	var processedAt *time.Time
	if status == domain.PaymentStatusCompleted || status == domain.PaymentStatusFailed {
		processedAt = &now
	}
	if notes != "" {
		p.Notes = notes
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE payments SET status = $1, notes = $2, processed_at = $3, updated_on = $4 WHERE id = $5`,
		status, p.Notes, processedAt, now, p.ID)
	if err != nil {
		return nil, err
	}

	if status == domain.PaymentStatusCompleted && p.RentalID != nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE rentals SET payment_status = $1, updated_on = $2 WHERE id = $3`,
			domain.RentalPaymentStatusCompleted, now, *p.RentalID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	p.Status = status
	p.ProcessedAt = processedAt
	p.UpdatedOn = now
	return p, nil
}

// Refund inserts the compensating negative payment and marks the original
// REFUNDED in one transaction. The original row is locked first so two
// concurrent refunds cannot both pass the COMPLETED check.
func (r *paymentRepository) Refund(ctx context.Context, originalID int32, refundAmountCents int32, reference, reason string) (*domain.Payment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`
	original, err := scanPayment(tx.QueryRowContext(ctx, query, originalID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	if original.Status != domain.PaymentStatusCompleted {
		return nil, domain.ErrPaymentNotCompleted
	}
	if refundAmountCents <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if refundAmountCents > original.AmountCents {
		return nil, domain.ErrRefundExceedsOriginal
	}

	now := time.Now()
	refund := &domain.Payment{
		UserID:      original.UserID,
		RentalID:    original.RentalID,
		AmountCents: -refundAmountCents,
		Currency:    original.Currency,
		Method:      original.Method,
		Status:      domain.PaymentStatusCompleted,
		Reference:   reference,
		RefundOf:    &original.ID,
		Notes:       reason,
		ProcessedAt: &now,
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO payments (user_id, rental_id, amount_cents, currency, payment_method, status, reference, refund_of, notes, processed_at, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11) RETURNING id, created_on, updated_on`,
		refund.UserID, refund.RentalID, refund.AmountCents, refund.Currency, refund.Method,
		refund.Status, refund.Reference, refund.RefundOf, refund.Notes, refund.ProcessedAt, now,
	).Scan(&refund.ID, &refund.CreatedOn, &refund.UpdatedOn)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE payments SET status = $1, updated_on = $2 WHERE id = $3`,
		domain.PaymentStatusRefunded, now, original.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return refund, nil
}
