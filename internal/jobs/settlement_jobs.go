package jobs

import (
	"context"
	"fmt"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/logger"
)

// ExpireStalePendingPayments cancels pending payments that never received a
// gateway outcome within the configured TTL.
func (jr *JobRunner) ExpireStalePendingPayments() {
	jr.runWithRecovery("ExpireStalePendingPayments", func() {
		ctx := context.Background()

		ttl := jr.config.Billing.StalePaymentTTLHours
		query := fmt.Sprintf(`
			UPDATE payments
			SET status = 'CANCELLED',
			    notes = TRIM(notes || ' expired after %d hours without gateway confirmation'),
			    updated_on = NOW()
			WHERE status = 'PENDING'
			  AND created_on < NOW() - INTERVAL '%d hours'
		`, ttl, ttl)

		result, err := jr.db.ExecContext(ctx, query)
		if err != nil {
			logger.Error("Failed to expire stale pending payments", "error", err)
			return
		}

		rowsAffected, _ := result.RowsAffected()
		logger.Info("Expired stale pending payments",
			"count", rowsAffected,
			"ttl_hours", ttl)
	})
}

// ReconcileRentalPaymentStatus repairs rentals whose payment_status drifted
// from the payment ledger. A rental with a completed positive payment is
// COMPLETED; one whose only payments expired goes back to UNPAID.
func (jr *JobRunner) ReconcileRentalPaymentStatus() {
	jr.runWithRecovery("ReconcileRentalPaymentStatus", func() {
		ctx := context.Background()

		markCompleted := `
			UPDATE rentals r
			SET payment_status = 'COMPLETED',
			    updated_on = NOW()
			WHERE r.payment_status <> 'COMPLETED'
			  AND EXISTS (
				SELECT 1 FROM payments p
				WHERE p.rental_id = r.id
				  AND p.status = 'COMPLETED'
				  AND p.amount_cents > 0
			  )
		`
		completedResult, err := jr.db.ExecContext(ctx, markCompleted)
		if err != nil {
			logger.Error("Failed to reconcile completed rental payments", "error", err)
			return
		}

		markUnpaid := `
			UPDATE rentals r
			SET payment_status = 'UNPAID',
			    updated_on = NOW()
			WHERE r.payment_status = 'PENDING'
			  AND NOT EXISTS (
				SELECT 1 FROM payments p
				WHERE p.rental_id = r.id
				  AND p.status IN ('PENDING', 'COMPLETED')
			  )
		`
		unpaidResult, err := jr.db.ExecContext(ctx, markUnpaid)
		if err != nil {
			logger.Error("Failed to reconcile unpaid rentals", "error", err)
			return
		}

		completedRows, _ := completedResult.RowsAffected()
		unpaidRows, _ := unpaidResult.RowsAffected()
		logger.Info("Reconciled rental payment status",
			"marked_completed", completedRows,
			"marked_unpaid", unpaidRows)
	})
}
