package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/domain"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, user_id, battery_id, pickup_station_id, return_station_id,
	status, rental_date, return_date, total_cost_cents, payment_status, created_on, updated_on`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var returnStation sql.NullInt32
	var returnDate sql.NullTime
	var totalCost sql.NullInt32
	err := row.Scan(&rt.ID, &rt.UserID, &rt.BatteryID, &rt.PickupStationID, &returnStation,
		&rt.Status, &rt.RentalDate, &returnDate, &totalCost, &rt.PaymentStatus, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if returnStation.Valid {
		v := returnStation.Int32
		rt.ReturnStationID = &v
	}
	if returnDate.Valid {
		v := returnDate.Time
		rt.ReturnDate = &v
	}
	if totalCost.Valid {
		v := totalCost.Int32
		rt.TotalCostCents = &v
	}
	return rt, nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRentalNotFound
	}
	return rt, err
}

func (r *rentalRepository) FindActiveByUser(ctx context.Context, userID int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE user_id = $1 AND status = 'ACTIVE'`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRentalNotFound
	}
	return rt, err
}

func (r *rentalRepository) FindActiveByBattery(ctx context.Context, batteryID int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE battery_id = $1 AND status = 'ACTIVE'`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, batteryID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRentalNotFound
	}
	return rt, err
}

func (r *rentalRepository) ListByUser(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE user_id = $1`
	args := []interface{}{userID}
	argIdx := 2
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY rental_date DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, count, rows.Err()
}

// Swap opens a rental and flips the battery to RENTED in one transaction.
// The battery row is locked first, so two concurrent swaps for the same
// battery serialize and the loser observes status RENTED. The partial unique
// index on (user_id) WHERE status='ACTIVE' backstops the per-user invariant
// when the same user races two swaps on different batteries.
func (r *rentalRepository) Swap(ctx context.Context, p repository.SwapParams) (*domain.Rental, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var batteryStatus domain.BatteryStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM batteries WHERE id = $1 FOR UPDATE`, p.BatteryID).Scan(&batteryStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBatteryNotFound
	}
	if err != nil {
		return nil, err
	}
	if !batteryStatus.CanTransitionTo(domain.BatteryStatusRented) {
		return nil, domain.ErrBatteryUnavailable
	}

	var existingID int32
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM rentals WHERE user_id = $1 AND status = 'ACTIVE' LIMIT 1 FOR UPDATE`,
		p.UserID).Scan(&existingID)
	if err == nil {
		return nil, domain.ErrUserHasActiveRental
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	rt := &domain.Rental{
		UserID:          p.UserID,
		BatteryID:       p.BatteryID,
		PickupStationID: p.PickupStationID,
		Status:          domain.RentalStatusActive,
		RentalDate:      p.RentalDate,
		PaymentStatus:   domain.RentalPaymentStatusUnpaid,
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO rentals (user_id, battery_id, pickup_station_id, status, rental_date, payment_status, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id, created_on, updated_on`,
		rt.UserID, rt.BatteryID, rt.PickupStationID, rt.Status, rt.RentalDate, rt.PaymentStatus, time.Now(),
	).Scan(&rt.ID, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		if isUniqueViolation(err, constraintActiveRentalPerUser) {
			return nil, domain.ErrUserHasActiveRental
		}
		if isForeignKeyViolation(err) {
			return nil, domain.ErrStationNotFound
		}
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE batteries SET status = $1, updated_on = $2 WHERE id = $3`,
		domain.BatteryStatusRented, time.Now(), p.BatteryID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rt, nil
}

// Complete closes an active rental and releases its battery to the return
// station. The rental row is locked and its status re-checked inside the
// transaction, so a second concurrent return or cancel fails with
// ErrRentalNotActive rather than writing twice.
func (r *rentalRepository) Complete(ctx context.Context, p repository.ReturnParams) (*domain.Rental, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rt, err := r.lockActive(ctx, tx, p.RentalID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE rentals SET status = $1, return_station_id = $2, return_date = $3, total_cost_cents = $4, updated_on = $5 WHERE id = $6`,
		domain.RentalStatusCompleted, p.ReturnStationID, p.ReturnDate, p.TotalCostCents, time.Now(), rt.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrStationNotFound
		}
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE batteries SET status = $1, current_station_id = $2, updated_on = $3 WHERE id = $4`,
		domain.BatteryStatusAvailable, p.ReturnStationID, time.Now(), rt.BatteryID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	rt.Status = domain.RentalStatusCompleted
	rt.ReturnStationID = &p.ReturnStationID
	returnDate := p.ReturnDate
	rt.ReturnDate = &returnDate
	cost := p.TotalCostCents
	rt.TotalCostCents = &cost
	return rt, nil
}

// Cancel voids an active rental and releases the battery in place: its
// station assignment is left untouched since the battery never left the
// pickup station.
func (r *rentalRepository) Cancel(ctx context.Context, rentalID int32) (*domain.Rental, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rt, err := r.lockActive(ctx, tx, rentalID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE rentals SET status = $1, updated_on = $2 WHERE id = $3`,
		domain.RentalStatusCancelled, time.Now(), rt.ID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE batteries SET status = $1, updated_on = $2 WHERE id = $3`,
		domain.BatteryStatusAvailable, time.Now(), rt.BatteryID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	rt.Status = domain.RentalStatusCancelled
	return rt, nil
}

// lockActive loads a rental with FOR UPDATE and verifies it is still ACTIVE,
// then locks its battery row so the paired write cannot interleave with
// another swap.
func (r *rentalRepository) lockActive(ctx context.Context, tx *sql.Tx, rentalID int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1 FOR UPDATE`
	rt, err := scanRental(tx.QueryRowContext(ctx, query, rentalID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRentalNotFound
	}
	if err != nil {
		return nil, err
	}
	if rt.Status != domain.RentalStatusActive {
		return nil, domain.ErrRentalNotActive
	}

	var batteryStatus domain.BatteryStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM batteries WHERE id = $1 FOR UPDATE`, rt.BatteryID).Scan(&batteryStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBatteryNotFound
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}
