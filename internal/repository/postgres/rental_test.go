package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/domain"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

var rentalRows = []string{
	"id", "user_id", "battery_id", "pickup_station_id", "return_station_id",
	"status", "rental_date", "return_date", "total_cost_cents", "payment_status",
	"created_on", "updated_on",
}

func activeRentalRow(id, userID, batteryID int32, rentalDate time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(rentalRows).
		AddRow(id, userID, batteryID, 3, nil, "ACTIVE", rentalDate, nil, nil, "UNPAID", rentalDate, rentalDate)
}

func TestRentalRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewRentalRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1").
			WithArgs(int32(1)).
			WillReturnRows(activeRentalRow(1, 7, 2, time.Now()))

		rt, err := repo.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), rt.ID)
		assert.Equal(t, domain.RentalStatusActive, rt.Status)
		assert.Nil(t, rt.TotalCostCents)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1").
			WithArgs(int32(404)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrRentalNotFound)
	})
}

func TestRentalRepository_Swap(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewRentalRepository(db)
	ctx := context.Background()
	now := time.Now()

	params := repository.SwapParams{
		UserID:          7,
		BatteryID:       2,
		PickupStationID: 3,
		RentalDate:      now,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM batteries WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("AVAILABLE"))
		mock.ExpectQuery("SELECT id FROM rentals WHERE user_id = \\$1 AND status = 'ACTIVE'").
			WithArgs(int32(7)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("INSERT INTO rentals").
			WithArgs(int32(7), int32(2), int32(3), domain.RentalStatusActive, now, domain.RentalPaymentStatusUnpaid, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_on", "updated_on"}).AddRow(1, now, now))
		mock.ExpectExec("UPDATE batteries SET status").
			WithArgs(domain.BatteryStatusRented, sqlmock.AnyArg(), int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		rt, err := repo.Swap(ctx, params)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), rt.ID)
		assert.Equal(t, domain.RentalStatusActive, rt.Status)
		assert.Equal(t, domain.RentalPaymentStatusUnpaid, rt.PaymentStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Battery already rented", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM batteries WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("RENTED"))
		mock.ExpectRollback()

		_, err := repo.Swap(ctx, params)
		assert.ErrorIs(t, err, domain.ErrBatteryUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Battery in maintenance", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM batteries WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("MAINTENANCE"))
		mock.ExpectRollback()

		_, err := repo.Swap(ctx, params)
		assert.ErrorIs(t, err, domain.ErrBatteryUnavailable)
	})

	t.Run("Battery not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM batteries WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(2)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.Swap(ctx, params)
		assert.ErrorIs(t, err, domain.ErrBatteryNotFound)
	})

	t.Run("User already has an active rental", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM batteries WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("AVAILABLE"))
		mock.ExpectQuery("SELECT id FROM rentals WHERE user_id = \\$1 AND status = 'ACTIVE'").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(55))
		mock.ExpectRollback()

		_, err := repo.Swap(ctx, params)
		assert.ErrorIs(t, err, domain.ErrUserHasActiveRental)
	})

	t.Run("Unique index backstop maps to active rental conflict", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM batteries WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("AVAILABLE"))
		mock.ExpectQuery("SELECT id FROM rentals WHERE user_id = \\$1 AND status = 'ACTIVE'").
			WithArgs(int32(7)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("INSERT INTO rentals").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "uniq_active_rental_per_user"})
		mock.ExpectRollback()

		_, err := repo.Swap(ctx, params)
		assert.ErrorIs(t, err, domain.ErrUserHasActiveRental)
	})

	t.Run("Unknown pickup station", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM batteries WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("AVAILABLE"))
		mock.ExpectQuery("SELECT id FROM rentals WHERE user_id = \\$1 AND status = 'ACTIVE'").
			WithArgs(int32(7)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("INSERT INTO rentals").
			WillReturnError(&pq.Error{Code: "23503"})
		mock.ExpectRollback()

		_, err := repo.Swap(ctx, params)
		assert.ErrorIs(t, err, domain.ErrStationNotFound)
	})
}

func TestRentalRepository_Complete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewRentalRepository(db)
	ctx := context.Background()
	now := time.Now()

	params := repository.ReturnParams{
		RentalID:        1,
		ReturnStationID: 5,
		ReturnDate:      now,
		TotalCostCents:  100,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(1)).
			WillReturnRows(activeRentalRow(1, 7, 2, now.Add(-2*time.Hour)))
		mock.ExpectQuery("SELECT status FROM batteries WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("RENTED"))
		mock.ExpectExec("UPDATE rentals SET status").
			WithArgs(domain.RentalStatusCompleted, int32(5), now, int32(100), sqlmock.AnyArg(), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE batteries SET status").
			WithArgs(domain.BatteryStatusAvailable, int32(5), sqlmock.AnyArg(), int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		rt, err := repo.Complete(ctx, params)
		assert.NoError(t, err)
		assert.Equal(t, domain.RentalStatusCompleted, rt.Status)
		assert.NotNil(t, rt.ReturnStationID)
		assert.Equal(t, int32(5), *rt.ReturnStationID)
		assert.NotNil(t, rt.TotalCostCents)
		assert.Equal(t, int32(100), *rt.TotalCostCents)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rental no longer active", func(t *testing.T) {
		rows := sqlmock.NewRows(rentalRows).
			AddRow(1, 7, 2, 3, 5, "COMPLETED", now.Add(-2*time.Hour), now, 100, "UNPAID", now, now)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(1)).
			WillReturnRows(rows)
		mock.ExpectRollback()

		_, err := repo.Complete(ctx, params)
		assert.ErrorIs(t, err, domain.ErrRentalNotActive)
	})

	t.Run("Rental not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(1)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.Complete(ctx, params)
		assert.ErrorIs(t, err, domain.ErrRentalNotFound)
	})
}

func TestRentalRepository_Cancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewRentalRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success leaves battery station untouched", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(1)).
			WillReturnRows(activeRentalRow(1, 7, 2, now))
		mock.ExpectQuery("SELECT status FROM batteries WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("RENTED"))
		mock.ExpectExec("UPDATE rentals SET status").
			WithArgs(domain.RentalStatusCancelled, sqlmock.AnyArg(), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE batteries SET status").
			WithArgs(domain.BatteryStatusAvailable, sqlmock.AnyArg(), int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		rt, err := repo.Cancel(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, domain.RentalStatusCancelled, rt.Status)
		assert.Nil(t, rt.TotalCostCents)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already cancelled", func(t *testing.T) {
		rows := sqlmock.NewRows(rentalRows).
			AddRow(1, 7, 2, 3, nil, "CANCELLED", now, nil, nil, "UNPAID", now, now)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(1)).
			WillReturnRows(rows)
		mock.ExpectRollback()

		_, err := repo.Cancel(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrRentalNotActive)
	})
}
