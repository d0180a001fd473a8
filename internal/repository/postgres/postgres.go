package postgres

import (
	"database/sql"
	"errors"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/repository"

	"github.com/lib/pq"
)

// Store bundles all repositories over one database handle.
type Store struct {
	db *sql.DB
	repository.BatteryRepository
	repository.RentalRepository
	repository.PaymentRepository
	repository.StationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		BatteryRepository: NewBatteryRepository(db),
		RentalRepository:  NewRentalRepository(db),
		PaymentRepository: NewPaymentRepository(db),
		StationRepository: NewStationRepository(db),
	}
}

// DB exposes the underlying handle for health checks and jobs.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Constraint names from the schema. The partial unique index on active
// rentals is the storage-level backstop for the one-active-rental-per-user
// invariant when two transactions race past the in-transaction check.
const (
	constraintActiveRentalPerUser = "uniq_active_rental_per_user"
)

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == constraint
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return false
}
