package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/repository"
)

// stationRepository only answers existence checks; station CRUD belongs to
// the station management service.
type stationRepository struct {
	db *sql.DB
}

func NewStationRepository(db *sql.DB) repository.StationRepository {
	return &stationRepository{db: db}
}

func (r *stationRepository) Exists(ctx context.Context, id int32) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM stations WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
