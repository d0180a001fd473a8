package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/domain"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/repository"
)

type batteryRepository struct {
	db *sql.DB
}

func NewBatteryRepository(db *sql.DB) repository.BatteryRepository {
	return &batteryRepository{db: db}
}

const batteryColumns = `id, serial_number, status, current_station_id, created_on, updated_on`

func scanBattery(row *sql.Row) (*domain.Battery, error) {
	b := &domain.Battery{}
	var stationID sql.NullInt32
	err := row.Scan(&b.ID, &b.SerialNumber, &b.Status, &stationID, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBatteryNotFound
		}
		return nil, err
	}
	if stationID.Valid {
		id := stationID.Int32
		b.CurrentStationID = &id
	}
	return b, nil
}

func (r *batteryRepository) GetByID(ctx context.Context, id int32) (*domain.Battery, error) {
	query := `SELECT ` + batteryColumns + ` FROM batteries WHERE id = $1`
	return scanBattery(r.db.QueryRowContext(ctx, query, id))
}

func (r *batteryRepository) GetBySerial(ctx context.Context, serial string) (*domain.Battery, error) {
	query := `SELECT ` + batteryColumns + ` FROM batteries WHERE serial_number = $1`
	return scanBattery(r.db.QueryRowContext(ctx, query, serial))
}
