package domain

import "time"

type BatteryStatus string

const (
	BatteryStatusAvailable   BatteryStatus = "AVAILABLE"
	BatteryStatusRented      BatteryStatus = "RENTED"
	BatteryStatusCharging    BatteryStatus = "CHARGING"
	BatteryStatusMaintenance BatteryStatus = "MAINTENANCE"
)

// batteryTransitions enumerates the legal status moves. Anything not in the
// table is rejected before a row is written. The swap engine only ever drives
// AVAILABLE<->RENTED; CHARGING and MAINTENANCE belong to station tooling.
var batteryTransitions = map[BatteryStatus][]BatteryStatus{
	BatteryStatusAvailable:   {BatteryStatusRented, BatteryStatusCharging, BatteryStatusMaintenance},
	BatteryStatusRented:      {BatteryStatusAvailable},
	BatteryStatusCharging:    {BatteryStatusAvailable, BatteryStatusMaintenance},
	BatteryStatusMaintenance: {BatteryStatusAvailable, BatteryStatusCharging},
}

func (s BatteryStatus) CanTransitionTo(next BatteryStatus) bool {
	for _, allowed := range batteryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BatteryStatus) Valid() bool {
	switch s {
	case BatteryStatusAvailable, BatteryStatusRented, BatteryStatusCharging, BatteryStatusMaintenance:
		return true
	}
	return false
}

// Battery is provisioned by station tooling; the rental engine only moves it
// between AVAILABLE and RENTED. The active rental for a battery is resolved by
// query (FindActiveByBattery), never stored on the battery row.
type Battery struct {
	ID               int32         `json:"id"`
	SerialNumber     string        `json:"serial_number"`
	Status           BatteryStatus `json:"status"`
	CurrentStationID *int32        `json:"current_station_id,omitempty"`
	CreatedOn        time.Time     `json:"created_on"`
	UpdatedOn        time.Time     `json:"updated_on"`
}
