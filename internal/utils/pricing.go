package utils

import (
	"fmt"
	"time"
)

// RentalCostBreakdown provides the billed duration alongside the total so
// clients can render a receipt without recomputing.
type RentalCostBreakdown struct {
	BillableHours   int32 `json:"billable_hours"`
	HourlyRateCents int32 `json:"hourly_rate_cents"`
	TotalCostCents  int32 `json:"total_cost_cents"`
}

// BillableHours rounds the elapsed duration up to whole hours with a one-hour
// minimum. A 5-minute swap bills one hour; 61 minutes bills two. Deterministic
// so server settlement and client previews always agree.
func BillableHours(rentalDate, returnDate time.Time) (int32, error) {
	if returnDate.Before(rentalDate) {
		return 0, fmt.Errorf("return date %s is before rental date %s",
			returnDate.Format(time.RFC3339), rentalDate.Format(time.RFC3339))
	}

	elapsed := returnDate.Sub(rentalDate)
	hours := int32(elapsed / time.Hour)
	if elapsed%time.Hour > 0 {
		hours++
	}
	if hours < 1 {
		hours = 1
	}
	return hours, nil
}

// CalculateRentalCost computes the time-based cost of a rental in minor
// currency units. Pure function of its inputs; no clock reads, no I/O.
func CalculateRentalCost(rentalDate, returnDate time.Time, hourlyRateCents int32) (int32, error) {
	hours, err := BillableHours(rentalDate, returnDate)
	if err != nil {
		return 0, err
	}
	return hours * hourlyRateCents, nil
}

// CalculateRentalCostWithBreakdown returns the cost plus the figures it was
// derived from.
func CalculateRentalCostWithBreakdown(rentalDate, returnDate time.Time, hourlyRateCents int32) (RentalCostBreakdown, error) {
	hours, err := BillableHours(rentalDate, returnDate)
	if err != nil {
		return RentalCostBreakdown{}, err
	}
	return RentalCostBreakdown{
		BillableHours:   hours,
		HourlyRateCents: hourlyRateCents,
		TotalCostCents:  hours * hourlyRateCents,
	}, nil
}
