package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBillableHours(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		elapsed  time.Duration
		expected int32
	}{
		{"Zero duration bills one hour", 0, 1},
		{"Five minutes bills one hour", 5 * time.Minute, 1},
		{"Exactly one hour", time.Hour, 1},
		{"61 minutes bills two hours", 61 * time.Minute, 2},
		{"90 minutes bills two hours", 90 * time.Minute, 2},
		{"Exactly two hours", 2 * time.Hour, 2},
		{"Two hours one second bills three", 2*time.Hour + time.Second, 3},
		{"A full day", 24 * time.Hour, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, err := BillableHours(base, base.Add(tt.elapsed))
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, hours)
		})
	}

	t.Run("Return before rental is rejected", func(t *testing.T) {
		_, err := BillableHours(base, base.Add(-time.Minute))
		assert.Error(t, err)
	})
}

func TestCalculateRentalCost(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	t.Run("90 minutes at 50 cents per hour", func(t *testing.T) {
		cost, err := CalculateRentalCost(base, base.Add(90*time.Minute), 50)
		assert.NoError(t, err)
		assert.Equal(t, int32(100), cost) // rounds up to 2 hours
	})

	t.Run("Minimum one hour charge", func(t *testing.T) {
		cost, err := CalculateRentalCost(base, base.Add(30*time.Second), 50)
		assert.NoError(t, err)
		assert.Equal(t, int32(50), cost)
	})

	t.Run("Exact hour boundary is not rounded up", func(t *testing.T) {
		cost, err := CalculateRentalCost(base, base.Add(3*time.Hour), 75)
		assert.NoError(t, err)
		assert.Equal(t, int32(225), cost)
	})
}

func TestCalculateRentalCostWithBreakdown(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	breakdown, err := CalculateRentalCostWithBreakdown(base, base.Add(150*time.Minute), 50)
	assert.NoError(t, err)
	assert.Equal(t, int32(3), breakdown.BillableHours)
	assert.Equal(t, int32(50), breakdown.HourlyRateCents)
	assert.Equal(t, int32(150), breakdown.TotalCostCents)
}
