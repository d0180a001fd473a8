package service

import (
	"context"
	"errors"
	"time"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/domain"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/queue"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/repository"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/utils"
)

type rentalService struct {
	rentalRepo      repository.RentalRepository
	batteryRepo     repository.BatteryRepository
	stationRepo     repository.StationRepository
	notifier        queue.Notifier
	hourlyRateCents int32
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	batteryRepo repository.BatteryRepository,
	stationRepo repository.StationRepository,
	notifier queue.Notifier,
	hourlyRateCents int32,
) RentalService {
	return &rentalService{
		rentalRepo:      rentalRepo,
		batteryRepo:     batteryRepo,
		stationRepo:     stationRepo,
		notifier:        notifier,
		hourlyRateCents: hourlyRateCents,
	}
}

// CreateRental performs a swap: it opens an ACTIVE rental and marks the
// battery RENTED in one transaction. Both precondition checks (battery
// available, no active rental for the user) happen inside that transaction.
func (s *rentalService) CreateRental(ctx context.Context, caller domain.Caller, userID, batteryID, pickupStationID int32) (*domain.Rental, error) {
	if userID == 0 {
		userID = caller.UserID
	}
	if userID != caller.UserID && !caller.IsStaff() {
		return nil, domain.ErrForbidden
	}

	ok, err := s.stationRepo.Exists(ctx, pickupStationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrStationNotFound
	}

	rt, err := s.rentalRepo.Swap(ctx, repository.SwapParams{
		UserID:          userID,
		BatteryID:       batteryID,
		PickupStationID: pickupStationID,
		RentalDate:      time.Now(),
	})
	if err != nil {
		return nil, err
	}

	serial := ""
	if b, err := s.batteryRepo.GetByID(ctx, batteryID); err == nil {
		serial = b.SerialNumber
	}
	s.notifier.Emit(queue.EventRentalCreated, queue.RentalEvent{
		RentalID:        rt.ID,
		UserID:          rt.UserID,
		BatteryID:       rt.BatteryID,
		BatterySerial:   serial,
		PickupStationID: rt.PickupStationID,
		Status:          string(rt.Status),
	})

	return rt, nil
}

// ReturnRental closes an active rental at the given station. Cost is the
// wall-clock elapsed time at the instant of return, rounded up to whole
// hours with a one-hour minimum. The repository re-checks the ACTIVE status
// inside the closing transaction, so a concurrent return or cancel loses
// with ErrRentalNotActive.
func (s *rentalService) ReturnRental(ctx context.Context, caller domain.Caller, rentalID, returnStationID int32) (*ReturnResult, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccessRental(rt) {
		return nil, domain.ErrForbidden
	}
	if rt.Status != domain.RentalStatusActive {
		return nil, domain.ErrRentalNotActive
	}

	ok, err := s.stationRepo.Exists(ctx, returnStationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrStationNotFound
	}

	returnDate := time.Now()
	breakdown, err := utils.CalculateRentalCostWithBreakdown(rt.RentalDate, returnDate, s.hourlyRateCents)
	if err != nil {
		return nil, err
	}

	updated, err := s.rentalRepo.Complete(ctx, repository.ReturnParams{
		RentalID:        rentalID,
		ReturnStationID: returnStationID,
		ReturnDate:      returnDate,
		TotalCostCents:  breakdown.TotalCostCents,
	})
	if err != nil {
		return nil, err
	}

	event := queue.RentalEvent{
		RentalID:        updated.ID,
		UserID:          updated.UserID,
		BatteryID:       updated.BatteryID,
		PickupStationID: updated.PickupStationID,
		ReturnStationID: updated.ReturnStationID,
		Status:          string(updated.Status),
		RentalHours:     breakdown.BillableHours,
		TotalCostCents:  breakdown.TotalCostCents,
	}
	s.notifier.Emit(queue.EventRentalCompleted, event)
	s.notifier.Emit(queue.EventBatteryReturned, event)

	return &ReturnResult{
		Rental:         updated,
		RentalHours:    breakdown.BillableHours,
		TotalCostCents: breakdown.TotalCostCents,
	}, nil
}

// CancelRental voids an active rental without cost; the battery is released
// where it was picked up.
func (s *rentalService) CancelRental(ctx context.Context, caller domain.Caller, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccessRental(rt) {
		return nil, domain.ErrForbidden
	}
	if rt.Status != domain.RentalStatusActive {
		return nil, domain.ErrRentalNotActive
	}

	updated, err := s.rentalRepo.Cancel(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	s.notifier.Emit(queue.EventRentalCancelled, queue.RentalEvent{
		RentalID:        updated.ID,
		UserID:          updated.UserID,
		BatteryID:       updated.BatteryID,
		PickupStationID: updated.PickupStationID,
		Status:          string(updated.Status),
	})

	return updated, nil
}

func (s *rentalService) GetRental(ctx context.Context, caller domain.Caller, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccessRental(rt) {
		return nil, domain.ErrForbidden
	}
	return rt, nil
}

// GetActiveRental returns the caller's own active rental, if any.
func (s *rentalService) GetActiveRental(ctx context.Context, caller domain.Caller) (*domain.Rental, error) {
	return s.rentalRepo.FindActiveByUser(ctx, caller.UserID)
}

// LookupBattery resolves a battery by serial number, as scanned at a station.
// The active rental is attached only when the caller may see it; customers
// scanning someone else's battery learn its status and nothing more.
func (s *rentalService) LookupBattery(ctx context.Context, caller domain.Caller, serial string) (*BatteryState, error) {
	b, err := s.batteryRepo.GetBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}

	state := &BatteryState{Battery: b}
	if b.Status == domain.BatteryStatusRented {
		rt, err := s.rentalRepo.FindActiveByBattery(ctx, b.ID)
		if err != nil && !errors.Is(err, domain.ErrRentalNotFound) {
			return nil, err
		}
		if rt != nil && caller.CanAccessRental(rt) {
			state.ActiveRental = rt
		}
	}
	return state, nil
}

func (s *rentalService) ListRentals(ctx context.Context, caller domain.Caller, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.rentalRepo.ListByUser(ctx, caller.UserID, status, page, pageSize)
}
