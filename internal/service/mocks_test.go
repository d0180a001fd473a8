package service

import (
	"context"
	"sync"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/domain"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) FindActiveByUser(ctx context.Context, userID int32) (*domain.Rental, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) FindActiveByBattery(ctx context.Context, batteryID int32) (*domain.Rental, error) {
	args := m.Called(ctx, batteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListByUser(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) Swap(ctx context.Context, p repository.SwapParams) (*domain.Rental, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) Complete(ctx context.Context, p repository.ReturnParams) (*domain.Rental, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) Cancel(ctx context.Context, rentalID int32) (*domain.Rental, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

// MockBatteryRepo
type MockBatteryRepo struct {
	mock.Mock
}

func (m *MockBatteryRepo) GetByID(ctx context.Context, id int32) (*domain.Battery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Battery), args.Error(1)
}
func (m *MockBatteryRepo) GetBySerial(ctx context.Context, serial string) (*domain.Battery, error) {
	args := m.Called(ctx, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Battery), args.Error(1)
}

// MockStationRepo
type MockStationRepo struct {
	mock.Mock
}

func (m *MockStationRepo) Exists(ctx context.Context, id int32) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Payment, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Payment), args.Get(1).(int32), args.Error(2)
}
func (m *MockPaymentRepo) ListByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, id int32, status domain.PaymentStatus, notes string) (*domain.Payment, error) {
	args := m.Called(ctx, id, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) Refund(ctx context.Context, originalID int32, refundAmountCents int32, reference, reason string) (*domain.Payment, error) {
	args := m.Called(ctx, originalID, refundAmountCents, reference, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

// recordingNotifier captures emitted events synchronously so tests can assert
// on them without racing a goroutine.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Emit(event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	copy(out, n.events)
	return out
}
