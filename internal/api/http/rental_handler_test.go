package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/domain"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/security"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/service"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

// stubRentalService returns canned values so the handler and middleware can
// be exercised without a database.
type stubRentalService struct {
	rental *domain.Rental
	err    error
}

func (s *stubRentalService) CreateRental(ctx context.Context, caller domain.Caller, userID, batteryID, pickupStationID int32) (*domain.Rental, error) {
	return s.rental, s.err
}
func (s *stubRentalService) ReturnRental(ctx context.Context, caller domain.Caller, rentalID, returnStationID int32) (*service.ReturnResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.ReturnResult{Rental: s.rental, RentalHours: 2, TotalCostCents: 100}, nil
}
func (s *stubRentalService) CancelRental(ctx context.Context, caller domain.Caller, rentalID int32) (*domain.Rental, error) {
	return s.rental, s.err
}
func (s *stubRentalService) GetRental(ctx context.Context, caller domain.Caller, rentalID int32) (*domain.Rental, error) {
	return s.rental, s.err
}
func (s *stubRentalService) GetActiveRental(ctx context.Context, caller domain.Caller) (*domain.Rental, error) {
	return s.rental, s.err
}
func (s *stubRentalService) LookupBattery(ctx context.Context, caller domain.Caller, serial string) (*service.BatteryState, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.BatteryState{
		Battery:      &domain.Battery{ID: 2, SerialNumber: serial, Status: domain.BatteryStatusRented},
		ActiveRental: s.rental,
	}, nil
}
func (s *stubRentalService) ListRentals(ctx context.Context, caller domain.Caller, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return []domain.Rental{*s.rental}, 1, nil
}

func testRouter(t *testing.T, svc service.RentalService) (*mux.Router, string) {
	t.Helper()
	tokens := security.NewTokenManager("test-secret-with-at-least-32-characters!")
	token, err := tokens.GenerateToken(7, domain.RoleCustomer, time.Hour)
	assert.NoError(t, err)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(NewAuthMiddleware(tokens).Middleware)

	h := NewRentalHandler(svc)
	api.HandleFunc("/rentals", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/return", h.Return).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}", h.Get).Methods(http.MethodGet)
	return router, token
}

func TestRentalHandler_Create(t *testing.T) {
	svc := &stubRentalService{rental: &domain.Rental{
		ID: 1, UserID: 7, BatteryID: 2, PickupStationID: 3,
		Status: domain.RentalStatusActive,
	}}
	router, token := testRouter(t, svc)

	t.Run("Created", func(t *testing.T) {
		body, _ := json.Marshal(map[string]int32{"battery_id": 2, "pickup_station_id": 3})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/rentals", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Rental domain.Rental `json:"rental"`
		}
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, int32(1), resp.Rental.ID)
	})

	t.Run("Missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/rentals", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Missing battery id", func(t *testing.T) {
		body, _ := json.Marshal(map[string]int32{"pickup_station_id": 3})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/rentals", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRentalHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
		code     string
	}{
		{"Battery unavailable", domain.ErrBatteryUnavailable, http.StatusConflict, "BATTERY_UNAVAILABLE"},
		{"Active rental conflict", domain.ErrUserHasActiveRental, http.StatusConflict, "USER_HAS_ACTIVE_RENTAL"},
		{"Station not found", domain.ErrStationNotFound, http.StatusNotFound, "STATION_NOT_FOUND"},
		{"Forbidden", domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, token := testRouter(t, &stubRentalService{err: tt.err})

			body, _ := json.Marshal(map[string]int32{"battery_id": 2, "pickup_station_id": 3})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/rentals", bytes.NewReader(body))
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.expected, rec.Code)

			var resp errorResponse
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestRentalHandler_Return(t *testing.T) {
	svc := &stubRentalService{rental: &domain.Rental{
		ID: 1, UserID: 7, Status: domain.RentalStatusCompleted,
	}}
	router, token := testRouter(t, svc)

	body, _ := json.Marshal(map[string]int32{"return_station_id": 5})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rentals/1/return", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var result service.ReturnResult
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, int32(2), result.RentalHours)
	assert.Equal(t, int32(100), result.TotalCostCents)
}
