package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/service"

	"github.com/gorilla/mux"
)

// RentalHandler serves the swap, return and cancel operations plus the thin
// read surface over rentals.
type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

type createRentalRequest struct {
	UserID          int32 `json:"user_id,omitempty"`
	BatteryID       int32 `json:"battery_id"`
	PickupStationID int32 `json:"pickup_station_id"`
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "caller not resolved", Code: "UNAUTHENTICATED"})
		return
	}

	var req createRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "VALIDATION"})
		return
	}
	if req.BatteryID == 0 || req.PickupStationID == 0 {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "battery_id and pickup_station_id are required", Code: "VALIDATION"})
		return
	}

	rt, err := h.rentalSvc.CreateRental(r.Context(), caller, req.UserID, req.BatteryID, req.PickupStationID)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"rental": rt})
}

type returnRentalRequest struct {
	ReturnStationID int32 `json:"return_station_id"`
}

func (h *RentalHandler) Return(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "caller not resolved", Code: "UNAUTHENTICATED"})
		return
	}

	rentalID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid rental id", Code: "VALIDATION"})
		return
	}

	var req returnRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "VALIDATION"})
		return
	}
	if req.ReturnStationID == 0 {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "return_station_id is required", Code: "VALIDATION"})
		return
	}

	result, err := h.rentalSvc.ReturnRental(r.Context(), caller, rentalID, req.ReturnStationID)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "caller not resolved", Code: "UNAUTHENTICATED"})
		return
	}

	rentalID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid rental id", Code: "VALIDATION"})
		return
	}

	rt, err := h.rentalSvc.CancelRental(r.Context(), caller, rentalID)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"rental": rt})
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "caller not resolved", Code: "UNAUTHENTICATED"})
		return
	}

	rentalID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid rental id", Code: "VALIDATION"})
		return
	}

	rt, err := h.rentalSvc.GetRental(r.Context(), caller, rentalID)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"rental": rt})
}

func (h *RentalHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "caller not resolved", Code: "UNAUTHENTICATED"})
		return
	}

	rt, err := h.rentalSvc.GetActiveRental(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"rental": rt})
}

func (h *RentalHandler) LookupBattery(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "caller not resolved", Code: "UNAUTHENTICATED"})
		return
	}

	serial := mux.Vars(r)["serial"]
	if serial == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "serial is required", Code: "VALIDATION"})
		return
	}

	state, err := h.rentalSvc.LookupBattery(r.Context(), caller, serial)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "caller not resolved", Code: "UNAUTHENTICATED"})
		return
	}

	status := r.URL.Query().Get("status")
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	rentals, total, err := h.rentalSvc.ListRentals(r.Context(), caller, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rentals":     rentals,
		"total_count": total,
	})
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

func queryInt32(r *http.Request, name string, def int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return def
	}
	return int32(v)
}
