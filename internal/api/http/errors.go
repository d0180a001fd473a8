package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/domain"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// errorCode maps a domain error onto the wire code clients branch on.
func errorCode(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrBatteryUnavailable):
		return http.StatusConflict, "BATTERY_UNAVAILABLE"
	case errors.Is(err, domain.ErrUserHasActiveRental):
		return http.StatusConflict, "USER_HAS_ACTIVE_RENTAL"
	case errors.Is(err, domain.ErrRentalNotActive):
		return http.StatusConflict, "RENTAL_NOT_ACTIVE"
	case errors.Is(err, domain.ErrPaymentNotCompleted):
		return http.StatusConflict, "PAYMENT_NOT_COMPLETED"
	case errors.Is(err, domain.ErrRefundExceedsOriginal):
		return http.StatusConflict, "REFUND_EXCEEDS_ORIGINAL"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "INVALID_AMOUNT"
	case errors.Is(err, domain.ErrBatteryNotFound):
		return http.StatusNotFound, "BATTERY_NOT_FOUND"
	case errors.Is(err, domain.ErrRentalNotFound):
		return http.StatusNotFound, "RENTAL_NOT_FOUND"
	case errors.Is(err, domain.ErrStationNotFound):
		return http.StatusNotFound, "STATION_NOT_FOUND"
	case errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound, "PAYMENT_NOT_FOUND"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// writeError translates domain errors to their HTTP status. Anything outside
// the expected taxonomy is logged and reported without storage detail.
func writeError(w http.ResponseWriter, err error) {
	status, code := errorCode(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		msg = "internal error"
	}
	respondJSON(w, status, errorResponse{Error: msg, Code: code})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("Failed to write response", "error", err)
		}
	}
}
