package http

import (
	"encoding/json"
	"net/http"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/domain"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/service"
)

// PaymentHandler serves the settlement surface: registering payments,
// applying gateway outcomes, refunds and the bulk status path.
type PaymentHandler struct {
	paymentSvc service.PaymentService
}

func NewPaymentHandler(paymentSvc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

type createPaymentRequest struct {
	UserID      int32  `json:"user_id,omitempty"`
	RentalID    *int32 `json:"rental_id,omitempty"`
	AmountCents int32  `json:"amount_cents"`
	Method      string `json:"payment_method"`
	Currency    string `json:"currency,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "caller not resolved", Code: "UNAUTHENTICATED"})
		return
	}

	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "VALIDATION"})
		return
	}
	if req.Method == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "payment_method is required", Code: "VALIDATION"})
		return
	}

	p, err := h.paymentSvc.CreatePayment(r.Context(), caller, service.CreatePaymentInput{
		UserID:      req.UserID,
		RentalID:    req.RentalID,
		AmountCents: req.AmountCents,
		Method:      req.Method,
		Currency:    req.Currency,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"payment": p})
}

type updatePaymentStatusRequest struct {
	Status domain.PaymentStatus `json:"status"`
	Notes  string               `json:"notes,omitempty"`
}

func (h *PaymentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "caller not resolved", Code: "UNAUTHENTICATED"})
		return
	}

	paymentID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payment id", Code: "VALIDATION"})
		return
	}

	var req updatePaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "VALIDATION"})
		return
	}

	p, err := h.paymentSvc.UpdatePaymentStatus(r.Context(), caller, paymentID, req.Status, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"payment": p})
}

type refundPaymentRequest struct {
	RefundAmountCents int32  `json:"refund_amount_cents,omitempty"`
	Reason            string `json:"reason"`
}

func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "caller not resolved", Code: "UNAUTHENTICATED"})
		return
	}

	paymentID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payment id", Code: "VALIDATION"})
		return
	}

	var req refundPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "VALIDATION"})
		return
	}

	result, err := h.paymentSvc.RefundPayment(r.Context(), caller, paymentID, req.RefundAmountCents, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type bulkStatusRequest struct {
	PaymentIDs []int32              `json:"payment_ids"`
	Status     domain.PaymentStatus `json:"status"`
}

func (h *PaymentHandler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "caller not resolved", Code: "UNAUTHENTICATED"})
		return
	}

	var req bulkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "VALIDATION"})
		return
	}
	if len(req.PaymentIDs) == 0 {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "payment_ids is required", Code: "VALIDATION"})
		return
	}

	updated, err := h.paymentSvc.BulkUpdateStatus(r.Context(), caller, req.PaymentIDs, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"requested_count": len(req.PaymentIDs),
		"updated_count":   updated,
	})
}

func (h *PaymentHandler) ListForRental(w http.ResponseWriter, r *http.Request) {
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

	payments, err := h.paymentSvc.ListRentalPayments(r.Context(), caller, rentalID)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"payments": payments})
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "caller not resolved", Code: "UNAUTHENTICATED"})
		return
	}

	paymentID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payment id", Code: "VALIDATION"})
		return
	}

	p, err := h.paymentSvc.GetPayment(r.Context(), caller, paymentID)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"payment": p})
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "caller not resolved", Code: "UNAUTHENTICATED"})
		return
	}

	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	payments, total, err := h.paymentSvc.ListPayments(r.Context(), caller, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"payments":    payments,
		"total_count": total,
	})
}
