package http

import (
	"database/sql"
	"net/http"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/security"

	"github.com/gorilla/mux"
)

// NewRouter wires every API route. Everything under /api/v1 passes through
// the auth middleware; /healthz stays open for load balancer probes.
func NewRouter(
	db *sql.DB,
	tokens security.TokenManager,
	rentals *RentalHandler,
	payments *PaymentHandler,
) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(NewAuthMiddleware(tokens).Middleware)

	api.HandleFunc("/rentals", rentals.Create).Methods(http.MethodPost)
	api.HandleFunc("/rentals", rentals.List).Methods(http.MethodGet)
	api.HandleFunc("/rentals/active", rentals.GetActive).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}", rentals.Get).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/return", rentals.Return).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/cancel", rentals.Cancel).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/payments", payments.ListForRental).Methods(http.MethodGet)

	api.HandleFunc("/batteries/{serial}", rentals.LookupBattery).Methods(http.MethodGet)

	api.HandleFunc("/payments", payments.Create).Methods(http.MethodPost)
	api.HandleFunc("/payments", payments.List).Methods(http.MethodGet)
	api.HandleFunc("/payments/bulk-status", payments.BulkUpdateStatus).Methods(http.MethodPatch)
	api.HandleFunc("/payments/{id:[0-9]+}", payments.Get).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id:[0-9]+}/status", payments.UpdateStatus).Methods(http.MethodPatch)
	api.HandleFunc("/payments/{id:[0-9]+}/refund", payments.Refund).Methods(http.MethodPost)

	return router
}
