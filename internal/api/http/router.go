package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the JSON API. Public routes are registered ahead of the
// authenticated /api subrouter so they match first.
func NewRouter(h *RentalHandler, auth *AuthMiddleware) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestLogger)

	router.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/Rent/Transport", h.handleListAvailable).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.Middleware())

	api.HandleFunc("/Rent/MyHistory", h.handleMyHistory).Methods(http.MethodGet)
	api.HandleFunc("/Rent/TransportHistory/{transportId:[0-9]+}", h.handleTransportHistory).Methods(http.MethodGet)
	api.HandleFunc("/Rent/New/{transportId:[0-9]+}", h.handleCreateRent).Methods(http.MethodPost)
	api.HandleFunc("/Rent/End/{rentId:[0-9]+}", h.handleEndRent).Methods(http.MethodPost)
	api.HandleFunc("/Rent/{rentId:[0-9]+}", h.handleGetRent).Methods(http.MethodGet)

	api.HandleFunc("/Admin/Rent", h.handleAdminCreateRent).Methods(http.MethodPost)
	api.HandleFunc("/Admin/Rent/End/{rentId:[0-9]+}", h.handleAdminEndRent).Methods(http.MethodPost)
	api.HandleFunc("/Admin/Rent/{rentId:[0-9]+}", h.handleAdminGetRent).Methods(http.MethodGet)
	api.HandleFunc("/Admin/Rent/{rentId:[0-9]+}", h.handleAdminUpdateRent).Methods(http.MethodPut)
	api.HandleFunc("/Admin/Rent/{rentId:[0-9]+}", h.handleAdminDeleteRent).Methods(http.MethodDelete)
	// Older clients delete through the end path.
	api.HandleFunc("/Admin/Rent/End/{rentId:[0-9]+}", h.handleAdminDeleteRent).Methods(http.MethodDelete)
	api.HandleFunc("/Admin/UserHistory/{userId:[0-9]+}", h.handleAdminUserHistory).Methods(http.MethodGet)
	api.HandleFunc("/Admin/TransportHistory/{transportId:[0-9]+}", h.handleAdminTransportHistory).Methods(http.MethodGet)

	return router
}
