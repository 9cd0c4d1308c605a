package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Read-only tracker routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/products", handler.GetProducts).Methods("GET")
	api.HandleFunc("/products/history", handler.GetHistory).Methods("GET")
	api.HandleFunc("/report/latest", handler.GetLatestReport).Methods("GET")

	return r
}
