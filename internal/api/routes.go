package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/positions", handler.GetPositions).Methods("GET")
	api.HandleFunc("/positions", handler.ReplacePositions).Methods("POST")
	api.HandleFunc("/dashboard", handler.GetDashboard).Methods("GET")
	api.HandleFunc("/groups", handler.GetGroups).Methods("GET")
	// Identifiers may contain slashes (BRK/B), so the key spans segments
	api.HandleFunc("/groups/{key:.+}/accounts", handler.GetGroupAccounts).Methods("GET")
	api.HandleFunc("/totals", handler.GetTotals).Methods("GET")

	return r
}
