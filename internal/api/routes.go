package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Risk routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/compute_var", handler.ComputeVar).Methods("POST")
	api.HandleFunc("/fetch_returns", handler.FetchReturns).Methods("POST")

	// The frontend is served from a different origin
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(r)
}
