package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"medbot/internal/handlers"
)

// Handlers groups everything the router needs
type Handlers struct {
	Query    *handlers.QueryHandler
	Document *handlers.DocumentHandler
	Health   *handlers.HealthHandler
	Home     *handlers.HomeHandler
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(router *mux.Router, h *Handlers) {
	router.HandleFunc("/", h.Home.Home).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/query", h.Query.Query).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/search", h.Query.Search).Methods(http.MethodGet)
	api.HandleFunc("/upload", h.Document.Upload).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/documents", h.Document.List).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.Document.Stats).Methods(http.MethodGet)
	api.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
}
