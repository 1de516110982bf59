package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"medbot/internal/models"
)

// Error type labels used in the error response body
const (
	errValidation = "Validation Error"
	errUpstream   = "Upstream Error"
	errBadRequest = "Bad Request"
	errInternal   = "Internal Server Error"
)

func sendJSON(w http.ResponseWriter, logger *log.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Printf("Failed to encode JSON response: %v", err)
	}
}

func sendError(w http.ResponseWriter, logger *log.Logger, status int, errType, message string) {
	sendJSON(w, logger, status, models.NewErrorResponse(errType, message, nil))
}
