package handlers

import (
	"log"
	"net/http"
)

// HomeHandler serves API information at the root path
type HomeHandler struct {
	appName string
	version string
	logger  *log.Logger
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(appName, version string, logger *log.Logger) *HomeHandler {
	return &HomeHandler{appName: appName, version: version, logger: logger}
}

// Home handles root requests
// @Summary API information
// @Tags root
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, h.logger, http.StatusOK, map[string]string{
		"name":    h.appName,
		"version": h.version,
		"status":  "running",
		"docs":    "/swagger/index.html",
		"health":  "/api/v1/health",
	})
}
