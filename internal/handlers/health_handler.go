package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"medbot/internal/models"
)

// ServiceStatuses reports per-dependency health strings
type ServiceStatuses interface {
	QAStatus(ctx context.Context) string
	VectorStoreStatus(ctx context.Context) string
	RegistryStatus(ctx context.Context) string
}

// HealthHandler reports gateway liveness and dependency status.
// It must stay cheap and never fail because a dependency is down —
// it reports provider status, it does not guarantee it.
type HealthHandler struct {
	statuses ServiceStatuses
	version  string
	logger   *log.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(statuses ServiceStatuses, version string, logger *log.Logger) *HealthHandler {
	return &HealthHandler{
		statuses: statuses,
		version:  version,
		logger:   logger,
	}
}

// Health handles liveness requests
// @Summary Health check
// @Description Check the health of the gateway and its dependent services
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthStatus
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vectorStatus := h.statuses.VectorStoreStatus(ctx)
	services := map[string]string{
		"vector_store": vectorStatus,
		"qa_service":   h.statuses.QAStatus(ctx),
		"registry":     h.statuses.RegistryStatus(ctx),
		"embeddings":   vectorStatus, // embeddings are only usable when retrieval is
	}

	overall := "healthy"
	for _, status := range services {
		if status != "healthy" {
			overall = "degraded"
			break
		}
	}

	sendJSON(w, h.logger, http.StatusOK, models.HealthStatus{
		Status:    overall,
		Version:   h.version,
		Timestamp: time.Now().Format(time.RFC3339),
		Services:  services,
	})
}
