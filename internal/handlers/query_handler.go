package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"medbot/internal/models"
)

// QueryService answers questions and finds similar documents
type QueryService interface {
	AnswerQuery(ctx context.Context, req *models.QueryRequest) (*models.QueryResponse, error)
	SimilarDocuments(ctx context.Context, query string, limit int) ([]models.SourceDocument, error)
}

// QueryHandler handles HTTP requests for question answering and search
type QueryHandler struct {
	qaService QueryService
	logger    *log.Logger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(qaService QueryService, logger *log.Logger) *QueryHandler {
	return &QueryHandler{
		qaService: qaService,
		logger:    logger,
	}
}

// Query handles question submissions
// @Summary Ask a medical question
// @Description Submit a medical query and get an AI-generated answer with source documents
// @Tags query
// @Accept json
// @Produce json
// @Param request body models.QueryRequest true "Query request"
// @Success 200 {object} models.QueryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/query [post]
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	h.logger.Printf("Query request from %s", r.RemoteAddr)

	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Printf("Failed to decode request: %v", err)
		sendError(w, h.logger, http.StatusBadRequest, errBadRequest, "Invalid request body: "+err.Error())
		return
	}

	// Validation happens before anything reaches the provider
	req.Normalize()
	if err := req.Validate(); err != nil {
		h.logger.Printf("Invalid query: %v", err)
		sendError(w, h.logger, http.StatusBadRequest, errValidation, err.Error())
		return
	}

	resp, err := h.qaService.AnswerQuery(r.Context(), &req)
	if err != nil {
		h.logger.Printf("Query processing failed: %v", err)
		sendError(w, h.logger, http.StatusInternalServerError, errUpstream, "Failed to process query: "+err.Error())
		return
	}

	sendJSON(w, h.logger, http.StatusOK, resp)
}

// Search handles similarity search without answer generation
// @Summary Search for similar documents
// @Description Find documents similar to a query without generating an answer
// @Tags query
// @Produce json
// @Param query query string true "Search query"
// @Param limit query int false "Maximum number of documents" default(4)
// @Success 200 {array} models.SourceDocument
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/search [get]
func (h *QueryHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		sendError(w, h.logger, http.StatusBadRequest, errValidation, "Query parameter 'query' is required")
		return
	}

	limit := models.DefaultSearchLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			sendError(w, h.logger, http.StatusBadRequest, errValidation, "Limit must be an integer")
			return
		}
		limit = parsed
	}
	if limit < models.MinSources || limit > models.MaxSources {
		sendError(w, h.logger, http.StatusBadRequest, errValidation, "Limit must be between 1 and 10")
		return
	}

	h.logger.Printf("Search request: %q (limit %d)", query, limit)

	sources, err := h.qaService.SimilarDocuments(r.Context(), query, limit)
	if err != nil {
		h.logger.Printf("Search failed: %v", err)
		sendError(w, h.logger, http.StatusInternalServerError, errUpstream, "Failed to search documents: "+err.Error())
		return
	}

	if sources == nil {
		sources = []models.SourceDocument{}
	}
	sendJSON(w, h.logger, http.StatusOK, sources)
}
