package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"medbot/internal/models"
	"medbot/internal/repositories"
	"medbot/internal/services"
)

const maxUploadBytes = 32 << 20 // 32MB form memory limit

// DocumentIngestor uploads and tracks documents
type DocumentIngestor interface {
	UploadDocument(ctx context.Context, req *services.UploadDocumentRequest) (*models.DocumentUploadResponse, error)
	ListDocuments(ctx context.Context) ([]*repositories.Document, error)
	Stats(ctx context.Context) (*models.StatsResponse, error)
}

// DocumentHandler handles HTTP requests for document operations
type DocumentHandler struct {
	docService DocumentIngestor
	logger     *log.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService DocumentIngestor, logger *log.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// Upload handles document upload requests
// @Summary Upload a document
// @Description Upload a text document to be chunked, embedded, and added to the knowledge base
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file (text/plain or text/markdown)"
// @Success 200 {object} models.DocumentUploadResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/upload [post]
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	h.logger.Printf("Upload request from %s", r.RemoteAddr)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.logger.Printf("Failed to parse form: %v", err)
		sendError(w, h.logger, http.StatusBadRequest, errBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.logger.Printf("No file uploaded: %v", err)
		sendError(w, h.logger, http.StatusBadRequest, errValidation, "No file uploaded")
		return
	}
	defer file.Close()

	req := &services.UploadDocumentRequest{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
		Size:        header.Size,
	}

	resp, err := h.docService.UploadDocument(r.Context(), req)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			h.logger.Printf("Upload rejected: %v", err)
			sendError(w, h.logger, http.StatusBadRequest, errValidation, validationErr.Reason)
			return
		}
		h.logger.Printf("Upload failed: %v", err)
		sendError(w, h.logger, http.StatusInternalServerError, errUpstream, "Failed to upload document: "+err.Error())
		return
	}

	sendJSON(w, h.logger, http.StatusOK, resp)
}

// DocumentListResponse wraps the registry listing
type DocumentListResponse struct {
	Documents []*repositories.Document `json:"documents"`
	Count     int                      `json:"count"`
}

// List handles requests to list registered documents
// @Summary List documents
// @Description Get all documents registered in the knowledge base
// @Tags documents
// @Produce json
// @Success 200 {object} DocumentListResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/documents [get]
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docService.ListDocuments(r.Context())
	if err != nil {
		h.logger.Printf("Failed to list documents: %v", err)
		sendError(w, h.logger, http.StatusInternalServerError, errInternal, "Failed to list documents: "+err.Error())
		return
	}

	sendJSON(w, h.logger, http.StatusOK, DocumentListResponse{
		Documents: docs,
		Count:     len(docs),
	})
}

// Stats handles requests for index statistics
// @Summary Knowledge base statistics
// @Description Get vector and document counts for the knowledge base
// @Tags documents
// @Produce json
// @Success 200 {object} models.StatsResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/stats [get]
func (h *DocumentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.docService.Stats(r.Context())
	if err != nil {
		h.logger.Printf("Failed to collect stats: %v", err)
		sendError(w, h.logger, http.StatusInternalServerError, errInternal, "Failed to collect stats: "+err.Error())
		return
	}

	sendJSON(w, h.logger, http.StatusOK, stats)
}
