package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"medbot/internal/models"
	"medbot/internal/repositories"
)

// allowedContentTypes lists the upload types we can ingest.
// PDF extraction is not supported; such uploads are rejected up front.
var allowedContentTypes = map[string]bool{
	"text/plain":    true,
	"text/markdown": true,
}

// DocumentService ingests documents into the vector store and tracks
// them in the registry.
type DocumentService struct {
	genai        GenAIClientInterface
	vectorRepo   repositories.VectorRepository
	docRepo      repositories.DocumentRepository
	processor    *DocumentProcessor
	collection   string
	maxDocuments int
	logger       *log.Logger
}

// NewDocumentService creates a new document ingestion service
func NewDocumentService(
	genai GenAIClientInterface,
	vectorRepo repositories.VectorRepository,
	docRepo repositories.DocumentRepository,
	processor *DocumentProcessor,
	collection string,
	maxDocuments int,
	logger *log.Logger,
) *DocumentService {
	return &DocumentService{
		genai:        genai,
		vectorRepo:   vectorRepo,
		docRepo:      docRepo,
		processor:    processor,
		collection:   collection,
		maxDocuments: maxDocuments,
		logger:       logger,
	}
}

// UploadDocumentRequest carries a single file to ingest
type UploadDocumentRequest struct {
	Filename    string
	ContentType string
	Content     io.Reader
	Size        int64
}

// ValidationError marks an upload rejected before any upstream call
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// UploadDocument chunks, embeds, and stores a document. The whole
// document is ingested or an error is returned; there is no
// partial-success state.
func (s *DocumentService) UploadDocument(ctx context.Context, req *UploadDocumentRequest) (*models.DocumentUploadResponse, error) {
	startTime := time.Now()

	contentType := normalizeContentType(req.ContentType)
	if !allowedContentTypes[contentType] {
		return nil, &ValidationError{Reason: fmt.Sprintf("unsupported file type: %s (allowed: text/plain, text/markdown)", req.ContentType)}
	}

	count, err := s.docRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check document count: %w", err)
	}
	if count >= s.maxDocuments {
		return nil, &ValidationError{Reason: fmt.Sprintf("document limit reached (%d)", s.maxDocuments)}
	}

	data, err := io.ReadAll(req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, &ValidationError{Reason: "file content is not valid UTF-8 text"}
	}

	s.logger.Printf("Processing uploaded file: %s (%d bytes)", req.Filename, len(data))

	texts, err := s.processor.SplitText(string(data))
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("cannot split document: %v", err)}
	}

	embeddings, err := s.genai.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	documentID := uuid.New().String()
	now := time.Now()

	chunks := make([]*repositories.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = &repositories.Chunk{
			ID:         fmt.Sprintf("%s_chunk_%d", documentID, i),
			DocumentID: documentID,
			Text:       text,
			Embedding:  embeddings[i],
			ChunkIndex: i,
			Metadata: map[string]interface{}{
				"filename":     req.Filename,
				"content_type": contentType,
				"upload_time":  now.Format(time.RFC3339),
			},
		}
	}

	if err := s.vectorRepo.EnsureCollection(ctx, s.collection); err != nil {
		return nil, fmt.Errorf("failed to prepare collection: %w", err)
	}
	if err := s.vectorRepo.StoreChunks(ctx, s.collection, chunks); err != nil {
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}

	doc := &repositories.Document{
		ID:          documentID,
		Filename:    req.Filename,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		ChunkCount:  len(chunks),
		Collection:  s.collection,
		CreatedAt:   now,
	}
	if err := s.docRepo.Register(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to register document: %w", err)
	}

	processingTime := time.Since(startTime).Seconds()
	s.logger.Printf("Document %s processed: %d chunks in %.2fs", documentID, len(chunks), processingTime)

	return &models.DocumentUploadResponse{
		Message:        "Document uploaded and processed successfully",
		DocumentID:     documentID,
		ChunksCreated:  len(chunks),
		ProcessingTime: processingTime,
	}, nil
}

// ListDocuments returns all registered documents
func (s *DocumentService) ListDocuments(ctx context.Context) ([]*repositories.Document, error) {
	docs, err := s.docRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// Stats reports vector and registry counts
func (s *DocumentService) Stats(ctx context.Context) (*models.StatsResponse, error) {
	vectors, err := s.vectorRepo.CountChunks(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to count vectors: %w", err)
	}

	docs, err := s.docRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	return &models.StatsResponse{
		TotalVectors:   vectors,
		TotalDocuments: docs,
		Collection:     s.collection,
	}, nil
}

// RegistryStatus reports registry connectivity for health checks
func (s *DocumentService) RegistryStatus(ctx context.Context) string {
	if err := s.docRepo.Ping(ctx); err != nil {
		return "unhealthy"
	}
	return "healthy"
}

// VectorStoreStatus reports vector store connectivity for health checks
func (s *DocumentService) VectorStoreStatus(ctx context.Context) string {
	if err := s.vectorRepo.Ping(ctx); err != nil {
		return "unhealthy"
	}
	return "healthy"
}

func normalizeContentType(ct string) string {
	// strip parameters like "; charset=utf-8"
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
