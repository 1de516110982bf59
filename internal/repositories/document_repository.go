package repositories

import (
	"context"
	"fmt"
	"time"
)

// Document is a registry record for an ingested document
type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	ChunkCount  int       `json:"chunk_count"`
	Collection  string    `json:"collection"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks required fields before registration
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("document ID is required")
	}
	if d.Filename == "" {
		return fmt.Errorf("document filename is required")
	}
	if d.Collection == "" {
		return fmt.Errorf("document collection is required")
	}
	return nil
}

// DocumentRepository tracks ingested documents
type DocumentRepository interface {
	// Register stores a new document record
	Register(ctx context.Context, doc *Document) error

	// Get retrieves a document record by ID
	Get(ctx context.Context, id string) (*Document, error)

	// List returns all registered documents, newest first
	List(ctx context.Context) ([]*Document, error)

	// Count returns the number of registered documents
	Count(ctx context.Context) (int, error)

	// Exists reports whether a document record exists
	Exists(ctx context.Context, id string) (bool, error)

	// Ping checks registry connectivity
	Ping(ctx context.Context) error
}

// DocumentRepositoryError wraps failures from the document registry
type DocumentRepositoryError struct {
	Operation  string
	DocumentID string
	Err        error
	Message    string
}

func (e *DocumentRepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Operation, e.DocumentID, e.Err)
	}
	return fmt.Sprintf("%s (%s): unknown error", e.Operation, e.DocumentID)
}

func (e *DocumentRepositoryError) Unwrap() error {
	return e.Err
}

// NewDocumentRepositoryError creates a new document repository error
func NewDocumentRepositoryError(operation, documentID string, err error, message string) *DocumentRepositoryError {
	return &DocumentRepositoryError{
		Operation:  operation,
		DocumentID: documentID,
		Err:        err,
		Message:    message,
	}
}

// DocumentNotFoundError signals a missing registry record
func DocumentNotFoundError(id string) *DocumentRepositoryError {
	return &DocumentRepositoryError{
		Operation:  "get",
		DocumentID: id,
		Message:    "document not found: " + id,
	}
}

// DocumentAlreadyExistsError signals a duplicate registration
func DocumentAlreadyExistsError(id string) *DocumentRepositoryError {
	return &DocumentRepositoryError{
		Operation:  "register",
		DocumentID: id,
		Message:    "document already exists: " + id,
	}
}
