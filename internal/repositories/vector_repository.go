package repositories

import (
	"context"
)

// VectorRepository abstracts the vector store used for retrieval.
// This allows swapping ChromaDB out in tests.
type VectorRepository interface {
	// EnsureCollection creates the collection if it does not exist yet
	EnsureCollection(ctx context.Context, name string) error

	// StoreChunks stores embedded chunks in a collection
	StoreChunks(ctx context.Context, collection string, chunks []*Chunk) error

	// SearchChunks returns the topK nearest chunks for a query embedding
	SearchChunks(ctx context.Context, collection string, queryEmbedding []float64, topK int) ([]*SearchResult, error)

	// CountChunks returns the number of stored chunks in a collection
	CountChunks(ctx context.Context, collection string) (int, error)

	// Ping checks store connectivity
	Ping(ctx context.Context) error

	Close() error
}

// Chunk is a text chunk with its embedding and metadata
type Chunk struct {
	ID         string                 `json:"id"`
	DocumentID string                 `json:"document_id"`
	Text       string                 `json:"text"`
	Embedding  []float64              `json:"embedding"`
	Metadata   map[string]interface{} `json:"metadata"`
	ChunkIndex int                    `json:"chunk_index"`
}

// SearchResult is a single hit from a similarity search
type SearchResult struct {
	ChunkID  string                 `json:"chunk_id"`
	Text     string                 `json:"text"`
	Score    float64                `json:"score"` // similarity in [0,1], higher is better
	Distance float64                `json:"distance"`
	Metadata map[string]interface{} `json:"metadata"`
}

// VectorRepositoryError wraps failures from the vector store
type VectorRepositoryError struct {
	Operation string
	Err       error
	Message   string
}

func (e *VectorRepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Operation + ": " + e.Err.Error()
	}
	return e.Operation + ": unknown error"
}

func (e *VectorRepositoryError) Unwrap() error {
	return e.Err
}

// NewVectorRepositoryError creates a new vector repository error
func NewVectorRepositoryError(operation string, err error, message string) *VectorRepositoryError {
	return &VectorRepositoryError{
		Operation: operation,
		Err:       err,
		Message:   message,
	}
}
