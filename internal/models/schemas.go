package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// Query length bounds enforced before any provider call
	MinQueryLength = 3
	MaxQueryLength = 1000

	MinSources = 1
	MaxSources = 10

	DefaultMaxSources  = 3
	DefaultSearchLimit = 4
)

// QueryRequest is the request body for POST /query
type QueryRequest struct {
	Query          string `json:"query"`
	IncludeSources *bool  `json:"include_sources,omitempty"` // default true
	MaxSources     int    `json:"max_sources,omitempty"`     // default 3
}

// Normalize trims the query and applies defaults for optional fields.
func (r *QueryRequest) Normalize() {
	r.Query = strings.TrimSpace(r.Query)
	if r.IncludeSources == nil {
		t := true
		r.IncludeSources = &t
	}
	if r.MaxSources == 0 {
		r.MaxSources = DefaultMaxSources
	}
}

// Validate checks the normalized request against the contract bounds.
// Length bounds count characters, not bytes.
func (r *QueryRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("query must not be empty")
	}
	length := utf8.RuneCountInString(r.Query)
	if length < MinQueryLength {
		return fmt.Errorf("query must be at least %d characters", MinQueryLength)
	}
	if length > MaxQueryLength {
		return fmt.Errorf("query must be at most %d characters", MaxQueryLength)
	}
	if r.MaxSources < MinSources || r.MaxSources > MaxSources {
		return fmt.Errorf("max_sources must be between %d and %d", MinSources, MaxSources)
	}
	return nil
}

// WantsSources reports whether source documents were requested.
func (r *QueryRequest) WantsSources() bool {
	return r.IncludeSources == nil || *r.IncludeSources
}

// SourceDocument is a retrieval result attached to an answer
type SourceDocument struct {
	Content        string                 `json:"content"`
	Metadata       map[string]interface{} `json:"metadata"`
	RelevanceScore *float64               `json:"relevance_score,omitempty"`
}

// QueryResponse is the response body for POST /query
type QueryResponse struct {
	Answer         string           `json:"answer"`
	Sources        []SourceDocument `json:"sources,omitempty"`
	Query          string           `json:"query"`
	ProcessingTime float64          `json:"processing_time"`
	ModelUsed      string           `json:"model_used"`
}

// DocumentUploadResponse is the response body for POST /upload
type DocumentUploadResponse struct {
	Message        string  `json:"message"`
	DocumentID     string  `json:"document_id"`
	ChunksCreated  int     `json:"chunks_created"`
	ProcessingTime float64 `json:"processing_time"`
}

// HealthStatus is the response body for GET /health
type HealthStatus struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// ErrorResponse is the uniform error body for non-2xx responses
type ErrorResponse struct {
	Error     string                 `json:"error"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// NewErrorResponse builds an error body with the current timestamp.
func NewErrorResponse(errType, message string, details map[string]interface{}) ErrorResponse {
	return ErrorResponse{
		Error:     errType,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// StatsResponse reports index and registry statistics
type StatsResponse struct {
	TotalVectors   int    `json:"total_vectors"`
	TotalDocuments int    `json:"total_documents"`
	Collection     string `json:"collection"`
}
