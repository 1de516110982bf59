package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ChromaDBClient wraps HTTP calls to the ChromaDB v2 API.
// This avoids compatibility issues with the official Go client library.
type ChromaDBClient struct {
	baseURL    string
	rootURL    string
	httpClient *http.Client
}

// ChromaDBConfig holds configuration for ChromaDB connection
type ChromaDBConfig struct {
	Host     string
	Port     int
	Tenant   string // default: "default_tenant"
	Database string // default: "default_database"
	Timeout  time.Duration
}

// Collection represents a ChromaDB collection
type Collection struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Metadata map[string]interface{} `json:"metadata"`
}

// QueryResponse represents the response from a similarity query
type QueryResponse struct {
	IDs       [][]string                 `json:"ids"`
	Documents [][]string                 `json:"documents"`
	Metadatas [][]map[string]interface{} `json:"metadatas"`
	Distances [][]float64                `json:"distances"`
}

// NewChromaDBClient creates a new ChromaDB client with v2 API support
func NewChromaDBClient(config ChromaDBConfig) *ChromaDBClient {
	if config.Tenant == "" {
		config.Tenant = "default_tenant"
	}
	if config.Database == "" {
		config.Database = "default_database"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	rootURL := fmt.Sprintf("http://%s:%d", config.Host, config.Port)

	// The v2 API scopes collections under tenant and database
	baseURL := fmt.Sprintf("%s/api/v2/tenants/%s/databases/%s",
		rootURL, config.Tenant, config.Database)

	return &ChromaDBClient{
		baseURL: baseURL,
		rootURL: rootURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Heartbeat checks if ChromaDB is alive
func (c *ChromaDBClient) Heartbeat(ctx context.Context) error {
	url := c.rootURL + "/api/v2/heartbeat"

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create heartbeat request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("heartbeat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("heartbeat failed with status: %d", resp.StatusCode)
	}

	return nil
}

// GetCollection retrieves a collection by name
func (c *ChromaDBClient) GetCollection(ctx context.Context, name string) (*Collection, error) {
	url := fmt.Sprintf("%s/collections/%s", c.baseURL, name)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("collection not found: %s", name)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get collection failed (status %d): %s", resp.StatusCode, string(body))
	}

	var collection Collection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &collection, nil
}

// CreateCollection creates a new collection with cosine distance
func (c *ChromaDBClient) CreateCollection(ctx context.Context, name string, metadata map[string]interface{}) (*Collection, error) {
	if metadata == nil {
		metadata = map[string]interface{}{
			"hnsw:space": "cosine",
		}
	}

	payload := map[string]interface{}{
		"name":     name,
		"metadata": metadata,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/collections", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("create collection failed (status %d): %s", resp.StatusCode, string(body))
	}

	var collection Collection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &collection, nil
}

// CountCollection returns the number of embeddings stored in a collection
func (c *ChromaDBClient) CountCollection(ctx context.Context, name string) (int, error) {
	collection, err := c.GetCollection(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to get collection: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/count", c.baseURL, collection.ID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("count collection failed (status %d): %s", resp.StatusCode, string(body))
	}

	var count int
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	return count, nil
}

// AddDocuments adds documents with precomputed embeddings to a collection
func (c *ChromaDBClient) AddDocuments(ctx context.Context, collectionName string, ids []string, documents []string, embeddings [][]float64, metadatas []map[string]interface{}) error {
	collection, err := c.GetCollection(ctx, collectionName)
	if err != nil {
		return fmt.Errorf("failed to get collection: %w", err)
	}

	payload := map[string]interface{}{
		"ids":        ids,
		"documents":  documents,
		"embeddings": embeddings,
	}
	if metadatas != nil {
		payload["metadatas"] = metadatas
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/add", c.baseURL, collection.ID)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("add documents failed (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

// Query searches a collection for nearest neighbors of the query embedding
func (c *ChromaDBClient) Query(ctx context.Context, collectionName string, queryEmbeddings [][]float64, nResults int) (*QueryResponse, error) {
	collection, err := c.GetCollection(ctx, collectionName)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	payload := map[string]interface{}{
		"query_embeddings": queryEmbeddings,
		"n_results":        nResults,
		"include":          []string{"documents", "metadatas", "distances"},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/query", c.baseURL, collection.ID)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("query failed (status %d): %s", resp.StatusCode, string(body))
	}

	var queryResp QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&queryResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &queryResp, nil
}

// Close closes idle HTTP connections
func (c *ChromaDBClient) Close() {
	c.httpClient.CloseIdleConnections()
}
