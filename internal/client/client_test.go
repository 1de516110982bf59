package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medbot/internal/models"
)

func TestQuery_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/query", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "What is diabetes?", req.Query)

		json.NewEncoder(w).Encode(models.QueryResponse{
			Answer:         "Diabetes is a chronic condition.",
			Query:          req.Query,
			ProcessingTime: 0.42,
			ModelUsed:      "gemini-2.0-flash",
		})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Query(context.Background(), &models.QueryRequest{Query: "What is diabetes?", MaxSources: 3})

	require.NoError(t, err)
	assert.Equal(t, "Diabetes is a chronic condition.", resp.Answer)
	assert.Equal(t, 0.42, resp.ProcessingTime)
}

func TestQuery_StructuredErrorNormalized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.NewErrorResponse(
			"Validation Error",
			"query must be at least 3 characters",
			map[string]interface{}{"field": "query"},
		))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Query(context.Background(), &models.QueryRequest{Query: "hi"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "query must be at least 3 characters", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "query", apiErr.Details["field"])
}

func TestQuery_UnstructuredErrorNormalized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Query(context.Background(), &models.QueryRequest{Query: "What is diabetes?"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestQuery_TransportFailure(t *testing.T) {
	// point at a closed server so the dial fails
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := New(server.URL)
	_, err := c.Query(context.Background(), &models.QueryRequest{Query: "What is diabetes?"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status, "transport failures carry no HTTP status")
	assert.Contains(t, apiErr.Message, "cannot reach the server")
}

func TestQuery_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := NewWithTimeout(server.URL, 20*time.Millisecond)
	_, err := c.Query(context.Background(), &models.QueryRequest{Query: "What is diabetes?"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
}

func TestSearch_EncodesParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/search", r.URL.Path)
		assert.Equal(t, "blood pressure & diet", r.URL.Query().Get("query"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))

		json.NewEncoder(w).Encode([]models.SourceDocument{
			{Content: "passage", Metadata: map[string]interface{}{"filename": "guide.txt"}},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	sources, err := c.Search(context.Background(), "blood pressure & diet", 5)

	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "passage", sources[0].Content)
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/health", r.URL.Path)
		json.NewEncoder(w).Encode(models.HealthStatus{
			Status:  "degraded",
			Version: "1.0.0",
			Services: map[string]string{
				"vector_store": "unhealthy",
				"qa_service":   "healthy",
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	status, err := c.Health(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "unhealthy", status.Services["vector_store"])
}

func TestAPIError_Error(t *testing.T) {
	withStatus := &APIError{Message: "nope", Status: 422}
	assert.Equal(t, "nope (status 422)", withStatus.Error())

	transport := &APIError{Message: "cannot reach the server: dial refused"}
	assert.Equal(t, "cannot reach the server: dial refused", transport.Error())
}
