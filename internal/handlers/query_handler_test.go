package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medbot/internal/models"
)

// ============================================================================
// Mock Query Service
// ============================================================================

type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) AnswerQuery(ctx context.Context, req *models.QueryRequest) (*models.QueryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QueryResponse), args.Error(1)
}

func (m *MockQueryService) SimilarDocuments(ctx context.Context, query string, limit int) ([]models.SourceDocument, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SourceDocument), args.Error(1)
}

func setupTestQueryHandler(t *testing.T) (*QueryHandler, *MockQueryService) {
	t.Helper()
	mockService := new(MockQueryService)
	logger := log.New(os.Stdout, "[TEST] ", log.LstdFlags)
	return NewQueryHandler(mockService, logger), mockService
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

// ============================================================================
// Query Tests
// ============================================================================

func TestQuery_ReturnsAnswer(t *testing.T) {
	handler, mockService := setupTestQueryHandler(t)

	mockService.On("AnswerQuery", mock.Anything, mock.MatchedBy(func(req *models.QueryRequest) bool {
		// the handler normalizes before calling the service
		return req.Query == "What is diabetes?" && req.MaxSources == models.DefaultMaxSources
	})).Return(&models.QueryResponse{
		Answer:    "Diabetes is a chronic condition.",
		Query:     "What is diabetes?",
		ModelUsed: "gemini-2.0-flash",
	}, nil)

	body, _ := json.Marshal(models.QueryRequest{Query: "  What is diabetes?  "})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Query(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp models.QueryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Diabetes is a chronic condition.", resp.Answer)
	mockService.AssertExpectations(t)
}

func TestQuery_MalformedBody(t *testing.T) {
	handler, mockService := setupTestQueryHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	handler.Query(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Bad Request", body.Error)
	assert.NotEmpty(t, body.Timestamp)
	mockService.AssertNotCalled(t, "AnswerQuery", mock.Anything, mock.Anything)
}

func TestQuery_TooShortRejectedBeforeProvider(t *testing.T) {
	handler, mockService := setupTestQueryHandler(t)

	body, _ := json.Marshal(models.QueryRequest{Query: "hi"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Query(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeError(t, rec)
	assert.Equal(t, "Validation Error", errBody.Error)
	assert.Contains(t, errBody.Message, "at least 3 characters")
	mockService.AssertNotCalled(t, "AnswerQuery", mock.Anything, mock.Anything)
}

func TestQuery_UpstreamFailure(t *testing.T) {
	handler, mockService := setupTestQueryHandler(t)

	mockService.On("AnswerQuery", mock.Anything, mock.Anything).
		Return(nil, errors.New("provider unavailable"))

	body, _ := json.Marshal(models.QueryRequest{Query: "What is diabetes?"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Query(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	errBody := decodeError(t, rec)
	assert.Equal(t, "Upstream Error", errBody.Error)
	assert.Contains(t, errBody.Message, "provider unavailable")
}

// ============================================================================
// Search Tests
// ============================================================================

func TestSearch_ReturnsSources(t *testing.T) {
	handler, mockService := setupTestQueryHandler(t)

	mockService.On("SimilarDocuments", mock.Anything, "aspirin", 4).
		Return([]models.SourceDocument{{Content: "passage"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?query=aspirin", nil)
	rec := httptest.NewRecorder()

	handler.Search(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var sources []models.SourceDocument
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sources))
	require.Len(t, sources, 1)
	mockService.AssertExpectations(t)
}

func TestSearch_MissingQueryParam(t *testing.T) {
	handler, _ := setupTestQueryHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	rec := httptest.NewRecorder()

	handler.Search(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeError(t, rec)
	assert.Contains(t, errBody.Message, "required")
}

func TestSearch_LimitBounds(t *testing.T) {
	for _, limit := range []string{"0", "11", "abc"} {
		t.Run("limit="+limit, func(t *testing.T) {
			handler, _ := setupTestQueryHandler(t)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/search?query=aspirin&limit="+limit, nil)
			rec := httptest.NewRecorder()

			handler.Search(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSearch_NilResultsEncodeAsEmptyArray(t *testing.T) {
	handler, mockService := setupTestQueryHandler(t)

	mockService.On("SimilarDocuments", mock.Anything, "aspirin", 4).
		Return([]models.SourceDocument(nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?query=aspirin", nil)
	rec := httptest.NewRecorder()

	handler.Search(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}
