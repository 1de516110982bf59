// Package client is the Conversation Client's HTTP binding to the
// gateway. Transport failures and non-2xx responses are normalized
// into one APIError shape so callers cannot distinguish causes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"medbot/internal/models"
)

// DefaultTimeout bounds every request round trip
const DefaultTimeout = 30 * time.Second

// APIError is the uniform failure shape exposed to the state machine
type APIError struct {
	Message string
	Status  int // 0 for transport-level failures
	Details map[string]interface{}
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// Client talks to the Query Gateway
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a gateway client with the default timeout
func New(baseURL string) *Client {
	return NewWithTimeout(baseURL, DefaultTimeout)
}

// NewWithTimeout creates a gateway client with a custom timeout
func NewWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Query submits a question and returns the generated answer
func (c *Client) Query(ctx context.Context, req *models.QueryRequest) (*models.QueryResponse, error) {
	var resp models.QueryResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/query", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search finds documents similar to the query without generating an answer
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.SourceDocument, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))
	path := "/api/v1/search?" + params.Encode()
	var sources []models.SourceDocument
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// Health polls gateway liveness
func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	var status models.HealthStatus
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: "failed to encode request: " + err.Error()}
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &APIError{Message: "failed to create request: " + err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport failure, including client-side timeout
		return &APIError{Message: "cannot reach the server: " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return normalizeErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Message: "failed to decode response: " + err.Error(), Status: resp.StatusCode}
	}

	return nil
}

// normalizeErrorResponse folds the gateway's structured error body and
// any unstructured failure into the same APIError shape.
func normalizeErrorResponse(resp *http.Response) *APIError {
	var body models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		return &APIError{
			Message: body.Message,
			Status:  resp.StatusCode,
			Details: body.Details,
		}
	}
	return &APIError{
		Message: http.StatusText(resp.StatusCode),
		Status:  resp.StatusCode,
	}
}
