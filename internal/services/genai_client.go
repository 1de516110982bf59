package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultGenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GenAIClientInterface defines the interface for the generative AI provider.
// Embedding generation and answer generation are both delegated upstream.
type GenAIClientInterface interface {
	GenerateAnswer(ctx context.Context, system, prompt string) (string, error)
	EmbedText(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// GenAIClient talks to the Google Generative Language REST API
type GenAIClient struct {
	baseURL        string
	apiKey         string
	llmModel       string
	embeddingModel string
	temperature    float64
	httpClient     *http.Client
}

// GenAIConfig holds settings for the provider client
type GenAIConfig struct {
	APIKey         string
	LLMModel       string
	EmbeddingModel string
	Temperature    float64
	Timeout        time.Duration
	BaseURL        string // overridable for tests
}

// NewGenAIClient creates a provider client with connection pooling
func NewGenAIClient(config GenAIConfig) *GenAIClient {
	if config.BaseURL == "" {
		config.BaseURL = defaultGenAIBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &GenAIClient{
		baseURL:        config.BaseURL,
		apiKey:         config.APIKey,
		llmModel:       config.LLMModel,
		embeddingModel: config.EmbeddingModel,
		temperature:    config.Temperature,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// ============================================================================
// Request/Response Models
// ============================================================================

type genAIPart struct {
	Text string `json:"text"`
}

type genAIContent struct {
	Role  string      `json:"role,omitempty"`
	Parts []genAIPart `json:"parts"`
}

type generateContentRequest struct {
	Contents          []genAIContent    `json:"contents"`
	SystemInstruction *genAIContent     `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      genAIContent `json:"content"`
		FinishReason string       `json:"finishReason"`
	} `json:"candidates"`
}

type embedContentRequest struct {
	Model   string       `json:"model"`
	Content genAIContent `json:"content"`
}

type embedContentResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

type batchEmbedRequest struct {
	Requests []embedContentRequest `json:"requests"`
}

type batchEmbedResponse struct {
	Embeddings []struct {
		Values []float64 `json:"values"`
	} `json:"embeddings"`
}

// ============================================================================
// Operations
// ============================================================================

// GenerateAnswer asks the LLM for a completion of the given prompt
func (c *GenAIClient) GenerateAnswer(ctx context.Context, system, prompt string) (string, error) {
	reqBody := generateContentRequest{
		Contents: []genAIContent{
			{Role: "user", Parts: []genAIPart{{Text: prompt}}},
		},
		GenerationConfig: &generationConfig{Temperature: c.temperature},
	}
	if system != "" {
		reqBody.SystemInstruction = &genAIContent{Parts: []genAIPart{{Text: system}}}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.llmModel)

	var resp generateContentResponse
	if err := c.post(ctx, url, reqBody, &resp); err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("provider returned no candidates")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// EmbedText computes an embedding for a single text
func (c *GenAIClient) EmbedText(ctx context.Context, text string) ([]float64, error) {
	reqBody := embedContentRequest{
		Model:   "models/" + c.embeddingModel,
		Content: genAIContent{Parts: []genAIPart{{Text: text}}},
	}

	url := fmt.Sprintf("%s/models/%s:embedContent", c.baseURL, c.embeddingModel)

	var resp embedContentResponse
	if err := c.post(ctx, url, reqBody, &resp); err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("provider returned empty embedding")
	}

	return resp.Embedding.Values, nil
}

// EmbedBatch computes embeddings for multiple texts in one call
func (c *GenAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	requests := make([]embedContentRequest, len(texts))
	for i, text := range texts {
		requests[i] = embedContentRequest{
			Model:   "models/" + c.embeddingModel,
			Content: genAIContent{Parts: []genAIPart{{Text: text}}},
		}
	}

	url := fmt.Sprintf("%s/models/%s:batchEmbedContents", c.baseURL, c.embeddingModel)

	var resp batchEmbedResponse
	if err := c.post(ctx, url, batchEmbedRequest{Requests: requests}, &resp); err != nil {
		return nil, fmt.Errorf("batch embed: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("provider returned %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	embeddings := make([][]float64, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		embeddings[i] = e.Values
	}

	return embeddings, nil
}

func (c *GenAIClient) post(ctx context.Context, url string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
