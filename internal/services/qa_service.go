package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"medbot/internal/models"
	"medbot/internal/repositories"
)

const retrievalTopK = 4

const qaSystemPrompt = "You are a careful medical information assistant. " +
	"Answer the user's question using ONLY the provided context passages. " +
	"If the context does not contain enough information to answer, say so honestly " +
	"instead of guessing. Do not provide a diagnosis; recommend consulting a " +
	"healthcare professional for personal medical decisions."

// QAService answers questions using retrieval-augmented generation
type QAService struct {
	genai      GenAIClientInterface
	vectorRepo repositories.VectorRepository
	collection string
	model      string
	logger     *log.Logger
}

// NewQAService creates a new question-answering service
func NewQAService(
	genai GenAIClientInterface,
	vectorRepo repositories.VectorRepository,
	collection string,
	model string,
	logger *log.Logger,
) *QAService {
	return &QAService{
		genai:      genai,
		vectorRepo: vectorRepo,
		collection: collection,
		model:      model,
		logger:     logger,
	}
}

// AnswerQuery retrieves context for the query and generates an answer.
// The request must already be normalized and validated by the caller.
func (s *QAService) AnswerQuery(ctx context.Context, req *models.QueryRequest) (*models.QueryResponse, error) {
	startTime := time.Now()

	s.logger.Printf("Processing query: %s", truncate(req.Query, 100))

	results, err := s.retrieve(ctx, req.Query, retrievalTopK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	prompt := buildPrompt(req.Query, results)

	answer, err := s.genai.GenerateAnswer(ctx, qaSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	var sources []models.SourceDocument
	if req.WantsSources() && len(results) > 0 {
		sources = sourcesFromResults(results, req.MaxSources)
	}

	processingTime := time.Since(startTime).Seconds()
	s.logger.Printf("Query processed in %.2fs (%d context chunks)", processingTime, len(results))

	return &models.QueryResponse{
		Answer:         answer,
		Sources:        sources,
		Query:          req.Query,
		ProcessingTime: processingTime,
		ModelUsed:      s.model,
	}, nil
}

// SimilarDocuments returns documents similar to the query without generating an answer
func (s *QAService) SimilarDocuments(ctx context.Context, query string, limit int) ([]models.SourceDocument, error) {
	s.logger.Printf("Searching for documents similar to: %s", truncate(query, 100))

	results, err := s.retrieve(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	sources := sourcesFromResults(results, limit)
	s.logger.Printf("Found %d similar documents", len(sources))

	return sources, nil
}

// HealthCheck reports QA service status. It only checks retrieval
// connectivity, never the LLM, so it stays cheap.
func (s *QAService) HealthCheck(ctx context.Context) string {
	if err := s.vectorRepo.Ping(ctx); err != nil {
		s.logger.Printf("QA health check failed: %v", err)
		return "unhealthy"
	}
	return "healthy"
}

func (s *QAService) retrieve(ctx context.Context, query string, topK int) ([]*repositories.SearchResult, error) {
	embedding, err := s.genai.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := s.vectorRepo.SearchChunks(ctx, s.collection, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	return results, nil
}

// buildPrompt assembles the user prompt from retrieved context chunks
func buildPrompt(query string, results []*repositories.SearchResult) string {
	if len(results) == 0 {
		return "User question: " + query
	}

	var b strings.Builder
	b.WriteString("Here is relevant information from the medical documents:\n\n")
	for i, r := range results {
		fmt.Fprintf(&b, "[Passage %d]: %s\n\n", i+1, r.Text)
	}
	b.WriteString("Please use this information to answer the user's question.\n\n")
	b.WriteString("User question: ")
	b.WriteString(query)
	return b.String()
}

// sourcesFromResults shapes search hits into response sources,
// capping excerpt length at 500 characters.
func sourcesFromResults(results []*repositories.SearchResult, maxSources int) []models.SourceDocument {
	if maxSources > len(results) {
		maxSources = len(results)
	}

	sources := make([]models.SourceDocument, 0, maxSources)
	for _, r := range results[:maxSources] {
		content := truncate(r.Text, 500)

		metadata := r.Metadata
		if metadata == nil {
			metadata = map[string]interface{}{}
		}

		score := r.Score
		sources = append(sources, models.SourceDocument{
			Content:        content,
			Metadata:       metadata,
			RelevanceScore: &score,
		})
	}

	return sources
}

// truncate caps s at n characters, never cutting a rune in half
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
