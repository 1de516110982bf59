package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"medbot/internal/repositories"
)

// ============================================================================
// Mock GenAI Client
// ============================================================================

type MockGenAIClient struct {
	mock.Mock
}

func (m *MockGenAIClient) GenerateAnswer(ctx context.Context, system, prompt string) (string, error) {
	args := m.Called(ctx, system, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockGenAIClient) EmbedText(ctx context.Context, text string) ([]float64, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockGenAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float64), args.Error(1)
}

// ============================================================================
// Mock Vector Repository
// ============================================================================

type MockVectorRepository struct {
	mock.Mock
}

func (m *MockVectorRepository) EnsureCollection(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockVectorRepository) StoreChunks(ctx context.Context, collection string, chunks []*repositories.Chunk) error {
	args := m.Called(ctx, collection, chunks)
	return args.Error(0)
}

func (m *MockVectorRepository) SearchChunks(ctx context.Context, collection string, queryEmbedding []float64, topK int) ([]*repositories.SearchResult, error) {
	args := m.Called(ctx, collection, queryEmbedding, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repositories.SearchResult), args.Error(1)
}

func (m *MockVectorRepository) CountChunks(ctx context.Context, collection string) (int, error) {
	args := m.Called(ctx, collection)
	return args.Int(0), args.Error(1)
}

func (m *MockVectorRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVectorRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

// ============================================================================
// Mock Document Repository
// ============================================================================

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Register(ctx context.Context, doc *repositories.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Get(ctx context.Context, id string) (*repositories.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context) ([]*repositories.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repositories.Document), args.Error(1)
}

func (m *MockDocumentRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
