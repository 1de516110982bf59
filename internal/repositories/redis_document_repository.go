package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	documentKeyPrefix = "medbot:document:"
	documentIndexKey  = "medbot:documents:index"
)

// RedisDocumentRepository implements DocumentRepository using Redis
type RedisDocumentRepository struct {
	client *redis.Client
}

// NewRedisDocumentRepository creates a new Redis-based document registry
func NewRedisDocumentRepository(client *redis.Client) *RedisDocumentRepository {
	return &RedisDocumentRepository{
		client: client,
	}
}

// Register stores a new document record
func (r *RedisDocumentRepository) Register(ctx context.Context, doc *Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	exists, err := r.Exists(ctx, doc.ID)
	if err != nil {
		return NewDocumentRepositoryError("register", doc.ID, err, "")
	}
	if exists {
		return DocumentAlreadyExistsError(doc.ID)
	}

	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return NewDocumentRepositoryError("register", doc.ID, err, "failed to marshal document")
	}

	// Record and index update must land together
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, documentKeyPrefix+doc.ID, docJSON, 0)
	pipe.SAdd(ctx, documentIndexKey, doc.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return NewDocumentRepositoryError("register", doc.ID, err, "")
	}

	return nil
}

// Get retrieves a document record by ID
func (r *RedisDocumentRepository) Get(ctx context.Context, id string) (*Document, error) {
	data, err := r.client.Get(ctx, documentKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, DocumentNotFoundError(id)
		}
		return nil, NewDocumentRepositoryError("get", id, err, "")
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, NewDocumentRepositoryError("get", id, err, "failed to unmarshal document")
	}

	return &doc, nil
}

// List returns all registered documents, newest first
func (r *RedisDocumentRepository) List(ctx context.Context) ([]*Document, error) {
	ids, err := r.client.SMembers(ctx, documentIndexKey).Result()
	if err != nil {
		return nil, NewDocumentRepositoryError("list", "", err, "")
	}

	docs := make([]*Document, 0, len(ids))
	for _, id := range ids {
		doc, err := r.Get(ctx, id)
		if err != nil {
			// Skip records whose index entry outlived the record
			continue
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	return docs, nil
}

// Count returns the number of registered documents
func (r *RedisDocumentRepository) Count(ctx context.Context) (int, error) {
	count, err := r.client.SCard(ctx, documentIndexKey).Result()
	if err != nil {
		return 0, NewDocumentRepositoryError("count", "", err, "")
	}
	return int(count), nil
}

// Exists reports whether a document record exists
func (r *RedisDocumentRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, documentKeyPrefix+id).Result()
	if err != nil {
		return false, NewDocumentRepositoryError("exists", id, err, "")
	}
	return n > 0, nil
}

// Ping checks Redis connectivity
func (r *RedisDocumentRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
