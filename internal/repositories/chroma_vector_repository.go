package repositories

import (
	"context"
	"fmt"

	"medbot/internal/db"
)

// ChromaVectorRepository implements VectorRepository using ChromaDB
type ChromaVectorRepository struct {
	client *db.ChromaDBClient
}

// NewChromaVectorRepository creates a new ChromaDB-backed vector repository
func NewChromaVectorRepository(client *db.ChromaDBClient) VectorRepository {
	return &ChromaVectorRepository{
		client: client,
	}
}

// EnsureCollection creates the collection if it does not exist yet
func (r *ChromaVectorRepository) EnsureCollection(ctx context.Context, name string) error {
	if _, err := r.client.GetCollection(ctx, name); err == nil {
		return nil
	}
	if _, err := r.client.CreateCollection(ctx, name, nil); err != nil {
		return NewVectorRepositoryError("ensure_collection", err, "failed to create collection: "+name)
	}
	return nil
}

// StoreChunks stores chunks in a collection
func (r *ChromaVectorRepository) StoreChunks(ctx context.Context, collection string, chunks []*Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	ids := make([]string, len(chunks))
	documents := make([]string, len(chunks))
	embeddings := make([][]float64, len(chunks))
	metadatas := make([]map[string]interface{}, len(chunks))

	for i, chunk := range chunks {
		ids[i] = chunk.ID
		documents[i] = chunk.Text
		embeddings[i] = chunk.Embedding

		metadata := make(map[string]interface{}, len(chunk.Metadata)+2)
		for k, v := range chunk.Metadata {
			metadata[k] = v
		}
		metadata["document_id"] = chunk.DocumentID
		metadata["chunk_index"] = chunk.ChunkIndex
		metadatas[i] = metadata
	}

	if err := r.client.AddDocuments(ctx, collection, ids, documents, embeddings, metadatas); err != nil {
		return NewVectorRepositoryError("store_chunks", err, "")
	}

	return nil
}

// SearchChunks performs a similarity search and converts distances to scores
func (r *ChromaVectorRepository) SearchChunks(ctx context.Context, collection string, queryEmbedding []float64, topK int) ([]*SearchResult, error) {
	resp, err := r.client.Query(ctx, collection, [][]float64{queryEmbedding}, topK)
	if err != nil {
		return nil, NewVectorRepositoryError("search_chunks", err, "")
	}

	if len(resp.IDs) == 0 {
		return []*SearchResult{}, nil
	}

	// Chroma nests results per query embedding; we send exactly one
	ids := resp.IDs[0]
	results := make([]*SearchResult, 0, len(ids))
	for i := range ids {
		result := &SearchResult{
			ChunkID: ids[i],
		}
		if len(resp.Documents) > 0 && i < len(resp.Documents[0]) {
			result.Text = resp.Documents[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			result.Metadata = resp.Metadatas[0][i]
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			result.Distance = resp.Distances[0][i]
			// cosine distance -> similarity
			result.Score = 1.0 - result.Distance
		}
		results = append(results, result)
	}

	return results, nil
}

// CountChunks returns the number of stored chunks
func (r *ChromaVectorRepository) CountChunks(ctx context.Context, collection string) (int, error) {
	count, err := r.client.CountCollection(ctx, collection)
	if err != nil {
		return 0, NewVectorRepositoryError("count_chunks", err, fmt.Sprintf("failed to count collection: %s", collection))
	}
	return count, nil
}

// Ping checks ChromaDB connectivity
func (r *ChromaVectorRepository) Ping(ctx context.Context) error {
	return r.client.Heartbeat(ctx)
}

// Close releases client resources
func (r *ChromaVectorRepository) Close() error {
	r.client.Close()
	return nil
}
