package services

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/models"
	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/repositories"
)

// VectorStore is namespace-scoped, append-only chunk storage. Upsert never
// deduplicates, and Scan of an unknown namespace returns an empty slice.
type VectorStore interface {
	Upsert(ctx context.Context, namespace, chunkID, text string, vector []float32) error
	Scan(ctx context.Context, namespace string) ([]StoredChunk, error)
}

// StoredChunk is one record as returned by Scan, in storage order.
type StoredChunk struct {
	ChunkID string
	Text    string
	Vector  []float32
}

type sqlVectorStore struct {
	embeddings repositories.EmbeddingRepository
}

// NewSQLVectorStore wraps the embeddings table as a VectorStore. Vectors are
// persisted as little-endian float32 blobs.
func NewSQLVectorStore(embeddings repositories.EmbeddingRepository) VectorStore {
	return &sqlVectorStore{embeddings: embeddings}
}

// Upsert implements VectorStore.
func (s *sqlVectorStore) Upsert(ctx context.Context, namespace, chunkID, text string, vector []float32) error {
	embedding := &models.Embedding{
		Namespace: namespace,
		ChunkID:   chunkID,
		Text:      text,
		Vector:    encodeFloat32s(vector),
	}

	if err := s.embeddings.Append(embedding); err != nil {
		return fmt.Errorf("failed to upsert chunk %s: %w", chunkID, err)
	}

	return nil
}

// Scan implements VectorStore.
func (s *sqlVectorStore) Scan(ctx context.Context, namespace string) ([]StoredChunk, error) {
	rows, err := s.embeddings.FindByNamespace(namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to scan namespace %s: %w", namespace, err)
	}

	chunks := make([]StoredChunk, 0, len(rows))
	for _, row := range rows {
		vector, err := decodeFloat32s(row.Vector)
		if err != nil {
			return nil, fmt.Errorf("failed to decode vector for chunk %s: %w", row.ChunkID, err)
		}
		chunks = append(chunks, StoredChunk{
			ChunkID: row.ChunkID,
			Text:    row.Text,
			Vector:  vector,
		})
	}

	return chunks, nil
}

func encodeFloat32s(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

func decodeFloat32s(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("blob length %d is not a multiple of 4", len(blob))
	}
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector, nil
}
