package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryVectorStore is an in-process VectorStore for tests.
type memoryVectorStore struct {
	chunks map[string][]StoredChunk
}

func newMemoryVectorStore() *memoryVectorStore {
	return &memoryVectorStore{chunks: make(map[string][]StoredChunk)}
}

func (m *memoryVectorStore) Upsert(ctx context.Context, namespace, chunkID, text string, vector []float32) error {
	m.chunks[namespace] = append(m.chunks[namespace], StoredChunk{ChunkID: chunkID, Text: text, Vector: vector})
	return nil
}

func (m *memoryVectorStore) Scan(ctx context.Context, namespace string) ([]StoredChunk, error) {
	return m.chunks[namespace], nil
}

// mappedGemini embeds each text with a fixed vector from the table.
type mappedGemini struct {
	vectors map[string][]float32
}

func (s *mappedGemini) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vector, ok := s.vectors[text]
		if !ok {
			return nil, errors.New("no vector for text")
		}
		result = append(result, vector)
	}
	return result, nil
}

func (s *mappedGemini) GenerateText(ctx context.Context, prompt, system string, temperature float32) (string, error) {
	return "", errors.New("not implemented")
}

func seededRetriever(t *testing.T, queryVector []float32, stored []StoredChunk) Retriever {
	t.Helper()
	store := newMemoryVectorStore()
	for _, chunk := range stored {
		require.NoError(t, store.Upsert(context.Background(), "ns", chunk.ChunkID, chunk.Text, chunk.Vector))
	}
	gemini := &mappedGemini{vectors: map[string][]float32{"query": queryVector}}
	return NewLocalRetriever(store, gemini)
}

func TestTopK_SelfSimilarityIsOne(t *testing.T) {
	r := seededRetriever(t, []float32{1, 2, 3}, []StoredChunk{
		{ChunkID: "c1", Text: "same direction", Vector: []float32{1, 2, 3}},
	})

	results, err := r.TopK(context.Background(), "ns", "query", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestTopK_OrthogonalVectorsScoreZero(t *testing.T) {
	r := seededRetriever(t, []float32{1, 0}, []StoredChunk{
		{ChunkID: "c1", Text: "orthogonal", Vector: []float32{0, 1}},
	})

	results, err := r.TopK(context.Background(), "ns", "query", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.0, results[0].Score, 1e-6)
}

func TestTopK_SortsDescendingAndTruncates(t *testing.T) {
	r := seededRetriever(t, []float32{1, 0}, []StoredChunk{
		{ChunkID: "far", Text: "far", Vector: []float32{0, 1}},
		{ChunkID: "near", Text: "near", Vector: []float32{1, 0.1}},
		{ChunkID: "exact", Text: "exact", Vector: []float32{1, 0}},
	})

	results, err := r.TopK(context.Background(), "ns", "query", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "exact", results[0].ChunkID)
	assert.Equal(t, "near", results[1].ChunkID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestTopK_TiesKeepStorageOrder(t *testing.T) {
	r := seededRetriever(t, []float32{1, 0}, []StoredChunk{
		{ChunkID: "first", Text: "a", Vector: []float32{2, 0}},
		{ChunkID: "second", Text: "b", Vector: []float32{3, 0}},
	})

	results, err := r.TopK(context.Background(), "ns", "query", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].ChunkID)
	assert.Equal(t, "second", results[1].ChunkID)
}

func TestTopK_UnknownNamespaceReturnsEmpty(t *testing.T) {
	r := seededRetriever(t, []float32{1, 0}, nil)

	results, err := r.TopK(context.Background(), "never-indexed", "query", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestTopK_DimensionMismatchSkippedSilently(t *testing.T) {
	r := seededRetriever(t, []float32{1, 0}, []StoredChunk{
		{ChunkID: "stale", Text: "old model", Vector: []float32{1, 0, 0}},
		{ChunkID: "good", Text: "current model", Vector: []float32{1, 0}},
	})

	results, err := r.TopK(context.Background(), "ns", "query", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "good", results[0].ChunkID)
}

func TestTopK_EmptyEmbeddingResultReturnsEmpty(t *testing.T) {
	store := newMemoryVectorStore()
	gemini := &emptyEmbeddingGemini{}
	r := NewLocalRetriever(store, gemini)

	results, err := r.TopK(context.Background(), "ns", "query", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

type emptyEmbeddingGemini struct{}

func (s *emptyEmbeddingGemini) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, nil
}

func (s *emptyEmbeddingGemini) GenerateText(ctx context.Context, prompt, system string, temperature float32) (string, error) {
	return "", errors.New("not implemented")
}

func TestIndexNamespace_StoresAllChunks(t *testing.T) {
	store := newMemoryVectorStore()
	gemini := &mappedGemini{vectors: map[string][]float32{
		"alpha": {1, 0},
		"beta":  {0, 1},
	}}
	r := NewLocalRetriever(store, gemini)

	err := r.IndexNamespace(context.Background(), "ns", []Chunk{
		{ID: "a", Text: "alpha"},
		{ID: "b", Text: "beta"},
	})
	require.NoError(t, err)

	stored, err := store.Scan(context.Background(), "ns")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "a", stored[0].ChunkID)
	assert.Equal(t, []float32{1, 0}, stored[0].Vector)
}

func TestIndexNamespace_DuplicateChunkIDsBothRetrievable(t *testing.T) {
	store := newMemoryVectorStore()
	gemini := &mappedGemini{vectors: map[string][]float32{
		"alpha": {1, 0},
		"query": {1, 0},
	}}
	r := NewLocalRetriever(store, gemini)

	chunks := []Chunk{{ID: "dup", Text: "alpha"}}
	require.NoError(t, r.IndexNamespace(context.Background(), "ns", chunks))
	require.NoError(t, r.IndexNamespace(context.Background(), "ns", chunks))

	results, err := r.TopK(context.Background(), "ns", "query", 5)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestIndexNamespace_EmptyChunksIsNoop(t *testing.T) {
	store := newMemoryVectorStore()
	gemini := &mappedGemini{vectors: map[string][]float32{}}
	r := NewLocalRetriever(store, gemini)

	require.NoError(t, r.IndexNamespace(context.Background(), "ns", nil))
	stored, err := store.Scan(context.Background(), "ns")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{3, 4}, []float32{3, 4}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 5}), 1e-6)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 1}, []float32{-1, -1}), 1e-6)
	// Zero vector stays finite thanks to the epsilon.
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{0, 0}))
}
