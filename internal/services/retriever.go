package services

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Reference corpus namespaces. The job description feeds CV-track retrieval;
// rubric chunks feed both tracks.
const (
	NamespaceJobDescription = "job:cv"
	NamespaceCVRubric       = "rubric:cv"
	NamespaceProjectRubric  = "rubric:project"
)

// cosineEpsilon keeps the similarity denominator away from zero.
const cosineEpsilon = 1e-10

// Chunk is a unit of reference text to be indexed.
type Chunk struct {
	ID   string
	Text string
}

// ScoredChunk is a retrieved chunk with its similarity score.
type ScoredChunk struct {
	ChunkID string
	Text    string
	Score   float64
}

// Retriever indexes reference corpora and answers top-K similarity queries.
// The default implementation scans the local vector store; a qdrant-backed
// implementation satisfies the same contract for larger corpora.
type Retriever interface {
	IndexNamespace(ctx context.Context, namespace string, chunks []Chunk) error
	TopK(ctx context.Context, namespace, query string, k int) ([]ScoredChunk, error)
}

type localRetriever struct {
	store  VectorStore
	gemini GeminiService
}

// NewLocalRetriever builds the brute-force retriever. The gemini service is
// expected to already carry the retry schedule (see NewResilientGemini).
func NewLocalRetriever(store VectorStore, gemini GeminiService) Retriever {
	return &localRetriever{store: store, gemini: gemini}
}

// IndexNamespace implements Retriever. Embeds every chunk text and appends
// the (chunk, vector) pairs to the store.
func (r *localRetriever) IndexNamespace(ctx context.Context, namespace string, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := r.gemini.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed namespace %s: %w", namespace, err)
	}

	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	for i, chunk := range chunks {
		if err := r.store.Upsert(ctx, namespace, chunk.ID, chunk.Text, vectors[i]); err != nil {
			return err
		}
	}

	return nil
}

// TopK implements Retriever. Candidates whose dimensionality differs from the
// query vector are skipped rather than reported: corpora are embedded with one
// fixed model, so a mismatch signals a stale record, not a fatal condition.
func (r *localRetriever) TopK(ctx context.Context, namespace, query string, k int) ([]ScoredChunk, error) {
	vectors, err := r.gemini.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, nil
	}
	queryVector := vectors[0]

	candidates, err := r.store.Scan(ctx, namespace)
	if err != nil {
		return nil, err
	}

	var results []ScoredChunk
	for _, candidate := range candidates {
		if len(candidate.Vector) != len(queryVector) {
			continue
		}
		results = append(results, ScoredChunk{
			ChunkID: candidate.ChunkID,
			Text:    candidate.Text,
			Score:   cosineSimilarity(queryVector, candidate.Vector),
		})
	}

	// Ties keep storage order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}

	return results, nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + cosineEpsilon)
}
