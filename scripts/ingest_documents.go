package main

import (
	"context"
	"fmt"
	"log"

	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/config"
	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/repositories"
	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/services"
)

// Seeds the reference corpus: the job description feeds CV-track retrieval,
// the scoring rubric feeds both rubric namespaces. Run once before serving;
// re-running appends duplicate chunks, so wipe the embeddings table first if
// re-seeding.
func main() {
	log.Println("🚀 Starting document ingestion...")

	cfg := config.Load()

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}
	backoff := services.NewBackoff(cfg.Retry.Delays, cfg.Retry.Jitter)
	llm := services.NewResilientGemini(geminiService, backoff)

	var retriever services.Retriever
	if cfg.Retrieval.Backend == "qdrant" {
		retriever, err = services.NewQdrantRetriever(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			llm,
		)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant retriever: %v", err)
		}
	} else {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to initialize database: %v", err)
		}
		store := services.NewSQLVectorStore(repositories.NewEmbeddingRepository(db))
		retriever = services.NewLocalRetriever(store, llm)
	}

	parser := services.NewDocumentParserService()
	chunker := services.NewTextChunker()
	ctx := context.Background()

	jdChunks, err := loadChunks(parser, chunker, cfg.Reference.JobDescriptionPath, "jd")
	if err != nil {
		log.Fatalf("❌ Failed to load job description: %v", err)
	}

	rubricChunks, err := loadChunks(parser, chunker, cfg.Reference.RubricPath, "rubric")
	if err != nil {
		log.Fatalf("❌ Failed to load scoring rubric: %v", err)
	}

	targets := []struct {
		Namespace string
		Chunks    []services.Chunk
	}{
		{services.NamespaceJobDescription, jdChunks},
		{services.NamespaceCVRubric, rubricChunks},
		{services.NamespaceProjectRubric, rubricChunks},
	}

	for _, target := range targets {
		log.Printf("🔄 Indexing %d chunks into namespace %q...", len(target.Chunks), target.Namespace)
		if err := retriever.IndexNamespace(ctx, target.Namespace, target.Chunks); err != nil {
			log.Fatalf("❌ Failed to index namespace %q: %v", target.Namespace, err)
		}
		log.Printf("✅ Namespace %q indexed", target.Namespace)
	}

	log.Println("✅ All reference documents ingested successfully!")
}

func loadChunks(parser services.DocumentParserService, chunker services.TextChunker, path, prefix string) ([]services.Chunk, error) {
	text, err := parser.ExtractText(path)
	if err != nil {
		return nil, err
	}

	pieces := chunker.ChunkText(services.CleanText(text), 1000, 200)
	log.Printf("📄 %s: %d characters, %d chunks", path, len(text), len(pieces))

	chunks := make([]services.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = services.Chunk{
			ID:   fmt.Sprintf("%s_%d", prefix, i),
			Text: piece,
		}
	}

	return chunks, nil
}
