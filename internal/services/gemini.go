package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiService is the external model collaborator. It is injected into the
// retriever and evaluator rather than held as a package-level client, so the
// tests can substitute a deterministic stub.
type GeminiService interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	GenerateText(ctx context.Context, prompt, system string, temperature float32) (string, error)
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
}

func NewGeminiService(apiKey string) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		modelName:  "gemini-2.5-flash",
		embedModel: "gemini-embedding-001",
	}, nil
}

// EmbedTexts implements GeminiService. Returns one vector per input text, in
// input order. An empty input yields an empty result without an API call.
func (g *geminiService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var contents []*genai.Content
	for _, text := range texts {
		// Truncate text if too long (max ~10000 tokens for embedding)
		if len(text) > 40000 {
			text = text[:40000]
		}
		contents = append(contents, genai.Text(text)...)
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(result.Embeddings))
	for _, embedding := range result.Embeddings {
		if embedding == nil || len(embedding.Values) == 0 {
			continue
		}
		vectors = append(vectors, embedding.Values)
	}

	return vectors, nil
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt, system string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}
