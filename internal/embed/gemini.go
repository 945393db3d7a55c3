package embed

import (
	"context"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"reelify.io/movie-advisor/internal/config"
)

const defaultEmbeddingModelName = "text-embedding-004"

// GeminiEmbedder produces embeddings through the Gemini API. It satisfies
// vectorstore.Embedder.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

func NewGeminiEmbedder() *GeminiEmbedder {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}

	return &GeminiEmbedder{
		client: client,
		model:  defaultEmbeddingModelName,
	}
}

func (e *GeminiEmbedder) Close() {
	if e.client != nil {
		if err := e.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	em := e.client.EmbeddingModel(e.model)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embedding request failed: %w", err)
	}

	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding data received from gemini")
	}
	return res.Embedding.Values, nil
}
