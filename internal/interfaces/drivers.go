package interfaces

import (
	"context"

	"github.com/ternarybob/ragkit/internal/models"
)

// PromptDriver generates a response artifact from a prompt stack.
// Implementations must be safe for concurrent use.
type PromptDriver interface {
	Run(ctx context.Context, stack *models.PromptStack) (*models.TextArtifact, error)
	ModelName() string
}

// EmbeddingDriver turns text into embedding vectors
type EmbeddingDriver interface {
	EmbedString(ctx context.Context, text string) ([]float32, error)
	ModelName() string
	Dimensions() int
}

// VectorStoreDriver stores text chunks with embeddings and queries them by similarity
type VectorStoreDriver interface {
	// UpsertTexts embeds and stores the texts under namespace, returning the entry IDs
	UpsertTexts(ctx context.Context, namespace string, texts []string) ([]string, error)

	// Query returns up to count entries of namespace ordered by descending similarity.
	// An empty namespace searches all namespaces.
	Query(ctx context.Context, query string, count int, namespace string) ([]models.VectorEntry, error)

	Close() error
}

// WebScraperDriver loads a URL and returns its content as text
type WebScraperDriver interface {
	ScrapeURL(ctx context.Context, url string) (*models.TextArtifact, error)
}
