package embeddings

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/common"
	"github.com/ternarybob/ragkit/internal/interfaces"
)

// NewEmbeddingDriver creates the embedding driver selected by drivers.embedding.
// Returns nil without error when embeddings are disabled.
func NewEmbeddingDriver(
	ctx context.Context,
	cfg *common.Config,
	kvStorage interfaces.KeyValueStorage,
	logger arbor.ILogger,
) (interfaces.EmbeddingDriver, error) {
	switch cfg.Drivers.Embedding {
	case common.DriverNone, "":
		return nil, nil

	case common.DriverGemini:
		apiKey, err := common.ResolveAPIKey(ctx, kvStorage, "gemini_api_key", cfg.Gemini.APIKey)
		if err != nil {
			return nil, fmt.Errorf("Gemini API key is required for the gemini embedding driver: %w", err)
		}
		driver, err := NewGeminiEmbeddingDriver(ctx, &cfg.Gemini, apiKey, logger)
		if err != nil {
			return nil, err
		}
		return driver, nil

	default:
		return nil, fmt.Errorf("unsupported embedding driver: %s", cfg.Drivers.Embedding)
	}
}
