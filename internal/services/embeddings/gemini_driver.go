package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ternarybob/ragkit/internal/common"
)

// GeminiEmbeddingDriver implements interfaces.EmbeddingDriver using the Gemini embedding API
type GeminiEmbeddingDriver struct {
	client    *genai.Client
	model     string
	dimension int
	timeout   time.Duration
	limiter   *rate.Limiter
	logger    arbor.ILogger
}

// NewGeminiEmbeddingDriver creates an embedding driver. apiKey must already be resolved.
func NewGeminiEmbeddingDriver(ctx context.Context, config *common.GeminiConfig, apiKey string, logger arbor.ILogger) (*GeminiEmbeddingDriver, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.EmbeddingModel
	if model == "" {
		model = "models/embedding-001"
	}

	driver := &GeminiEmbeddingDriver{
		client:    client,
		model:     model,
		dimension: config.EmbedDimension,
		timeout:   common.ParseDurationOr(config.Timeout, 2*time.Minute),
		logger:    logger,
	}
	if interval := common.ParseDurationOr(config.RateLimit, 0); interval > 0 {
		// embeddings are cheap relative to generation; allow a small burst
		driver.limiter = rate.NewLimiter(rate.Every(interval/4), 4)
	}

	logger.Debug().
		Str("model", model).
		Int("dimension", config.EmbedDimension).
		Msg("Gemini embedding driver initialized")

	return driver, nil
}

// ModelName returns the embedding model
func (d *GeminiEmbeddingDriver) ModelName() string {
	return d.model
}

// Dimensions returns the requested output dimension, 0 when the model default is used
func (d *GeminiEmbeddingDriver) Dimensions() int {
	return d.dimension
}

// EmbedString creates a vector embedding for text
func (d *GeminiEmbeddingDriver) EmbedString(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	embeddingConfig := &genai.EmbedContentConfig{}
	if d.dimension > 0 {
		outputDim := int32(d.dimension)
		embeddingConfig.OutputDimensionality = &outputDim
	}

	start := time.Now()
	result, err := d.client.Models.EmbedContent(timeoutCtx, d.model, []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, embeddingConfig)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	var embedding []float32
	if result != nil && len(result.Embeddings) > 0 {
		embedding = result.Embeddings[0].Values
	}

	if len(embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned from API")
	}

	if d.dimension > 0 && len(embedding) != d.dimension {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", d.dimension, len(embedding))
	}

	d.logger.Debug().
		Int("embedding_dim", len(embedding)).
		Int("text_length", len(text)).
		Dur("duration", time.Since(start)).
		Msg("Generated embedding")

	return embedding, nil
}
