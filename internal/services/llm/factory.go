package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/common"
	"github.com/ternarybob/ragkit/internal/interfaces"
)

// NewPromptDriver creates the prompt driver selected by drivers.prompt.
// API keys resolve env -> KV store -> config.
func NewPromptDriver(
	ctx context.Context,
	cfg *common.Config,
	kvStorage interfaces.KeyValueStorage,
	logger arbor.ILogger,
) (interfaces.PromptDriver, error) {
	logger.Info().Str("driver", string(cfg.Drivers.Prompt)).Msg("Initializing prompt driver")

	switch cfg.Drivers.Prompt {
	case common.DriverGemini:
		apiKey, err := common.ResolveAPIKey(ctx, kvStorage, "gemini_api_key", cfg.Gemini.APIKey)
		if err != nil {
			return nil, fmt.Errorf("Gemini API key is required for the gemini prompt driver (set via GOOGLE_API_KEY, RAGKIT_GEMINI_API_KEY, or gemini.api_key in config): %w", err)
		}
		driver, err := NewGeminiPromptDriver(ctx, &cfg.Gemini, apiKey, logger)
		if err != nil {
			return nil, err
		}
		return driver, nil

	case common.DriverClaude:
		apiKey, err := common.ResolveAPIKey(ctx, kvStorage, "anthropic_api_key", cfg.Claude.APIKey)
		if err != nil {
			return nil, fmt.Errorf("Anthropic API key is required for the claude prompt driver (set via ANTHROPIC_API_KEY, RAGKIT_CLAUDE_API_KEY, or claude.api_key in config): %w", err)
		}
		return NewClaudePromptDriver(&cfg.Claude, apiKey, logger), nil

	case common.DriverEcho:
		return NewEchoPromptDriver(), nil

	default:
		return nil, fmt.Errorf("unsupported prompt driver: %s", cfg.Drivers.Prompt)
	}
}
