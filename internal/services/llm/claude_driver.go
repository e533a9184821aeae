package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/ragkit/internal/common"
	"github.com/ternarybob/ragkit/internal/models"
)

// ClaudePromptDriver implements interfaces.PromptDriver using the Anthropic Claude API
type ClaudePromptDriver struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	limiter     *rate.Limiter
	retry       *RetryConfig
	logger      arbor.ILogger
}

// convertMessagesToClaude converts prompt stack messages to Claude MessageParam format.
// System turns are skipped; the system prompt is rendered from the stack.
func convertMessagesToClaude(messages []models.Message) ([]anthropic.MessageParam, error) {
	claudeMessages := make([]anthropic.MessageParam, 0, len(messages))
	hasUserMessage := false

	for _, msg := range messages {
		switch msg.Role {
		case models.RoleSystem:
			continue
		case models.RoleAssistant:
			claudeMessages = append(claudeMessages, anthropic.NewAssistantMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		default:
			hasUserMessage = true
			claudeMessages = append(claudeMessages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		}
	}

	if !hasUserMessage {
		return nil, fmt.Errorf("at least one message must have role 'user'")
	}

	return claudeMessages, nil
}

// NewClaudePromptDriver creates a Claude prompt driver. apiKey must already be resolved.
func NewClaudePromptDriver(config *common.ClaudeConfig, apiKey string, logger arbor.ILogger) *ClaudePromptDriver {
	model := config.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	driver := &ClaudePromptDriver{
		client:      anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:       model,
		maxTokens:   maxTokens,
		temperature: config.Temperature,
		timeout:     common.ParseDurationOr(config.Timeout, 2*time.Minute),
		limiter:     newLimiter(common.ParseDurationOr(config.RateLimit, 0)),
		retry:       NewDefaultRetryConfig(config.MaxRetries),
		logger:      logger,
	}

	logger.Debug().
		Str("model", model).
		Dur("timeout", driver.timeout).
		Int("max_tokens", maxTokens).
		Msg("Claude prompt driver initialized")

	return driver
}

// ModelName returns the configured model
func (d *ClaudePromptDriver) ModelName() string {
	return d.model
}

// Run sends the prompt stack to Claude and returns the concatenated text blocks
func (d *ClaudePromptDriver) Run(ctx context.Context, stack *models.PromptStack) (*models.TextArtifact, error) {
	messages, err := convertMessagesToClaude(stack.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages to Claude format: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(d.model),
		MaxTokens: int64(d.maxTokens),
		Messages:  messages,
		System: []anthropic.TextBlockParam{
			{Text: stack.SystemPrompt()},
		},
	}
	if d.temperature > 0 {
		params.Temperature = anthropic.Float(float64(d.temperature))
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	startTime := time.Now()
	var resp *anthropic.Message
	err = callWithRetry(timeoutCtx, d.limiter, d.retry, d.logger, "claude", func(ctx context.Context) error {
		var callErr error
		resp, callErr = d.client.Messages.New(ctx, params)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("Claude API call failed: %w", err)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}

	if response.Len() == 0 {
		return nil, fmt.Errorf("no response generated from Claude API")
	}

	d.logger.Debug().
		Str("model", d.model).
		Int("response_length", response.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("Claude prompt completed")

	return models.NewTextArtifact(response.String()), nil
}
