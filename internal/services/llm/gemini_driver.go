package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ternarybob/ragkit/internal/common"
	"github.com/ternarybob/ragkit/internal/models"
)

// GeminiPromptDriver implements interfaces.PromptDriver using the Google Gemini API
type GeminiPromptDriver struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	limiter     *rate.Limiter
	retry       *RetryConfig
	logger      arbor.ILogger
}

// convertMessagesToGemini converts prompt stack messages to Gemini contents.
// System turns are skipped; the system instruction is rendered from the stack.
func convertMessagesToGemini(messages []models.Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(messages))
	hasUserMessage := false

	for _, msg := range messages {
		var role genai.Role
		switch msg.Role {
		case models.RoleSystem:
			continue
		case models.RoleAssistant:
			role = genai.RoleModel
		default:
			role = genai.RoleUser
			hasUserMessage = true
		}

		contents = append(contents, &genai.Content{
			Role:  string(role),
			Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
		})
	}

	if !hasUserMessage {
		return nil, fmt.Errorf("at least one message must have role 'user'")
	}

	return contents, nil
}

// NewGeminiPromptDriver creates a Gemini prompt driver. apiKey must already be resolved.
func NewGeminiPromptDriver(ctx context.Context, config *common.GeminiConfig, apiKey string, logger arbor.ILogger) (*GeminiPromptDriver, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = "gemini-1.5-pro"
	}

	driver := &GeminiPromptDriver{
		client:      client,
		model:       model,
		temperature: config.Temperature,
		timeout:     common.ParseDurationOr(config.Timeout, 2*time.Minute),
		limiter:     newLimiter(common.ParseDurationOr(config.RateLimit, 0)),
		retry:       NewDefaultRetryConfig(config.MaxRetries),
		logger:      logger,
	}

	logger.Debug().
		Str("model", model).
		Dur("timeout", driver.timeout).
		Float32("temperature", driver.temperature).
		Msg("Gemini prompt driver initialized")

	return driver, nil
}

// ModelName returns the configured model
func (d *GeminiPromptDriver) ModelName() string {
	return d.model
}

// Run sends the prompt stack to Gemini and returns the response text
func (d *GeminiPromptDriver) Run(ctx context.Context, stack *models.PromptStack) (*models.TextArtifact, error) {
	contents, err := convertMessagesToGemini(stack.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages to Gemini format: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(d.temperature),
		SystemInstruction: genai.NewContentFromText(stack.SystemPrompt(), genai.RoleUser),
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	startTime := time.Now()
	var resp *genai.GenerateContentResponse
	err = callWithRetry(timeoutCtx, d.limiter, d.retry, d.logger, "gemini", func(ctx context.Context) error {
		var callErr error
		resp, callErr = d.client.Models.GenerateContent(ctx, d.model, contents, config)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini API")
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty text in Gemini response")
	}

	d.logger.Debug().
		Str("model", d.model).
		Int("response_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini prompt completed")

	return models.NewTextArtifact(text), nil
}
