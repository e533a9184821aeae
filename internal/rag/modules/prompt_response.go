package modules

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/interfaces"
	"github.com/ternarybob/ragkit/internal/models"
	"github.com/ternarybob/ragkit/internal/rag"
	"github.com/ternarybob/ragkit/internal/services/chunker"
)

// PromptResponseModuleName identifies the module in errors and logs
const PromptResponseModuleName = "PromptResponseModule"

// PromptResponseModule answers the query with a prompt driver, grounded in the
// context's text chunks followed by the text of prior outputs
type PromptResponseModule struct {
	driver         interfaces.PromptDriver
	rulesets       []models.Ruleset
	tokenizer      *chunker.Tokenizer
	maxInputTokens int
	logger         arbor.ILogger
}

// NewPromptResponseModule creates the module. A nil tokenizer or maxInputTokens <= 0
// disables grounding trimming.
func NewPromptResponseModule(
	driver interfaces.PromptDriver,
	rulesets []models.Ruleset,
	tokenizer *chunker.Tokenizer,
	maxInputTokens int,
	logger arbor.ILogger,
) *PromptResponseModule {
	copied := make([]models.Ruleset, len(rulesets))
	copy(copied, rulesets)
	return &PromptResponseModule{
		driver:         driver,
		rulesets:       copied,
		tokenizer:      tokenizer,
		maxInputTokens: maxInputTokens,
		logger:         logger,
	}
}

func (m *PromptResponseModule) Name() string {
	return PromptResponseModuleName
}

// Run appends exactly one artifact produced by the driver
func (m *PromptResponseModule) Run(ctx context.Context, rc *rag.Context) error {
	grounding := make([]string, 0)
	for _, chunk := range rc.TextChunks() {
		grounding = append(grounding, chunk.Text())
	}
	for _, output := range models.FilterTextArtifacts(rc.Outputs()) {
		grounding = append(grounding, output.Text())
	}

	stack := &models.PromptStack{
		Rulesets:  m.rulesets,
		Grounding: m.fitGrounding(rc.Query(), grounding),
	}
	stack.AddUserMessage(rc.Query())

	artifact, err := m.driver.Run(ctx, stack)
	if err != nil {
		return fmt.Errorf("prompt driver %s failed: %w", m.driver.ModelName(), err)
	}
	if artifact == nil {
		return fmt.Errorf("prompt driver %s returned no artifact", m.driver.ModelName())
	}

	rc.AddOutputs(artifact)
	return nil
}

// fitGrounding keeps grounding in order until the token budget is spent.
// The first entry that does not fit is truncated; the rest are dropped.
func (m *PromptResponseModule) fitGrounding(query string, grounding []string) []string {
	if m.tokenizer == nil || m.maxInputTokens <= 0 {
		return grounding
	}

	overhead := &models.PromptStack{Rulesets: m.rulesets}
	remaining := m.maxInputTokens - m.tokenizer.CountTokens(overhead.SystemPrompt()) - m.tokenizer.CountTokens(query)

	fitted := make([]string, 0, len(grounding))
	for i, text := range grounding {
		if remaining <= 0 {
			m.logDropped(len(grounding) - i)
			break
		}

		tokens := m.tokenizer.CountTokens(text)
		if tokens <= remaining {
			fitted = append(fitted, text)
			remaining -= tokens
			continue
		}

		if truncated := m.tokenizer.Truncate(text, remaining); truncated != "" {
			fitted = append(fitted, truncated)
		}
		m.logDropped(len(grounding) - i - 1)
		break
	}

	return fitted
}

func (m *PromptResponseModule) logDropped(count int) {
	if count <= 0 {
		return
	}
	m.logger.Debug().
		Int("dropped", count).
		Int("max_input_tokens", m.maxInputTokens).
		Msg("Grounding exceeded token budget")
}
