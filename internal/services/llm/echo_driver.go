package llm

import (
	"context"
	"strings"

	"github.com/ternarybob/ragkit/internal/models"
)

// EchoPromptDriver answers with its grounding text verbatim. It makes no network
// calls and is used for offline runs and deterministic tests.
type EchoPromptDriver struct{}

// NewEchoPromptDriver creates an echo driver
func NewEchoPromptDriver() *EchoPromptDriver {
	return &EchoPromptDriver{}
}

// ModelName returns "echo"
func (d *EchoPromptDriver) ModelName() string {
	return "echo"
}

// Run returns the grounding joined by blank lines, or the last user message when there is none
func (d *EchoPromptDriver) Run(ctx context.Context, stack *models.PromptStack) (*models.TextArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(stack.Grounding) > 0 {
		return models.NewTextArtifact(strings.Join(stack.Grounding, "\n\n")), nil
	}
	return models.NewTextArtifact(stack.LastUserMessage()), nil
}
