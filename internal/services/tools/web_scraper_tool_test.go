package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/models"
)

type stubScraper struct {
	content string
	err     error
	urls    []string
}

func (s *stubScraper) ScrapeURL(ctx context.Context, url string) (*models.TextArtifact, error) {
	s.urls = append(s.urls, url)
	if s.err != nil {
		return nil, s.err
	}
	return models.NewTextArtifact(s.content, models.WithArtifactName(url)), nil
}

func TestWebScraperTool_OnPrompt(t *testing.T) {
	scraper := &stubScraper{content: "# Title\n\nBody"}
	tool := NewWebScraperTool(scraper, arbor.NewLogger())
	assert.False(t, tool.OffPrompt())

	output, err := tool.Run(context.Background(), map[string]any{"url": " https://example.com "})
	require.NoError(t, err)

	text, ok := output.(*models.TextArtifact)
	require.True(t, ok, "expected TextArtifact, got %T", output)
	assert.Equal(t, "# Title\n\nBody", text.Text())
	assert.Equal(t, []string{"https://example.com"}, scraper.urls)
}

func TestWebScraperTool_ScrapeFailureIsErrorArtifact(t *testing.T) {
	tool := NewWebScraperTool(&stubScraper{err: errors.New("can't access URL")}, arbor.NewLogger())

	output, err := tool.GetContent(context.Background(), "https://example.com")
	require.NoError(t, err)

	errArtifact, ok := output.(*models.ErrorArtifact)
	require.True(t, ok, "expected ErrorArtifact, got %T", output)
	assert.Contains(t, errArtifact.Message(), "can't access URL")
}

func TestWebScraperTool_InvalidURL(t *testing.T) {
	tool := NewWebScraperTool(&stubScraper{}, arbor.NewLogger())

	_, err := tool.Run(context.Background(), map[string]any{"url": ""})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = tool.Run(context.Background(), map[string]any{})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestWebScraperTool_OffPromptFeedsQueryTool(t *testing.T) {
	mem := newFakeMemory("TaskMemory")
	scraper := NewWebScraperTool(&stubScraper{content: "Griptape is a framework."}, arbor.NewLogger(), WithOutputMemory(mem))
	assert.True(t, scraper.OffPrompt())

	output, err := scraper.GetContent(context.Background(), "https://example.com")
	require.NoError(t, err)

	info, ok := output.(*models.InfoArtifact)
	require.True(t, ok, "expected InfoArtifact, got %T", output)

	namespaces, err := mem.Namespaces(context.Background())
	require.NoError(t, err)
	require.Len(t, namespaces, 1)
	assert.True(t, strings.Contains(info.String(), namespaces[0]))
	assert.Contains(t, info.String(), "TaskMemory")

	query := NewQueryTool(newEchoEngine(), arbor.NewLogger(), WithInputMemory(mem))
	answer, err := query.Run(context.Background(), map[string]any{
		"query":   "What is Griptape?",
		"content": map[string]any{"memory_name": "TaskMemory", "artifact_namespace": namespaces[0]},
	})
	require.NoError(t, err)
	assert.Equal(t, "Griptape is a framework.", answer.String())
}
