package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/common"
	"github.com/ternarybob/ragkit/internal/interfaces"
	"github.com/ternarybob/ragkit/internal/models"
)

const (
	WebScraperToolName     = "WebScraperTool"
	GetContentActivityName = "get_content"
	GetContentDescription  = "Can be used to get the content of a web page."
	paramURL               = "url"
)

// WebScraperTool loads web pages through a scraper driver. When OffPrompt is set,
// content goes to the output memory and only a reference is returned, which a
// QueryTool sharing that memory can consume.
type WebScraperTool struct {
	driver       interfaces.WebScraperDriver
	outputMemory interfaces.Memory
	eventService interfaces.EventService
	logger       arbor.ILogger
}

// WebScraperToolOption configures optional WebScraperTool collaborators
type WebScraperToolOption func(*WebScraperTool)

// WithOutputMemory stores scraped content off prompt in memory
func WithOutputMemory(memory interfaces.Memory) WebScraperToolOption {
	return func(t *WebScraperTool) {
		t.outputMemory = memory
	}
}

// WithScraperEvents publishes activity started/finished events
func WithScraperEvents(eventService interfaces.EventService) WebScraperToolOption {
	return func(t *WebScraperTool) {
		t.eventService = eventService
	}
}

// NewWebScraperTool creates a scraper tool over driver
func NewWebScraperTool(driver interfaces.WebScraperDriver, logger arbor.ILogger, opts ...WebScraperToolOption) *WebScraperTool {
	t := &WebScraperTool{
		driver: driver,
		logger: logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the tool name
func (t *WebScraperTool) Name() string {
	return WebScraperToolName
}

// OffPrompt reports whether output is stored in memory instead of returned
func (t *WebScraperTool) OffPrompt() bool {
	return t.outputMemory != nil
}

// Run executes the get_content activity from raw values
func (t *WebScraperTool) Run(ctx context.Context, values map[string]any) (models.Artifact, error) {
	url, ok := values[paramURL].(string)
	if !ok || strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: %s must be a non-empty string", ErrInvalidParams, paramURL)
	}
	return t.GetContent(ctx, strings.TrimSpace(url))
}

// GetContent scrapes url. A page the driver cannot read is returned as an ErrorArtifact.
func (t *WebScraperTool) GetContent(ctx context.Context, url string) (models.Artifact, error) {
	input := map[string]any{paramURL: url}
	startedAt := time.Now()
	publishActivity(ctx, t.eventService, t.logger, interfaces.Event{
		Type: interfaces.EventActivityStarted,
		Payload: models.StartActivityEvent{
			ToolName:     WebScraperToolName,
			ActivityName: GetContentActivityName,
			Input:        input,
			StartedAt:    startedAt,
		},
	})

	output, err := t.getContent(ctx, url)

	publishActivity(ctx, t.eventService, t.logger, interfaces.Event{
		Type: interfaces.EventActivityFinished,
		Payload: models.FinishActivityEvent{
			ToolName:     WebScraperToolName,
			ActivityName: GetContentActivityName,
			Input:        input,
			Output:       output,
			Err:          err,
			Duration:     time.Since(startedAt),
		},
	})
	return output, err
}

func (t *WebScraperTool) getContent(ctx context.Context, url string) (models.Artifact, error) {
	text, err := t.driver.ScrapeURL(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		t.logger.Warn().Err(err).Str("url", url).Msg("Failed to scrape URL")
		return models.NewErrorArtifactFromError(fmt.Errorf("error getting page content: %w", err)), nil
	}

	if !t.OffPrompt() {
		return text, nil
	}

	namespace := common.NewNamespace()
	if err := t.outputMemory.StoreArtifacts(ctx, namespace, []models.Artifact{text}); err != nil {
		return nil, fmt.Errorf("failed to store page content: %w", err)
	}

	t.logger.Debug().
		Str("url", url).
		Str("memory", t.outputMemory.Name()).
		Str("namespace", namespace).
		Msg("Stored page content off prompt")

	return models.NewInfoArtifact(fmt.Sprintf(
		"Output of %q was stored in memory with memory_name %q and artifact_namespace %q",
		WebScraperToolName+"."+GetContentActivityName, t.outputMemory.Name(), namespace,
	)), nil
}
