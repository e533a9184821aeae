package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/interfaces"
	"github.com/ternarybob/ragkit/internal/models"
	"github.com/ternarybob/ragkit/internal/rag"
	"github.com/ternarybob/ragkit/internal/services/memory"
)

const (
	QueryToolName     = "QueryTool"
	QueryActivityName = "query"

	// QueryActivityDescription is shown to agents and MCP clients
	QueryActivityDescription = "Can be used to search through textual content."

	msgMemoryNotFound   = "memory not found"
	msgQueryOutputEmpty = "query output is empty"
)

// QueryTool answers natural language queries over literal text or memory contents
// by running them through a RAG engine.
type QueryTool struct {
	engine       *rag.Engine
	inputMemory  []interfaces.Memory
	eventService interfaces.EventService
	logger       arbor.ILogger
}

// QueryToolOption configures optional QueryTool collaborators
type QueryToolOption func(*QueryTool)

// WithInputMemory sets the memories a MemoryReference can resolve against
func WithInputMemory(memories ...interfaces.Memory) QueryToolOption {
	return func(t *QueryTool) {
		t.inputMemory = append(t.inputMemory, memories...)
	}
}

// WithQueryEvents publishes activity started/finished events
func WithQueryEvents(eventService interfaces.EventService) QueryToolOption {
	return func(t *QueryTool) {
		t.eventService = eventService
	}
}

// NewQueryTool creates a query tool backed by engine
func NewQueryTool(engine *rag.Engine, logger arbor.ILogger, opts ...QueryToolOption) *QueryTool {
	t := &QueryTool{
		engine: engine,
		logger: logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the tool name
func (t *QueryTool) Name() string {
	return QueryToolName
}

// FindInputMemory returns the input memory called name
func (t *QueryTool) FindInputMemory(name string) (interfaces.Memory, error) {
	return memory.FindMemory(t.inputMemory, name)
}

// Run parses raw activity values and executes the query activity
func (t *QueryTool) Run(ctx context.Context, values map[string]any) (models.Artifact, error) {
	params, err := ParseQueryParams(values)
	if err != nil {
		return nil, err
	}
	return t.Query(ctx, params)
}

// Query resolves the content, runs the engine and wraps its outputs.
// A missing memory or an empty pipeline result is returned as an ErrorArtifact;
// engine and memory failures are returned as errors.
func (t *QueryTool) Query(ctx context.Context, params *QueryParams) (models.Artifact, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: no params", ErrInvalidParams)
	}

	startedAt := time.Now()
	t.publishStart(ctx, params, startedAt)

	output, err := t.query(ctx, params)

	t.publishFinish(ctx, params, output, err, time.Since(startedAt))
	return output, err
}

func (t *QueryTool) query(ctx context.Context, params *QueryParams) (models.Artifact, error) {
	var chunks []*models.TextArtifact

	switch content := params.Content.(type) {
	case LiteralContent:
		chunks = []*models.TextArtifact{models.NewTextArtifact(content.Text)}

	case MemoryReference:
		mem, err := t.FindInputMemory(content.MemoryName)
		if errors.Is(err, interfaces.ErrMemoryNotFound) {
			t.logger.Debug().Str("memory", content.MemoryName).Msg("Query input memory not found")
			return models.NewErrorArtifact(msgMemoryNotFound), nil
		}
		if err != nil {
			return nil, err
		}

		artifacts, err := mem.LoadArtifacts(ctx, content.ArtifactNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to load artifacts from memory %s: %w", content.MemoryName, err)
		}

		chunks = models.FilterTextArtifacts(artifacts)
		if dropped := len(artifacts) - len(chunks); dropped > 0 {
			t.logger.Debug().
				Str("memory", content.MemoryName).
				Str("namespace", content.ArtifactNamespace).
				Int("dropped", dropped).
				Msg("Dropped non-text artifacts from query input")
		}

	default:
		return nil, fmt.Errorf("%w: unsupported content %T", ErrInvalidParams, params.Content)
	}

	rc, err := t.engine.Process(ctx, rag.NewContext(params.Query, chunks))
	if err != nil {
		return nil, err
	}

	outputs := rc.Outputs()
	if len(outputs) == 0 {
		return models.NewErrorArtifact(msgQueryOutputEmpty), nil
	}

	return models.NewListArtifact(outputs), nil
}

func (t *QueryTool) publishStart(ctx context.Context, params *QueryParams, startedAt time.Time) {
	publishActivity(ctx, t.eventService, t.logger, interfaces.Event{
		Type: interfaces.EventActivityStarted,
		Payload: models.StartActivityEvent{
			ToolName:     QueryToolName,
			ActivityName: QueryActivityName,
			Input:        params.Values(),
			StartedAt:    startedAt,
		},
	})
}

func (t *QueryTool) publishFinish(ctx context.Context, params *QueryParams, output models.Artifact, runErr error, duration time.Duration) {
	publishActivity(ctx, t.eventService, t.logger, interfaces.Event{
		Type: interfaces.EventActivityFinished,
		Payload: models.FinishActivityEvent{
			ToolName:     QueryToolName,
			ActivityName: QueryActivityName,
			Input:        params.Values(),
			Output:       output,
			Err:          runErr,
			Duration:     duration,
		},
	})
}
