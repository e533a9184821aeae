package rag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
)

// ErrNilContext is returned when Process is called without a context
var ErrNilContext = errors.New("rag context is nil")

// Engine executes its stages in a fixed order against a context.
// It holds no per-request state, so one engine may serve concurrent requests
// provided its modules' collaborators are safe for concurrent use.
type Engine struct {
	stages []Stage
	logger arbor.ILogger
}

// NewEngine creates an engine that runs stages in the given order
func NewEngine(logger arbor.ILogger, stages ...Stage) *Engine {
	copied := make([]Stage, len(stages))
	copy(copied, stages)
	return &Engine{
		stages: copied,
		logger: logger,
	}
}

// Stages returns the configured stage names in execution order
func (e *Engine) Stages() []string {
	names := make([]string, 0, len(e.stages))
	for _, stage := range e.stages {
		names = append(names, stage.Name)
	}
	return names
}

// Process runs every module of every stage sequentially. Each module sees the context
// as left by all prior modules. The first module error is returned immediately;
// there is no retry and no recovery at this layer.
func (e *Engine) Process(ctx context.Context, rc *Context) (*Context, error) {
	if rc == nil {
		return nil, ErrNilContext
	}

	startTime := time.Now()

	for _, stage := range e.stages {
		if len(stage.Modules) == 0 {
			e.logger.Debug().Str("stage", stage.Name).Msg("Skipping empty stage")
			continue
		}

		for _, module := range stage.Modules {
			if err := ctx.Err(); err != nil {
				return rc, fmt.Errorf("stage %s cancelled before module %s: %w", stage.Name, module.Name(), err)
			}

			moduleStart := time.Now()
			if err := module.Run(ctx, rc); err != nil {
				e.logger.Error().
					Err(err).
					Str("stage", stage.Name).
					Str("module", module.Name()).
					Msg("RAG module failed")
				return rc, fmt.Errorf("stage %s module %s: %w", stage.Name, module.Name(), err)
			}

			e.logger.Debug().
				Str("stage", stage.Name).
				Str("module", module.Name()).
				Int("text_chunks", len(rc.textChunks)).
				Int("outputs", len(rc.outputs)).
				Dur("duration", time.Since(moduleStart)).
				Msg("RAG module completed")
		}
	}

	e.logger.Debug().
		Int("stages", len(e.stages)).
		Int("outputs", len(rc.outputs)).
		Dur("duration", time.Since(startTime)).
		Msg("RAG engine processed query")

	return rc, nil
}
