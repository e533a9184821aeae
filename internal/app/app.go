// -----------------------------------------------------------------------
// Last Modified: Monday, 19th October 2026 2:40:00 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/common"
	"github.com/ternarybob/ragkit/internal/interfaces"
	"github.com/ternarybob/ragkit/internal/models"
	"github.com/ternarybob/ragkit/internal/rag"
	"github.com/ternarybob/ragkit/internal/rag/modules"
	"github.com/ternarybob/ragkit/internal/services/chunker"
	"github.com/ternarybob/ragkit/internal/services/embeddings"
	"github.com/ternarybob/ragkit/internal/services/events"
	"github.com/ternarybob/ragkit/internal/services/llm"
	"github.com/ternarybob/ragkit/internal/services/memory"
	"github.com/ternarybob/ragkit/internal/services/scraper"
	"github.com/ternarybob/ragkit/internal/services/tools"
	"github.com/ternarybob/ragkit/internal/services/vectorstore"
	"github.com/ternarybob/ragkit/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	ctx            context.Context
	cancelCtx      context.CancelFunc
	StorageManager interfaces.StorageManager

	EventService interfaces.EventService

	// Drivers
	PromptDriver    interfaces.PromptDriver      // nil when rag.response_module is text_chunks
	EmbeddingDriver interfaces.EmbeddingDriver   // nil when drivers.embedding is none
	VectorStore     interfaces.VectorStoreDriver // nil when drivers.vector_store is none
	ScraperDriver   interfaces.WebScraperDriver

	Tokenizer   *chunker.Tokenizer
	TextChunker *chunker.TextChunker
	TaskMemory  *memory.TaskMemory
	Rulesets    []models.Ruleset

	// RAG pipeline shared by every query
	Engine *rag.Engine

	// Tools
	QueryTool      *tools.QueryTool
	WebScraperTool *tools.WebScraperTool
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config:    cfg,
		Logger:    logger,
		ctx:       ctx,
		cancelCtx: cancel,
	}

	if err := app.initDatabase(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Info().
		Strs("stages", app.Engine.Stages()).
		Str("memory", app.TaskMemory.Name()).
		Msg("Application initialized")

	return app, nil
}

// initDatabase opens storage. Variables are loaded and {key} references in config
// resolved here, before any driver reads an API key.
func (a *App) initDatabase() error {
	manager, err := storage.NewStorageManager(a.ctx, a.Logger, a.Config)
	if err != nil {
		return err
	}
	a.StorageManager = manager
	return nil
}

// initServices builds drivers, memory, the RAG engine and the tools in dependency order
func (a *App) initServices() error {
	var err error
	kv := a.StorageManager.KeyValueStorage()

	// 1. Event bus with a logging subscriber
	a.EventService = events.NewService(a.Logger)
	if err := events.SubscribeLoggerToAllEvents(a.EventService, a.Logger); err != nil {
		return fmt.Errorf("failed to subscribe event logger: %w", err)
	}

	// 2. Drivers
	if a.Config.RAG.ResponseModule == "prompt" {
		a.PromptDriver, err = llm.NewPromptDriver(a.ctx, a.Config, kv, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to create prompt driver: %w", err)
		}
	}

	a.EmbeddingDriver, err = embeddings.NewEmbeddingDriver(a.ctx, a.Config, kv, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create embedding driver: %w", err)
	}

	a.VectorStore, err = vectorstore.NewVectorStoreDriver(a.ctx, a.Config, a.StorageManager, a.EmbeddingDriver, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create vector store driver: %w", err)
	}

	a.ScraperDriver = scraper.NewMarkdownifyDriver(&a.Config.Scraper, a.Logger)

	// 3. Tokenizer, chunker and task memory
	a.Tokenizer, err = chunker.DefaultTokenizer()
	if err != nil {
		return fmt.Errorf("failed to load tokenizer: %w", err)
	}
	a.TextChunker = chunker.NewTextChunker(a.Tokenizer, a.Config.RAG.ChunkMaxTokens)

	memoryOpts := []memory.Option{memory.WithEventService(a.EventService)}
	if a.VectorStore != nil {
		memoryOpts = append(memoryOpts, memory.WithVectorIndex(a.VectorStore, a.TextChunker))
	}
	a.TaskMemory = memory.NewTaskMemory(a.Config.Memory.Name, a.StorageManager.ArtifactStorage(), a.Logger, memoryOpts...)

	// 4. Rulesets and the RAG engine
	a.Rulesets, err = common.LoadRulesets(a.Config.Rulesets.File)
	if err != nil {
		return err
	}
	a.Engine = a.buildEngine()

	// 5. Tools share the task memory so off-prompt scrapes can be queried by reference
	a.QueryTool = tools.NewQueryTool(a.Engine, a.Logger,
		tools.WithInputMemory(a.TaskMemory),
		tools.WithQueryEvents(a.EventService),
	)

	scraperOpts := []tools.WebScraperToolOption{tools.WithScraperEvents(a.EventService)}
	if a.Config.Scraper.OffPrompt {
		scraperOpts = append(scraperOpts, tools.WithOutputMemory(a.TaskMemory))
	}
	a.WebScraperTool = tools.NewWebScraperTool(a.ScraperDriver, a.Logger, scraperOpts...)

	return nil
}

// buildEngine assembles the optional retrieval stage and the response stage
func (a *App) buildEngine() *rag.Engine {
	var stages []rag.Stage

	retrieval := a.Config.RAG.Retrieval
	if retrieval.Enabled && a.VectorStore != nil {
		stages = append(stages, rag.NewRetrievalStage(
			modules.NewVectorStoreRetrievalModule(a.VectorStore, retrieval.Namespace, retrieval.TopN, a.Logger),
		))
	}

	var response rag.Module
	switch a.Config.RAG.ResponseModule {
	case "text_chunks":
		response = modules.NewTextChunksResponseModule()
	default:
		response = modules.NewPromptResponseModule(a.PromptDriver, a.Rulesets, a.Tokenizer, a.Config.RAG.MaxInputTokens, a.Logger)
	}
	stages = append(stages, rag.NewResponseStage(response))

	return rag.NewEngine(a.Logger, stages...)
}

// Context returns the application lifetime context, cancelled by Close
func (a *App) Context() context.Context {
	return a.ctx
}

// Close releases drivers and storage
func (a *App) Close() error {
	if a.cancelCtx != nil {
		a.cancelCtx()
	}

	if a.VectorStore != nil {
		if err := a.VectorStore.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close vector store")
		}
	}

	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Debug().Msg("Storage closed")
	}

	return nil
}
