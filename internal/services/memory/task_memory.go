package memory

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/interfaces"
	"github.com/ternarybob/ragkit/internal/models"
	"github.com/ternarybob/ragkit/internal/services/chunker"
)

// TaskMemory is a named artifact store backed by ArtifactStorage.
// When a vector store is configured, stored text is also chunked and indexed
// under the same namespace so retrieval modules can find it.
type TaskMemory struct {
	name         string
	storage      interfaces.ArtifactStorage
	vectorStore  interfaces.VectorStoreDriver
	chunker      *chunker.TextChunker
	eventService interfaces.EventService
	logger       arbor.ILogger
}

// Option configures optional TaskMemory collaborators
type Option func(*TaskMemory)

// WithVectorIndex indexes stored text artifacts into vectorStore, split by textChunker
func WithVectorIndex(vectorStore interfaces.VectorStoreDriver, textChunker *chunker.TextChunker) Option {
	return func(m *TaskMemory) {
		m.vectorStore = vectorStore
		m.chunker = textChunker
	}
}

// WithEventService publishes an artifacts_stored event after each write
func WithEventService(eventService interfaces.EventService) Option {
	return func(m *TaskMemory) {
		m.eventService = eventService
	}
}

// NewTaskMemory creates a memory named name
func NewTaskMemory(name string, storage interfaces.ArtifactStorage, logger arbor.ILogger, opts ...Option) *TaskMemory {
	m := &TaskMemory{
		name:    name,
		storage: storage,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the memory name
func (m *TaskMemory) Name() string {
	return m.name
}

// StoreArtifacts appends artifacts to namespace and indexes their text
func (m *TaskMemory) StoreArtifacts(ctx context.Context, namespace string, artifacts []models.Artifact) error {
	if len(artifacts) == 0 {
		return nil
	}

	if err := m.storage.SaveArtifacts(ctx, m.name, namespace, artifacts); err != nil {
		return fmt.Errorf("memory %s: %w", m.name, err)
	}

	if m.vectorStore != nil {
		if err := m.index(ctx, namespace, artifacts); err != nil {
			return fmt.Errorf("memory %s: failed to index namespace %s: %w", m.name, namespace, err)
		}
	}

	if m.eventService != nil {
		event := interfaces.Event{
			Type: interfaces.EventArtifactsStored,
			Payload: models.ArtifactsStoredEvent{
				MemoryName: m.name,
				Namespace:  namespace,
				Count:      len(artifacts),
			},
		}
		if err := m.eventService.Publish(ctx, event); err != nil {
			m.logger.Warn().Err(err).Str("namespace", namespace).Msg("Failed to publish artifacts stored event")
		}
	}

	return nil
}

func (m *TaskMemory) index(ctx context.Context, namespace string, artifacts []models.Artifact) error {
	var texts []string
	for _, text := range models.FilterTextArtifacts(artifacts) {
		if m.chunker != nil {
			texts = append(texts, m.chunker.ChunkText(text.Text())...)
		} else if text.Text() != "" {
			texts = append(texts, text.Text())
		}
	}

	if len(texts) == 0 {
		return nil
	}

	ids, err := m.vectorStore.UpsertTexts(ctx, namespace, texts)
	if err != nil {
		return err
	}

	m.logger.Debug().
		Str("memory", m.name).
		Str("namespace", namespace).
		Int("chunks", len(ids)).
		Msg("Indexed memory text")

	return nil
}

// LoadArtifacts returns the artifacts of namespace in insertion order.
// An unknown namespace yields an empty slice.
func (m *TaskMemory) LoadArtifacts(ctx context.Context, namespace string) ([]models.Artifact, error) {
	artifacts, err := m.storage.LoadArtifacts(ctx, m.name, namespace)
	if err != nil {
		return nil, fmt.Errorf("memory %s: %w", m.name, err)
	}
	return artifacts, nil
}

// Namespaces lists the namespaces held by this memory
func (m *TaskMemory) Namespaces(ctx context.Context) ([]string, error) {
	return m.storage.ListNamespaces(ctx, m.name)
}

// FindMemory returns the memory with the given name
func FindMemory(memories []interfaces.Memory, name string) (interfaces.Memory, error) {
	for _, memory := range memories {
		if memory.Name() == name {
			return memory, nil
		}
	}
	return nil, interfaces.ErrMemoryNotFound
}
