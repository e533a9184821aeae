package memory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/common"
	"github.com/ternarybob/ragkit/internal/interfaces"
	"github.com/ternarybob/ragkit/internal/models"
	"github.com/ternarybob/ragkit/internal/services/chunker"
	"github.com/ternarybob/ragkit/internal/storage/badger"
)

type recordingVectorStore struct {
	namespace string
	texts     []string
}

func (s *recordingVectorStore) UpsertTexts(ctx context.Context, namespace string, texts []string) ([]string, error) {
	s.namespace = namespace
	s.texts = append(s.texts, texts...)
	ids := make([]string, len(texts))
	for i := range texts {
		ids[i] = common.NewVectorEntryID()
	}
	return ids, nil
}

func (s *recordingVectorStore) Query(ctx context.Context, query string, count int, namespace string) ([]models.VectorEntry, error) {
	return nil, nil
}

func (s *recordingVectorStore) Close() error { return nil }

func newStorage(t *testing.T) *badger.Manager {
	t.Helper()
	manager, err := badger.NewManager(arbor.NewLogger(), &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "db")})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func TestTaskMemory_StoreAndLoad(t *testing.T) {
	storage := newStorage(t)
	memory := NewTaskMemory("TaskMemory", storage.ArtifactStorage(), arbor.NewLogger())
	ctx := context.Background()

	artifacts := []models.Artifact{models.NewTextArtifact("a"), models.NewInfoArtifact("b")}
	require.NoError(t, memory.StoreArtifacts(ctx, "ns", artifacts))

	loaded, err := memory.LoadArtifacts(ctx, "ns")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "a", loaded[0].String())
	assert.Equal(t, models.ArtifactTypeInfo, loaded[1].Type())

	namespaces, err := memory.Namespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ns"}, namespaces)

	empty, err := memory.LoadArtifacts(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTaskMemory_MemoriesAreIsolatedByName(t *testing.T) {
	storage := newStorage(t)
	ctx := context.Background()
	first := NewTaskMemory("first", storage.ArtifactStorage(), arbor.NewLogger())
	second := NewTaskMemory("second", storage.ArtifactStorage(), arbor.NewLogger())

	require.NoError(t, first.StoreArtifacts(ctx, "ns", []models.Artifact{models.NewTextArtifact("x")}))

	loaded, err := second.LoadArtifacts(ctx, "ns")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestTaskMemory_IndexesTextOnly(t *testing.T) {
	storage := newStorage(t)
	tokenizer, err := chunker.DefaultTokenizer()
	require.NoError(t, err)

	vectors := &recordingVectorStore{}
	memory := NewTaskMemory("TaskMemory", storage.ArtifactStorage(), arbor.NewLogger(),
		WithVectorIndex(vectors, chunker.NewTextChunker(tokenizer, 4)))

	err = memory.StoreArtifacts(context.Background(), "ns", []models.Artifact{
		models.NewTextArtifact("First paragraph.\n\nSecond paragraph."),
		models.NewBlobArtifact([]byte("binary")),
	})
	require.NoError(t, err)

	assert.Equal(t, "ns", vectors.namespace)
	assert.Equal(t, []string{"First paragraph.", "Second paragraph."}, vectors.texts)
}

func TestFindMemory(t *testing.T) {
	storage := newStorage(t)
	memories := []interfaces.Memory{
		NewTaskMemory("a", storage.ArtifactStorage(), arbor.NewLogger()),
		NewTaskMemory("b", storage.ArtifactStorage(), arbor.NewLogger()),
	}

	found, err := FindMemory(memories, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", found.Name())

	_, err = FindMemory(memories, "missing")
	assert.ErrorIs(t, err, interfaces.ErrMemoryNotFound)
}
