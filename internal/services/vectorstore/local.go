package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/common"
	"github.com/ternarybob/ragkit/internal/interfaces"
	"github.com/ternarybob/ragkit/internal/models"
)

// LocalVectorStoreDriver keeps embeddings in Badger and ranks them by cosine similarity in process
type LocalVectorStoreDriver struct {
	storage  interfaces.VectorStorage
	embedder interfaces.EmbeddingDriver
	logger   arbor.ILogger
}

// NewLocalVectorStoreDriver creates a local vector store
func NewLocalVectorStoreDriver(storage interfaces.VectorStorage, embedder interfaces.EmbeddingDriver, logger arbor.ILogger) *LocalVectorStoreDriver {
	return &LocalVectorStoreDriver{
		storage:  storage,
		embedder: embedder,
		logger:   logger,
	}
}

// UpsertTexts embeds and stores texts under namespace
func (d *LocalVectorStoreDriver) UpsertTexts(ctx context.Context, namespace string, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}

	vectors, err := embedTexts(ctx, d.embedder, texts)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entries := make([]models.VectorEntry, len(texts))
	ids := make([]string, len(texts))
	for i, text := range texts {
		ids[i] = common.NewVectorEntryID()
		entries[i] = models.VectorEntry{
			ID:        ids[i],
			Namespace: namespace,
			Text:      text,
			Vector:    vectors[i],
			CreatedAt: now,
		}
	}

	if err := d.storage.SaveEntries(ctx, entries); err != nil {
		return nil, err
	}

	d.logger.Debug().
		Str("namespace", namespace).
		Int("count", len(entries)).
		Msg("Upserted vector entries")

	return ids, nil
}

// Query ranks stored entries against the query embedding and returns the top count
func (d *LocalVectorStoreDriver) Query(ctx context.Context, query string, count int, namespace string) ([]models.VectorEntry, error) {
	if count <= 0 {
		return []models.VectorEntry{}, nil
	}

	queryVector, err := d.embedder.EmbedString(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	entries, err := d.storage.ListEntries(ctx, namespace)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Score = CosineSimilarity(queryVector, entries[i].Vector)
	}

	// stable on ties so equal scores keep insertion order
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	if len(entries) > count {
		entries = entries[:count]
	}
	return entries, nil
}

// Close is a no-op; the storage manager owns the database
func (d *LocalVectorStoreDriver) Close() error {
	return nil
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Mismatched or zero-length vectors score 0.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
