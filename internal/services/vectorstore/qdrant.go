package vectorstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/common"
	"github.com/ternarybob/ragkit/internal/interfaces"
	"github.com/ternarybob/ragkit/internal/models"
)

const (
	payloadNamespace = "namespace"
	payloadText      = "text"
	payloadCreatedAt = "created_at"
)

// QdrantVectorStoreDriver stores embeddings in a Qdrant collection, one point per chunk,
// with the namespace held in the payload
type QdrantVectorStoreDriver struct {
	client     *qdrant.Client
	collection string
	embedder   interfaces.EmbeddingDriver
	logger     arbor.ILogger

	mu      sync.Mutex
	ensured bool
}

// NewQdrantVectorStoreDriver connects to Qdrant over gRPC
func NewQdrantVectorStoreDriver(config *common.QdrantConfig, apiKey string, embedder interfaces.EmbeddingDriver, logger arbor.ILogger) (*QdrantVectorStoreDriver, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   config.Host,
		Port:   config.Port,
		APIKey: apiKey,
		UseTLS: config.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	logger.Debug().
		Str("host", config.Host).
		Int("port", config.Port).
		Str("collection", config.Collection).
		Msg("Qdrant vector store initialized")

	return &QdrantVectorStoreDriver{
		client:     client,
		collection: config.Collection,
		embedder:   embedder,
		logger:     logger,
	}, nil
}

// ensureCollection creates the collection on first write, sized to the first vector
func (d *QdrantVectorStoreDriver) ensureCollection(ctx context.Context, vectorSize int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ensured {
		return nil
	}

	existing, err := d.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, name := range existing {
		if name == d.collection {
			d.ensured = true
			return nil
		}
	}

	err = d.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: d.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(vectorSize),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", d.collection, err)
	}

	d.logger.Info().Str("collection", d.collection).Int("vector_size", vectorSize).Msg("Created qdrant collection")
	d.ensured = true
	return nil
}

// UpsertTexts embeds texts and upserts them as points
func (d *QdrantVectorStoreDriver) UpsertTexts(ctx context.Context, namespace string, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}

	vectors, err := embedTexts(ctx, d.embedder, texts)
	if err != nil {
		return nil, err
	}

	if err := d.ensureCollection(ctx, len(vectors[0])); err != nil {
		return nil, err
	}

	now := time.Now().Format(time.RFC3339)
	ids := make([]string, len(texts))
	points := make([]*qdrant.PointStruct, len(texts))
	for i, text := range texts {
		ids[i] = common.NewVectorEntryID()
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(ids[i]),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				payloadNamespace: namespace,
				payloadText:      text,
				payloadCreatedAt: now,
			}),
		}
	}

	_, err = d.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: d.collection,
		Points:         points,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert points: %w", err)
	}

	return ids, nil
}

// Query searches the collection, filtered to namespace when set
func (d *QdrantVectorStoreDriver) Query(ctx context.Context, query string, count int, namespace string) ([]models.VectorEntry, error) {
	if count <= 0 {
		return []models.VectorEntry{}, nil
	}

	queryVector, err := d.embedder.EmbedString(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	limit := uint64(count)
	request := &qdrant.QueryPoints{
		CollectionName: d.collection,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if namespace != "" {
		request.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch(payloadNamespace, namespace),
			},
		}
	}

	hits, err := d.client.Query(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("failed to query qdrant: %w", err)
	}

	entries := make([]models.VectorEntry, 0, len(hits))
	for _, hit := range hits {
		entries = append(entries, scoredPointToEntry(hit))
	}
	return entries, nil
}

// Close closes the gRPC connection
func (d *QdrantVectorStoreDriver) Close() error {
	return d.client.Close()
}

func scoredPointToEntry(hit *qdrant.ScoredPoint) models.VectorEntry {
	entry := models.VectorEntry{
		ID:    hit.GetId().GetUuid(),
		Score: hit.GetScore(),
	}

	payload := hit.GetPayload()
	entry.Namespace = extractStringValue(payload[payloadNamespace])
	entry.Text = extractStringValue(payload[payloadText])
	if created, err := time.Parse(time.RFC3339, extractStringValue(payload[payloadCreatedAt])); err == nil {
		entry.CreatedAt = created
	}
	return entry
}

func extractStringValue(val *qdrant.Value) string {
	if val == nil {
		return ""
	}
	return val.GetStringValue()
}
