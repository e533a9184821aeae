package vectorstore

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/common"
	"github.com/ternarybob/ragkit/internal/interfaces"
)

// NewVectorStoreDriver creates the vector store selected by drivers.vector_store.
// Returns nil without error when the vector store is disabled.
func NewVectorStoreDriver(
	ctx context.Context,
	cfg *common.Config,
	storage interfaces.StorageManager,
	embedder interfaces.EmbeddingDriver,
	logger arbor.ILogger,
) (interfaces.VectorStoreDriver, error) {
	switch cfg.Drivers.VectorStore {
	case common.DriverNone, "":
		return nil, nil
	}

	if embedder == nil {
		return nil, fmt.Errorf("vector store driver '%s' requires an embedding driver", cfg.Drivers.VectorStore)
	}

	switch cfg.Drivers.VectorStore {
	case common.DriverLocal:
		return NewLocalVectorStoreDriver(storage.VectorStorage(), embedder, logger), nil

	case common.DriverQdrant:
		// Qdrant may run without auth locally
		apiKey, _ := common.ResolveAPIKey(ctx, storage.KeyValueStorage(), "qdrant_api_key", cfg.Qdrant.APIKey)
		driver, err := NewQdrantVectorStoreDriver(&cfg.Qdrant, apiKey, embedder, logger)
		if err != nil {
			return nil, err
		}
		return driver, nil

	default:
		return nil, fmt.Errorf("unsupported vector store driver: %s", cfg.Drivers.VectorStore)
	}
}
