package modules

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/interfaces"
	"github.com/ternarybob/ragkit/internal/rag"
)

// VectorStoreRetrievalModuleName identifies the module in errors and logs
const VectorStoreRetrievalModuleName = "VectorStoreRetrievalModule"

// DefaultTopN is used when no result count is configured
const DefaultTopN = 5

// VectorStoreRetrievalModule appends the query's nearest vector store entries as text chunks
type VectorStoreRetrievalModule struct {
	vectorStore interfaces.VectorStoreDriver
	namespace   string
	topN        int
	logger      arbor.ILogger
}

// NewVectorStoreRetrievalModule creates the module. An empty namespace searches all namespaces.
func NewVectorStoreRetrievalModule(vectorStore interfaces.VectorStoreDriver, namespace string, topN int, logger arbor.ILogger) *VectorStoreRetrievalModule {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &VectorStoreRetrievalModule{
		vectorStore: vectorStore,
		namespace:   namespace,
		topN:        topN,
		logger:      logger,
	}
}

func (m *VectorStoreRetrievalModule) Name() string {
	return VectorStoreRetrievalModuleName
}

// Run queries the vector store and appends results in rank order
func (m *VectorStoreRetrievalModule) Run(ctx context.Context, rc *rag.Context) error {
	entries, err := m.vectorStore.Query(ctx, rc.Query(), m.topN, m.namespace)
	if err != nil {
		return fmt.Errorf("vector store query failed: %w", err)
	}

	for _, entry := range entries {
		rc.AddTextChunks(entry.ToTextArtifact())
	}

	m.logger.Debug().
		Str("namespace", m.namespace).
		Int("results", len(entries)).
		Msg("Retrieved text chunks")

	return nil
}
