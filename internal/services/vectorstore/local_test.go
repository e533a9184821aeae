package vectorstore

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/common"
	"github.com/ternarybob/ragkit/internal/storage/badger"
)

// keywordEmbedder maps text onto fixed keyword axes so similarity is predictable
type keywordEmbedder struct {
	keywords []string
	fail     bool
}

func (e *keywordEmbedder) EmbedString(ctx context.Context, text string) ([]float32, error) {
	if e.fail {
		return nil, errors.New("embedding backend down")
	}
	vector := make([]float32, len(e.keywords))
	lower := strings.ToLower(text)
	for i, keyword := range e.keywords {
		if strings.Contains(lower, keyword) {
			vector[i] = 1
		}
	}
	return vector, nil
}

func (e *keywordEmbedder) ModelName() string { return "keyword" }
func (e *keywordEmbedder) Dimensions() int   { return len(e.keywords) }

func newLocalDriver(t *testing.T, embedder *keywordEmbedder) *LocalVectorStoreDriver {
	t.Helper()
	manager, err := badger.NewManager(arbor.NewLogger(), &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "db")})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return NewLocalVectorStoreDriver(manager.VectorStorage(), embedder, arbor.NewLogger())
}

func TestLocalVectorStore_QueryRanksBySimilarity(t *testing.T) {
	driver := newLocalDriver(t, &keywordEmbedder{keywords: []string{"go", "badger", "python"}})
	ctx := context.Background()

	ids, err := driver.UpsertTexts(ctx, "docs", []string{
		"Python is a language",
		"Go uses badger for storage",
		"Go is compiled",
	})
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	results, err := driver.Query(ctx, "badger in go", 2, "docs")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Go uses badger for storage", results[0].Text)
	assert.Equal(t, "Go is compiled", results[1].Text)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestLocalVectorStore_NamespaceIsolation(t *testing.T) {
	driver := newLocalDriver(t, &keywordEmbedder{keywords: []string{"alpha", "beta"}})
	ctx := context.Background()

	_, err := driver.UpsertTexts(ctx, "ns1", []string{"alpha"})
	require.NoError(t, err)
	_, err = driver.UpsertTexts(ctx, "ns2", []string{"alpha beta"})
	require.NoError(t, err)

	results, err := driver.Query(ctx, "alpha", 10, "ns1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ns1", results[0].Namespace)

	all, err := driver.Query(ctx, "alpha", 10, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLocalVectorStore_EmbeddingFailurePropagates(t *testing.T) {
	driver := newLocalDriver(t, &keywordEmbedder{keywords: []string{"x"}, fail: true})

	_, err := driver.UpsertTexts(context.Background(), "ns", []string{"x"})
	assert.Error(t, err)

	_, err = driver.Query(context.Background(), "x", 1, "ns")
	assert.Error(t, err)
}

func TestLocalVectorStore_EmptyInputs(t *testing.T) {
	driver := newLocalDriver(t, &keywordEmbedder{keywords: []string{"x"}})

	ids, err := driver.UpsertTexts(context.Background(), "ns", nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	results, err := driver.Query(context.Background(), "x", 0, "ns")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-6)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.Equal(t, float32(0), CosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Equal(t, float32(0), CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}

func TestNewVectorStoreDriver_RequiresEmbedder(t *testing.T) {
	cfg := common.NewDefaultConfig()
	_, err := NewVectorStoreDriver(context.Background(), cfg, nil, nil, arbor.NewLogger())
	assert.Error(t, err)

	cfg.Drivers.VectorStore = common.DriverNone
	driver, err := NewVectorStoreDriver(context.Background(), cfg, nil, nil, arbor.NewLogger())
	require.NoError(t, err)
	assert.Nil(t, driver)
}
