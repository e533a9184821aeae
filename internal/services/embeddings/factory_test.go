package embeddings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/common"
)

func TestNewEmbeddingDriver_None(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Drivers.Embedding = common.DriverNone

	driver, err := NewEmbeddingDriver(context.Background(), cfg, nil, arbor.NewLogger())
	require.NoError(t, err)
	assert.Nil(t, driver)
}

func TestNewEmbeddingDriver_GeminiWithConfigKey(t *testing.T) {
	t.Setenv("RAGKIT_GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg := common.NewDefaultConfig()
	cfg.Gemini.APIKey = "test-key"
	cfg.Gemini.EmbedDimension = 768

	driver, err := NewEmbeddingDriver(context.Background(), cfg, nil, arbor.NewLogger())
	require.NoError(t, err)
	require.NotNil(t, driver)
	assert.Equal(t, "models/embedding-001", driver.ModelName())
	assert.Equal(t, 768, driver.Dimensions())

	_, err = driver.EmbedString(context.Background(), "")
	assert.Error(t, err)
}

func TestNewEmbeddingDriver_Unsupported(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Drivers.Embedding = "word2vec"

	_, err := NewEmbeddingDriver(context.Background(), cfg, nil, arbor.NewLogger())
	assert.Error(t, err)
}
