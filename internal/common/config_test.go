package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/ragkit/internal/interfaces"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig_GoogleDrivers(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, DriverGemini, config.Drivers.Prompt)
	assert.Equal(t, DriverGemini, config.Drivers.Embedding)
	assert.Equal(t, DriverLocal, config.Drivers.VectorStore)
	assert.Equal(t, "gemini-1.5-pro", config.Gemini.Model)
	assert.Equal(t, "models/embedding-001", config.Gemini.EmbeddingModel)
	assert.Equal(t, []string{"script", "style", "head", "header", "footer", "svg"}, config.Scraper.ExcludeTags)
	assert.True(t, config.Scraper.IncludeLinks)
	assert.NoError(t, config.Validate())
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	base := writeConfigFile(t, "base.toml", `
[drivers]
prompt = "claude"

[claude]
model = "claude-base"
`)
	override := writeConfigFile(t, "override.toml", `
[claude]
model = "claude-override"
`)

	config, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, DriverClaude, config.Drivers.Prompt)
	assert.Equal(t, "claude-override", config.Claude.Model)
	assert.Equal(t, "gemini-1.5-pro", config.Gemini.Model, "untouched defaults survive")
}

func TestLoadFromFiles_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "ragkit.toml", `
[drivers]
prompt = "claude"
`)
	t.Setenv("RAGKIT_PROMPT_DRIVER", "ECHO")
	t.Setenv("RAGKIT_LOG_OUTPUT", "stdout, file")

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, DriverEcho, config.Drivers.Prompt)
	assert.Equal(t, []string{"stdout", "file"}, config.Logging.Output)
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown prompt driver", func(c *Config) { c.Drivers.Prompt = "openai" }, true},
		{"vector store without embeddings", func(c *Config) { c.Drivers.Embedding = DriverNone }, true},
		{"no vector store no embeddings", func(c *Config) {
			c.Drivers.Embedding = DriverNone
			c.Drivers.VectorStore = DriverNone
		}, false},
		{"retrieval without vector store", func(c *Config) {
			c.Drivers.VectorStore = DriverNone
			c.RAG.Retrieval.Enabled = true
		}, true},
		{"bad response module", func(c *Config) { c.RAG.ResponseModule = "summary" }, true},
		{"bad timeout", func(c *Config) { c.Gemini.Timeout = "soon" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type mapKV map[string]string

func (m mapKV) Get(ctx context.Context, key string) (string, error) {
	if v, ok := m[key]; ok {
		return v, nil
	}
	return "", interfaces.ErrKeyNotFound
}
func (m mapKV) Set(ctx context.Context, key, value, description string) error { m[key] = value; return nil }
func (m mapKV) Delete(ctx context.Context, key string) error                   { delete(m, key); return nil }
func (m mapKV) List(ctx context.Context) ([]interfaces.KeyValuePair, error)    { return nil, nil }
func (m mapKV) GetAll(ctx context.Context) (map[string]string, error)          { return m, nil }

func TestResolveAPIKey_Priority(t *testing.T) {
	ctx := context.Background()
	kv := mapKV{"gemini_api_key": "from-kv"}

	t.Setenv("RAGKIT_GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	key, err := ResolveAPIKey(ctx, kv, "gemini_api_key", "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-kv", key)

	key, err = ResolveAPIKey(ctx, nil, "gemini_api_key", "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-config", key)

	t.Setenv("RAGKIT_GEMINI_API_KEY", "from-env")
	key, err = ResolveAPIKey(ctx, kv, "gemini_api_key", "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)

	_, err = ResolveAPIKey(ctx, nil, "qdrant_api_key", "")
	assert.Error(t, err)

	_, err = ResolveAPIKey(ctx, nil, "qdrant_api_key", "{qdrant_api_key}")
	assert.Error(t, err, "unresolved key reference must not be used as a key")
}
