package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/common"
)

func TestNewStorageManager_ResolvesConfigReferences(t *testing.T) {
	dir := t.TempDir()
	variables := filepath.Join(dir, "variables.toml")
	require.NoError(t, os.WriteFile(variables, []byte(`
[gemini_api_key]
value = "g-secret"
description = "Gemini key"
`), 0600))

	config := common.NewDefaultConfig()
	config.Storage.Badger.Path = filepath.Join(dir, "data")
	config.Storage.VariablesFile = variables
	config.Gemini.APIKey = "{gemini_api_key}"

	manager, err := NewStorageManager(context.Background(), arbor.NewLogger(), config)
	require.NoError(t, err)
	defer manager.Close()

	assert.Equal(t, "g-secret", config.Gemini.APIKey)

	value, err := manager.KeyValueStorage().Get(context.Background(), "gemini_api_key")
	require.NoError(t, err)
	assert.Equal(t, "g-secret", value)
}

func TestNewStorageManager_MissingVariablesFile(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Storage.Badger.Path = filepath.Join(t.TempDir(), "data")
	config.Storage.VariablesFile = filepath.Join(t.TempDir(), "absent.toml")

	manager, err := NewStorageManager(context.Background(), arbor.NewLogger(), config)
	require.NoError(t, err)
	assert.NoError(t, manager.Close())
}
