package badger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// VariableFile represents the structure of a variable in a TOML file
// Format:
// [gemini_api_key]
// value = "some-value"
// description = "optional description"
type VariableFile struct {
	Value       string `toml:"value"`
	Description string `toml:"description"`
}

// LoadVariablesFile loads variables such as API keys from a TOML file into the KV store.
// A missing file is not an error. Returns the number of variables stored.
func (m *Manager) LoadVariablesFile(ctx context.Context, filePath string) (int, error) {
	content, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		m.logger.Debug().Str("file", filePath).Msg("Variables file not found, skipping")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read variables file: %w", err)
	}

	var variables map[string]VariableFile
	if err := toml.Unmarshal(content, &variables); err != nil {
		return 0, fmt.Errorf("failed to parse variables file %s: %w", filePath, err)
	}

	fileName := filepath.Base(filePath)
	loaded := 0
	for key, variable := range variables {
		if variable.Value == "" {
			m.logger.Warn().Str("file", fileName).Str("key", key).Msg("Skipping variable with empty value")
			continue
		}

		description := variable.Description
		if description == "" {
			description = "Loaded from " + fileName
		}

		if err := m.kv.Set(ctx, key, variable.Value, description); err != nil {
			return loaded, fmt.Errorf("failed to store variable %s: %w", key, err)
		}
		loaded++
	}

	m.logger.Debug().Str("file", fileName).Int("loaded", loaded).Msg("Loaded variables")

	return loaded, nil
}
