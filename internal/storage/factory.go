package storage

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/common"
	"github.com/ternarybob/ragkit/internal/interfaces"
	"github.com/ternarybob/ragkit/internal/storage/badger"
)

// NewStorageManager opens badger storage, loads the variables file into the KV store
// and resolves {key} references in config from it. Config must not be read for
// secrets before this returns.
func NewStorageManager(ctx context.Context, logger arbor.ILogger, config *common.Config) (interfaces.StorageManager, error) {
	manager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return nil, err
	}

	if config.Storage.VariablesFile != "" {
		count, err := manager.LoadVariablesFile(ctx, config.Storage.VariablesFile)
		if err != nil {
			manager.Close()
			return nil, fmt.Errorf("failed to load variables: %w", err)
		}
		logger.Debug().Int("count", count).Msg("Variables loaded")
	}

	kvMap, err := manager.KeyValueStorage().GetAll(ctx)
	if err != nil {
		manager.Close()
		return nil, fmt.Errorf("failed to read variables: %w", err)
	}
	if err := common.ReplaceInStruct(config, kvMap, logger); err != nil {
		manager.Close()
		return nil, fmt.Errorf("failed to resolve config key references: %w", err)
	}

	return manager, nil
}
