package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/ragkit/internal/interfaces"
	"github.com/ternarybob/ragkit/internal/models"
)

// VectorStorage persists embedded chunks for the local vector store
type VectorStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewVectorStorage creates a new VectorStorage instance
func NewVectorStorage(db *BadgerDB, logger arbor.ILogger) interfaces.VectorStorage {
	return &VectorStorage{
		db:     db,
		logger: logger,
	}
}

// SaveEntries upserts entries by ID
func (s *VectorStorage) SaveEntries(ctx context.Context, entries []models.VectorEntry) error {
	for i := range entries {
		entry := entries[i]
		if entry.ID == "" {
			return fmt.Errorf("vector entry at index %d has no ID", i)
		}
		if err := s.db.Store().Upsert(entry.ID, &entry); err != nil {
			return fmt.Errorf("failed to save vector entry %s: %w", entry.ID, err)
		}
	}
	return nil
}

// ListEntries returns the entries of a namespace, or all entries when namespace is empty
func (s *VectorStorage) ListEntries(ctx context.Context, namespace string) ([]models.VectorEntry, error) {
	var entries []models.VectorEntry
	var query *badgerhold.Query
	if namespace != "" {
		query = badgerhold.Where("Namespace").Eq(namespace)
	}
	if err := s.db.Store().Find(&entries, query); err != nil {
		return nil, fmt.Errorf("failed to list vector entries: %w", err)
	}
	return entries, nil
}

// DeleteNamespace removes all entries of a namespace
func (s *VectorStorage) DeleteNamespace(ctx context.Context, namespace string) error {
	if err := s.db.Store().DeleteMatching(&models.VectorEntry{}, badgerhold.Where("Namespace").Eq(namespace)); err != nil {
		return fmt.Errorf("failed to delete vector namespace %s: %w", namespace, err)
	}
	return nil
}
