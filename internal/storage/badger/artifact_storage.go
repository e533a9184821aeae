package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/ragkit/internal/interfaces"
	"github.com/ternarybob/ragkit/internal/models"
)

// ArtifactStorage persists memory artifacts as ArtifactRecords
type ArtifactStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewArtifactStorage creates a new ArtifactStorage instance
func NewArtifactStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ArtifactStorage {
	return &ArtifactStorage{
		db:     db,
		logger: logger,
	}
}

func artifactKey(memoryName, namespace string, seq uint64) string {
	return fmt.Sprintf("%s:%s:%020d", memoryName, namespace, seq)
}

// SaveArtifacts appends artifacts to a namespace in order
func (s *ArtifactStorage) SaveArtifacts(ctx context.Context, memoryName, namespace string, artifacts []models.Artifact) error {
	if memoryName == "" || namespace == "" {
		return fmt.Errorf("memory name and namespace are required")
	}

	for _, artifact := range artifacts {
		record, err := models.NewArtifactRecord(artifact)
		if err != nil {
			return fmt.Errorf("failed to convert artifact %s: %w", artifact.ID(), err)
		}

		seq, err := s.db.NextSeq()
		if err != nil {
			return fmt.Errorf("failed to allocate artifact sequence: %w", err)
		}

		record.Key = artifactKey(memoryName, namespace, seq)
		record.MemoryName = memoryName
		record.Namespace = namespace
		record.Seq = seq

		if err := s.db.Store().Insert(record.Key, &record); err != nil {
			return fmt.Errorf("failed to save artifact %s: %w", artifact.ID(), err)
		}
	}

	s.logger.Debug().
		Str("memory", memoryName).
		Str("namespace", namespace).
		Int("count", len(artifacts)).
		Msg("Saved artifacts")

	return nil
}

// LoadArtifacts returns the artifacts of a namespace in insertion order
func (s *ArtifactStorage) LoadArtifacts(ctx context.Context, memoryName, namespace string) ([]models.Artifact, error) {
	var records []models.ArtifactRecord
	query := badgerhold.Where("MemoryName").Eq(memoryName).And("Namespace").Eq(namespace).SortBy("Seq")
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to load artifacts: %w", err)
	}

	artifacts := make([]models.Artifact, 0, len(records))
	for _, record := range records {
		artifact, err := record.ToArtifact()
		if err != nil {
			return nil, fmt.Errorf("failed to restore artifact %s: %w", record.ArtifactID, err)
		}
		artifacts = append(artifacts, artifact)
	}

	return artifacts, nil
}

// ListNamespaces returns the distinct namespaces of a memory, sorted
func (s *ArtifactStorage) ListNamespaces(ctx context.Context, memoryName string) ([]string, error) {
	var records []models.ArtifactRecord
	if err := s.db.Store().Find(&records, badgerhold.Where("MemoryName").Eq(memoryName)); err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}

	seen := make(map[string]struct{})
	namespaces := make([]string, 0)
	for _, record := range records {
		if _, ok := seen[record.Namespace]; ok {
			continue
		}
		seen[record.Namespace] = struct{}{}
		namespaces = append(namespaces, record.Namespace)
	}
	sort.Strings(namespaces)

	return namespaces, nil
}

// DeleteNamespace removes every artifact stored under a namespace
func (s *ArtifactStorage) DeleteNamespace(ctx context.Context, memoryName, namespace string) error {
	query := badgerhold.Where("MemoryName").Eq(memoryName).And("Namespace").Eq(namespace)
	if err := s.db.Store().DeleteMatching(&models.ArtifactRecord{}, query); err != nil {
		return fmt.Errorf("failed to delete namespace %s: %w", namespace, err)
	}
	return nil
}
