// -----------------------------------------------------------------------
// Last Modified: Monday, 19th October 2026 10:12:00 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/ragkit/internal/models"
)

// ArtifactStorage persists artifacts grouped by memory name and namespace
type ArtifactStorage interface {
	// SaveArtifacts appends artifacts to a namespace, preserving their order
	SaveArtifacts(ctx context.Context, memoryName, namespace string, artifacts []models.Artifact) error

	// LoadArtifacts returns the artifacts of a namespace in insertion order.
	// An unknown namespace yields an empty slice, not an error.
	LoadArtifacts(ctx context.Context, memoryName, namespace string) ([]models.Artifact, error)

	// ListNamespaces returns the namespaces stored for a memory
	ListNamespaces(ctx context.Context, memoryName string) ([]string, error)

	// DeleteNamespace removes every artifact stored under a namespace
	DeleteNamespace(ctx context.Context, memoryName, namespace string) error
}

// VectorStorage persists embedded chunks for the local vector store driver
type VectorStorage interface {
	SaveEntries(ctx context.Context, entries []models.VectorEntry) error
	ListEntries(ctx context.Context, namespace string) ([]models.VectorEntry, error)
	DeleteNamespace(ctx context.Context, namespace string) error
}

// StorageManager - interface for managing all storage backends
type StorageManager interface {
	ArtifactStorage() ArtifactStorage
	VectorStorage() VectorStorage
	KeyValueStorage() KeyValueStorage
	Close() error
}
