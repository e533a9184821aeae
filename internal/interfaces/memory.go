package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/ragkit/internal/models"
)

// ErrMemoryNotFound is returned when no memory matches a requested name
var ErrMemoryNotFound = errors.New("memory not found")

// Memory is a named store of artifacts addressable by namespace.
// Tools read from input memories and write off-prompt output to output memories.
type Memory interface {
	Name() string
	StoreArtifacts(ctx context.Context, namespace string, artifacts []models.Artifact) error
	LoadArtifacts(ctx context.Context, namespace string) ([]models.Artifact, error)
	Namespaces(ctx context.Context) ([]string, error)
}
