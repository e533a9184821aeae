package modules

import (
	"context"

	"github.com/ternarybob/ragkit/internal/models"
	"github.com/ternarybob/ragkit/internal/rag"
)

// TextChunksResponseModuleName identifies the module in errors and logs
const TextChunksResponseModuleName = "TextChunksResponseModule"

// TextChunksResponseModule answers with the context's text chunks as-is, without an LLM
type TextChunksResponseModule struct{}

// NewTextChunksResponseModule creates the module
func NewTextChunksResponseModule() *TextChunksResponseModule {
	return &TextChunksResponseModule{}
}

func (m *TextChunksResponseModule) Name() string {
	return TextChunksResponseModuleName
}

// Run appends one ListArtifact holding the current text chunks
func (m *TextChunksResponseModule) Run(ctx context.Context, rc *rag.Context) error {
	chunks := rc.TextChunks()
	items := make([]models.Artifact, 0, len(chunks))
	for _, chunk := range chunks {
		items = append(items, chunk)
	}
	rc.AddOutputs(models.NewListArtifact(items))
	return nil
}
