package rag

import "github.com/ternarybob/ragkit/internal/models"

// Context carries one query's working state through the pipeline.
// The query is fixed at construction. Text chunks and outputs are append-only:
// modules may add entries but never replace, remove or reorder existing ones.
// A Context belongs to a single Process call and is not safe for concurrent use.
type Context struct {
	query      string
	textChunks []*models.TextArtifact
	outputs    []models.Artifact
}

// NewContext creates a context for query grounded in the given chunks (may be empty)
func NewContext(query string, textChunks []*models.TextArtifact) *Context {
	chunks := make([]*models.TextArtifact, len(textChunks))
	copy(chunks, textChunks)
	return &Context{
		query:      query,
		textChunks: chunks,
		outputs:    []models.Artifact{},
	}
}

// Query returns the request query
func (c *Context) Query() string {
	return c.query
}

// TextChunks returns a copy of the text chunks in order
func (c *Context) TextChunks() []*models.TextArtifact {
	chunks := make([]*models.TextArtifact, len(c.textChunks))
	copy(chunks, c.textChunks)
	return chunks
}

// AddTextChunks appends retrieved chunks after the existing ones
func (c *Context) AddTextChunks(chunks ...*models.TextArtifact) {
	for _, chunk := range chunks {
		if chunk != nil {
			c.textChunks = append(c.textChunks, chunk)
		}
	}
}

// Outputs returns a copy of the accumulated outputs in order
func (c *Context) Outputs() []models.Artifact {
	outputs := make([]models.Artifact, len(c.outputs))
	copy(outputs, c.outputs)
	return outputs
}

// AddOutputs appends artifacts to the outputs
func (c *Context) AddOutputs(artifacts ...models.Artifact) {
	for _, artifact := range artifacts {
		if artifact != nil {
			c.outputs = append(c.outputs, artifact)
		}
	}
}
