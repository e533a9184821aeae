package models

import "time"

// VectorEntry is a stored chunk with its embedding
type VectorEntry struct {
	ID        string    `json:"id" badgerhold:"key"`
	Namespace string    `json:"namespace" badgerhold:"index"`
	Text      string    `json:"text"`
	Vector    []float32 `json:"vector"`
	Score     float32   `json:"score,omitempty"` // Similarity to the query, set on query results
	CreatedAt time.Time `json:"created_at"`
}

// ToTextArtifact converts a query result into a text chunk
func (e VectorEntry) ToTextArtifact() *TextArtifact {
	return NewTextArtifact(e.Text, WithArtifactName(e.ID))
}
