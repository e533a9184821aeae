package models

import (
	"fmt"
	"time"
)

// ArtifactRecord is the persisted form of an artifact within a memory namespace.
// Seq orders records within a namespace; it is assigned by storage on save.
type ArtifactRecord struct {
	Key        string           `json:"key" badgerhold:"key"`
	MemoryName string           `json:"memory_name" badgerhold:"index"`
	Namespace  string           `json:"namespace" badgerhold:"index"`
	Seq        uint64           `json:"seq"`
	ArtifactID string           `json:"artifact_id"`
	Name       string           `json:"name"`
	Type       ArtifactType     `json:"type"`
	Text       string           `json:"text,omitempty"`
	Data       []byte           `json:"data,omitempty"`
	Items      []ArtifactRecord `json:"items,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// NewArtifactRecord converts an artifact into its persisted form
func NewArtifactRecord(artifact Artifact) (ArtifactRecord, error) {
	record := ArtifactRecord{
		ArtifactID: artifact.ID(),
		Name:       artifact.Name(),
		Type:       artifact.Type(),
		CreatedAt:  time.Now(),
	}

	switch a := artifact.(type) {
	case *TextArtifact:
		record.Text = a.Text()
	case *ErrorArtifact:
		record.Text = a.Message()
	case *InfoArtifact:
		record.Text = a.String()
	case *BlobArtifact:
		record.Data = a.Bytes()
	case *ListArtifact:
		for _, item := range a.Items() {
			child, err := NewArtifactRecord(item)
			if err != nil {
				return ArtifactRecord{}, err
			}
			record.Items = append(record.Items, child)
		}
	default:
		return ArtifactRecord{}, fmt.Errorf("unsupported artifact type %T", artifact)
	}

	return record, nil
}

// ToArtifact rebuilds the artifact, keeping its original ID and name
func (r ArtifactRecord) ToArtifact() (Artifact, error) {
	opts := []ArtifactOption{WithArtifactID(r.ArtifactID), WithArtifactName(r.Name)}

	switch r.Type {
	case ArtifactTypeText:
		return NewTextArtifact(r.Text, opts...), nil
	case ArtifactTypeError:
		return NewErrorArtifact(r.Text, opts...), nil
	case ArtifactTypeInfo:
		return NewInfoArtifact(r.Text, opts...), nil
	case ArtifactTypeBlob:
		return NewBlobArtifact(r.Data, opts...), nil
	case ArtifactTypeList:
		items := make([]Artifact, 0, len(r.Items))
		for _, child := range r.Items {
			item, err := child.ToArtifact()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return NewListArtifact(items, opts...), nil
	default:
		return nil, fmt.Errorf("unknown artifact type '%s'", r.Type)
	}
}
