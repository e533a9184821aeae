package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ArtifactType tags the concrete artifact variant
type ArtifactType string

const (
	ArtifactTypeText  ArtifactType = "text"
	ArtifactTypeList  ArtifactType = "list"
	ArtifactTypeError ArtifactType = "error"
	ArtifactTypeInfo  ArtifactType = "info"
	ArtifactTypeBlob  ArtifactType = "blob"
)

// Artifact is an immutable unit of data flowing between tools, memory and the RAG pipeline.
// Implementations expose their value only through getters; composite values are copied.
type Artifact interface {
	ID() string
	Name() string
	Type() ArtifactType
	Value() any
	String() string
}

// ArtifactOption customises artifact construction
type ArtifactOption func(*artifactBase)

// WithArtifactName sets the artifact name (defaults to the artifact ID)
func WithArtifactName(name string) ArtifactOption {
	return func(b *artifactBase) {
		if name != "" {
			b.name = name
		}
	}
}

// WithArtifactID sets a fixed artifact ID, used when rehydrating stored artifacts
func WithArtifactID(id string) ArtifactOption {
	return func(b *artifactBase) {
		if id != "" {
			b.id = id
		}
	}
}

// newArtifactID returns a dash-free uuid
func newArtifactID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

type artifactBase struct {
	id   string
	name string
}

func newArtifactBase(opts []ArtifactOption) artifactBase {
	b := artifactBase{id: newArtifactID()}
	for _, opt := range opts {
		opt(&b)
	}
	if b.name == "" {
		b.name = b.id
	}
	return b
}

func (b artifactBase) ID() string   { return b.id }
func (b artifactBase) Name() string { return b.name }

// TextArtifact holds a string value
type TextArtifact struct {
	artifactBase
	value string
}

// NewTextArtifact creates a text artifact
func NewTextArtifact(value string, opts ...ArtifactOption) *TextArtifact {
	return &TextArtifact{artifactBase: newArtifactBase(opts), value: value}
}

func (a *TextArtifact) Type() ArtifactType { return ArtifactTypeText }
func (a *TextArtifact) Value() any         { return a.value }
func (a *TextArtifact) String() string     { return a.value }

// Text returns the typed string value
func (a *TextArtifact) Text() string { return a.value }

// ListArtifact holds an ordered sequence of artifacts. The member slice is copied
// on construction and on read, so neither the caller nor the members are mutated.
type ListArtifact struct {
	artifactBase
	items []Artifact
}

// NewListArtifact creates a list artifact from the given members
func NewListArtifact(items []Artifact, opts ...ArtifactOption) *ListArtifact {
	copied := make([]Artifact, len(items))
	copy(copied, items)
	return &ListArtifact{artifactBase: newArtifactBase(opts), items: copied}
}

func (a *ListArtifact) Type() ArtifactType { return ArtifactTypeList }
func (a *ListArtifact) Value() any         { return a.Items() }

// Items returns a copy of the list members in order
func (a *ListArtifact) Items() []Artifact {
	copied := make([]Artifact, len(a.items))
	copy(copied, a.items)
	return copied
}

// Len returns the number of members
func (a *ListArtifact) Len() int { return len(a.items) }

// String joins member strings with blank lines
func (a *ListArtifact) String() string {
	parts := make([]string, 0, len(a.items))
	for _, item := range a.items {
		parts = append(parts, item.String())
	}
	return strings.Join(parts, "\n\n")
}

// ErrorArtifact is a modeled failure returned as a value, not raised
type ErrorArtifact struct {
	artifactBase
	message string
	err     error
}

// NewErrorArtifact creates an error artifact with the given message
func NewErrorArtifact(message string, opts ...ArtifactOption) *ErrorArtifact {
	return &ErrorArtifact{artifactBase: newArtifactBase(opts), message: message}
}

// NewErrorArtifactFromError wraps an underlying error as a modeled failure
func NewErrorArtifactFromError(err error, opts ...ArtifactOption) *ErrorArtifact {
	return &ErrorArtifact{artifactBase: newArtifactBase(opts), message: err.Error(), err: err}
}

func (a *ErrorArtifact) Type() ArtifactType { return ArtifactTypeError }
func (a *ErrorArtifact) Value() any         { return a.message }
func (a *ErrorArtifact) String() string     { return a.message }

// Message returns the error message
func (a *ErrorArtifact) Message() string { return a.message }

// Unwrap returns the underlying error, if any
func (a *ErrorArtifact) Unwrap() error { return a.err }

// InfoArtifact carries informational tool output
type InfoArtifact struct {
	artifactBase
	value string
}

// NewInfoArtifact creates an info artifact
func NewInfoArtifact(value string, opts ...ArtifactOption) *InfoArtifact {
	return &InfoArtifact{artifactBase: newArtifactBase(opts), value: value}
}

func (a *InfoArtifact) Type() ArtifactType { return ArtifactTypeInfo }
func (a *InfoArtifact) Value() any         { return a.value }
func (a *InfoArtifact) String() string     { return a.value }

// BlobArtifact carries binary data
type BlobArtifact struct {
	artifactBase
	value []byte
}

// NewBlobArtifact creates a blob artifact. The byte slice is copied.
func NewBlobArtifact(value []byte, opts ...ArtifactOption) *BlobArtifact {
	copied := make([]byte, len(value))
	copy(copied, value)
	return &BlobArtifact{artifactBase: newArtifactBase(opts), value: copied}
}

func (a *BlobArtifact) Type() ArtifactType { return ArtifactTypeBlob }
func (a *BlobArtifact) String() string     { return fmt.Sprintf("blob %s (%d bytes)", a.name, len(a.value)) }

// Value returns a copy of the blob bytes
func (a *BlobArtifact) Value() any { return a.Bytes() }

// Bytes returns a copy of the blob bytes
func (a *BlobArtifact) Bytes() []byte {
	copied := make([]byte, len(a.value))
	copy(copied, a.value)
	return copied
}

// FilterTextArtifacts keeps only text artifacts, preserving order
func FilterTextArtifacts(artifacts []Artifact) []*TextArtifact {
	texts := make([]*TextArtifact, 0, len(artifacts))
	for _, artifact := range artifacts {
		if text, ok := artifact.(*TextArtifact); ok {
			texts = append(texts, text)
		}
	}
	return texts
}

// IsErrorArtifact reports whether the artifact is a modeled failure
func IsErrorArtifact(artifact Artifact) bool {
	_, ok := artifact.(*ErrorArtifact)
	return ok
}
