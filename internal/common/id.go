package common

import (
	"strings"

	"github.com/google/uuid"
)

// NewNamespace generates a memory namespace for off-prompt tool output
func NewNamespace() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// NewVectorEntryID generates a vector entry ID. Qdrant requires point IDs to be UUIDs.
func NewVectorEntryID() string {
	return uuid.New().String()
}
