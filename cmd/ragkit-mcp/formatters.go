package main

import (
	"fmt"
	"strings"

	"github.com/ternarybob/ragkit/internal/models"
)

// formatArtifact renders tool output as markdown
func formatArtifact(artifact models.Artifact) string {
	switch a := artifact.(type) {
	case *models.ErrorArtifact:
		return "Error: " + a.Message()
	case *models.ListArtifact:
		items := a.Items()
		if len(items) == 1 {
			return formatArtifact(items[0])
		}
		var sb strings.Builder
		for i, item := range items {
			if i > 0 {
				sb.WriteString("\n\n---\n\n")
			}
			sb.WriteString(formatArtifact(item))
		}
		return sb.String()
	default:
		return artifact.String()
	}
}

// formatNamespaces lists memory namespaces as markdown
func formatNamespaces(memoryName string, namespaces []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Namespaces in %s (%d)\n\n", memoryName, len(namespaces)))

	if len(namespaces) == 0 {
		sb.WriteString("No namespaces stored.\n")
		return sb.String()
	}

	for _, ns := range namespaces {
		sb.WriteString(fmt.Sprintf("- `%s`\n", ns))
	}
	return sb.String()
}
