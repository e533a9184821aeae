package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/interfaces"
	"github.com/ternarybob/ragkit/internal/models"
)

// activityRunner is the activity entry point shared by the tools
type activityRunner interface {
	Run(ctx context.Context, values map[string]any) (models.Artifact, error)
}

// handleActivity exposes a tool activity. Error artifacts and propagated failures
// are both reported to the client as error results.
func handleActivity(name string, runner activityRunner, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		output, err := runner.Run(ctx, request.GetArguments())
		if err != nil {
			logger.Error().Err(err).Str("tool", name).Msg("Tool activity failed")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		if models.IsErrorArtifact(output) {
			return errorResult(formatArtifact(output)), nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(formatArtifact(output)),
			},
		}, nil
	}
}

// handleListNamespaces implements the list_namespaces tool
func handleListNamespaces(memory interfaces.Memory, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		namespaces, err := memory.Namespaces(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("List namespaces failed")
			return errorResult(fmt.Sprintf("List error: %v", err)), nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(formatNamespaces(memory.Name(), namespaces)),
			},
		}, nil
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
		IsError: true,
	}
}
