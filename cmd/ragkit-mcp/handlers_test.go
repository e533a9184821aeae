package main

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/models"
)

type stubRunner struct {
	output models.Artifact
	err    error
	values map[string]any
}

func (r *stubRunner) Run(ctx context.Context, values map[string]any) (models.Artifact, error) {
	r.values = values
	return r.output, r.err
}

func callTool(t *testing.T, runner activityRunner, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Name = "query"
	request.Params.Arguments = args

	result, err := handleActivity("query", runner, arbor.NewLogger())(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestHandleActivity_PassesArguments(t *testing.T) {
	runner := &stubRunner{output: models.NewListArtifact([]models.Artifact{models.NewTextArtifact("answer")})}
	args := map[string]any{"query": "q", "content": "text"}

	result := callTool(t, runner, args)

	assert.False(t, result.IsError)
	assert.Equal(t, "answer", resultText(t, result))
	assert.Equal(t, args, runner.values)
}

func TestHandleActivity_ErrorArtifact(t *testing.T) {
	result := callTool(t, &stubRunner{output: models.NewErrorArtifact("memory not found")}, map[string]any{})

	assert.True(t, result.IsError)
	assert.Equal(t, "Error: memory not found", resultText(t, result))
}

func TestHandleActivity_Failure(t *testing.T) {
	result := callTool(t, &stubRunner{err: errors.New("driver down")}, map[string]any{})

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "driver down")
}

func TestFormatArtifact_List(t *testing.T) {
	list := models.NewListArtifact([]models.Artifact{
		models.NewTextArtifact("one"),
		models.NewTextArtifact("two"),
	})
	assert.Equal(t, "one\n\n---\n\ntwo", formatArtifact(list))
}

func TestFormatNamespaces(t *testing.T) {
	assert.Contains(t, formatNamespaces("TaskMemory", nil), "No namespaces stored.")
	assert.Contains(t, formatNamespaces("TaskMemory", []string{"abc"}), "- `abc`")
}
