package main

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ternarybob/ragkit/internal/services/tools"
)

// querySchema accepts content as either literal text or a memory reference,
// which the builder options cannot express
var querySchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "query": {
      "type": "string",
      "description": "A natural language search query"
    },
    "content": {
      "oneOf": [
        {
          "type": "string",
          "description": "Literal text to search"
        },
        {
          "type": "object",
          "description": "Artifacts stored in task memory",
          "properties": {
            "memory_name": {"type": "string"},
            "artifact_namespace": {"type": "string"}
          },
          "required": ["memory_name", "artifact_namespace"],
          "additionalProperties": false
        }
      ]
    }
  },
  "required": ["query", "content"]
}`)

// createQueryTool returns the query tool definition
func createQueryTool() mcp.Tool {
	return mcp.NewToolWithRawSchema(tools.QueryActivityName, tools.QueryActivityDescription, querySchema)
}

// createGetContentTool returns the get_content tool definition
func createGetContentTool() mcp.Tool {
	return mcp.NewTool(tools.GetContentActivityName,
		mcp.WithDescription(tools.GetContentDescription+" Off-prompt content is stored in task memory and can be passed to query as a memory reference."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Valid HTTP URL"),
		),
	)
}

// createListNamespacesTool returns the list_namespaces tool definition
func createListNamespacesTool() mcp.Tool {
	return mcp.NewTool("list_namespaces",
		mcp.WithDescription("List artifact namespaces stored in task memory"),
	)
}
