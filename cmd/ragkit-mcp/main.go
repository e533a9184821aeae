package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ternarybob/ragkit/internal/app"
	"github.com/ternarybob/ragkit/internal/common"
	"github.com/ternarybob/ragkit/internal/services/tools"
)

func main() {
	// Load configuration
	configPath := os.Getenv("RAGKIT_CONFIG")
	if configPath == "" {
		if _, err := os.Stat("ragkit.toml"); err == nil {
			configPath = "ragkit.toml"
		}
	}

	config, err := common.LoadFromFiles(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logging to avoid cluttering MCP stdio
	logger := common.NewQuietLogger()

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	mcpServer := newMCPServer(application)

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}

// newMCPServer registers the query and web scraper activities
func newMCPServer(application *app.App) *server.MCPServer {
	mcpServer := server.NewMCPServer(
		"ragkit",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	logger := application.Logger
	mcpServer.AddTool(createQueryTool(), handleActivity(tools.QueryActivityName, application.QueryTool, logger))
	mcpServer.AddTool(createGetContentTool(), handleActivity(tools.GetContentActivityName, application.WebScraperTool, logger))
	mcpServer.AddTool(createListNamespacesTool(), handleListNamespaces(application.TaskMemory, logger))

	return mcpServer
}
