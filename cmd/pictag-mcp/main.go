package main

import (
	"context"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "pictag/internal/adapters/mcp"
	"pictag/internal/application"
	"pictag/internal/bootstrap"
	"pictag/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("pictag-mcp: %v", err)
	}

	// stdout carries the protocol, logs stay on stderr
	env, err := bootstrap.Open(cfg, "pictag-mcp", nil)
	if err != nil {
		log.Fatalf("pictag-mcp: %v", err)
	}
	defer env.Close()
	env.EnsureIndex()

	catalog := application.NewGuarded(env.Catalog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if w, err := env.Watch(ctx, catalog, nil); err != nil {
		env.Log.Warn("tree file watching disabled", "error", err)
	} else {
		defer w.Stop()
	}

	mcpServer := server.NewMCPServer(
		"pictag-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, catalog)
	mcpadapter.RegisterWriteTools(mcpServer, catalog)

	if err := server.ServeStdio(mcpServer); err != nil {
		env.Log.Error("server stopped", "error", err)
	}
}
