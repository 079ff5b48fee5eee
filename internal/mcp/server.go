// ABOUTME: MCP server setup for the health dashboard.
// ABOUTME: Wraps the MCP server with the repository and insight service.
package mcp

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harperreed/healthdash/internal/insights"
	"github.com/harperreed/healthdash/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage and insight access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	insights  *insights.Service
	log       *log.Logger
}

// NewServer creates a new MCP server over the given dependencies.
func NewServer(repo storage.Repository, svc *insights.Service, logger *log.Logger, version string) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "healthdash",
			Version: version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		insights:  svc,
		log:       logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("mcp server starting", "transport", "stdio", "ai_provider", s.insights.Provider())
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
