// ABOUTME: MCP resource implementations for the health dashboard.
// ABOUTME: Provides health://recent, health://summary, and health://goals resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/healthdash/internal/models"
	"github.com/harperreed/healthdash/internal/scoring"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// health://recent - last 7 entries
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "health://recent",
		Name:        "Recent Health Entries",
		Description: "The last 7 daily health entries",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	// health://summary - overview, score and data quality
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "health://summary",
		Name:        "Health Summary Dashboard",
		Description: "Health score, overall averages, recent averages and data quality",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	// health://goals - active goals with progress
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "health://goals",
		Name:        "Active Goals",
		Description: "Active goals with progress and days left",
		MIMEType:    "application/json",
	}, s.handleGoalsResource)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	entries, err := s.repo.ListEntries(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	recent := scoring.Tail(entries, scoring.RecentWindow)
	if recent == nil {
		recent = []*models.HealthEntry{}
	}

	return jsonResource("health://recent", map[string]interface{}{
		"entries": recent,
		"count":   len(recent),
	})
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	entries, err := s.repo.ListEntries(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	result := map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"score":        scoring.Score(entries),
		"overview":     scoring.Overview(entries),
		"recent":       scoring.RecentAverages(entries),
		"quality":      scoring.DataQuality(entries),
	}
	return jsonResource("health://summary", result)
}

func (s *Server) handleGoalsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	active := models.GoalActive
	goals, err := s.repo.ListGoals(ctx, &active)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	return jsonResource("health://goals", map[string]interface{}{
		"goals": goalViews(goals),
		"count": len(goals),
	})
}
