// ABOUTME: CLI commands for the long-running servers: HTTP API and MCP.
// ABOUTME: Both stop cleanly on SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/healthdash/internal/api"
	"github.com/harperreed/healthdash/internal/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds how long in-flight requests may run after a signal.
const shutdownTimeout = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON HTTP API",
	Long: `Start the JSON HTTP API used by dashboards and scripts.

ENDPOINTS:

  GET    /api/entries?days=30           entries, oldest first
  POST   /api/entries                   log or replace a day's entry
  GET    /api/entries/{date}            one entry
  DELETE /api/entries/{date}            delete an entry
  GET    /api/score                     health score and factors
  GET    /api/overview                  all-time averages
  GET    /api/quality                   gaps and outliers
  GET    /api/trends?days=30            per-metric change
  GET    /api/charts?days=30            chart series
  GET    /api/goals?status=active       goals
  POST   /api/goals                     create a goal
  POST   /api/goals/{id}/progress       record progress
  POST   /api/goals/{id}/status         pause, resume or complete
  DELETE /api/goals/{id}                delete a goal
  POST   /api/insights/{health,trends,goals}?days=30
  GET    /api/insights?days=30          insight log
  GET    /api/export/{entries,goals}.csv
  POST   /api/import/{entries,goals}    CSV body
  GET    /healthz

The listen address comes from --addr, HEALTHDASH_HTTP_ADDR, or :8080.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.GetHTTPAddr()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		handler := api.RegisterRoutes(http.NewServeMux(), api.NewHandler(repo, insightSvc, appLog), appLog)
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			appLog.Info("http server listening", "addr", addr, "backend", cfg.Backend(), "ai_provider", insightSvc.Provider())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			appLog.Info("http server shutting down")
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to read and log health data through a
standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "healthdash": {
        "command": "healthdash",
        "args": ["mcp"],
        "env": {"DATABASE_URL": "sqlite://~/.local/share/healthdash/healthdash.db"}
      }
    }
  }

AVAILABLE TOOLS:

  log_entry             Log or replace a day's entry
  list_entries          List recent entries
  get_entry             Get one day's entry
  delete_entry          Delete a day's entry
  health_score          Score, factors and recent averages
  add_goal              Create a goal
  list_goals            List goals with progress
  update_goal_progress  Record goal progress
  generate_insights     Overall health assessment
  analyze_trends        Trend and pattern analysis
  recommend_goals       Suggested goals

AVAILABLE RESOURCES:

  health://recent       Last 7 entries
  health://summary      Score, averages and data quality
  health://goals        Active goals`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, insightSvc, appLog, version)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd, mcpCmd)
}
