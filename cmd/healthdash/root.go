// ABOUTME: Root Cobra command for the healthdash CLI.
// ABOUTME: Builds config, logger, storage and the insight service in PersistentPreRunE.
package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/healthdash/internal/config"
	"github.com/harperreed/healthdash/internal/insights"
	"github.com/harperreed/healthdash/internal/logger"
	"github.com/harperreed/healthdash/internal/storage"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	databaseURL string
	envFile     string

	cfg        *config.Config
	appLog     *log.Logger
	repo       storage.Repository
	insightSvc *insights.Service
)

// noStorage lists commands that run without opening the database.
var noStorage = map[string]bool{
	"version":       true,
	"help":          true,
	"install-skill": true,
	"completion":    true,
}

var rootCmd = &cobra.Command{
	Use:   "healthdash",
	Short: "Personal health dashboard",
	Long: `healthdash tracks daily health metrics, scores them, manages goals,
and asks a language model for narrative insights.

WHAT IT TRACKS (one entry per day):

  weight (kg), blood pressure (mmHg), resting heart rate (bpm),
  sleep (hours), exercise (minutes), mood, symptoms, notes

QUICK START:

  $ export DATABASE_URL=sqlite://~/.local/share/healthdash/healthdash.db
  $ healthdash log --weight 82.5 --bp 120/80 --sleep 7.5
  $ healthdash log                       # interactive form
  $ healthdash list                      # last 30 days
  $ healthdash score                     # 0-100 health score
  $ healthdash dashboard                 # charts and data quality

GOALS:

  $ healthdash goal add sleep 8 --by 2026-12-31 -d "Sleep 8 hours"
  $ healthdash goal progress abc123 7.5
  $ healthdash goal list

INSIGHTS:

  Set ANTHROPIC_API_KEY (default provider) or HEALTHDASH_AI_PROVIDER=gemini
  with GEMINI_API_KEY, then:

  $ healthdash insights health
  $ healthdash insights trends
  $ healthdash insights goals

SERVERS:

  $ healthdash serve                     # JSON HTTP API on :8080
  $ healthdash mcp                       # MCP server on stdio

CONFIGURATION:

  Settings come from ~/.config/healthdash/config.json, then .env, then the
  environment. DATABASE_URL selects the backend: postgres:// for PostgreSQL,
  sqlite://path or a bare path for SQLite.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		for c := cmd; c != nil; c = c.Parent() {
			if noStorage[c.Name()] {
				return nil
			}
		}
		return setup()
	},
}

// setup loads configuration and builds the shared dependencies.
func setup() error {
	closeRepo()

	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	appLog = logger.New(cfg.LoggerConfig())

	repo, err = cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	appLog.Debug("storage opened", "backend", cfg.Backend())

	insightSvc = insights.NewService(insights.NewCompleter(cfg.ProviderConfig()), repo, appLog)
	return nil
}

// Execute runs the root command and closes storage afterwards, including
// when the command fails.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	closeRepo()
	return err
}

func closeRepo() {
	if repo == nil {
		return
	}
	if err := repo.Close(); err != nil && appLog != nil {
		appLog.Warn("failed to close database", "error", err)
	}
	repo = nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the healthdash version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "healthdash %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "database URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load if present")
	rootCmd.AddCommand(versionCmd)
}
