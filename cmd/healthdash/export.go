// ABOUTME: CLI commands for exporting and importing health data.
// ABOUTME: Supports JSON, YAML, Markdown and CSV formats.
package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthdash/internal/models"
	"github.com/harperreed/healthdash/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
	exportTable  string
	importTable  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export health data",
	Long: `Export health data in various formats.

FORMATS:

  json       Full JSON export (entries, goals and insights; for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Markdown tables (for documentation/sharing)
  csv        One table as CSV (--table entries or goals)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include entries since this date (markdown only)
  --table        Table to export as CSV (default entries)

EXAMPLES:

  healthdash export json -o backup.json
  healthdash export yaml
  healthdash export markdown --since 2026-01-01
  healthdash export csv --table goals -o goals.csv`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown", "csv"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = storage.ExportJSON(ctx, repo)
		case "yaml":
			data, err = storage.ExportYAML(ctx, repo)
		case "markdown", "md":
			var since *time.Time
			if exportSince != "" {
				t, perr := models.ParseDate(exportSince)
				if perr != nil {
					return perr
				}
				since = &t
			}
			var md string
			md, err = storage.ExportMarkdown(ctx, repo, since)
			data = []byte(md)
		case "csv":
			var buf bytes.Buffer
			switch exportTable {
			case "entries":
				err = storage.WriteEntriesCSV(ctx, repo, &buf)
			case "goals":
				err = storage.WriteGoalsCSV(ctx, repo, &buf)
			default:
				return fmt.Errorf("unknown table: %s (use entries or goals)", exportTable)
			}
			data = buf.Bytes()
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, markdown, or csv)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Print(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import health data from JSON or CSV",
	Long: `Import health data from a JSON backup or a CSV table.

JSON files restore entries, goals and insights. Entries replace any entry
on the same date; goals and insights with the same ID are overwritten.

CSV files (by .csv extension) load one table, chosen with --table.
Rows that fail to parse or validate are skipped and reported.

EXAMPLES:

  healthdash import backup.json
  healthdash import entries.csv
  healthdash import goals.csv --table goals`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		filename := args[0]

		if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			if err := storage.ImportJSON(ctx, repo, data); err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			color.Green("✓ Imported from %s", filename)
			return nil
		}

		f, err := os.Open(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		defer f.Close()

		var summary *storage.ImportSummary
		switch importTable {
		case "entries":
			summary, err = storage.ReadEntriesCSV(ctx, repo, f)
		case "goals":
			summary, err = storage.ReadGoalsCSV(ctx, repo, f)
		default:
			return fmt.Errorf("unknown table: %s (use entries or goals)", importTable)
		}
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported %d %s from %s", summary.Imported, importTable, filename)
		for _, s := range summary.Skipped {
			fmt.Printf("  %s %s\n", color.YellowString("✗"), s)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include entries since date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTable, "table", "entries", "table for CSV export (entries, goals)")
	importCmd.Flags().StringVar(&importTable, "table", "entries", "table for CSV import (entries, goals)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
