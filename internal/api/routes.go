// ABOUTME: Route table for the JSON HTTP API.
// ABOUTME: Registers method-scoped patterns on a ServeMux behind recovery and logging.
package api

import (
	"net/http"

	"github.com/charmbracelet/log"
)

// RegisterRoutes mounts every endpoint on mux and wraps it in the
// recovery and logging middleware.
func RegisterRoutes(mux *http.ServeMux, h *Handler, logger *log.Logger) http.Handler {
	// Entries
	mux.HandleFunc("GET /api/entries", h.ListEntries)
	mux.HandleFunc("POST /api/entries", h.SaveEntry)
	mux.HandleFunc("GET /api/entries/{date}", h.GetEntry)
	mux.HandleFunc("DELETE /api/entries/{date}", h.DeleteEntry)

	// Analytics
	mux.HandleFunc("GET /api/score", h.GetScore)
	mux.HandleFunc("GET /api/overview", h.GetOverview)
	mux.HandleFunc("GET /api/quality", h.GetQuality)
	mux.HandleFunc("GET /api/trends", h.GetTrends)
	mux.HandleFunc("GET /api/charts", h.GetCharts)

	// Goals
	mux.HandleFunc("GET /api/goals", h.ListGoals)
	mux.HandleFunc("POST /api/goals", h.CreateGoal)
	mux.HandleFunc("POST /api/goals/{id}/progress", h.UpdateGoalProgress)
	mux.HandleFunc("POST /api/goals/{id}/status", h.SetGoalStatus)
	mux.HandleFunc("DELETE /api/goals/{id}", h.DeleteGoal)

	// Insights
	mux.HandleFunc("POST /api/insights/health", h.HealthInsights)
	mux.HandleFunc("POST /api/insights/trends", h.TrendInsights)
	mux.HandleFunc("POST /api/insights/goals", h.GoalInsights)
	mux.HandleFunc("GET /api/insights", h.ListInsights)

	// CSV transfer
	mux.HandleFunc("GET /api/export/{file}", h.ExportCSV)
	mux.HandleFunc("POST /api/import/{table}", h.ImportCSV)

	mux.HandleFunc("GET /healthz", h.Healthz)

	return Chain(
		mux,
		Recovery(logger),
		Logging(logger),
	)
}
