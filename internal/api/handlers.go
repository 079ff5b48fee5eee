// ABOUTME: HTTP handlers for entries, goals, scoring, insights and CSV transfer.
// ABOUTME: Handlers are thin glue over storage, scoring and the insight service.
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/healthdash/internal/apperr"
	"github.com/harperreed/healthdash/internal/charts"
	"github.com/harperreed/healthdash/internal/insights"
	"github.com/harperreed/healthdash/internal/models"
	"github.com/harperreed/healthdash/internal/scoring"
	"github.com/harperreed/healthdash/internal/storage"
)

// DefaultDays is the lookback used when a request omits ?days.
const DefaultDays = 30

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	repo     storage.Repository
	insights *insights.Service
	log      *log.Logger
}

// NewHandler creates a new API handler.
func NewHandler(repo storage.Repository, svc *insights.Service, logger *log.Logger) *Handler {
	return &Handler{repo: repo, insights: svc, log: logger}
}

/* ---------------- entries ---------------- */

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	days, err := queryDays(r, DefaultDays)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	entries, err := h.repo.ListEntries(r.Context(), days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*models.HealthEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) SaveEntry(w http.ResponseWriter, r *http.Request) {
	var in models.EntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	e, err := in.ToEntry()
	if err != nil {
		h.writeError(w, r, apperr.Validation([]string{err.Error()}))
		return
	}
	if err := h.repo.SaveEntry(r.Context(), e); err != nil {
		h.writeError(w, r, err)
		return
	}
	saved, err := h.repo.GetEntry(r.Context(), e.Date)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	day, err := models.ParseDate(r.PathValue("date"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	e, err := h.repo.GetEntry(r.Context(), day)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	day, err := models.ParseDate(r.PathValue("date"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := h.repo.DeleteEntry(r.Context(), day); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* ---------------- analytics ---------------- */

func (h *Handler) allEntries(w http.ResponseWriter, r *http.Request) ([]*models.HealthEntry, bool) {
	entries, err := h.repo.ListEntries(r.Context(), 0)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return entries, true
}

func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
	if entries, ok := h.allEntries(w, r); ok {
		writeJSON(w, http.StatusOK, scoring.Score(entries))
	}
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	if entries, ok := h.allEntries(w, r); ok {
		writeJSON(w, http.StatusOK, scoring.Overview(entries))
	}
}

func (h *Handler) GetQuality(w http.ResponseWriter, r *http.Request) {
	if entries, ok := h.allEntries(w, r); ok {
		writeJSON(w, http.StatusOK, scoring.DataQuality(entries))
	}
}

// GetTrends reports the half-over-half percentage change per metric.
// Metrics with fewer than two readings are omitted.
func (h *Handler) GetTrends(w http.ResponseWriter, r *http.Request) {
	days, err := queryDays(r, DefaultDays)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	entries, err := h.repo.ListEntries(r.Context(), days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	series := map[string][]float64{
		"weight":           scoring.Weights(entries),
		"bp_systolic":      scoring.Systolics(entries),
		"bp_diastolic":     scoring.Diastolics(entries),
		"heart_rate":       scoring.HeartRates(entries),
		"sleep_hours":      scoring.SleepHours(entries),
		"exercise_minutes": scoring.ExerciseMinutes(entries),
	}
	out := map[string]float64{}
	for name, values := range series {
		if change, ok := scoring.TrendChange(values); ok {
			out[name] = scoring.Round2(change)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetCharts(w http.ResponseWriter, r *http.Request) {
	days, err := queryDays(r, DefaultDays)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	entries, err := h.repo.ListEntries(r.Context(), days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, charts.BuildSeries(entries))
}

/* ---------------- goals ---------------- */

func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	var status *models.GoalStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		if !models.IsValidGoalStatus(raw) {
			badRequest(w, "unknown goal status: "+raw)
			return
		}
		s := models.GoalStatus(raw)
		status = &s
	}
	goals, err := h.repo.ListGoals(r.Context(), status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if goals == nil {
		goals = []*models.Goal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var in models.GoalInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	g, err := in.ToGoal()
	if err != nil {
		h.writeError(w, r, apperr.Validation([]string{err.Error()}))
		return
	}
	if err := h.repo.CreateGoal(r.Context(), g); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

type progressRequest struct {
	Value *float64 `json:"value"`
}

func (h *Handler) UpdateGoalProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		badRequest(w, "body must be {\"value\": number}")
		return
	}
	g, err := h.repo.UpdateGoalProgress(r.Context(), r.PathValue("id"), *req.Value)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) SetGoalStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	g, err := h.repo.SetGoalStatus(r.Context(), r.PathValue("id"), models.GoalStatus(req.Status))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteGoal(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* ---------------- insights ---------------- */

func (h *Handler) HealthInsights(w http.ResponseWriter, r *http.Request) {
	days, err := queryDays(r, insights.DefaultDays)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	res, err := h.insights.GenerateHealthInsights(r.Context(), days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) TrendInsights(w http.ResponseWriter, r *http.Request) {
	days, err := queryDays(r, insights.DefaultDays)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	res, err := h.insights.AnalyzeTrends(r.Context(), days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) GoalInsights(w http.ResponseWriter, r *http.Request) {
	days, err := queryDays(r, insights.DefaultDays)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	res, err := h.insights.RecommendGoals(r.Context(), days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) ListInsights(w http.ResponseWriter, r *http.Request) {
	days, err := queryDays(r, DefaultDays)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	list, err := h.repo.ListInsights(r.Context(), days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Insight{}
	}
	writeJSON(w, http.StatusOK, list)
}

/* ---------------- CSV ---------------- */

// ExportCSV serves GET /api/export/{file} where file is entries.csv or goals.csv.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	table, ok := strings.CutSuffix(r.PathValue("file"), ".csv")
	if !ok {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	var err error
	switch table {
	case "entries":
		err = storage.WriteEntriesCSV(r.Context(), h.repo, &buf)
	case "goals":
		err = storage.WriteGoalsCSV(r.Context(), h.repo, &buf)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+table+".csv\"")
	_, _ = w.Write(buf.Bytes())
}

type importResponse struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped"`
}

// ImportCSV upserts rows from a CSV request body.
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	var (
		sum *storage.ImportSummary
		err error
	)
	switch r.PathValue("table") {
	case "entries":
		sum, err = storage.ReadEntriesCSV(r.Context(), h.repo, r.Body)
	case "goals":
		sum, err = storage.ReadGoalsCSV(r.Context(), h.repo, r.Body)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	skipped := sum.Skipped
	if skipped == nil {
		skipped = []string{}
	}
	writeJSON(w, http.StatusOK, importResponse{Imported: sum.Imported, Skipped: skipped})
}

/* ---------------- health ---------------- */

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"ai_provider": h.insights.Provider(),
		"ai_enabled":  h.insights.Available(),
	})
}
