// ABOUTME: JSON response helpers and error-to-status mapping.
// ABOUTME: Validation errors carry their detail messages in the body.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/harperreed/healthdash/internal/apperr"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err through apperr and hides internals of server errors.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	resp := errorResponse{Error: err.Error(), Details: apperr.Details(err)}

	var ae *apperr.Error
	if errors.As(err, &ae) && len(ae.Details) > 0 {
		resp.Error = ae.Message
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", r.URL.Path, "err", err)
		resp.Error = http.StatusText(status)
		if errors.As(err, &ae) && ae.Message != "" {
			resp.Error = ae.Message
		}
	}
	writeJSON(w, status, resp)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// queryDays reads ?days=N, falling back to def when absent.
func queryDays(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("days must be a non-negative integer")
	}
	return n, nil
}
