package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"vise/internal/history"
	"vise/pkg/platform/httputil"
)

// defaultHistoryLimit is how many entries GET /api/history returns when no
// limit query parameter is given.
const defaultHistoryLimit = 10

// Handler exposes request stats and history over HTTP.
type Handler struct {
	recorder *history.Recorder
	logger   *slog.Logger
}

// New constructs a history handler over the given recorder.
func New(recorder *history.Recorder, logger *slog.Logger) *Handler {
	return &Handler{
		recorder: recorder,
		logger:   logger,
	}
}

// Register mounts stats and history endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/stats", h.HandleStats)
	r.Get("/api/history", h.HandleHistory)
}

// HandleStats handles GET /api/stats requests.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.recorder.Stats())
}

// HistoryResponse is the HTTP response body for GET /api/history.
type HistoryResponse struct {
	Total    int             `json:"total"`
	Showing  int             `json:"showing"`
	Requests []history.Entry `json:"requests"`
}

// HandleHistory handles GET /api/history requests. The limit query parameter
// bounds how many entries come back; malformed values fall back to the
// default rather than failing the request.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries := h.recorder.Recent(limit)
	httputil.WriteJSON(w, http.StatusOK, HistoryResponse{
		Total:    h.recorder.Total(),
		Showing:  len(entries),
		Requests: entries,
	})
}
