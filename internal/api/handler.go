package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"heart-risk/internal/health"
	"heart-risk/internal/history"
	"heart-risk/internal/logs"
	"heart-risk/internal/metrics"
	"heart-risk/internal/prediction"
	"heart-risk/internal/render"

	"go.uber.org/zap"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	service  *prediction.Service
	renderer *render.Renderer
	metrics  *metrics.Registry
	analyzer *health.Analyzer
	history  history.Repository
	logger   *zap.Logger
}

// NewHandler creates a new API handler. repo may be nil when history is disabled;
// ring may be nil, in which case /health only looks at metrics.
func NewHandler(
	service *prediction.Service,
	renderer *render.Renderer,
	reg *metrics.Registry,
	ring *logs.Ring,
	repo history.Repository,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		service:  service,
		renderer: renderer,
		metrics:  reg,
		analyzer: health.NewAnalyzer(reg, ring),
		history:  repo,
		logger:   logger,
	}
}

// log returns the handler logger tagged with the request id.
func (h *Handler) log(r *http.Request) *zap.Logger {
	if id := RequestIDFrom(r.Context()); id != "" {
		return h.logger.With(zap.String("request_id", id))
	}
	return h.logger
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, view render.View) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, view); err != nil {
		h.log(r).Error("render page failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

type errorResponse struct {
	Error  string             `json:"error"`
	Fields []fieldErrorOutput `json:"fields,omitempty"`
}

type fieldErrorOutput struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

/* ---------------- GET /metrics ---------------- */

func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.metrics.Snapshot())
}

/* ---------------- GET /health ---------------- */

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.analyzer.Analyze())
}
