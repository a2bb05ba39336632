package api

import (
	"bytes"
	"net/http"
	"strconv"

	"heart-risk/internal/history"
	"heart-risk/internal/patient"

	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// historyLimit reads ?limit=, defaulting to 50 and capping at 500.
func historyLimit(r *http.Request) (int, bool) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return defaultHistoryLimit, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	if n > maxHistoryLimit {
		n = maxHistoryLimit
	}
	return n, true
}

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) ([]history.Record, bool) {
	if h.history == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: history.ErrDisabled.Error()})
		return nil, false
	}

	limit, ok := historyLimit(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
		return nil, false
	}

	records, err := h.history.List(r.Context(), limit)
	if err != nil {
		h.log(r).Error("list prediction history failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "history unavailable"})
		return nil, false
	}
	return records, true
}

/* ---------------- GET /admin/predictions ---------------- */

func (h *Handler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	records, ok := h.listHistory(w, r)
	if !ok {
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

/* ---------------- GET /admin/predictions.xlsx ---------------- */

func (h *Handler) ExportPredictions(w http.ResponseWriter, r *http.Request) {
	records, ok := h.listHistory(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := history.WriteXLSX(&buf, records, patient.FeatureOrder); err != nil {
		h.log(r).Error("export prediction history failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "export failed"})
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="predictions.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}
