package api

import (
	"errors"
	"net/http"

	"heart-risk/internal/metrics"
	"heart-risk/internal/patient"
	"heart-risk/internal/render"

	"go.uber.org/zap"
)

const failureMessage = "The prediction could not be computed. Please try again later."

/* ---------------- GET / ---------------- */

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, render.FormView(nil, nil))
}

/* ---------------- POST /predict ---------------- */

// SubmitForm runs one submission. A rejected or failed submission renders the form
// again with the submitted values; a successful one renders the result below it.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	h.metrics.Inc(metrics.SubmissionsTotal)

	if err := r.ParseForm(); err != nil {
		h.metrics.Inc(metrics.SubmissionsRejectedTotal)
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	raw, err := patient.Collect(r.PostForm)
	if err != nil {
		h.rejectForm(w, r, err)
		return
	}
	in, err := patient.Normalize(raw)
	if err != nil {
		h.rejectForm(w, r, err)
		return
	}

	res, err := h.service.Predict(r.Context(), in)
	if err != nil {
		h.log(r).Error("inference failed", zap.Error(err))
		h.renderPage(w, r, http.StatusInternalServerError, render.FailureView(r.PostForm, failureMessage))
		return
	}
	h.renderPage(w, r, http.StatusOK, render.ResultView(raw, res))
}

func (h *Handler) rejectForm(w http.ResponseWriter, r *http.Request, err error) {
	h.metrics.Inc(metrics.SubmissionsRejectedTotal)

	var verrs patient.ValidationErrors
	errors.As(err, &verrs)
	h.log(r).Info("submission rejected", zap.Int("field_errors", len(verrs)))
	h.renderPage(w, r, http.StatusBadRequest, render.FormView(r.PostForm, verrs))
}
