package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"heart-risk/internal/metrics"
	"heart-risk/internal/patient"

	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

/* ---------------- POST /api/v1/predict ---------------- */

// PredictJSON accepts the same twelve values as the form, as a JSON object.
// Numbers may be sent as JSON numbers or strings; choices as strings.
func (h *Handler) PredictJSON(w http.ResponseWriter, r *http.Request) {
	h.metrics.Inc(metrics.SubmissionsTotal)

	values, err := decodeValues(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.metrics.Inc(metrics.SubmissionsRejectedTotal)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return
	}

	raw, err := patient.Collect(values)
	if err != nil {
		h.rejectJSON(w, r, err)
		return
	}
	in, err := patient.Normalize(raw)
	if err != nil {
		h.rejectJSON(w, r, err)
		return
	}

	res, err := h.service.Predict(r.Context(), in)
	if err != nil {
		h.log(r).Error("inference failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "inference failed"})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) rejectJSON(w http.ResponseWriter, r *http.Request, err error) {
	h.metrics.Inc(metrics.SubmissionsRejectedTotal)

	resp := errorResponse{Error: "invalid patient input"}
	var verrs patient.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			resp.Fields = append(resp.Fields, fieldErrorOutput{Field: fe.Field, Reason: fe.Reason})
		}
	}
	h.log(r).Info("submission rejected", zap.Int("field_errors", len(resp.Fields)))
	writeJSON(w, http.StatusBadRequest, resp)
}

// decodeValues flattens a JSON object into form values so the JSON API goes
// through the same required/parse/range checks as the form.
func decodeValues(body io.Reader) (url.Values, error) {
	var obj map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("body must be a JSON object")
	}

	values := url.Values{}
	for key, rawValue := range obj {
		text := strings.TrimSpace(string(rawValue))
		switch {
		case text == "null":
			continue
		case strings.HasPrefix(text, `"`):
			var s string
			if err := json.Unmarshal(rawValue, &s); err != nil {
				return nil, err
			}
			values.Set(key, s)
		case strings.HasPrefix(text, "{"), strings.HasPrefix(text, "["):
			// left unset; Collect reports the field as required
			continue
		default:
			values.Set(key, text)
		}
	}
	return values, nil
}

/* ---------------- GET /api/v1/fields ---------------- */

func (h *Handler) GetFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, patient.Fields)
}

/* ---------------- GET /api/v1/model ---------------- */

type modelInfo struct {
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features"`
}

func (h *Handler) GetModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, modelInfo{
		Version:     h.service.ModelVersion(),
		Description: h.service.ModelDescription(),
		Features:    patient.FeatureOrder,
	})
}
