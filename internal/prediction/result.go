package prediction

import (
	"time"

	"heart-risk/internal/model"
)

const (
	MessageAtRisk    = "The model predicts that the patient is at risk of heart disease."
	MessageNotAtRisk = "The model predicts that the patient is not at risk of heart disease."
)

// Split is the two-slice chart shown next to a result, in percent.
// It is chosen from the label alone and is not a model probability.
type Split struct {
	AtRisk       int  `json:"at_risk"`
	Healthy      int  `json:"healthy"`
	Illustrative bool `json:"illustrative"`
}

// Result is what a submission renders.
type Result struct {
	ID           string      `json:"id"`
	Label        model.Label `json:"label"`
	AtRisk       bool        `json:"at_risk"`
	Message      string      `json:"message"`
	Split        Split       `json:"display_split"`
	Probability  *float64    `json:"at_risk_probability,omitempty"`
	Features     []float64   `json:"features"`
	ModelVersion string      `json:"model_version"`
	ModelNote    string      `json:"model_note,omitempty"`
	Cached       bool        `json:"cached"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Outcome maps a label to its fixed message and display split.
func Outcome(label model.Label) (string, Split) {
	if label == model.AtRisk {
		return MessageAtRisk, Split{AtRisk: 70, Healthy: 30, Illustrative: true}
	}
	return MessageNotAtRisk, Split{AtRisk: 30, Healthy: 70, Illustrative: true}
}
