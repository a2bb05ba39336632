package model

import (
	"context"
	"math"
)

// Logistic is a linear model with an optional standard scaler in front of it.
type Logistic struct {
	features     []string
	version      string
	description  string
	intercept    float64
	coefficients []float64
	mean         []float64
	scale        []float64
}

func (m *Logistic) Features() []string { return m.features }
func (m *Logistic) NumFeatures() int   { return len(m.coefficients) }
func (m *Logistic) Version() string    { return m.version }

func (m *Logistic) Description() string { return m.description }

// Predict returns AtRisk when the decision function is strictly positive, so a
// probability of exactly 0.5 is NotAtRisk.
func (m *Logistic) Predict(_ context.Context, features []float64) (Prediction, error) {
	if err := checkCount(features, len(m.coefficients)); err != nil {
		return Prediction{}, err
	}

	z := m.intercept
	for i, x := range features {
		if m.scale != nil {
			x = (x - m.mean[i]) / m.scale[i]
		}
		z += m.coefficients[i] * x
	}
	p := 1 / (1 + math.Exp(-z))

	label := NotAtRisk
	if z > 0 {
		label = AtRisk
	}
	return Prediction{Label: label, Probability: p, HasProbability: true}, nil
}
