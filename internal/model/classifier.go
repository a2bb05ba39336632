// Package model loads the pre-trained heart-disease classifier and evaluates it
// on single feature vectors.
package model

import (
	"context"
	"errors"
	"fmt"
)

// Label is the binary class returned by the classifier.
type Label int

const (
	NotAtRisk Label = 0
	AtRisk    Label = 1
)

func (l Label) String() string {
	if l == AtRisk {
		return "at_risk"
	}
	return "not_at_risk"
}

// Prediction is the outcome of one inference call.
// Probability is the model's estimate for AtRisk and is meaningful only when
// HasProbability is set.
type Prediction struct {
	Label          Label
	Probability    float64
	HasProbability bool
}

// Classifier is a loaded model. Implementations are read-only after construction
// and safe for concurrent use.
type Classifier interface {
	// Predict classifies one sample.
	Predict(ctx context.Context, features []float64) (Prediction, error)
	// Features returns the declared input column names, or nil if the artifact has none.
	Features() []string
	// NumFeatures is the expected length of a sample.
	NumFeatures() int
	// Version identifies the loaded artifact.
	Version() string
}

// Describer is implemented by classifiers whose artifact carries a free-text
// description, such as provenance or a warning that the weights are not trained.
type Describer interface {
	Description() string
}

// DescriptionOf returns c's description, or "" when it has none.
func DescriptionOf(c Classifier) string {
	if d, ok := c.(Describer); ok {
		return d.Description()
	}
	return ""
}

var (
	ErrFeatureCount   = errors.New("feature count mismatch")
	ErrSchemaMismatch = errors.New("feature schema mismatch")
)

func checkCount(features []float64, want int) error {
	if len(features) != want {
		return fmt.Errorf("%w: got %d values, model expects %d", ErrFeatureCount, len(features), want)
	}
	return nil
}
