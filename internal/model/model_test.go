package model

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var heartFeatures = []string{
	"age", "anaemia", "creatinine_phosphokinase", "diabetes", "ejection_fraction",
	"high_blood_pressure", "platelets", "serum_creatinine", "serum_sodium", "sex", "smoking", "time",
}

// stump splits once on feature 0 at 10: left leaf favors class 0, right leaf class 1.
func stump(left, right []float64) TreeParams {
	return TreeParams{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{0, -2, -2},
		Threshold:     []float64{10, -2, -2},
		Value:         [][]float64{{5, 5}, left, right},
	}
}

func mustParse(t *testing.T, a Artifact) Classifier {
	t.Helper()
	data, err := json.Marshal(a)
	require.NoError(t, err)
	c, err := Parse(data)
	require.NoError(t, err)
	return c
}

/* ---------------- shipped artifact ---------------- */

func TestLoad_ShippedArtifact(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "models", "heart_failure_model.json"))
	require.NoError(t, err)

	assert.Equal(t, heartFeatures, c.Features())
	assert.Equal(t, 12, c.NumFeatures())
	assert.Regexp(t, `^logistic@[0-9a-f]{12}$`, c.Version())
	assert.Contains(t, DescriptionOf(c), "PLACEHOLDER, not a trained model")

	declared, err := CheckSchema(c, heartFeatures)
	require.NoError(t, err)
	assert.True(t, declared)

	t.Run("ReferenceScenario", func(t *testing.T) {
		vec := []float64{50, 0, 250, 0, 50, 0, 250000.0, 1.0, 135, 1, 0, 150}
		p, err := c.Predict(context.Background(), vec)
		require.NoError(t, err)
		assert.Equal(t, NotAtRisk, p.Label)
		assert.True(t, p.HasProbability)
		assert.Less(t, p.Probability, 0.1)
	})

	t.Run("HighRiskProfile", func(t *testing.T) {
		vec := []float64{85, 1, 2000, 1, 15, 1, 200000.0, 5.0, 120, 1, 1, 10}
		p, err := c.Predict(context.Background(), vec)
		require.NoError(t, err)
		assert.Equal(t, AtRisk, p.Label)
		assert.Greater(t, p.Probability, 0.9)
	})

	t.Run("Deterministic", func(t *testing.T) {
		vec := []float64{70, 1, 500, 0, 30, 1, 300000.0, 1.8, 132, 0, 0, 60}
		first, err := c.Predict(context.Background(), vec)
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			again, err := c.Predict(context.Background(), vec)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

/* ---------------- logistic ---------------- */

func TestLogistic(t *testing.T) {
	c := mustParse(t, Artifact{
		FormatVersion: 1,
		Kind:          KindLogistic,
		Logistic:      &LogisticParams{Intercept: -1, Coefficients: []float64{1, 0}},
	})

	p, err := c.Predict(context.Background(), []float64{2, 99})
	require.NoError(t, err)
	assert.Equal(t, AtRisk, p.Label)
	assert.InDelta(t, 0.7310585786, p.Probability, 1e-9)

	p, err = c.Predict(context.Background(), []float64{0.5, 99})
	require.NoError(t, err)
	assert.Equal(t, NotAtRisk, p.Label)

	_, err = c.Predict(context.Background(), []float64{1})
	assert.ErrorIs(t, err, ErrFeatureCount)
}

func TestLogistic_ZeroDecisionIsNotAtRisk(t *testing.T) {
	t.Run("ZeroModel", func(t *testing.T) {
		c := mustParse(t, Artifact{
			FormatVersion: 1,
			Kind:          KindLogistic,
			Logistic:      &LogisticParams{Intercept: 0, Coefficients: []float64{0, 0}},
		})

		p, err := c.Predict(context.Background(), []float64{3, -7})
		require.NoError(t, err)
		assert.Equal(t, NotAtRisk, p.Label)
		assert.InDelta(t, 0.5, p.Probability, 1e-12)
	})

	t.Run("InterceptCancelsInput", func(t *testing.T) {
		c := mustParse(t, Artifact{
			FormatVersion: 1,
			Kind:          KindLogistic,
			Logistic:      &LogisticParams{Intercept: -1, Coefficients: []float64{1, 0}},
		})

		p, err := c.Predict(context.Background(), []float64{1, 99})
		require.NoError(t, err)
		assert.Equal(t, NotAtRisk, p.Label, "decision function of exactly 0")
		assert.InDelta(t, 0.5, p.Probability, 1e-12)
	})
}

func TestLogistic_Scaler(t *testing.T) {
	c := mustParse(t, Artifact{
		FormatVersion: 1,
		Kind:          KindLogistic,
		Logistic: &LogisticParams{
			Coefficients: []float64{1},
			Scaler:       &ScalerParams{Mean: []float64{100}, Scale: []float64{10}},
		},
	})

	p, err := c.Predict(context.Background(), []float64{90})
	require.NoError(t, err)
	assert.Equal(t, NotAtRisk, p.Label)

	p, err = c.Predict(context.Background(), []float64{110})
	require.NoError(t, err)
	assert.Equal(t, AtRisk, p.Label)
}

/* ---------------- forest ---------------- */

func TestForest(t *testing.T) {
	c := mustParse(t, Artifact{
		FormatVersion: 1,
		Kind:          KindForest,
		NumFeatures:   2,
		Forest: &ForestParams{Trees: []TreeParams{
			stump([]float64{9, 1}, []float64{1, 9}),
			stump([]float64{8, 2}, []float64{0, 10}),
		}},
	})

	t.Run("GoesLeftOnEqualThreshold", func(t *testing.T) {
		p, err := c.Predict(context.Background(), []float64{10, 0})
		require.NoError(t, err)
		assert.Equal(t, NotAtRisk, p.Label)
		assert.InDelta(t, 0.15, p.Probability, 1e-12)
	})

	t.Run("Right", func(t *testing.T) {
		p, err := c.Predict(context.Background(), []float64{10.5, 0})
		require.NoError(t, err)
		assert.Equal(t, AtRisk, p.Label)
		assert.InDelta(t, 0.95, p.Probability, 1e-12)
	})

	t.Run("WrongLength", func(t *testing.T) {
		_, err := c.Predict(context.Background(), []float64{1, 2, 3})
		assert.ErrorIs(t, err, ErrFeatureCount)
	})
}

func TestForest_TieIsNotAtRisk(t *testing.T) {
	c := mustParse(t, Artifact{
		FormatVersion: 1,
		Kind:          KindForest,
		NumFeatures:   1,
		Forest: &ForestParams{Trees: []TreeParams{
			stump([]float64{3, 3}, []float64{3, 3}),
		}},
	})

	p, err := c.Predict(context.Background(), []float64{0})
	require.NoError(t, err)
	assert.Equal(t, NotAtRisk, p.Label)
	assert.InDelta(t, 0.5, p.Probability, 1e-12)
}

/* ---------------- artifact validation ---------------- */

func TestParse_Invalid(t *testing.T) {
	cases := map[string]Artifact{
		"WrongFormatVersion": {FormatVersion: 2, Kind: KindLogistic,
			Logistic: &LogisticParams{Coefficients: []float64{1}}},
		"UnknownKind":           {FormatVersion: 1, Kind: "svm"},
		"LogisticWithoutParams": {FormatVersion: 1, Kind: KindLogistic},
		"NoCoefficients": {FormatVersion: 1, Kind: KindLogistic,
			Logistic: &LogisticParams{}},
		"NameCountMismatch": {FormatVersion: 1, Kind: KindLogistic, FeatureNames: []string{"a"},
			Logistic: &LogisticParams{Coefficients: []float64{1, 2}}},
		"ZeroScale": {FormatVersion: 1, Kind: KindLogistic,
			Logistic: &LogisticParams{Coefficients: []float64{1},
				Scaler: &ScalerParams{Mean: []float64{0}, Scale: []float64{0}}}},
		"ForestWithoutTrees": {FormatVersion: 1, Kind: KindForest, NumFeatures: 1,
			Forest: &ForestParams{}},
		"ForestWithoutFeatureCount": {FormatVersion: 1, Kind: KindForest,
			Forest: &ForestParams{Trees: []TreeParams{stump([]float64{1, 0}, []float64{0, 1})}}},
		"SplitFeatureOutOfRange": {FormatVersion: 1, Kind: KindForest, NumFeatures: 1,
			Forest: &ForestParams{Trees: []TreeParams{{
				ChildrenLeft: []int{1, -1, -1}, ChildrenRight: []int{2, -1, -1},
				Feature: []int{3, -2, -2}, Threshold: []float64{0, 0, 0},
				Value: [][]float64{{1, 1}, {1, 0}, {0, 1}},
			}}}},
		"ChildPointsBackwards": {FormatVersion: 1, Kind: KindForest, NumFeatures: 1,
			Forest: &ForestParams{Trees: []TreeParams{{
				ChildrenLeft: []int{1, 0, -1}, ChildrenRight: []int{2, 2, -1},
				Feature: []int{0, 0, -2}, Threshold: []float64{0, 0, 0},
				Value: [][]float64{{1, 1}, {1, 0}, {0, 1}},
			}}}},
		"ThreeClasses": {FormatVersion: 1, Kind: KindForest, NumFeatures: 1,
			Forest: &ForestParams{Trees: []TreeParams{{
				ChildrenLeft: []int{-1}, ChildrenRight: []int{-1},
				Feature: []int{-2}, Threshold: []float64{-2},
				Value: [][]float64{{1, 1, 1}},
			}}}},
	}

	for name, a := range cases {
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(a)
			require.NoError(t, err)
			_, err = Parse(data)
			assert.ErrorIs(t, err, ErrInvalidArtifact)
		})
	}

	t.Run("NotJSON", func(t *testing.T) {
		_, err := Parse([]byte("\x80\x04pickle"))
		assert.ErrorIs(t, err, ErrInvalidArtifact)
	})
}

func TestParse_VersionTracksContent(t *testing.T) {
	a := Artifact{FormatVersion: 1, Kind: KindLogistic,
		Logistic: &LogisticParams{Coefficients: []float64{1}}}
	first := mustParse(t, a)

	a.Logistic.Intercept = 0.25
	second := mustParse(t, a)

	assert.NotEqual(t, first.Version(), second.Version())
}

func TestDescriptionOf(t *testing.T) {
	forest := mustParse(t, Artifact{
		FormatVersion: 1,
		Kind:          KindForest,
		Description:   "exported from sklearn",
		NumFeatures:   1,
		Forest:        &ForestParams{Trees: []TreeParams{stump([]float64{1, 0}, []float64{0, 1})}},
	})
	assert.Equal(t, "exported from sklearn", DescriptionOf(forest))

	bare := mustParse(t, Artifact{FormatVersion: 1, Kind: KindLogistic,
		Logistic: &LogisticParams{Coefficients: []float64{1}}})
	assert.Empty(t, DescriptionOf(bare))

	remote := &Remote{version: "remote@x"}
	assert.Empty(t, DescriptionOf(remote))
}

/* ---------------- schema check ---------------- */

func TestCheckSchema(t *testing.T) {
	named := func(names []string) Classifier {
		return mustParse(t, Artifact{FormatVersion: 1, Kind: KindLogistic, FeatureNames: names,
			Logistic: &LogisticParams{Coefficients: make([]float64, len(names))}})
	}

	t.Run("ExactMatch", func(t *testing.T) {
		declared, err := CheckSchema(named(heartFeatures), heartFeatures)
		assert.NoError(t, err)
		assert.True(t, declared)
	})

	t.Run("Reordered", func(t *testing.T) {
		swapped := append([]string(nil), heartFeatures...)
		swapped[1], swapped[9] = swapped[9], swapped[1]

		_, err := CheckSchema(named(swapped), heartFeatures)
		assert.ErrorIs(t, err, ErrSchemaMismatch)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := CheckSchema(named(heartFeatures[:11]), heartFeatures)
		assert.ErrorIs(t, err, ErrSchemaMismatch)
	})

	t.Run("UndeclaredCountMatches", func(t *testing.T) {
		c := mustParse(t, Artifact{FormatVersion: 1, Kind: KindLogistic,
			Logistic: &LogisticParams{Coefficients: make([]float64, 12)}})
		declared, err := CheckSchema(c, heartFeatures)
		assert.NoError(t, err)
		assert.False(t, declared)
	})

	t.Run("UndeclaredCountDiffers", func(t *testing.T) {
		c := mustParse(t, Artifact{FormatVersion: 1, Kind: KindLogistic,
			Logistic: &LogisticParams{Coefficients: make([]float64, 13)}})
		_, err := CheckSchema(c, heartFeatures)
		assert.ErrorIs(t, err, ErrSchemaMismatch)
	})
}
