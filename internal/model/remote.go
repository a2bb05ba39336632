package model

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Remote delegates inference to an HTTP server that hosts the serialized model.
//
//	GET  /metadata -> {"feature_names": [...], "n_features": 12, "version": "..."}
//	POST /predict  {"instances": [[...]]} -> {"predictions": [0|1], "probabilities": [[p0, p1]]}
//
// Requests are never retried.
type Remote struct {
	client      *resty.Client
	features    []string
	numFeatures int
	version     string
}

type metadataResponse struct {
	FeatureNames []string `json:"feature_names"`
	NumFeatures  int      `json:"n_features"`
	Version      string   `json:"version"`
}

type predictRequest struct {
	Instances [][]float64 `json:"instances"`
}

type predictResponse struct {
	Predictions   []int       `json:"predictions"`
	Probabilities [][]float64 `json:"probabilities,omitempty"`
}

// NewRemote connects to baseURL and reads the model metadata once.
func NewRemote(ctx context.Context, baseURL string, timeout time.Duration) (*Remote, error) {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	var meta metadataResponse
	resp, err := client.R().
		SetContext(ctx).
		SetResult(&meta).
		Get("/metadata")
	if err != nil {
		return nil, fmt.Errorf("fetch model metadata: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch model metadata: status %d: %s", resp.StatusCode(), resp.String())
	}

	n := meta.NumFeatures
	if n == 0 {
		n = len(meta.FeatureNames)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: remote metadata declares no features", ErrInvalidArtifact)
	}
	if err := checkNames(meta.FeatureNames, n); err != nil {
		return nil, err
	}

	version := meta.Version
	if version == "" {
		version = "unversioned"
	}
	return &Remote{
		client:      client,
		features:    meta.FeatureNames,
		numFeatures: n,
		version:     "remote@" + version,
	}, nil
}

func (m *Remote) Features() []string { return m.features }
func (m *Remote) NumFeatures() int   { return m.numFeatures }
func (m *Remote) Version() string    { return m.version }

func (m *Remote) Predict(ctx context.Context, features []float64) (Prediction, error) {
	if err := checkCount(features, m.numFeatures); err != nil {
		return Prediction{}, err
	}

	var out predictResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(predictRequest{Instances: [][]float64{features}}).
		SetResult(&out).
		Post("/predict")
	if err != nil {
		return Prediction{}, fmt.Errorf("remote predict: %w", err)
	}
	if resp.IsError() {
		return Prediction{}, fmt.Errorf("remote predict: status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(out.Predictions) != 1 {
		return Prediction{}, fmt.Errorf("remote predict: got %d predictions for one sample", len(out.Predictions))
	}

	var p Prediction
	switch out.Predictions[0] {
	case 0:
		p.Label = NotAtRisk
	case 1:
		p.Label = AtRisk
	default:
		return Prediction{}, fmt.Errorf("remote predict: unexpected label %d", out.Predictions[0])
	}
	if len(out.Probabilities) == 1 && len(out.Probabilities[0]) == 2 {
		p.Probability = out.Probabilities[0][1]
		p.HasProbability = true
	}
	return p, nil
}
