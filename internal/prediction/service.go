// Package prediction turns a normalized patient record into a displayable result.
package prediction

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"heart-risk/internal/history"
	"heart-risk/internal/metrics"
	"heart-risk/internal/model"
	"heart-risk/internal/patient"
	"heart-risk/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "heart-risk:prediction:"

// Options holds the optional collaborators of a Service.
type Options struct {
	// Cache memoizes predictions by vector. Nil disables caching.
	Cache    store.KV
	CacheTTL time.Duration
	// History records every prediction. Nil disables recording.
	History history.Recorder
}

// Service runs one inference per call against a classifier loaded at startup.
type Service struct {
	classifier model.Classifier
	cache      store.KV
	cacheTTL   time.Duration
	history    history.Recorder
	metrics    *metrics.Registry
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(
	classifier model.Classifier,
	reg *metrics.Registry,
	logger *zap.Logger,
	opts Options,
) *Service {
	return &Service{
		classifier: classifier,
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
		history:    opts.History,
		metrics:    reg,
		logger:     logger,
		now:        time.Now,
	}
}

// ModelVersion identifies the classifier behind this service.
func (s *Service) ModelVersion() string {
	return s.classifier.Version()
}

// ModelDescription is the artifact's free-text description, if any.
func (s *Service) ModelDescription() string {
	return model.DescriptionOf(s.classifier)
}

// Predict classifies in. An inference error is returned as is: there is no retry and
// no fallback label. Cache and history problems are logged and do not fail the call.
func (s *Service) Predict(ctx context.Context, in patient.Input) (*Result, error) {
	vec := in.Vector()
	key := s.cacheKey(vec)

	pred, cached := s.lookup(ctx, key)
	if !cached {
		var err error
		pred, err = s.classifier.Predict(ctx, vec)
		if err != nil {
			s.metrics.Inc(metrics.InferenceFailuresTotal)
			return nil, fmt.Errorf("classifier %s: %w", s.classifier.Version(), err)
		}
		s.remember(ctx, key, pred)
	}

	s.metrics.Inc(metrics.PredictionsTotal)
	if pred.Label == model.AtRisk {
		s.metrics.Inc(metrics.PredictionsAtRiskTotal)
	} else {
		s.metrics.Inc(metrics.PredictionsNotAtRiskTotal)
	}

	msg, split := Outcome(pred.Label)
	res := &Result{
		ID:           uuid.NewString(),
		Label:        pred.Label,
		AtRisk:       pred.Label == model.AtRisk,
		Message:      msg,
		Split:        split,
		Features:     vec,
		ModelVersion: s.classifier.Version(),
		ModelNote:    model.DescriptionOf(s.classifier),
		Cached:       cached,
		CreatedAt:    s.now().UTC(),
	}
	if pred.HasProbability {
		p := pred.Probability
		res.Probability = &p
	}

	s.record(ctx, res)
	return res, nil
}

// cachedPrediction is the JSON stored under a cache key.
type cachedPrediction struct {
	Label       model.Label `json:"label"`
	Probability *float64    `json:"probability,omitempty"`
}

func (s *Service) cacheKey(vec []float64) string {
	h := sha256.New()
	var buf [8]byte
	for _, v := range vec {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return cacheKeyPrefix + s.classifier.Version() + ":" + hex.EncodeToString(h.Sum(nil))
}

func (s *Service) lookup(ctx context.Context, key string) (model.Prediction, bool) {
	if s.cache == nil {
		return model.Prediction{}, false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			s.metrics.Inc(metrics.CacheMissesTotal)
		} else {
			s.metrics.Inc(metrics.CacheErrorsTotal)
			s.logger.Warn("prediction cache read failed", zap.Error(err))
		}
		return model.Prediction{}, false
	}

	var c cachedPrediction
	if err := json.Unmarshal([]byte(raw), &c); err != nil ||
		(c.Label != model.AtRisk && c.Label != model.NotAtRisk) {
		s.metrics.Inc(metrics.CacheErrorsTotal)
		s.logger.Warn("discarding unreadable cached prediction", zap.String("key", key))
		_ = s.cache.Delete(ctx, key)
		return model.Prediction{}, false
	}

	s.metrics.Inc(metrics.CacheHitsTotal)
	p := model.Prediction{Label: c.Label}
	if c.Probability != nil {
		p.Probability = *c.Probability
		p.HasProbability = true
	}
	return p, true
}

func (s *Service) remember(ctx context.Context, key string, pred model.Prediction) {
	if s.cache == nil {
		return
	}

	c := cachedPrediction{Label: pred.Label}
	if pred.HasProbability {
		p := pred.Probability
		c.Probability = &p
	}
	data, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
		s.metrics.Inc(metrics.CacheErrorsTotal)
		s.logger.Warn("prediction cache write failed", zap.Error(err))
	}
}

func (s *Service) record(ctx context.Context, res *Result) {
	if s.history == nil {
		return
	}

	err := s.history.Record(ctx, history.Record{
		ID:           res.ID,
		CreatedAt:    res.CreatedAt,
		ModelVersion: res.ModelVersion,
		Features:     res.Features,
		Label:        int(res.Label),
		Probability:  res.Probability,
	})
	if err != nil {
		s.metrics.Inc(metrics.HistoryFailuresTotal)
		s.logger.Error("prediction history write failed", zap.String("id", res.ID), zap.Error(err))
		return
	}
	s.metrics.Inc(metrics.HistoryWritesTotal)
}
