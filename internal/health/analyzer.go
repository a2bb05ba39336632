// Package health turns metrics and recent log lines into a health report.
package health

import (
	"strings"

	"heart-risk/internal/logs"
	"heart-risk/internal/metrics"

	"go.uber.org/zap/zapcore"
)

const (
	logWindow = 100

	// repeated inference failures in the window turn a degraded service critical
	inferenceFailureThreshold = 3
)

// Analyzer converts metrics + logs into a health report.
type Analyzer struct {
	metrics *metrics.Registry
	ring    *logs.Ring
	rules   []Rule
}

// NewAnalyzer creates an analyzer with DefaultRules. ring may be nil, in which case
// only metrics are considered.
func NewAnalyzer(reg *metrics.Registry, ring *logs.Ring) *Analyzer {
	return &Analyzer{
		metrics: reg,
		ring:    ring,
		rules:   DefaultRules,
	}
}

// Analyze evaluates metrics and logs and returns a health report.
func (a *Analyzer) Analyze() Report {
	snapshot := a.metrics.Snapshot()

	var (
		signals         = []string{}
		recommendations = []string{}
		status          = StatusOK
	)

	/* ---------- METRICS-BASED RULES ---------- */

	for _, rule := range a.rules {
		result := rule(snapshot)
		if !result.Triggered {
			continue
		}
		signals = append(signals, result.Signal)
		recommendations = append(recommendations, result.Recommendation)
		status = escalate(status, result.Severity)
	}

	/* ---------- LOG-BASED SIGNALS ---------- */

	var entries []logs.Entry
	if a.ring != nil {
		entries = a.ring.GetLast(logWindow)
	}

	inferenceFailures := 0
	panicCount := 0
	for _, entry := range entries {
		if entry.Level < zapcore.ErrorLevel {
			continue
		}
		if strings.Contains(entry.Message, "inference failed") {
			inferenceFailures++
		}
		if strings.Contains(entry.Message, "panic") {
			panicCount++
		}
	}

	if inferenceFailures >= inferenceFailureThreshold {
		signals = append(signals, "Repeated inference failures detected in logs")
		recommendations = append(recommendations,
			"Verify the classifier is loaded and reachable; restart if the artifact changed",
		)
		status = StatusCritical
	}

	if panicCount > 0 {
		signals = append(signals, "Application panics detected in logs")
		recommendations = append(recommendations,
			"Inspect stack traces and stabilize error handling",
		)
		status = StatusCritical
	}

	summary := "Service is healthy"
	if status != StatusOK {
		summary = "Service health issues detected"
	}

	return Report{
		OverallStatus:   status,
		Summary:         summary,
		Signals:         signals,
		Recommendations: recommendations,
	}
}
