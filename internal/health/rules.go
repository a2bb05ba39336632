package health

import "heart-risk/internal/metrics"

// RuleResult represents the outcome of a single rule.
type RuleResult struct {
	Triggered      bool
	Signal         string
	Recommendation string
	Severity       Status
}

// Rule evaluates a metrics snapshot.
type Rule func(snapshot map[string]int64) RuleResult

// ---------- RULES ----------

// Any failed inference means a submission was answered with a 500.
func InferenceFailureRule(snapshot map[string]int64) RuleResult {
	if snapshot[string(metrics.InferenceFailuresTotal)] > 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Inference failures detected",
			Recommendation: "Check the model artifact or the remote inference server",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

func CacheErrorRule(snapshot map[string]int64) RuleResult {
	if snapshot[string(metrics.CacheErrorsTotal)] > 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Prediction cache errors detected",
			Recommendation: "Check Redis connectivity or switch CACHE_BACKEND to memory",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

func HistoryFailureRule(snapshot map[string]int64) RuleResult {
	if snapshot[string(metrics.HistoryFailuresTotal)] > 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Prediction history writes are failing",
			Recommendation: "Check the Postgres connection and the predictions table",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

// DefaultRules is the rule set used by NewAnalyzer.
var DefaultRules = []Rule{
	InferenceFailureRule,
	CacheErrorRule,
	HistoryFailureRule,
}
