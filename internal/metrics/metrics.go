// Package metrics defines and registers the custom Prometheus metrics of the
// sentiment API. It is the single source of truth for metric names, labels,
// and help strings.
//
// All metrics are registered with the default registry on package init via
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sentiment"

// ── Analysis metrics ──────────────────────────────────────────────────────────

// AnalysesTotal counts analyses appended to a history.
// Label:
//   - sentiment: "Positive", "Negative" or "Neutral"
var AnalysesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analyses_total",
		Help:      "Total number of sentiment analyses recorded, by sentiment.",
	},
	[]string{"sentiment"},
)

// AnalysisErrorsTotal counts analyses that failed.
// Label:
//   - reason: "validation", "upstream", "account_not_found", "store"
var AnalysisErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_errors_total",
		Help:      "Total number of sentiment analyses that failed, by reason.",
	},
	[]string{"reason"},
)

// IdempotentReplaysTotal counts /analyze calls answered from the idempotency cache.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of analyses answered from a previous result via Idempotency-Key.",
	},
)

// ClassifierRequestDuration measures round trips to the external classifier.
// Label:
//   - outcome: "ok", "error", "timeout"
var ClassifierRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "classifier_request_duration_seconds",
		Help:      "Duration of calls to the sentiment classifier.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "ok", "conflict", "invalid", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register/login attempts, by operation and result.",
	},
	[]string{"operation", "result"},
)
