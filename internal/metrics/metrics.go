// Package metrics registers the orchestrator's Prometheus collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ActiveSessions tracks open event streams.
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "a2ui_active_sessions",
		Help: "Number of connected client sessions.",
	})

	// FlowRuns counts completed flow executions by outcome.
	FlowRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "a2ui_flow_runs_total",
		Help: "Flow executions by flow name and outcome.",
	}, []string{"flow", "outcome"})

	// CollaboratorCalls observes external tool/agent call latency.
	CollaboratorCalls = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "a2ui_collaborator_call_seconds",
		Help:    "Latency of external collaborator calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind", "name"})

	// Fallbacks counts agent fallbacks by reason code.
	Fallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "a2ui_fallbacks_total",
		Help: "Deterministic fallbacks taken, by flow and reason.",
	}, []string{"flow", "reason"})
)

func init() {
	prometheus.MustRegister(ActiveSessions, FlowRuns, CollaboratorCalls, Fallbacks)
}
