// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResponsesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_responses_total",
			Help: "Total number of copilot responses generated, by catalog topic",
		},
		[]string{"topic"},
	)

	SubmitsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_submits_rejected_total",
			Help: "Total number of submitted questions that were not accepted",
		},
		[]string{"reason"},
	)

	ResponseLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "copilot_response_latency_seconds",
			Help:    "Time from submit to the turn being appended",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 1.5, 2, 3, 5},
		},
		[]string{"topic"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "copilot_sessions_active",
			Help: "Number of open copilot sessions",
		},
	)

	TranscriptFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_transcript_failures_total",
			Help: "Total number of transcript sink writes that failed",
		},
		[]string{"sink"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)
)
