// Package metrics defines the Prometheus instruments exported on /metrics.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/skosovsky/toolbox"
)

var (
	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolbox_api_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "toolbox_api_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "toolbox_api_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Tool metrics
	ToolExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolbox_tool_executions_total",
			Help: "Total number of tool executions by outcome",
		},
		[]string{"tool", "outcome"},
	)

	ToolExecutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "toolbox_tool_execution_duration_seconds",
			Help:    "Tool execution latency in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 60},
		},
		[]string{"tool"},
	)

	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "toolbox_batch_calls",
			Help:    "Number of calls per batch request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		},
	)
)

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordToolExecution records one tool execution.
func RecordToolExecution(tool, outcome string, duration time.Duration) {
	ToolExecutionsTotal.WithLabelValues(tool, outcome).Inc()
	ToolExecutionDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordBatch records the size of one batch request.
func RecordBatch(calls int) {
	BatchSize.Observe(float64(calls))
}

// Tool execution outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeClientError = "client_error"
	OutcomeSystemError = "system_error"
	OutcomeTimeout     = "timeout"
	OutcomeNotFound    = "not_found"
	OutcomeShutdown    = "shutdown"
	OutcomeCanceled    = "canceled"
)

// Outcome classifies a tool execution error into one of the outcome labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, toolbox.ErrToolNotFound):
		return OutcomeNotFound
	case errors.Is(err, toolbox.ErrShutdown):
		return OutcomeShutdown
	case errors.Is(err, toolbox.ErrTimeout):
		return OutcomeTimeout
	case errors.Is(err, context.Canceled):
		return OutcomeCanceled
	case toolbox.IsClientError(err):
		return OutcomeClientError
	default:
		return OutcomeSystemError
	}
}

// ObserveToolResult records res; it matches the registry's after-execution hook.
func ObserveToolResult(_ context.Context, call toolbox.ToolCall, res toolbox.ToolResult, d time.Duration) {
	RecordToolExecution(call.ToolName, Outcome(res.Error), d)
}
