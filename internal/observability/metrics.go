package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ==============================================================================
// Prometheus Metrics
// ==============================================================================

var (
	// OperationsTotal counts Perform calls by operation and result.
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "texcas_operations_total",
		Help: "Total operations performed by operation and result",
	}, []string{"operation", "result"})

	// OperationDuration tracks Perform latency.
	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "texcas_operation_duration_seconds",
		Help:    "Operation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 14), // 50µs to ~400ms
	}, []string{"operation"})

	// EngineFailures counts engine attempts that failed and handed over to
	// the next engine in the chain.
	EngineFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "texcas_engine_failures_total",
		Help: "Engine attempts that failed by operation and engine",
	}, []string{"operation", "engine"})

	// HTTPRequests counts API requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "texcas_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"route", "status"})

	// DedupedRequests counts perform requests answered by an identical
	// in-flight request.
	DedupedRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "texcas_http_deduped_requests_total",
		Help: "Perform requests served by a shared in-flight call",
	})
)

// Result labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)
