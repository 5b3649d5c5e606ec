package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // promauto collectors register once per process
var (
	OptimizationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptsmith_optimizations_total",
		Help: "Optimization requests by target model and outcome",
	}, []string{"model", "status"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "promptsmith_stage_duration_seconds",
		Help:    "Duration of each optimization pipeline stage",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	}, []string{"stage"})

	RuleApplicationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptsmith_rule_applications_total",
		Help: "Rule evaluations by category and status (applied, skipped, failed)",
	}, []string{"category", "status"})

	AdapterCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptsmith_adapter_calls_total",
		Help: "Remote rewrite calls by provider and status",
	}, []string{"provider", "status"})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptsmith_cache_lookups_total",
		Help: "Result cache lookups by backend and result",
	}, []string{"backend", "result"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptsmith_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "promptsmith_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)
