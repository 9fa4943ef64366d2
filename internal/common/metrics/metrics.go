// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineTransforms = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_transforms_total",
			Help: "Total number of pipeline invocations by outcome",
		},
		[]string{"response_type", "outcome"},
	)

	PipelineAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_transform_attempts_total",
			Help: "Total number of transform attempts including retries",
		},
		[]string{"response_type"},
	)

	PipelineFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_fallbacks_total",
			Help: "Total number of degraded fallback responses by trigger code",
		},
		[]string{"response_type", "error_code"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_transform_duration_seconds",
			Help: "Duration of a full pipeline invocation in seconds",
		},
		[]string{"response_type"},
	)

	CatalogRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_refreshes_total",
			Help: "Total number of catalog cache refreshes by result",
		},
		[]string{"result"},
	)
)
