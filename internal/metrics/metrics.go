package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream request outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeServerError  = "server_error"
	OutcomeNetworkError = "network_error"
	OutcomeInvalidBody  = "invalid_body"
	OutcomeTooLarge     = "too_large"
)

var (
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tooladvisor_upstream_requests_total",
		Help: "Requests sent to the recommendation server, by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tooladvisor_upstream_duration_seconds",
		Help:    "Round-trip time of recommendation server requests.",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})

	ValidationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tooladvisor_validation_failures_total",
		Help: "Submissions rejected before contacting the recommendation server.",
	})

	RenderFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tooladvisor_render_failures_total",
		Help: "Result panels that failed to render and were hidden.",
	}, []string{"panel"})

	ThemeTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tooladvisor_theme_toggles_total",
		Help: "Theme toggles, by the theme switched to.",
	}, []string{"theme"})

	ThemeStorageErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tooladvisor_theme_storage_errors_total",
		Help: "Theme preference reads and writes that failed and were ignored.",
	}, []string{"op"})
)
