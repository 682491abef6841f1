package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationsTotal counts pipeline runs. kind is "generate" or "improve";
	// outcome is "ok" or the error category.
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitegen_generations_total",
		Help: "Pipeline runs per provider and kind, labelled with the outcome.",
	}, []string{"provider", "kind", "outcome"})

	ProviderRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sitegen_provider_request_duration_seconds",
		Help:    "Time spent waiting on a single LLM provider request.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 90, 120},
	}, []string{"provider"})

	ModelFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitegen_model_fallbacks_total",
		Help: "Requests retried on the next candidate model after a model-unavailable response.",
	}, []string{"provider"})

	PromptTruncationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitegen_prompt_truncations_total",
		Help: "User prompts cut down to fit a provider input budget.",
	}, []string{"provider"})

	ProjectsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sitegen_projects_total",
		Help: "Total number of projects in the database.",
	})
)
