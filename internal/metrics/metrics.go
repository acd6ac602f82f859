// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics collection for the
// orchestrator (C9).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ArticlesIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "podcastgen_articles_ingested_total",
		Help: "Total number of articles accepted by intake, pre-dedup.",
	})

	ArticlesDuplicateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "podcastgen_articles_duplicate_total",
		Help: "Total number of articles dropped as duplicates by the fingerprint store.",
	})

	ReviewsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podcastgen_reviews_total",
		Help: "Total number of review cascade outcomes by tier and result.",
	}, []string{"tier", "outcome"}) // tier=light|heavy, outcome=accepted|failed|fallback

	ReviewDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "podcastgen_review_duration_seconds",
		Help:    "Wall-clock time spent in each review tier.",
		Buckets: prometheus.DefBuckets,
	}, []string{"tier"})

	EpisodesGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "podcastgen_episodes_generated_total",
		Help: "Total number of episodes that completed generation successfully.",
	})

	EpisodesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podcastgen_episodes_failed_total",
		Help: "Total number of episode generation runs that ended FAILED, by stage.",
	}, []string{"stage"})

	EpisodeGenerationDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "podcastgen_episode_generation_duration_seconds",
		Help:    "End-to-end wall-clock time of an episode generation run.",
		Buckets: prometheus.ExponentialBuckets(5, 2, 10),
	})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "podcastgen_review_queue_depth",
		Help: "Current number of articles waiting in the review queue.",
	})

	ActiveLeases = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "podcastgen_active_leases",
		Help: "Current number of held group generation leases.",
	})

	CollectionsReady = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "podcastgen_collections_ready",
		Help: "Current number of READY collections awaiting cadence eligibility.",
	})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "podcastgen_circuit_breaker_state",
		Help: "Circuit breaker state per capability (0=closed, 1=open, 2=half-open).",
	}, []string{"capability"})

	CircuitBreakerTripsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podcastgen_circuit_breaker_trips_total",
		Help: "Total number of circuit breaker trips by capability.",
	}, []string{"capability"})

	CapabilityCallDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "podcastgen_capability_call_duration_seconds",
		Help:    "Latency of outbound capability calls by capability and outcome.",
		Buckets: prometheus.DefBuckets,
	}, []string{"capability", "outcome"})

	DeadLetterTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podcastgen_dead_letter_total",
		Help: "Total number of items moved to the dead letter after exhausting retries, by stage.",
	}, []string{"stage"})

	CollectionsBuiltTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podcastgen_collections_built_total",
		Help: "Total number of collections transitioning to READY or CONSUMED, by transition.",
	}, []string{"transition"})

	EpisodesQueuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "podcastgen_episodes_queued_total",
		Help: "Total number of episode-generation jobs enqueued by the cadence controller.",
	})
)

// SetCircuitBreakerState records the current state for a named capability.
func SetCircuitBreakerState(capability string, state int) {
	CircuitBreakerState.WithLabelValues(capability).Set(float64(state))
}

// RecordCircuitBreakerTrip increments the trip counter for a named capability.
func RecordCircuitBreakerTrip(capability string) {
	CircuitBreakerTripsTotal.WithLabelValues(capability).Inc()
}
