package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoryGenerations counts story generation attempts by outcome.
	StoryGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storyforge_story_generations_total",
			Help: "Story generation attempts partitioned by outcome.",
		},
		[]string{"status"},
	)

	// GenerationDuration tracks end-to-end story generation latency,
	// dominated by the upstream model call.
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storyforge_story_generation_duration_seconds",
			Help:    "End-to-end story generation latency in seconds.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		},
	)
)

// ObserveGeneration records a single generation attempt.
func ObserveGeneration(start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	StoryGenerations.WithLabelValues(status).Inc()
	GenerationDuration.Observe(time.Since(start).Seconds())
}
