package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cgs_recommendations_total",
			Help: "Recommendation requests by path taken and outcome reason",
		},
		[]string{"path", "reason"},
	)

	recommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cgs_recommendation_duration_seconds",
			Help:    "Time spent computing a recommendation",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"path"},
	)

	recommendedCourses = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cgs_recommended_courses",
			Help:    "Number of courses returned per recommendation",
			Buckets: prometheus.LinearBuckets(0, 2, 10),
		},
	)

	catalogFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cgs_catalog_load_failures_total",
			Help: "Recommendations aborted because the job-skills catalog could not be loaded",
		},
	)
)
