// Package metrics provides Prometheus metrics for the recipe finder.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TranslationsTotal counts translations by outcome (cache_hit, remote, fallback, skipped).
	TranslationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recetas",
			Name:      "translations_total",
			Help:      "Total number of translation requests by outcome",
		},
		[]string{"outcome"},
	)

	// RecipeFetchesTotal counts page fetches by resulting state.
	RecipeFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recetas",
			Name:      "recipe_fetches_total",
			Help:      "Total number of recipe page fetches by resulting state",
		},
		[]string{"state"},
	)

	// RecipeFetchDuration measures a page fetch including title translation.
	RecipeFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "recetas",
			Name:      "recipe_fetch_duration_seconds",
			Help:      "Duration of recipe page fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// RecipesFilteredTotal counts recipes kept or rejected by the ingredient filter.
	RecipesFilteredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recetas",
			Name:      "recipes_filtered_total",
			Help:      "Recipes kept or rejected by the all-ingredients filter",
		},
		[]string{"result"},
	)

	// ActiveSessions tracks sessions held by the store.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "recetas",
			Name:      "active_sessions",
			Help:      "Number of finder sessions currently held in memory",
		},
	)
)

// RecordTranslation records a translation outcome.
func RecordTranslation(outcome string) {
	TranslationsTotal.WithLabelValues(outcome).Inc()
}

// RecordFetch records a page fetch.
func RecordFetch(state string, seconds float64) {
	RecipeFetchesTotal.WithLabelValues(state).Inc()
	RecipeFetchDuration.Observe(seconds)
}

// RecordFilter records the outcome of filtering one page.
func RecordFilter(kept, rejected int) {
	RecipesFilteredTotal.WithLabelValues("kept").Add(float64(kept))
	RecipesFilteredTotal.WithLabelValues("rejected").Add(float64(rejected))
}
