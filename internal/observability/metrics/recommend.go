package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/icyphotoget/perfume/internal/core/domain"
)

func (m *Metrics) initRecommendation() {
	m.recommendTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recommend",
			Name:      "requests_total",
			Help:      "Total computed recommendations by entry point.",
		},
		[]string{"service", "endpoint"},
	)
	m.recommendResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "recommend",
			Name:      "results",
			Help:      "Distribution of returned items per recommendation.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service", "endpoint"},
	)
	m.recommendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "recommend",
			Name:      "duration_seconds",
			Help:      "Recommendation duration in seconds, enrichment included.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		},
		[]string{"service", "endpoint"},
	)
	m.profileStatusTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recommend",
			Name:      "profile_status_total",
			Help:      "Profile extraction outcomes.",
		},
		[]string{"service", "status"},
	)
	m.explainFallbackSum = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recommend",
			Name:      "explanation_fallbacks_total",
			Help:      "Explanations replaced by the fallback sentence.",
		},
		[]string{"service"},
	)
}

func (m *Metrics) RecordRecommendation(endpoint string, rec domain.Recommendation, duration time.Duration) {
	m.recommendTotal.WithLabelValues(m.service, endpoint).Inc()
	m.recommendResults.WithLabelValues(m.service, endpoint).Observe(float64(len(rec.Items)))
	m.recommendDuration.WithLabelValues(m.service, endpoint).Observe(duration.Seconds())

	status := string(rec.ProfileStatus)
	if status == "" {
		status = "unknown"
	}
	m.profileStatusTotal.WithLabelValues(m.service, status).Inc()
	if rec.FallbackCount > 0 {
		m.explainFallbackSum.WithLabelValues(m.service).Add(float64(rec.FallbackCount))
	}
}
