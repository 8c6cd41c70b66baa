package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func (m *Metrics) initDependencies() {
	m.catalogReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "reloads_total",
			Help:      "Catalog reloads by source and outcome.",
		},
		[]string{"service", "source", "status"},
	)
	m.catalogItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "items",
			Help:      "Items in the current catalog snapshot.",
		},
		[]string{"service", "source"},
	)
	m.retriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resilience",
			Name:      "retries_total",
			Help:      "Retried dependency calls by operation.",
		},
		[]string{"service", "operation"},
	)
	m.breakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "resilience",
			Name:      "breaker_open",
			Help:      "1 while the circuit breaker of an operation is not closed.",
		},
		[]string{"service", "operation"},
	)
}

func (m *Metrics) ObserveCatalogReload(source string, success bool, items int) {
	if !success {
		m.catalogReloadsTotal.WithLabelValues(m.service, source, "error").Inc()
		return
	}
	m.catalogReloadsTotal.WithLabelValues(m.service, source, "ok").Inc()
	m.catalogItems.WithLabelValues(m.service, source).Set(float64(items))
}

func (m *Metrics) ObserveRetry(operation string, _ int) {
	m.retriesTotal.WithLabelValues(m.service, operation).Inc()
}

func (m *Metrics) ObserveBreakerState(operation, state string) {
	value := 0.0
	if state != "closed" {
		value = 1
	}
	m.breakerState.WithLabelValues(m.service, operation).Set(value)
}
