package newsportal

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "newsportal"

// Metrics instruments the article cache. A nil *Metrics is valid and records nothing.
type Metrics struct {
	hits          prometheus.Counter
	misses        prometheus.Counter
	fetches       *prometheus.CounterVec
	invalidations prometheus.Counter
	unclassified  prometheus.Counter
	size          prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Article collection reads served from memory.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Article collection reads that required a fetch.",
		}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "fetches_total",
			Help:      "Article collection fetches by result.",
		}, []string{"result"}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Explicit cache invalidations after mutations.",
		}),
		unclassified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "classifier",
			Name:      "unclassified_total",
			Help:      "Articles whose category id has no label.",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "articles",
			Help:      "Articles in the current snapshot.",
		}),
	}

	reg.MustRegister(m.hits, m.misses, m.fetches, m.invalidations, m.unclassified, m.size)

	return m
}

func (m *Metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *Metrics) fetched(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.fetches.WithLabelValues(result).Inc()
}

func (m *Metrics) invalidated() {
	if m != nil {
		m.invalidations.Inc()
		m.size.Set(0)
	}
}

func (m *Metrics) classificationGap() {
	if m != nil {
		m.unclassified.Inc()
	}
}

func (m *Metrics) stored(n int) {
	if m != nil {
		m.size.Set(float64(n))
	}
}
