// Package metrics exposes annotation counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FocuswithJustin/KanjiLens/core/classify"
	"github.com/FocuswithJustin/KanjiLens/core/markup"
)

const namespace = "kanjilens"

// Metrics holds the collectors of one server. Each server owns its own
// registry so tests can run several side by side.
type Metrics struct {
	registry *prometheus.Registry

	passes           *prometheus.CounterVec
	chars            *prometheus.CounterVec
	markers          prometheus.Counter
	passDuration     prometheus.Histogram
	fallbacks        prometheus.Counter
	compileCache     *prometheus.CounterVec
	websocketClients prometheus.Gauge
}

// New creates and registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "annotation_passes_total",
			Help:      "Annotation passes by entry point.",
		}, []string{"source"}),
		chars: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "characters_total",
			Help:      "Annotated characters by category.",
		}, []string{"category"}),
		markers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "markers_total",
			Help:      "Markers opened.",
		}),
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "annotation_duration_seconds",
			Help:      "Duration of one annotation pass.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dictionary_fallbacks_total",
			Help:      "Snapshots built from a fallback dictionary.",
		}),
		compileCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compile_cache_lookups_total",
			Help:      "Compile cache lookups by result.",
		}, []string{"result"}),
		websocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Connected websocket clients.",
		}),
	}
	m.registry.MustRegister(
		m.passes, m.chars, m.markers, m.passDuration,
		m.fallbacks, m.compileCache, m.websocketClients,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveRuns records one pass over runs. source names the entry point,
// such as "http" or "websocket".
func (m *Metrics) ObserveRuns(source string, runs []markup.Run, d time.Duration) {
	m.passes.WithLabelValues(source).Inc()
	m.passDuration.Observe(d.Seconds())
	for _, r := range runs {
		n := float64(len([]rune(r.Text)))
		m.chars.WithLabelValues(r.Category.String()).Add(n)
		if r.Category != classify.None {
			m.markers.Inc()
		}
	}
}

// DictionaryFallback counts a snapshot built without the stored dictionary.
func (m *Metrics) DictionaryFallback() { m.fallbacks.Inc() }

// CompileCache counts a compile cache lookup.
func (m *Metrics) CompileCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.compileCache.WithLabelValues(result).Inc()
}

// WebSocketClients sets the number of connected clients.
func (m *Metrics) WebSocketClients(n int) { m.websocketClients.Set(float64(n)) }
