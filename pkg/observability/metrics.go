package observability

import (
	"net/http"

	"github.com/aretw0/actvis/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records engine activity as Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	inputs     *prometheus.CounterVec
	redraws    prometheus.Counter
	loads      prometheus.Counter
	dropped    prometheus.Counter
	selections *prometheus.CounterVec
	sourceDur  *prometheus.HistogramVec
	sourceErrs *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		inputs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actvis_input_events_total",
				Help: "Total number of input events handled, by kind",
			},
			[]string{"kind"},
		),
		redraws: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actvis_redraws_total",
			Help: "Total number of input events that required a redraw",
		}),
		loads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actvis_scene_loads_total",
			Help: "Total number of scene replacements",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actvis_dropped_edges_total",
			Help: "Total number of edges dropped for an unknown endpoint",
		}),
		selections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actvis_selections_total",
				Help: "Total number of clicks, by whether a node was hit",
			},
			[]string{"hit"},
		),
		sourceDur: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "actvis_source_duration_seconds",
				Help:    "Duration of graph service calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		sourceErrs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actvis_source_errors_total",
				Help: "Total number of failed graph service calls",
			},
			[]string{"operation"},
		),
	}
	m.registry.MustRegister(m.inputs, m.redraws, m.loads, m.dropped, m.selections, m.sourceDur, m.sourceErrs)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSceneLoad: func(e *domain.SceneEvent) {
			m.loads.Inc()
		},
		OnEdgeDropped: func(e *domain.EdgeEvent) {
			m.dropped.Inc()
		},
		OnSelect: func(e *domain.SelectionEvent) {
			hit := "false"
			if !e.Selection.IsEmpty() {
				hit = "true"
			}
			m.selections.WithLabelValues(hit).Inc()
		},
		OnInput: func(e *domain.InputEventRecord) {
			m.inputs.WithLabelValues(string(e.Kind)).Inc()
			if e.Redraw {
				m.redraws.Inc()
			}
		},
		OnSourceCall: func(e *domain.SourceEvent) {
			m.sourceDur.WithLabelValues(e.Operation).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.sourceErrs.WithLabelValues(e.Operation).Inc()
			}
		},
	}
}
