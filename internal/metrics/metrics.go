// Package metrics exports kernel statistics to Prometheus.
package metrics

import (
	"net/http"

	"fancywatch/watchos/kernel"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements kernel.Observer.
type Metrics struct {
	CycleDuration prometheus.Histogram
	Cycles        *prometheus.CounterVec
	Overruns      prometheus.Counter
	Events        *prometheus.CounterVec
	Rendered      prometheus.Counter
	PresentErrors prometheus.Counter
	Apps          prometheus.Gauge
	Active        prometheus.Gauge
	PowerChanges  *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

var _ kernel.Observer = (*Metrics)(nil)

// New registers the watch metrics with reg. A nil reg selects a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		CycleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "watch_cycle_busy_seconds",
			Help:    "Time spent in the kernel cycle before frame pacing",
			Buckets: []float64{.001, .0025, .005, .01, .02, .033, .05, .1, .25},
		}),
		Cycles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "watch_cycles_total",
			Help: "Kernel cycles by power state",
		}, []string{"state"}),
		Overruns: f.NewCounter(prometheus.CounterOpts{
			Name: "watch_cycle_overruns_total",
			Help: "Cycles that took longer than the frame period",
		}),
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "watch_events_total",
			Help: "Events taken from the queue by outcome",
		}, []string{"outcome"}),
		Rendered: f.NewCounter(prometheus.CounterOpts{
			Name: "watch_app_renders_total",
			Help: "Render callbacks issued to foreground apps",
		}),
		PresentErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "watch_present_errors_total",
			Help: "Frames the panel failed to accept",
		}),
		Apps: f.NewGauge(prometheus.GaugeOpts{
			Name: "watch_apps",
			Help: "Running applications",
		}),
		Active: f.NewGauge(prometheus.GaugeOpts{
			Name: "watch_active",
			Help: "1 while the device is awake",
		}),
		PowerChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "watch_power_transitions_total",
			Help: "Power state transitions by target state",
		}, []string{"state"}),
		gatherer: reg,
	}
}

func state(active bool) string {
	if active {
		return "active"
	}
	return "sleep"
}

func (m *Metrics) CycleDone(s kernel.CycleStats) {
	m.CycleDuration.Observe(s.Busy.Seconds())
	m.Cycles.WithLabelValues(state(s.Active)).Inc()
	if s.Overrun {
		m.Overruns.Inc()
	}
	m.Events.WithLabelValues("delivered").Add(float64(s.Events))
	m.Events.WithLabelValues("filtered").Add(float64(s.Filtered))
	m.Rendered.Add(float64(s.Rendered))
	if s.PresentFailed {
		m.PresentErrors.Inc()
	}
	m.Apps.Set(float64(s.Apps))
	if s.Active {
		m.Active.Set(1)
	} else {
		m.Active.Set(0)
	}
}

func (m *Metrics) PowerStateChanged(active bool) {
	m.PowerChanges.WithLabelValues(state(active)).Inc()
}

func (m *Metrics) EventsDropped(n uint64) {
	m.Events.WithLabelValues("dropped").Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
