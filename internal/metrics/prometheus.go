package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry *prom.Registry
	events   *prom.CounterVec
	ignored  *prom.CounterVec
	runs     *prom.HistogramVec
	running  prom.Gauge
}

// NewPrometheusRecorder constructs and registers the metrics on reg, or on a
// fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		events: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "tock",
			Name:      "engine_events_total",
			Help:      "Engine operations that changed state",
		}, []string{"event"}),
		ignored: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "tock",
			Name:      "engine_ignored_events_total",
			Help:      "Engine operations ignored as illegal in the current state",
		}, []string{"event"}),
		runs: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "tock",
			Name:      "run_duration_seconds",
			Help:      "Measured duration of completed runs",
			Buckets:   []float64{30, 60, 300, 600, 1500, 3000, 6000},
		}, []string{"mode", "outcome"}),
		running: prom.NewGauge(prom.GaugeOpts{
			Namespace: "tock",
			Name:      "running",
			Help:      "1 while the timer or stopwatch is running",
		}),
	}
	reg.MustRegister(pr.events, pr.ignored, pr.runs, pr.running)
	return pr
}

func (p *PrometheusRecorder) IncEvent(event string)   { p.events.WithLabelValues(event).Inc() }
func (p *PrometheusRecorder) IncIgnored(event string) { p.ignored.WithLabelValues(event).Inc() }

func (p *PrometheusRecorder) ObserveRun(mode, outcome string, elapsed time.Duration) {
	p.runs.WithLabelValues(mode, outcome).Observe(elapsed.Seconds())
}

func (p *PrometheusRecorder) SetRunning(running bool) {
	if running {
		p.running.Set(1)
		return
	}
	p.running.Set(0)
}

// Handler serves the recorder's registry in the Prometheus text format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
