// Package metrics exposes the per-phase wall-clock and counter metrics
// that back the run's exit/reporting contract (spec.md §6): "wall-clock
// times per phase" is reported both in the run Result and, when a CLI
// caller enables it, via a Prometheus /metrics endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder wraps the indexer's Prometheus collectors. A nil *Recorder is
// valid and every method becomes a no-op, so callers that don't need
// metrics (most tests) never have to special-case it.
type Recorder struct {
	registry    *prometheus.Registry
	phaseTime   *prometheus.HistogramVec
	filesTotal  *prometheus.CounterVec
	symbolTotal prometheus.Counter
	relTotal    prometheus.Counter
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		phaseTime: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "codegraf",
			Name:      "phase_duration_seconds",
			Help:      "Wall-clock time spent in each indexing phase.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase"}),
		filesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "codegraf",
			Name:      "files_total",
			Help:      "Files observed by the run, by outcome.",
		}, []string{"outcome"}),
		symbolTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "codegraf", Name: "symbols_total", Help: "Symbols committed across all runs.",
		}),
		relTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "codegraf", Name: "relationships_total", Help: "Relationships committed across all runs.",
		}),
	}
	return r
}

func (r *Recorder) ObservePhase(phase string, seconds float64) {
	if r == nil {
		return
	}
	r.phaseTime.WithLabelValues(phase).Observe(seconds)
}

func (r *Recorder) CountFile(outcome string) {
	if r == nil {
		return
	}
	r.filesTotal.WithLabelValues(outcome).Inc()
}

func (r *Recorder) AddSymbols(n int) {
	if r == nil {
		return
	}
	r.symbolTotal.Add(float64(n))
}

func (r *Recorder) AddRelationships(n int) {
	if r == nil {
		return
	}
	r.relTotal.Add(float64(n))
}

// Handler serves the Prometheus text exposition format, wired to
// `codegraf index --metrics-addr` when the operator opts in.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
