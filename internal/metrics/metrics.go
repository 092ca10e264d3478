// Package metrics exposes the pipeline's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the counters incremented by the decision pipeline.
type Metrics struct {
	registry *prometheus.Registry

	Verdicts *prometheus.CounterVec
	Triage   *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	verdicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resq_risk_verdicts_total",
		Help: "Risk analysis verdicts by status and producing source.",
	}, []string{"status", "source"})

	triage := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resq_triage_classifications_total",
		Help: "Acuity classifications by ESI level.",
	}, []string{"level"})

	reg.MustRegister(verdicts, triage)

	return &Metrics{
		registry: reg,
		Verdicts: verdicts,
		Triage:   triage,
	}
}

// Handler serves the registry on /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
