package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver reports attempt and terminal-outcome metrics to a
// Prometheus registry.
type PrometheusObserver struct {
	attempts       *prometheus.CounterVec
	attemptLatency *prometheus.HistogramVec
	capacityDenied prometheus.Counter
	terminal       *prometheus.CounterVec
}

// NewPrometheusObserver registers its metrics against reg, or the
// default registerer when reg is nil.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	obs := &PrometheusObserver{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retrycap_attempts_total",
				Help: "Total number of request attempts made.",
			},
			[]string{"kind"},
		),
		attemptLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "retrycap_attempt_latency_seconds",
				Help:    "Latency of a single attempt.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		capacityDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "retrycap_capacity_denied_total",
			Help: "Total number of attempts denied by admission control.",
		}),
		terminal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retrycap_terminal_outcomes_total",
				Help: "Total number of requests, by terminal outcome.",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(obs.attempts, obs.attemptLatency, obs.capacityDenied, obs.terminal)
	return obs
}

func (o *PrometheusObserver) OnAttemptStart(context.Context, AttemptRecord) {}

func (o *PrometheusObserver) OnAttemptEnd(_ context.Context, rec AttemptRecord) {
	kind := "success"
	if rec.Failure != nil {
		kind = rec.Failure.Kind.String()
	}
	o.attempts.WithLabelValues(kind).Inc()
	if !rec.Start.IsZero() && !rec.End.IsZero() {
		o.attemptLatency.WithLabelValues(kind).Observe(rec.End.Sub(rec.Start).Seconds())
	}
}

func (o *PrometheusObserver) OnCapacityDenied(context.Context, int) {
	o.capacityDenied.Inc()
}

func (o *PrometheusObserver) OnTerminal(_ context.Context, outcome Outcome, _ int, _ error) {
	o.terminal.WithLabelValues(string(outcome)).Inc()
}
