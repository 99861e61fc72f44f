package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector records reconciler activity.
type MetricsCollector interface {
	RecordModeTransition(from, to Mode)
	RecordAutoLogin(outcome string, duration time.Duration)
}

const (
	AutoLoginSuccess      = "success"
	AutoLoginUnauthorized = "unauthorized"
	AutoLoginFailure      = "failure"
)

// Collector is the Prometheus MetricsCollector.
type Collector struct {
	modeTransitions  *prometheus.CounterVec
	autoLogins       *prometheus.CounterVec
	autoLoginLatency prometheus.Histogram
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		modeTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exchange_client_mode_transitions_total",
			Help: "UI mode transitions by source and target mode",
		}, []string{"from", "to"}),
		autoLogins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exchange_client_auto_login_total",
			Help: "Auto-login outcomes",
		}, []string{"outcome"}),
		autoLoginLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "exchange_client_auto_login_seconds",
			Help:    "Duration of the auto-login refresh",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.modeTransitions, c.autoLogins, c.autoLoginLatency)
	return c
}

func (c *Collector) RecordModeTransition(from, to Mode) {
	c.modeTransitions.WithLabelValues(from.String(), to.String()).Inc()
}

func (c *Collector) RecordAutoLogin(outcome string, duration time.Duration) {
	c.autoLogins.WithLabelValues(outcome).Inc()
	c.autoLoginLatency.Observe(duration.Seconds())
}

type noopMetrics struct{}

func (noopMetrics) RecordModeTransition(Mode, Mode)       {}
func (noopMetrics) RecordAutoLogin(string, time.Duration) {}
