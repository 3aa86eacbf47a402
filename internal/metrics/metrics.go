// Package metrics exposes the bridge's observability hooks as Prometheus
// collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/grue-if/grue/pkg/domain"
)

// Metrics holds the bridge collectors.
type Metrics struct {
	CommandsEnqueued *prometheus.CounterVec
	QueueDepth       prometheus.Gauge
	QueueWait        prometheus.Histogram
	OutputChunks     prometheus.Counter
	IntrospectionDur prometheus.Histogram
	IntrospectionErr prometheus.Counter
	StateChanges     *prometheus.CounterVec
}

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CommandsEnqueued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grue_commands_enqueued_total",
				Help: "Total commands accepted into the queue, by source",
			},
			[]string{"source"},
		),
		QueueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "grue_command_queue_depth",
				Help: "Commands currently queued",
			},
		),
		QueueWait: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "grue_command_queue_wait_seconds",
				Help: "Time commands spend queued before the worker consumes them",
			},
		),
		OutputChunks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "grue_output_chunks_total",
				Help: "Output chunks written by the engine worker",
			},
		),
		IntrospectionDur: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "grue_introspection_duration_seconds",
				Help: "Time spent servicing introspection queries on the worker",
			},
		),
		IntrospectionErr: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "grue_introspection_errors_total",
				Help: "Introspection queries that returned an error or panicked",
			},
		),
		StateChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grue_worker_state_changes_total",
				Help: "Worker lifecycle transitions",
			},
			[]string{"from", "to"},
		),
	}
	reg.MustRegister(
		m.CommandsEnqueued,
		m.QueueDepth,
		m.QueueWait,
		m.OutputChunks,
		m.IntrospectionDur,
		m.IntrospectionErr,
		m.StateChanges,
	)
	return m
}

// Hooks returns bridge hooks that feed the collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnEnqueue: func(cmd domain.Command) {
			m.CommandsEnqueued.WithLabelValues(string(cmd.Source)).Inc()
			m.QueueDepth.Inc()
		},
		OnDequeue: func(cmd domain.Command, wait time.Duration) {
			m.QueueDepth.Dec()
			m.QueueWait.Observe(wait.Seconds())
		},
		OnChunk: func(domain.Chunk) {
			m.OutputChunks.Inc()
		},
		OnIntrospection: func(dur time.Duration, err error) {
			m.IntrospectionDur.Observe(dur.Seconds())
			if err != nil {
				m.IntrospectionErr.Inc()
			}
		},
		OnStateChange: func(from, to string) {
			m.StateChanges.WithLabelValues(from, to).Inc()
		},
	}
}
