package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/portnet/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for network builds.
type Metrics struct {
	StageDuration  *prometheus.HistogramVec
	StageErrors    *prometheus.CounterVec
	RecordsDropped *prometheus.CounterVec
	Builds         *prometheus.CounterVec
	Ports          prometheus.Gauge
	Edges          prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portnet_stage_duration_seconds",
				Help:    "Duration of pipeline stages",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
			[]string{"stage"},
		),
		StageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portnet_stage_errors_total",
				Help: "Total number of failed pipeline stages",
			},
			[]string{"stage"},
		),
		RecordsDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portnet_records_dropped_total",
				Help: "Raw records dropped during cleaning, by reason",
			},
			[]string{"reason"},
		),
		Builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portnet_builds_total",
				Help: "Network builds by outcome",
			},
			[]string{"outcome"},
		),
		Ports: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portnet_network_ports",
			Help: "Ports in the last built network",
		}),
		Edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portnet_network_edges",
			Help: "Edges in the last built network",
		}),
	}
	reg.MustRegister(m.StageDuration, m.StageErrors, m.RecordsDropped, m.Builds, m.Ports, m.Edges)
	return m
}

// ObserveBuild records the outcome of a whole build.
func (m *Metrics) ObserveBuild(network *domain.Network, err error) {
	if err != nil {
		m.Builds.WithLabelValues("error").Inc()
		return
	}
	m.Builds.WithLabelValues("success").Inc()
	m.Ports.Set(float64(len(network.Ports)))
	m.Edges.Set(float64(len(network.Edges)))
}

// Hooks returns lifecycle hooks that log each stage and feed m.
// Either argument may be nil.
func Hooks(logger *slog.Logger, m *Metrics) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageStart: func(ctx context.Context, e *domain.StageEvent) {
			if logger != nil {
				logger.DebugContext(ctx, "stage_start", "stage", e.Stage, "input", e.Input)
			}
		},
		OnStageEnd: func(ctx context.Context, e *domain.StageEvent) {
			if logger != nil {
				logger.InfoContext(ctx, "stage_end",
					"stage", e.Stage,
					"input", e.Input,
					"output", e.Output,
					"duration", e.Duration,
				)
			}
			if m == nil {
				return
			}
			m.StageDuration.WithLabelValues(string(e.Stage)).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.StageErrors.WithLabelValues(string(e.Stage)).Inc()
			}
		},
		OnRecordDropped: func(ctx context.Context, e *domain.DropEvent) {
			if m != nil {
				m.RecordsDropped.WithLabelValues(e.Reason).Inc()
			}
		},
	}
}
