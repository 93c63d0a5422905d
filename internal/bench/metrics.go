package bench

import (
	"fmt"
	"strconv"
	"time"

	storage "nbody-bench/internal/infra/fs"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics step timings on a private registry, exported as a node_exporter textfile
type Metrics struct {
	registry     *prometheus.Registry
	StepDuration *prometheus.HistogramVec
	RunsTotal    prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.StepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nbody_step_duration_seconds",
			Help:    "Wall time of one simulation step",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 14),
		},
		[]string{"bodies", "threads"},
	)

	m.RunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nbody_runs_total",
			Help: "Completed benchmark runs",
		},
	)

	m.registry.MustRegister(m.StepDuration, m.RunsTotal)
	return m
}

func (m *Metrics) ObserveStep(bodies, threads int, d time.Duration) {
	m.StepDuration.WithLabelValues(strconv.Itoa(bodies), strconv.Itoa(threads)).Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the registry in text exposition format
func (m *Metrics) WriteTextfile(path string) error {
	if err := storage.EnsureParentDir(path); err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
