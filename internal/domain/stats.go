package domain

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
)

const metricsNamespace = "mutafuzz"

// Stats counts fuzz loop events on a private prometheus registry.
type Stats struct {
	registry   *prometheus.Registry
	executions prometheus.Counter
	objectives prometheus.Counter
	skipped    prometheus.Counter
	corpusSize prometheus.Gauge
	started    time.Time
}

// NewStats creates counters labelled with the instance name.
func NewStats(instance string) *Stats {
	labels := prometheus.Labels{"instance": instance}

	s := &Stats{
		registry: prometheus.NewRegistry(),
		executions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "executions_total",
			Help:        "Number of target executions.",
			ConstLabels: labels,
		}),
		objectives: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "objectives_total",
			Help:        "Number of inputs added to the solutions.",
			ConstLabels: labels,
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "mutations_skipped_total",
			Help:        "Number of fuzz attempts where no mutation applied.",
			ConstLabels: labels,
		}),
		corpusSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "corpus_size",
			Help:        "Number of entries in the corpus.",
			ConstLabels: labels,
		}),
		started: time.Now(),
	}

	s.registry.MustRegister(s.executions, s.objectives, s.skipped, s.corpusSize)

	return s
}

// Registry exposes the registry, e.g. for an HTTP handler.
func (s *Stats) Registry() *prometheus.Registry {
	return s.registry
}

func (s *Stats) IncExecutions() {
	s.executions.Inc()
}

func (s *Stats) IncObjectives() {
	s.objectives.Inc()
}

func (s *Stats) IncSkipped() {
	s.skipped.Inc()
}

func (s *Stats) SetCorpusSize(n int) {
	s.corpusSize.Set(float64(n))
}

// Snapshot gathers the current values.
func (s *Stats) Snapshot() (m.StatsSnapshot, error) {
	families, err := s.registry.Gather()
	if err != nil {
		return m.StatsSnapshot{}, fmt.Errorf("failed to gather stats: %w", err)
	}

	snap := m.StatsSnapshot{Elapsed: time.Since(s.started)}

	for _, family := range families {
		value := metricValue(family)

		switch family.GetName() {
		case metricsNamespace + "_executions_total":
			snap.Executions = value
		case metricsNamespace + "_objectives_total":
			snap.Objectives = value
		case metricsNamespace + "_mutations_skipped_total":
			snap.Skipped = value
		case metricsNamespace + "_corpus_size":
			snap.CorpusSize = value
		}
	}

	return snap, nil
}

func metricValue(family *dto.MetricFamily) uint64 {
	total := 0.0

	for _, metric := range family.GetMetric() {
		switch family.GetType() {
		case dto.MetricType_COUNTER:
			total += metric.GetCounter().GetValue()
		case dto.MetricType_GAUGE:
			total += metric.GetGauge().GetValue()
		default:
		}
	}

	return uint64(total)
}
