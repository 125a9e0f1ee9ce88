package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RunReport summarizes one assignment run for the recorder
type RunReport struct {
	Slots          int
	SelfStudySlots int
	Unassignable   int
	Spread         int

	// PrimaryAssignments and SecondaryAssignments count staffed roles across all teachers
	PrimaryAssignments   int
	SecondaryAssignments int

	Duration time.Duration
}

// Recorder holds the Prometheus collectors for assignment runs on a private registry
type Recorder struct {
	registry *prometheus.Registry

	attemptUnassignable prometheus.Histogram
	attemptsTotal       prometheus.Counter
	runsTotal           *prometheus.CounterVec
	slots               *prometheus.GaugeVec
	unassignable        prometheus.Gauge
	spread              prometheus.Gauge
	assignments         *prometheus.GaugeVec
	runDuration         prometheus.Histogram
}

// NewRecorder registers the run collectors
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	attemptUnassignable := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "invigilation_attempt_unassignable_slots",
		Help:    "Unassignable slots left by each allocation attempt",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})

	attemptsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invigilation_attempts_total",
		Help: "Total allocation attempts made",
	})

	runsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invigilation_runs_total",
		Help: "Total assignment runs by outcome",
	}, []string{"outcome"})

	slots := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "invigilation_slots",
		Help: "Slots in the last run by kind",
	}, []string{"kind"})

	unassignable := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "invigilation_unassignable_slots",
		Help: "Unassignable slots in the chosen attempt of the last run",
	})

	spread := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "invigilation_total_spread",
		Help: "Max minus min total supervision count in the chosen attempt of the last run",
	})

	assignments := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "invigilation_assignments",
		Help: "Staffed roles in the chosen attempt of the last run",
	}, []string{"role"})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "invigilation_run_duration_seconds",
		Help:    "Duration of assignment runs in seconds",
		Buckets: prometheus.DefBuckets,
	})

	registry.MustRegister(attemptUnassignable, attemptsTotal, runsTotal, slots, unassignable, spread, assignments, runDuration)

	return &Recorder{
		registry:            registry,
		attemptUnassignable: attemptUnassignable,
		attemptsTotal:       attemptsTotal,
		runsTotal:           runsTotal,
		slots:               slots,
		unassignable:        unassignable,
		spread:              spread,
		assignments:         assignments,
		runDuration:         runDuration,
	}
}

// ObserveAttempt records one allocation attempt
func (r *Recorder) ObserveAttempt(unassignable int) {
	if r == nil {
		return
	}
	r.attemptsTotal.Inc()
	r.attemptUnassignable.Observe(float64(unassignable))
}

// ObserveRun records the chosen outcome of a run
func (r *Recorder) ObserveRun(report RunReport) {
	if r == nil {
		return
	}

	outcome := "complete"
	if report.Unassignable > 0 {
		outcome = "partial"
	}
	r.runsTotal.WithLabelValues(outcome).Inc()

	r.slots.WithLabelValues("supervised").Set(float64(report.Slots - report.SelfStudySlots))
	r.slots.WithLabelValues("self_study").Set(float64(report.SelfStudySlots))
	r.unassignable.Set(float64(report.Unassignable))
	r.spread.Set(float64(report.Spread))
	r.assignments.WithLabelValues("primary").Set(float64(report.PrimaryAssignments))
	r.assignments.WithLabelValues("secondary").Set(float64(report.SecondaryAssignments))
	r.runDuration.Observe(report.Duration.Seconds())
}

// Registry exposes the private registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every collected metric to path in the node-exporter textfile format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
