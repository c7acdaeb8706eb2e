// Package metrics records cascade outcomes and stage durations with
// Prometheus collectors and exports them through the node_exporter textfile
// format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects per-process metrics. A nil *Recorder is valid and
// discards every observation.
type Recorder struct {
	registry      *prometheus.Registry
	outcomesTotal *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// New returns a Recorder backed by its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		// Labels:
		//   - state: terminal cascade state (e.g., "done_primary", "synthetic_error")
		outcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_cascade_outcomes_total",
				Help: "Total number of transcription runs by terminal state",
			},
			[]string{"state"},
		),
		// Buckets: 0.1s up to the 5 minute primary budget and beyond.
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scribe_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
			},
			[]string{"stage"},
		),
	}
	r.registry.MustRegister(r.outcomesTotal, r.stageDuration)
	return r
}

// NewForPath returns a Recorder when path is set and nil otherwise.
func NewForPath(path string) *Recorder {
	if path == "" {
		return nil
	}
	return New()
}

// RecordOutcome counts one finished run in the given terminal state.
func (r *Recorder) RecordOutcome(state string) {
	if r == nil {
		return
	}
	r.outcomesTotal.WithLabelValues(state).Inc()
}

// ObserveStage records how long a stage ran.
func (r *Recorder) ObserveStage(stage string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry for inspection.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Flush writes all collected metrics to path in the textfile format.
func (r *Recorder) Flush(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
