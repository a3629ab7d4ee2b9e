// Package metrics provides build observability for pipeline runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never requires nil checks and costs
// nothing when disabled. The Prometheus implementation is built by the caller
// with NewPrometheusRecorder and handed to the driver through its options.
package metrics

import "time"

// Recorder receives pipeline measurements.
type Recorder interface {
	// RecordStageDuration records the wall-clock span of one stage
	// execution.
	RecordStageDuration(stage string, d time.Duration)
	// RecordRunDuration records the span of a whole pipeline run.
	RecordRunDuration(d time.Duration)
	// RecordRunOutcome counts a finished run by outcome.
	RecordRunOutcome(success bool)
}

// NoopRecorder is the default Recorder; every method inlines to nothing.
type NoopRecorder struct{}

func (NoopRecorder) RecordStageDuration(string, time.Duration) {}
func (NoopRecorder) RecordRunDuration(time.Duration)           {}
func (NoopRecorder) RecordRunOutcome(bool)                     {}
