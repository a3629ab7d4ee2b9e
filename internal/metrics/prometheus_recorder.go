package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	runDuration   prom.Histogram
	runOutcome    *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the pipeline metrics.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	r := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "elepages_stage_duration_seconds",
			Help:    "Wall-clock duration of stage executions.",
			Buckets: prom.DefBuckets,
		}, []string{"stage"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Name:    "elepages_run_duration_seconds",
			Help:    "Wall-clock duration of pipeline runs.",
			Buckets: prom.DefBuckets,
		}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Name: "elepages_run_outcomes_total",
			Help: "Finished pipeline runs by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(r.stageDuration, r.runDuration, r.runOutcome)
	return r
}

func (r *PrometheusRecorder) RecordStageDuration(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (r *PrometheusRecorder) RecordRunDuration(d time.Duration) {
	r.runDuration.Observe(d.Seconds())
}

func (r *PrometheusRecorder) RecordRunOutcome(success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	r.runOutcome.WithLabelValues(outcome).Inc()
}
