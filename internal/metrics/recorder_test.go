package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_ImplementsRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.RecordStageDuration("md", time.Second)
	r.RecordRunDuration(time.Second)
	r.RecordRunOutcome(true)
}

func TestPrometheusRecorder_RegistersAndCounts(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.RecordStageDuration("md", 10*time.Millisecond)
	r.RecordRunDuration(20 * time.Millisecond)
	r.RecordRunOutcome(true)
	r.RecordRunOutcome(false)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["elepages_stage_duration_seconds"])
	require.True(t, names["elepages_run_duration_seconds"])
	require.True(t, names["elepages_run_outcomes_total"])
}
