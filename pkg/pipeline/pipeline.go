// Package pipeline drives a full run: stage processing, re-indexing, and
// the deferred page generators that complete the final bundle.
package pipeline

import (
	"log/slog"
	"time"

	"github.com/abissens/elepages/internal/logfields"
	"github.com/abissens/elepages/internal/metrics"
	"github.com/abissens/elepages/pkg/pages"
	"github.com/abissens/elepages/pkg/stages"
	"github.com/google/uuid"
)

// Options configures a run. The zero value is usable.
type Options struct {
	// Recorder receives stage and run measurements; nil means no metrics.
	Recorder metrics.Recorder
	// Logger receives run records; nil means slog.Default.
	Logger *slog.Logger
}

// Result is the outcome of a successful run.
type Result struct {
	// Bundle is the final bundle: the stage output plus every generated
	// page.
	Bundle pages.PageBundle
	// Index is the bundle index the generators were fed: the index of the
	// stage output.
	Index *pages.BundleIndex
	// Processing is the stage trace tree.
	Processing *stages.ProcessingResult
}

// Run processes a bundle through a stage, indexes the output, invokes every
// registered page generator against that index and concatenates their pages
// into the final bundle. A failing stage aborts the run before any
// generator executes.
func Run(bundle pages.PageBundle, stage stages.Stage, env *pages.Env, opts Options) (*Result, error) {
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	runID := uuid.NewString()
	start := time.Now()
	logger.Info("pipeline run started", logfields.RunID(runID), logfields.Pages(len(bundle.Pages())))

	bag := stages.NewPageGeneratorBag()
	out, processing, err := stage.Process(bundle, env, bag)
	if err != nil {
		recorder.RecordRunOutcome(false)
		logger.Error("pipeline run failed", logfields.RunID(runID), logfields.Error(err))
		return nil, err
	}

	index := pages.NewBundleIndex(out)

	final := &pages.VecBundle{P: append([]pages.Page{}, out.Pages()...)}
	for _, generator := range bag.All() {
		generated, err := generator.YieldPages(index, env)
		if err != nil {
			recorder.RecordRunOutcome(false)
			logger.Error("page generation failed", logfields.RunID(runID), logfields.Error(err))
			return nil, err
		}
		final.P = append(final.P, generated...)
	}

	processing.Walk(func(r *stages.ProcessingResult) {
		recorder.RecordStageDuration(r.StageName, r.Duration())
	})
	recorder.RecordRunDuration(time.Since(start))
	recorder.RecordRunOutcome(true)

	logger.Info("pipeline run finished",
		logfields.RunID(runID),
		logfields.Pages(len(final.P)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))

	return &Result{Bundle: final, Index: index, Processing: processing}, nil
}
