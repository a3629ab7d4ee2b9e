// Package stages implements the composable processing units of the
// pipeline: the stage algebra, the metadata overlay, git enrichment,
// markdown and handlebars rendering, and the deferred page generators.
package stages

import (
	"time"

	"github.com/abissens/elepages/pkg/pages"
)

// Stage transforms a bundle into a new bundle. Implementations must not
// mutate the input bundle; they may share its pages by reference.
type Stage interface {
	Name() string
	Process(bundle pages.PageBundle, env *pages.Env, bag PageGeneratorBag) (pages.PageBundle, *ProcessingResult, error)
}

// ProcessingResult is the trace tree of a stage execution.
type ProcessingResult struct {
	StageName  string
	Start      time.Time
	End        time.Time
	SubResults []*ProcessingResult
}

// Duration returns the stage's wall-clock span.
func (r *ProcessingResult) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Walk visits the result and every sub-result depth-first.
func (r *ProcessingResult) Walk(visit func(*ProcessingResult)) {
	visit(r)
	for _, sub := range r.SubResults {
		sub.Walk(visit)
	}
}
