package stages

import (
	"time"

	"github.com/abissens/elepages/pkg/pages"
	"golang.org/x/sync/errgroup"
)

// UnionStage runs its inner stages in parallel against the same input and
// concatenates their outputs. Pages are not deduplicated; concatenation
// follows declaration order, not completion order.
type UnionStage struct {
	StageName string
	Stages    []Stage
}

func (s *UnionStage) Name() string { return s.StageName }

func (s *UnionStage) Process(bundle pages.PageBundle, env *pages.Env, bag PageGeneratorBag) (pages.PageBundle, *ProcessingResult, error) {
	start := time.Now()
	env.PrintVV("stage "+s.StageName, "union processing started")

	if len(s.Stages) == 0 {
		return bundle, &ProcessingResult{StageName: s.StageName, Start: start, End: time.Now()}, nil
	}

	slots := make([][]pages.Page, len(s.Stages))
	subResults := make([]*ProcessingResult, len(s.Stages))

	var group errgroup.Group
	for i, stage := range s.Stages {
		group.Go(func() error {
			out, subResult, err := stage.Process(bundle, env, bag)
			if err != nil {
				return err
			}
			slots[i] = out.Pages()
			subResults[i] = subResult
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	result := &pages.VecBundle{}
	for _, slot := range slots {
		result.P = append(result.P, slot...)
	}

	env.PrintVV("stage "+s.StageName, "union processing ended")
	return result, &ProcessingResult{
		StageName:  s.StageName,
		Start:      start,
		End:        time.Now(),
		SubResults: subResults,
	}, nil
}
