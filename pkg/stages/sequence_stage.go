package stages

import (
	"time"

	"github.com/abissens/elepages/pkg/pages"
)

// SequenceStage applies its stages left to right; the output of each stage
// feeds the next. An empty sequence is the identity.
type SequenceStage struct {
	StageName string
	Stages    []Stage
}

func (s *SequenceStage) Name() string { return s.StageName }

func (s *SequenceStage) Process(bundle pages.PageBundle, env *pages.Env, bag PageGeneratorBag) (pages.PageBundle, *ProcessingResult, error) {
	start := time.Now()
	env.PrintVV("stage "+s.StageName, "sequence processing started")

	current := bundle
	subResults := make([]*ProcessingResult, 0, len(s.Stages))
	for _, stage := range s.Stages {
		next, subResult, err := stage.Process(current, env, bag)
		if err != nil {
			return nil, nil, err
		}
		subResults = append(subResults, subResult)
		current = next
	}

	env.PrintVV("stage "+s.StageName, "sequence processing ended")
	return current, &ProcessingResult{
		StageName:  s.StageName,
		Start:      start,
		End:        time.Now(),
		SubResults: subResults,
	}, nil
}
