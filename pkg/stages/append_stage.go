package stages

import (
	"time"

	"github.com/abissens/elepages/pkg/pages"
)

// AppendStage augments a bundle with the pages produced by its inner stage
// without losing the originals.
type AppendStage struct {
	StageName string
	Inner     Stage
}

func (s *AppendStage) Name() string { return s.StageName }

func (s *AppendStage) Process(bundle pages.PageBundle, env *pages.Env, bag PageGeneratorBag) (pages.PageBundle, *ProcessingResult, error) {
	start := time.Now()
	env.PrintVV("stage "+s.StageName, "start appending")

	innerBundle, innerResult, err := s.Inner.Process(bundle, env, bag)
	if err != nil {
		return nil, nil, err
	}

	result := &pages.VecBundle{P: append([]pages.Page{}, bundle.Pages()...)}
	result.P = append(result.P, innerBundle.Pages()...)

	env.PrintVV("stage "+s.StageName, "append ended")
	return result, &ProcessingResult{
		StageName:  s.StageName,
		Start:      start,
		End:        time.Now(),
		SubResults: []*ProcessingResult{innerResult},
	}, nil
}
