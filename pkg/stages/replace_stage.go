package stages

import (
	"time"

	"github.com/abissens/elepages/internal/util/sets"
	"github.com/abissens/elepages/pkg/pages"
)

// ReplaceStage feeds the selected pages to its inner stage and emits the
// inner output followed by the unselected remainder of the input.
type ReplaceStage struct {
	StageName string
	Inner     Stage
	Selector  pages.Selector
}

func (s *ReplaceStage) Name() string { return s.StageName }

func (s *ReplaceStage) Process(bundle pages.PageBundle, env *pages.Env, bag PageGeneratorBag) (pages.PageBundle, *ProcessingResult, error) {
	start := time.Now()
	env.PrintVV("stage "+s.StageName, "start replacing")

	subSet := &pages.VecBundle{}
	replacedSet := sets.New[string]()
	for _, p := range bundle.Pages() {
		if s.Selector.Select(p) {
			subSet.P = append(subSet.P, p)
			replacedSet.Add(pages.JoinPath(p.Path()))
		}
	}

	innerBundle, innerResult, err := s.Inner.Process(subSet, env, bag)
	if err != nil {
		return nil, nil, err
	}

	result := &pages.VecBundle{P: append([]pages.Page{}, innerBundle.Pages()...)}
	for _, p := range bundle.Pages() {
		if !replacedSet.Has(pages.JoinPath(p.Path())) {
			result.P = append(result.P, p)
		}
	}

	env.PrintVV("stage "+s.StageName, "replacing ended")
	return result, &ProcessingResult{
		StageName:  s.StageName,
		Start:      start,
		End:        time.Now(),
		SubResults: []*ProcessingResult{innerResult},
	}, nil
}
