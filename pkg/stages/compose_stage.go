package stages

import (
	"regexp"
	"strings"
	"time"

	"github.com/abissens/elepages/internal/util/sets"
	"github.com/abissens/elepages/pkg/pages"
	"golang.org/x/sync/errgroup"
)

// SubSetSelector slices a bundle into the sub-bundle of matching pages.
type SubSetSelector interface {
	Select(bundle pages.PageBundle) pages.PageBundle
}

// PrefixSelector keeps pages whose path starts with the given prefix.
type PrefixSelector struct {
	Prefix []string
}

// NewPrefixSelector builds a PrefixSelector from a slash-separated prefix.
func NewPrefixSelector(prefix string) *PrefixSelector {
	return &PrefixSelector{Prefix: strings.Split(prefix, "/")}
}

func (s *PrefixSelector) Select(bundle pages.PageBundle) pages.PageBundle {
	result := &pages.VecBundle{}
	for _, p := range bundle.Pages() {
		if hasPrefix(p.Path(), s.Prefix) {
			result.P = append(result.P, p)
		}
	}
	return result
}

func hasPrefix(path, prefix []string) bool {
	if len(path) < len(prefix) {
		return false
	}
	for i, seg := range prefix {
		if path[i] != seg {
			return false
		}
	}
	return true
}

// RegexSelector keeps pages whose joined path matches the expression.
type RegexSelector struct {
	Regex *regexp.Regexp
}

func (s *RegexSelector) Select(bundle pages.PageBundle) pages.PageBundle {
	result := &pages.VecBundle{}
	for _, p := range bundle.Pages() {
		if s.Regex.MatchString(pages.JoinPath(p.Path())) {
			result.P = append(result.P, p)
		}
	}
	return result
}

// SelectorSubSet adapts a per-page selector into a sub-set selector, letting
// both selector kinds resolve from the same configuration vocabulary.
type SelectorSubSet struct {
	Selector pages.Selector
}

func (s *SelectorSubSet) Select(bundle pages.PageBundle) pages.PageBundle {
	result := &pages.VecBundle{}
	for _, p := range bundle.Pages() {
		if s.Selector.Select(p) {
			result.P = append(result.P, p)
		}
	}
	return result
}

// ComposeUnit is one unit of a composition: either a stage producing a new
// page set from the whole input, or a stage replacing a selected sub-set.
type ComposeUnit struct {
	Selector SubSetSelector // nil for CreateNewSet units
	Inner    Stage
}

// CreateNewSet builds a unit that feeds the whole input to stage.
func CreateNewSet(stage Stage) *ComposeUnit {
	return &ComposeUnit{Inner: stage}
}

// ReplaceSubSet builds a unit that feeds the selected sub-set to stage and
// drops the selected originals from the passthrough tail.
func ReplaceSubSet(selector SubSetSelector, stage Stage) *ComposeUnit {
	return &ComposeUnit{Selector: selector, Inner: stage}
}

// ComposeStage runs its units against the input bundle, emits their outputs
// in declaration order and appends every input page whose path no
// ReplaceSubSet unit selected.
type ComposeStage struct {
	StageName string
	Units     []*ComposeUnit
	Parallel  bool
}

func (s *ComposeStage) Name() string { return s.StageName }

func (s *ComposeStage) Process(bundle pages.PageBundle, env *pages.Env, bag PageGeneratorBag) (pages.PageBundle, *ProcessingResult, error) {
	start := time.Now()
	env.PrintVV("stage "+s.StageName, "compose processing started")

	slots := make([][]pages.Page, len(s.Units))
	replacedSlots := make([][]string, len(s.Units))
	subResults := make([]*ProcessingResult, len(s.Units))

	runUnit := func(i int, unit *ComposeUnit) error {
		in := bundle
		if unit.Selector != nil {
			subSet := unit.Selector.Select(bundle)
			replaced := make([]string, 0, len(subSet.Pages()))
			for _, p := range subSet.Pages() {
				replaced = append(replaced, pages.JoinPath(p.Path()))
			}
			replacedSlots[i] = replaced
			in = subSet
		}
		out, subResult, err := unit.Inner.Process(in, env, bag)
		if err != nil {
			return err
		}
		slots[i] = out.Pages()
		subResults[i] = subResult
		return nil
	}

	if s.Parallel {
		var group errgroup.Group
		for i, unit := range s.Units {
			group.Go(func() error { return runUnit(i, unit) })
		}
		if err := group.Wait(); err != nil {
			return nil, nil, err
		}
	} else {
		for i, unit := range s.Units {
			if err := runUnit(i, unit); err != nil {
				return nil, nil, err
			}
		}
	}

	result := &pages.VecBundle{}
	replacedSet := sets.New[string]()
	for i, slot := range slots {
		result.P = append(result.P, slot...)
		for _, path := range replacedSlots[i] {
			replacedSet.Add(path)
		}
	}
	for _, p := range bundle.Pages() {
		if !replacedSet.Has(pages.JoinPath(p.Path())) {
			result.P = append(result.P, p)
		}
	}

	env.PrintVV("stage "+s.StageName, "compose processing ended")
	return result, &ProcessingResult{
		StageName:  s.StageName,
		Start:      start,
		End:        time.Now(),
		SubResults: subResults,
	}, nil
}
