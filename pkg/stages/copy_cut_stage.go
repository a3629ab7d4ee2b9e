package stages

import (
	"time"

	"github.com/abissens/elepages/internal/util/sets"
	"github.com/abissens/elepages/pkg/pages"
)

// CopyCutMode selects the behaviour of a CopyCut stage.
type CopyCutMode int

const (
	// ModeCopy keeps the originals and adds a relocated proxy per
	// selected page.
	ModeCopy CopyCutMode = iota
	// ModeMove relocates the selected pages and keeps the rest.
	ModeMove
	// ModeIgnore drops the selected pages.
	ModeIgnore
)

// CopyCut copies, moves or drops the pages matched by its selector. Copies
// and moves relocate under Dest ++ original path.
type CopyCut struct {
	StageName string
	Mode      CopyCutMode
	Selector  SubSetSelector
	Dest      []string
}

// NewCopy builds a Copy stage.
func NewCopy(name string, selector SubSetSelector, dest []string) *CopyCut {
	return &CopyCut{StageName: name, Mode: ModeCopy, Selector: selector, Dest: dest}
}

// NewMove builds a Move stage.
func NewMove(name string, selector SubSetSelector, dest []string) *CopyCut {
	return &CopyCut{StageName: name, Mode: ModeMove, Selector: selector, Dest: dest}
}

// NewIgnore builds an Ignore stage.
func NewIgnore(name string, selector SubSetSelector) *CopyCut {
	return &CopyCut{StageName: name, Mode: ModeIgnore, Selector: selector}
}

func (s *CopyCut) Name() string { return s.StageName }

func (s *CopyCut) Process(bundle pages.PageBundle, env *pages.Env, _ PageGeneratorBag) (pages.PageBundle, *ProcessingResult, error) {
	start := time.Now()
	env.PrintVV("stage "+s.StageName, "copy/cut processing")

	selected := s.Selector.Select(bundle).Pages()
	result := &pages.VecBundle{}

	switch s.Mode {
	case ModeCopy:
		result.P = append(result.P, bundle.Pages()...)
		for _, p := range selected {
			result.P = append(result.P, pages.ChangePath(p, joinPaths(s.Dest, p.Path())))
		}
	case ModeMove:
		selectedPaths := sets.New[string]()
		for _, p := range selected {
			selectedPaths.Add(pages.JoinPath(p.Path()))
			result.P = append(result.P, pages.ChangePath(p, joinPaths(s.Dest, p.Path())))
		}
		for _, p := range bundle.Pages() {
			if !selectedPaths.Has(pages.JoinPath(p.Path())) {
				result.P = append(result.P, p)
			}
		}
	case ModeIgnore:
		selectedPaths := sets.New[string]()
		for _, p := range selected {
			selectedPaths.Add(pages.JoinPath(p.Path()))
		}
		for _, p := range bundle.Pages() {
			if !selectedPaths.Has(pages.JoinPath(p.Path())) {
				result.P = append(result.P, p)
			}
		}
	}

	return result, &ProcessingResult{
		StageName: s.StageName,
		Start:     start,
		End:       time.Now(),
	}, nil
}

func joinPaths(a, b []string) []string {
	result := make([]string, 0, len(a)+len(b))
	result = append(result, a...)
	return append(result, b...)
}
