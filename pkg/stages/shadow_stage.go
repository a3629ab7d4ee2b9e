package stages

import (
	"io"
	"strings"
	"time"

	"github.com/abissens/elepages/internal/util/sets"
	"github.com/abissens/elepages/pkg/errors"
	"github.com/abissens/elepages/pkg/pages"
	"golang.org/x/sync/errgroup"
)

// ShadowLoader parses a sidecar page into a metadata value.
type ShadowLoader interface {
	Load(page pages.Page, env *pages.Env) (*pages.Metadata, error)
}

// ShadowStage removes `<name>.<ext>` sidecar files from the bundle and
// overlays their metadata onto the sibling or descendant pages they target.
// Loaders are pluggable per extension; the default set parses `.yaml` and
// `.json` sidecars.
type ShadowStage struct {
	StageName string
	Loaders   map[string]ShadowLoader
}

// NewShadowStage builds a stage with the default yaml and json loaders.
func NewShadowStage(name string) *ShadowStage {
	return &ShadowStage{
		StageName: name,
		Loaders: map[string]ShadowLoader{
			".yaml": yamlShadowLoader{},
			".json": jsonShadowLoader{},
		},
	}
}

func (s *ShadowStage) Name() string { return s.StageName }

type shadowCandidate struct {
	page   pages.Page
	loader ShadowLoader
	target []string
}

func (s *ShadowStage) Process(bundle pages.PageBundle, env *pages.Env, _ PageGeneratorBag) (pages.PageBundle, *ProcessingResult, error) {
	start := time.Now()
	env.PrintVV("stage "+s.StageName, "shadow metadata processing")

	// Select metadata candidates and record every path prefix present in
	// the bundle; a candidate is only a shadow when its target exists.
	candidates := map[string]*shadowCandidate{}
	allPaths := sets.New[string]()
	for _, page := range bundle.Pages() {
		path := page.Path()
		if len(path) == 0 {
			continue
		}
		last := path[len(path)-1]
		for ext, loader := range s.Loaders {
			if !strings.HasSuffix(last, ext) {
				continue
			}
			target := append(append([]string{}, path[:len(path)-1]...), strings.TrimSuffix(last, ext))
			candidates[pages.JoinPath(target)] = &shadowCandidate{page: page, loader: loader, target: target}
		}
		for i := range path {
			allPaths.Add(pages.JoinPath(path[:i+1]))
		}
	}
	for key, candidate := range candidates {
		if !allPaths.Has(key) || candidate.target[len(candidate.target)-1] == "" {
			delete(candidates, key)
		}
	}

	// Parse retained candidates in parallel.
	retained := make([]*shadowCandidate, 0, len(candidates))
	for _, c := range candidates {
		retained = append(retained, c)
	}
	parsed := make([]*pages.Metadata, len(retained))
	var group errgroup.Group
	for i, c := range retained {
		group.Go(func() error {
			metadata, err := c.loader.Load(c.page, env)
			if err != nil {
				return err
			}
			parsed[i] = metadata
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	tree := NewMetadataTree()
	for i, c := range retained {
		if err := tree.Push(c.target, parsed[i]); err != nil {
			return nil, nil, err
		}
	}

	shadowPaths := sets.New[string]()
	for _, c := range retained {
		shadowPaths.Add(pages.JoinPath(c.page.Path()))
	}

	result := &pages.VecBundle{}
	for _, page := range bundle.Pages() {
		if shadowPaths.Has(pages.JoinPath(page.Path())) {
			continue
		}
		merged, err := s.mergedMetadata(page, tree)
		if err != nil {
			return nil, nil, err
		}
		if merged == nil {
			result.P = append(result.P, page)
			continue
		}
		result.P = append(result.P, pages.ChangeMetadata(page, merged))
	}

	return result, &ProcessingResult{
		StageName: s.StageName,
		Start:     start,
		End:       time.Now(),
	}, nil
}

// mergedMetadata folds the shadow chain onto a page, child first, ancestors
// as overlays. A nil return means the page is untouched by any shadow.
func (s *ShadowStage) mergedMetadata(page pages.Page, tree *MetadataTree) (*pages.Metadata, error) {
	nodes := tree.GetMetadataFromPath(page.Path())
	if len(nodes) == 0 {
		return nil, nil
	}

	var current *pages.Metadata
	switch {
	case page.Metadata() != nil:
		current = page.Metadata().Clone()
	case len(nodes) == len(page.Path()):
		// The deepest node is the page's own shadow.
		deepest := nodes[len(nodes)-1]
		nodes = nodes[:len(nodes)-1]
		if deepest.Metadata != nil {
			current = deepest.Metadata.Clone()
		} else {
			current = pages.NewMetadata()
		}
	default:
		current = pages.NewMetadata()
	}

	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i].Metadata == nil {
			continue
		}
		merged, err := current.Merge(nodes[i].Metadata)
		if err != nil {
			return nil, err
		}
		current = merged
	}
	return current, nil
}

type yamlShadowLoader struct{}

func (yamlShadowLoader) Load(page pages.Page, env *pages.Env) (*pages.Metadata, error) {
	raw, err := readAll(page, env)
	if err != nil {
		return nil, err
	}
	return pages.UnmarshalMetadataYAML(raw)
}

type jsonShadowLoader struct{}

func (jsonShadowLoader) Load(page pages.Page, env *pages.Env) (*pages.Metadata, error) {
	raw, err := readAll(page, env)
	if err != nil {
		return nil, err
	}
	return pages.UnmarshalMetadataJSON(raw)
}

func readAll(page pages.Page, env *pages.Env) ([]byte, error) {
	r, err := page.Open(nil, nil, env)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO(err, "read page content")
	}
	return raw, nil
}
