package stages

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/abissens/elepages/internal/util/sets"
	"github.com/abissens/elepages/pkg/errors"
	"github.com/abissens/elepages/pkg/pages"
)

// IndexStage emits the five generated JSON pages describing the final
// bundle. Their bytes are computed lazily when the writer opens them, so
// they serialise the post-pipeline index.
type IndexStage struct {
	StageName string
}

func (s *IndexStage) Name() string { return s.StageName }

func (s *IndexStage) Process(_ pages.PageBundle, env *pages.Env, _ PageGeneratorBag) (pages.PageBundle, *ProcessingResult, error) {
	start := time.Now()
	env.PrintVV("stage "+s.StageName, "generate index pages")

	result := &pages.VecBundle{P: []pages.Page{
		&indexPage{path: []string{"all_pages.json"}, project: func(idx *pages.BundleIndex) any { return idx.AllPages }},
		&indexPage{path: []string{"all_authors.json"}, project: func(idx *pages.BundleIndex) any { return idx.AllAuthors }},
		&indexPage{path: []string{"all_tags.json"}, project: func(idx *pages.BundleIndex) any { return sets.SortedStrings(idx.AllTags) }},
		&indexPage{path: []string{"pages_by_tag.json"}, project: func(idx *pages.BundleIndex) any { return idx.PagesByTag }},
		&indexPage{path: []string{"pages_by_author.json"}, project: func(idx *pages.BundleIndex) any { return idx.PagesByAuthor }},
	}}

	return result, &ProcessingResult{
		StageName: s.StageName,
		Start:     start,
		End:       time.Now(),
	}, nil
}

type indexPage struct {
	path    []string
	project func(idx *pages.BundleIndex) any
}

func (p *indexPage) Path() []string            { return p.path }
func (p *indexPage) Metadata() *pages.Metadata { return nil }

func (p *indexPage) Open(_ *pages.PageIndex, outIndex *pages.BundleIndex, _ *pages.Env) (io.ReadCloser, error) {
	content, err := json.Marshal(p.project(outIndex))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryRender, "serialise bundle index")
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}
