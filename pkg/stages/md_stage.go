package stages

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/abissens/elepages/pkg/errors"
	"github.com/abissens/elepages/pkg/pages"
	"github.com/yuin/goldmark"
)

// MdStage rewrites every page into its rendered HTML form: the last path
// segment's extension becomes `.html` and the content is produced by a
// CommonMark renderer when the page is opened. Segments without a dot keep
// their name.
type MdStage struct {
	StageName string
}

func (s *MdStage) Name() string { return s.StageName }

func (s *MdStage) Process(bundle pages.PageBundle, env *pages.Env, _ PageGeneratorBag) (pages.PageBundle, *ProcessingResult, error) {
	start := time.Now()
	env.PrintVV("stage "+s.StageName, "markdown processing")

	result := &pages.VecBundle{}
	for _, p := range bundle.Pages() {
		result.P = append(result.P, &mdPage{source: p, relPath: htmlPath(p.Path())})
	}

	return result, &ProcessingResult{
		StageName: s.StageName,
		Start:     start,
		End:       time.Now(),
	}, nil
}

func htmlPath(path []string) []string {
	if len(path) == 0 {
		return path
	}
	out := append([]string{}, path...)
	last := out[len(out)-1]
	if idx := strings.LastIndexByte(last, '.'); idx >= 0 {
		out[len(out)-1] = last[:idx] + ".html"
	}
	return out
}

type mdPage struct {
	source  pages.Page
	relPath []string
}

func (p *mdPage) Path() []string            { return p.relPath }
func (p *mdPage) Metadata() *pages.Metadata { return p.source.Metadata() }

func (p *mdPage) Open(outPage *pages.PageIndex, outIndex *pages.BundleIndex, env *pages.Env) (io.ReadCloser, error) {
	r, err := p.source.Open(outPage, outIndex, env)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO(err, "read markdown source")
	}

	var html bytes.Buffer
	html.Grow(len(source) * 3 / 2)
	if err := goldmark.New().Convert(source, &html); err != nil {
		return nil, errors.WrapRender(err, "render markdown")
	}
	return io.NopCloser(&html), nil
}
