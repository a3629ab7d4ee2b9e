package stages

import (
	"io"
	"strings"

	"github.com/abissens/elepages/pkg/pages"
)

// hbsPage renders its source page through a bound template. The rendered
// source content is exposed to the template as the `page_content` context
// field; `page` and `index` carry the final page record and bundle index.
type hbsPage struct {
	model   *TplModel
	source  pages.Page
	tplName string
}

func (p *hbsPage) Path() []string            { return p.source.Path() }
func (p *hbsPage) Metadata() *pages.Metadata { return p.source.Metadata() }

func (p *hbsPage) Open(outPage *pages.PageIndex, outIndex *pages.BundleIndex, env *pages.Env) (io.ReadCloser, error) {
	ref, release := liveIndexes.register(outIndex)
	defer release()

	content, err := readAll(p.source, env)
	if err != nil {
		return nil, err
	}

	ctx := map[string]any{
		"current_metadata": jsonCtx(pages.NewMetadataIndex(p.source.Metadata())),
		"page":             jsonCtx(outPage),
		"index":            indexCtx(outIndex, ref),
		"page_content":     string(content),
	}

	result, err := p.model.Registry.Render(p.tplName, ctx)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(result)), nil
}

// hbsAsset is a generated page rendered from a template asset, optionally
// carrying the selection slice it was paginated from.
type hbsAsset struct {
	model     *TplModel
	tplName   string
	path      []string
	metadata  *pages.Metadata
	selection *HbsAssetSelection
}

func (p *hbsAsset) Path() []string            { return p.path }
func (p *hbsAsset) Metadata() *pages.Metadata { return p.metadata }

func (p *hbsAsset) Open(outPage *pages.PageIndex, outIndex *pages.BundleIndex, _ *pages.Env) (io.ReadCloser, error) {
	ref, release := liveIndexes.register(outIndex)
	defer release()

	ctx := map[string]any{
		"page":  jsonCtx(outPage),
		"index": indexCtx(outIndex, ref),
	}
	if p.selection != nil {
		ctx["selection"] = jsonCtx(p.selection)
	} else {
		ctx["selection"] = nil
	}

	result, err := p.model.Registry.Render(p.tplName, ctx)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(result)), nil
}
