package stages

import (
	"strings"

	"github.com/abissens/elepages/internal/util/sets"
	"github.com/abissens/elepages/pkg/config"
	"github.com/abissens/elepages/pkg/pages"
)

// TplAssetKind discriminates template-driven assets from static files.
type TplAssetKind int

const (
	// AssetTpl is a handlebars template emitted as one or more pages.
	AssetTpl TplAssetKind = iota
	// AssetStatic is a plain file copied through as a page.
	AssetStatic
)

// TplAsset is one asset discovered in the template directory.
type TplAsset struct {
	Kind      TplAssetKind
	AssetPath []string          // output path for template assets
	TplName   string            // registry name for template assets
	Metadata  *TplAssetMetadata // optional sidecar configuration
	BasePath  string            // template root for static assets
	FilePath  string            // file location for static assets
}

// TplModel is the template model built by the handlebars stage: the
// registry, the set of page template names, and the assets to materialise
// once the final bundle index is known. It doubles as the stage's deferred
// page generator.
type TplModel struct {
	Registry      *TplRegistry
	PagesTplNames sets.Set[string]
	Assets        []*TplAsset
}

// YieldPages materialises every asset against the final bundle index.
func (m *TplModel) YieldPages(outIndex *pages.BundleIndex, env *pages.Env) ([]pages.Page, error) {
	var result []pages.Page
	for _, asset := range m.Assets {
		switch asset.Kind {
		case AssetTpl:
			if asset.Metadata != nil {
				assetPages, err := asset.Metadata.YieldPages(m, asset.AssetPath, asset.TplName, outIndex)
				if err != nil {
					return nil, err
				}
				result = append(result, assetPages...)
				continue
			}
			result = append(result, &hbsAsset{
				model:    m,
				tplName:  asset.TplName,
				path:     asset.AssetPath,
				metadata: generatedAssetMetadata(),
			})
		case AssetStatic:
			page, err := pages.NewFsPageWithMetadata(asset.BasePath, asset.FilePath, generatedAssetMetadata())
			if err != nil {
				return nil, err
			}
			result = append(result, page)
		}
	}
	return result, nil
}

// Fetch binds a page to its template, returning nil when no template
// matches.
func (m *TplModel) Fetch(page pages.Page) pages.Page {
	tplName, ok := m.fetchPageTplName(page)
	if !ok {
		return nil
	}
	return &hbsPage{model: m, source: page, tplName: tplName}
}

// fetchPageTplName resolves the template of a page path: the file-specific
// `page.<name>` template first, then the directory `page` template, then
// each ancestor directory's `page` template up to the root.
func (m *TplModel) fetchPageTplName(page pages.Page) (string, bool) {
	path := page.Path()
	if len(path) == 0 {
		return "", false
	}
	l := len(path)

	c := tplPathJoin(path, l-1)
	if name := c + "page." + path[l-1]; m.PagesTplNames.Has(name) {
		return name, true
	}
	if name := c + "page"; m.PagesTplNames.Has(name) {
		return name, true
	}
	for i := l - 2; i >= 0; i-- {
		if name := tplPathJoin(path, i) + "page"; m.PagesTplNames.Has(name) {
			return name, true
		}
	}
	return "", false
}

func tplPathJoin(path []string, i int) string {
	c := strings.Join(path[:i], "/")
	if c != "" {
		c += "/"
	}
	return c
}

func generatedAssetMetadata() *pages.Metadata {
	m := pages.NewMetadata()
	m.Data = map[string]config.Value{"isRaw": true, "isHidden": true}
	return m
}
