package stages

import (
	"sort"
	"strings"

	"github.com/abissens/elepages/internal/util/sets"
	"github.com/abissens/elepages/pkg/errors"
	"github.com/abissens/elepages/pkg/pages"
	"gopkg.in/yaml.v3"
)

// TplAssetGroupBy enumerates the grouping dimensions of a template asset.
type TplAssetGroupBy string

const (
	GroupByTag    TplAssetGroupBy = "tag"
	GroupByAuthor TplAssetGroupBy = "author"
)

// TplAssetMetadata is the sidecar configuration of a template asset
// (`asset.<name>.hbs.yaml`): a base query, an optional grouping dimension,
// a pagination limit and the output path patterns.
type TplAssetMetadata struct {
	BaseQuery            pages.BundleQuery
	GroupBy              *TplAssetGroupBy
	Limit                *int
	PathPattern          *string
	FirstPagePathPattern *string
}

type tplAssetMetadataDoc struct {
	Query        any     `yaml:"query"`
	GroupBy      *string `yaml:"groupBy"`
	Limit        *int    `yaml:"limit"`
	Path         *string `yaml:"path"`
	FirstPagePath *string `yaml:"firstPagePath"`
}

// ParseTplAssetMetadata decodes a sidecar document.
func ParseTplAssetMetadata(raw []byte) (*TplAssetMetadata, error) {
	var doc tplAssetMetadataDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.WrapValueParsing(err, "invalid asset sidecar")
	}
	meta := &TplAssetMetadata{
		Limit:                doc.Limit,
		PathPattern:          doc.Path,
		FirstPagePathPattern: doc.FirstPagePath,
	}
	query, err := pages.ParseBundleQuery(doc.Query)
	if err != nil {
		return nil, err
	}
	meta.BaseQuery = query
	if doc.GroupBy != nil {
		switch *doc.GroupBy {
		case string(GroupByTag):
			g := GroupByTag
			meta.GroupBy = &g
		case string(GroupByAuthor):
			g := GroupByAuthor
			meta.GroupBy = &g
		default:
			return nil, errors.ValueParsing("groupBy must be tag or author")
		}
	}
	return meta, nil
}

// HbsAssetSelection is the render context of one generated asset page: the
// selected records, the pagination coordinates and the grouping key.
type HbsAssetSelection struct {
	Pages  []*pages.PageIndex `json:"pages"`
	Index  int                `json:"index"`
	Last   int                `json:"last"`
	Limit  int                `json:"limit"`
	Size   *int               `json:"size"`
	Tag    *string            `json:"tag"`
	Author *string            `json:"author"`
}

type assetQuery struct {
	query  pages.BundleQuery
	tag    *string
	author *string
}

// YieldPages enumerates the concrete pages of the asset against the final
// bundle index, one grouping per tag or author and one page per pagination
// chunk.
func (m *TplAssetMetadata) YieldPages(model *TplModel, assetPath []string, tplName string, outIndex *pages.BundleIndex) ([]pages.Page, error) {
	base := m.BaseQuery
	if base == nil {
		base = pages.AlwaysQuery{}
	}

	var queries []assetQuery
	if m.GroupBy != nil {
		switch *m.GroupBy {
		case GroupByTag:
			for _, tag := range sets.SortedStrings(outIndex.AllTags) {
				queries = append(queries, assetQuery{
					query: pages.AndQuery{Queries: []pages.BundleQuery{base, pages.TagQuery{Tag: tag}}},
					tag:   &tag,
				})
			}
		case GroupByAuthor:
			names := make([]string, 0, len(outIndex.AllAuthors))
			for name := range outIndex.AllAuthors {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				queries = append(queries, assetQuery{
					query:  pages.AndQuery{Queries: []pages.BundleQuery{base, pages.AuthorQuery{Author: name}}},
					author: &name,
				})
			}
		}
	}
	if len(queries) == 0 {
		queries = append(queries, assetQuery{query: base})
	}

	noPaging := pages.BundlePagination{}
	var result []pages.Page

	if m.Limit != nil {
		limit := *m.Limit
		for _, q := range queries {
			size := outIndex.Count(q.query, noPaging)
			nbPages := (size + limit - 1) / limit
			for p := 0; p < nbPages; p++ {
				skip := p * limit
				selection := &HbsAssetSelection{
					Pages:  outIndex.Query(q.query, pages.BundlePagination{Skip: &skip, Limit: &limit}),
					Index:  p,
					Last:   nbPages - 1,
					Limit:  limit,
					Size:   &size,
					Tag:    q.tag,
					Author: q.author,
				}
				path, err := m.makePath(assetPath, selection)
				if err != nil {
					return nil, err
				}
				result = append(result, &hbsAsset{
					model:     model,
					tplName:   tplName,
					path:      path,
					metadata:  generatedAssetMetadata(),
					selection: selection,
				})
			}
		}
		return result, nil
	}

	for _, q := range queries {
		selected := outIndex.Query(q.query, noPaging)
		selection := &HbsAssetSelection{
			Pages:  selected,
			Index:  0,
			Last:   0,
			Limit:  len(selected),
			Tag:    q.tag,
			Author: q.author,
		}
		path, err := m.makePath(assetPath, selection)
		if err != nil {
			return nil, err
		}
		result = append(result, &hbsAsset{
			model:     model,
			tplName:   tplName,
			path:      path,
			metadata:  generatedAssetMetadata(),
			selection: selection,
		})
	}
	return result, nil
}

// makePath renders the output path of one selection: the first-page pattern
// for chunk zero when configured, the general pattern otherwise, the
// template's own path as last resort.
func (m *TplAssetMetadata) makePath(assetPath []string, selection *HbsAssetSelection) ([]string, error) {
	pattern := m.PathPattern
	if selection.Index == 0 && m.FirstPagePathPattern != nil {
		pattern = m.FirstPagePathPattern
	}
	if pattern == nil {
		return assetPath, nil
	}
	rendered, err := RenderString(*pattern, jsonCtx(selection))
	if err != nil {
		return nil, err
	}
	return strings.Split(rendered, "/"), nil
}
