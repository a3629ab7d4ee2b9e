package stages

import (
	"strings"
	"time"

	"github.com/abissens/elepages/pkg/pages"
)

// PathGeneratorStage relocates pages whose metadata data map carries a
// `path` template string. The pattern renders against the page's projected
// metadata (title, url-safe title, summary, authors, tags, the publishing
// date components, the data map, the original path and its reverse) and the
// result splits on `/` into the new path. Pages without a hint pass
// through.
type PathGeneratorStage struct {
	StageName string
}

func (s *PathGeneratorStage) Name() string { return s.StageName }

func (s *PathGeneratorStage) Process(bundle pages.PageBundle, env *pages.Env, _ PageGeneratorBag) (pages.PageBundle, *ProcessingResult, error) {
	start := time.Now()
	env.PrintVV("stage "+s.StageName, "path generation")

	result := &pages.VecBundle{}
	for _, page := range bundle.Pages() {
		pattern, ok := page.Metadata().DataString("path")
		if !ok {
			result.P = append(result.P, page)
			continue
		}
		rendered, err := RenderString(pattern, pathParams(page))
		if err != nil {
			return nil, nil, err
		}
		result.P = append(result.P, pages.ChangePath(page, strings.Split(rendered, "/")))
	}

	env.PrintVV("stage "+s.StageName, "path generation ended")
	return result, &ProcessingResult{
		StageName: s.StageName,
		Start:     start,
		End:       time.Now(),
	}, nil
}

func pathParams(page pages.Page) map[string]any {
	path := page.Path()
	revPath := make([]string, len(path))
	for i, seg := range path {
		revPath[len(path)-1-i] = seg
	}

	params := map[string]any{
		"title":      "",
		"url_title":  "",
		"summary":    "",
		"authors":    nil,
		"tags":       nil,
		"timestamp":  nil,
		"i_year":     nil,
		"short_year": "",
		"i_month":    nil,
		"month":      "",
		"short_month": "",
		"long_month":  "",
		"i_day":      nil,
		"day":        "",
		"short_day":  "",
		"long_day":   "",
		"i_hour":     nil,
		"i_minute":   nil,
		"i_second":   nil,
		"last_edit_date": nil,
		"data":       nil,
		"path":       path,
		"rev_path":   revPath,
	}

	metadata := pages.NewMetadataIndex(page.Metadata())
	if metadata == nil {
		return params
	}

	if metadata.Title != nil {
		params["title"] = *metadata.Title
	}
	if metadata.URLTitle != nil {
		params["url_title"] = *metadata.URLTitle
	}
	if metadata.Summary != nil {
		params["summary"] = *metadata.Summary
	}
	params["authors"] = metadata.Authors
	params["tags"] = metadata.Tags
	params["data"] = jsonCtx(metadata.Data)

	if date := metadata.PublishingDate; date != nil {
		params["timestamp"] = date.Timestamp
		params["i_year"] = date.IYear
		params["short_year"] = date.ShortYear
		params["i_month"] = date.IMonth
		params["month"] = date.Month
		params["short_month"] = date.ShortMonth
		params["long_month"] = date.LongMonth
		params["i_day"] = date.IDay
		params["day"] = date.Day
		params["short_day"] = date.ShortDay
		params["long_day"] = date.LongDay
		params["i_hour"] = date.IHour
		params["i_minute"] = date.IMinute
		params["i_second"] = date.ISecond
	}
	if metadata.LastEditDate != nil {
		params["last_edit_date"] = jsonCtx(metadata.LastEditDate)
	}
	return params
}
