package stages

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/abissens/elepages/internal/util/slugify"
	"github.com/abissens/elepages/pkg/pages"
	"github.com/mailgun/raymond/v2"
)

var helpersOnce sync.Once

// registerHelpers installs the pipeline helpers into the engine. Helpers
// receive the serialized index context as their first argument and recover
// the live index through its hidden handle, so concurrent renders against
// different bundles never interfere.
func registerHelpers() {
	helpersOnce.Do(func() {
		raymond.RegisterHelper("bundle_query", bundleQueryHelper)
		raymond.RegisterHelper("bundle_archive_query", bundleArchiveHelper)
		raymond.RegisterHelper("date_format", dateFormatHelper)
		raymond.RegisterHelper("uri_string", uriStringHelper)
	})
}

func liveIndexOf(indexValue any) *pages.BundleIndex {
	ctx, ok := indexValue.(map[string]any)
	if !ok {
		return nil
	}
	ref, ok := ctx[indexRefKey].(string)
	if !ok {
		return nil
	}
	return liveIndexes.lookup(ref)
}

// bundleQueryHelper is a block helper iterating the records matching a
// query: {{#bundle_query index query="tag: t1" skip=0 limit=5}}.
func bundleQueryHelper(indexValue any, options *raymond.Options) raymond.SafeString {
	idx := liveIndexOf(indexValue)
	if idx == nil {
		return ""
	}

	query, err := pages.ParseBundleQueryYAML([]byte(options.HashStr("query")))
	if err != nil {
		return raymond.SafeString(fmt.Sprintf("<!-- %v -->", err))
	}
	paging := pages.BundlePagination{}
	if skip, ok := hashInt(options, "skip"); ok {
		paging.Skip = &skip
	}
	if limit, ok := hashInt(options, "limit"); ok {
		paging.Limit = &limit
	}

	var out strings.Builder
	for _, record := range idx.Query(query, paging) {
		out.WriteString(options.FnWith(jsonCtx(record)))
	}
	return raymond.SafeString(out.String())
}

// bundleArchiveHelper is a block helper iterating year groups of the
// matching records, each holding month groups in chronological order:
// {{#bundle_archive_query index query="..."}}.
func bundleArchiveHelper(indexValue any, options *raymond.Options) raymond.SafeString {
	idx := liveIndexOf(indexValue)
	if idx == nil {
		return ""
	}

	query, err := pages.ParseBundleQueryYAML([]byte(options.HashStr("query")))
	if err != nil {
		return raymond.SafeString(fmt.Sprintf("<!-- %v -->", err))
	}

	type monthGroup struct {
		month string
		pages []any
	}
	archive := map[string]map[string]*monthGroup{}
	for _, record := range idx.Query(query, pages.BundlePagination{}) {
		if record.Metadata == nil || record.Metadata.PublishingDate == nil {
			continue
		}
		date := record.Metadata.PublishingDate
		year := fmt.Sprintf("%d", date.IYear)
		months, ok := archive[year]
		if !ok {
			months = map[string]*monthGroup{}
			archive[year] = months
		}
		group, ok := months[date.Month]
		if !ok {
			group = &monthGroup{month: date.Month}
			months[date.Month] = group
		}
		group.pages = append(group.pages, jsonCtx(record))
	}

	years := make([]string, 0, len(archive))
	for year := range archive {
		years = append(years, year)
	}
	sort.Strings(years)

	var out strings.Builder
	for _, year := range years {
		monthKeys := make([]string, 0, len(archive[year]))
		for month := range archive[year] {
			monthKeys = append(monthKeys, month)
		}
		sort.Strings(monthKeys)
		months := make([]map[string]any, 0, len(monthKeys))
		for _, month := range monthKeys {
			months = append(months, map[string]any{
				"month": month,
				"pages": archive[year][month].pages,
			})
		}
		out.WriteString(options.FnWith(map[string]any{
			"year":   year,
			"months": months,
		}))
	}
	return raymond.SafeString(out.String())
}

// dateFormatHelper renders an epoch timestamp in UTC with a Go layout:
// {{date_format ts format="2006-01-02"}}. The default layout is
// "2006-01-02".
func dateFormatHelper(tsValue any, options *raymond.Options) string {
	ts, ok := asInt64(tsValue)
	if !ok {
		return ""
	}
	layout := options.HashStr("format")
	if layout == "" {
		layout = "2006-01-02"
	}
	return time.Unix(ts, 0).UTC().Format(layout)
}

// uriStringHelper converts a string into its URI-friendly form.
func uriStringHelper(value any, _ *raymond.Options) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return slugify.String(s)
}

func hashInt(options *raymond.Options, key string) (int, bool) {
	v, ok := asInt64(options.HashProp(key))
	if !ok {
		return 0, false
	}
	n := int(v)
	return n, true
}

func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		return int64(t), true
	case string:
		var n int64
		if _, err := fmt.Sscanf(t, "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}
