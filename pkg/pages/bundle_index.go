package pages

import (
	"sort"
	"time"

	"github.com/abissens/elepages/internal/util/sets"
	"github.com/abissens/elepages/internal/util/slugify"
	"github.com/abissens/elepages/pkg/config"
)

// PageRef addresses a page of the indexed bundle by path.
type PageRef struct {
	Path []string `json:"path"`
}

// DateIndex is the projected form of an epoch timestamp: every component a
// template might want, precomputed in UTC.
type DateIndex struct {
	Timestamp  int64  `json:"timestamp"`
	IYear      int    `json:"i_year"`
	ShortYear  string `json:"short_year"`
	IMonth     int    `json:"i_month"`
	Month      string `json:"month"`
	ShortMonth string `json:"short_month"`
	LongMonth  string `json:"long_month"`
	IDay       int    `json:"i_day"`
	Day        string `json:"day"`
	ShortDay   string `json:"short_day"`
	LongDay    string `json:"long_day"`
	IHour      int    `json:"i_hour"`
	IMinute    int    `json:"i_minute"`
	ISecond    int    `json:"i_second"`
}

// NewDateIndex projects an epoch timestamp.
func NewDateIndex(ts int64) *DateIndex {
	t := time.Unix(ts, 0).UTC()
	return &DateIndex{
		Timestamp:  ts,
		IYear:      t.Year(),
		ShortYear:  t.Format("06"),
		IMonth:     int(t.Month()),
		Month:      t.Format("01"),
		ShortMonth: t.Format("Jan"),
		LongMonth:  t.Format("January"),
		IDay:       t.Day(),
		Day:        t.Format("02"),
		ShortDay:   t.Format("Mon"),
		LongDay:    t.Format("Monday"),
		IHour:      t.Hour(),
		IMinute:    t.Minute(),
		ISecond:    t.Second(),
	}
}

// MetadataIndex is the serialisable projection of a page's metadata: authors
// and tags reduced to sorted name lists, dates expanded to DateIndex.
type MetadataIndex struct {
	Title          *string                 `json:"title"`
	URLTitle       *string                 `json:"url_title"`
	Summary        *string                 `json:"summary"`
	Authors        []string                `json:"authors"`
	Tags           []string                `json:"tags"`
	PublishingDate *DateIndex              `json:"publishing_date"`
	LastEditDate   *DateIndex              `json:"last_edit_date"`
	Data           map[string]config.Value `json:"data"`
}

// NewMetadataIndex projects a metadata value; nil in, nil out.
func NewMetadataIndex(m *Metadata) *MetadataIndex {
	if m == nil {
		return nil
	}
	idx := &MetadataIndex{
		Title:   m.Title,
		Summary: m.Summary,
		Authors: []string{},
		Tags:    []string{},
		Data:    m.Data,
	}
	if m.Title != nil {
		slug := slugify.String(*m.Title)
		idx.URLTitle = &slug
	}
	for name := range m.Authors {
		idx.Authors = append(idx.Authors, name)
	}
	sort.Strings(idx.Authors)
	if m.Tags != nil {
		idx.Tags = sets.SortedStrings(m.Tags)
	}
	if m.PublishingDate != nil {
		idx.PublishingDate = NewDateIndex(*m.PublishingDate)
	}
	if m.LastEditDate != nil {
		idx.LastEditDate = NewDateIndex(*m.LastEditDate)
	}
	return idx
}

// PageIndex is one record of the bundle index: a page reference, its
// URI-friendly form, and the projected metadata.
type PageIndex struct {
	PageRef  PageRef        `json:"page_ref"`
	PageURI  string         `json:"page_uri"`
	Metadata *MetadataIndex `json:"metadata"`
}

// BundleIndex is the derived catalogue of a bundle: every author, every tag,
// the ordered page records and the inverted tag/author maps. Pages whose
// metadata carries data.isHidden = true are left out entirely.
type BundleIndex struct {
	AllAuthors    AuthorSet            `json:"all_authors"`
	AllTags       sets.Set[string]     `json:"all_tags"`
	AllPages      []*PageIndex         `json:"all_pages"`
	PagesByAuthor map[string][]PageRef `json:"pages_by_author"`
	PagesByTag    map[string][]PageRef `json:"pages_by_tag"`
}

// NewBundleIndex builds the index in a single pass, preserving bundle order.
func NewBundleIndex(bundle PageBundle) *BundleIndex {
	result := &BundleIndex{
		AllAuthors:    NewAuthorSet(),
		AllTags:       sets.New[string](),
		AllPages:      []*PageIndex{},
		PagesByAuthor: map[string][]PageRef{},
		PagesByTag:    map[string][]PageRef{},
	}
	for _, page := range bundle.Pages() {
		metadata := page.Metadata()
		if metadata.DataBool("isHidden") {
			continue
		}
		ref := PageRef{Path: page.Path()}
		result.AllPages = append(result.AllPages, &PageIndex{
			PageRef:  ref,
			PageURI:  JoinPath(page.Path()),
			Metadata: NewMetadataIndex(metadata),
		})
		if metadata == nil {
			continue
		}
		for tag := range metadata.Tags {
			result.AllTags.Add(tag)
			result.PagesByTag[tag] = append(result.PagesByTag[tag], ref)
		}
		for _, author := range metadata.Authors {
			result.AllAuthors.Add(author)
			result.PagesByAuthor[author.Name] = append(result.PagesByAuthor[author.Name], ref)
		}
	}
	return result
}

// Query returns the page records matching q, sorted by publishing date
// descending with dateless pages last and path order breaking ties, then
// windowed by the pagination.
func (idx *BundleIndex) Query(q BundleQuery, paging BundlePagination) []*PageIndex {
	matched := idx.match(q)
	sort.SliceStable(matched, func(i, j int) bool {
		return pageIndexLess(matched[i], matched[j])
	})
	if paging.Skip != nil {
		if *paging.Skip >= len(matched) {
			return []*PageIndex{}
		}
		matched = matched[*paging.Skip:]
	}
	if paging.Limit != nil && *paging.Limit < len(matched) {
		matched = matched[:*paging.Limit]
	}
	return matched
}

// Count returns the number of records matching q, before any pagination.
func (idx *BundleIndex) Count(q BundleQuery, _ BundlePagination) int {
	return len(idx.match(q))
}

func (idx *BundleIndex) match(q BundleQuery) []*PageIndex {
	if q == nil {
		q = AlwaysQuery{}
	}
	matched := make([]*PageIndex, 0, len(idx.AllPages))
	for _, p := range idx.AllPages {
		if q.Matches(p) {
			matched = append(matched, p)
		}
	}
	return matched
}

func pageIndexLess(a, b *PageIndex) bool {
	aDate := publishingTimestamp(a)
	bDate := publishingTimestamp(b)
	switch {
	case aDate != nil && bDate != nil && *aDate != *bDate:
		return *aDate > *bDate
	case aDate != nil && bDate == nil:
		return true
	case aDate == nil && bDate != nil:
		return false
	}
	return JoinPath(a.PageRef.Path) < JoinPath(b.PageRef.Path)
}

func publishingTimestamp(p *PageIndex) *int64 {
	if p.Metadata == nil || p.Metadata.PublishingDate == nil {
		return nil
	}
	return &p.Metadata.PublishingDate.Timestamp
}
