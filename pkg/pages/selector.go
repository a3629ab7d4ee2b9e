package pages

import "strings"

// Selector is a per-page predicate. Predicates compose through And, Or and
// Not and need no materialised output; bundle-slicing selectors live in the
// stages package.
type Selector interface {
	Select(page Page) bool
}

// PathSelector matches a page path against a glob query. A `**` segment
// matches zero or more path segments; inside a segment `*` matches zero or
// more characters. A `**` that ends the query needs at least one remaining
// segment, and a `*` that ends a segment pattern needs at least one remaining
// character. Adjacent stars collapse, and `**` consumes as little as
// possible while still letting the remainder match.
type PathSelector struct {
	Query []string
}

// NewPathSelector builds a PathSelector from a `/`-separated glob string.
func NewPathSelector(query string) *PathSelector {
	return &PathSelector{Query: strings.Split(query, "/")}
}

func (s *PathSelector) Select(page Page) bool {
	if len(s.Query) == 0 {
		return true
	}
	return matchSegments(page.Path(), s.Query)
}

func matchSegments(path, query []string) bool {
	if len(query) == 0 {
		return len(path) == 0
	}
	if len(path) == 0 {
		return false
	}
	if query[0] == "**" {
		i := 1
		for i < len(query) {
			if query[i] == "**" {
				i++
				continue
			}
			for pos, v := range path {
				if matchSegment(query[i], v) && matchSegments(path[pos+1:], query[i+1:]) {
					return true
				}
			}
			return false
		}
		return true
	}
	if matchSegment(query[0], path[0]) {
		return matchSegments(path[1:], query[1:])
	}
	return false
}

func matchSegment(query, item string) bool {
	if query == "*" || query == item {
		return true
	}
	if strings.ContainsRune(query, '*') {
		return matchChars([]rune(item), []rune(query))
	}
	return false
}

func matchChars(item, query []rune) bool {
	if len(query) == 0 {
		return len(item) == 0
	}
	if len(item) == 0 {
		return false
	}
	if query[0] == '*' {
		i := 1
		for i < len(query) {
			if query[i] == '*' {
				i++
				continue
			}
			for pos, v := range item {
				if v == query[i] && matchChars(item[pos+1:], query[i+1:]) {
					return true
				}
			}
			return false
		}
		return true
	}
	if item[0] == query[0] {
		return matchChars(item[1:], query[1:])
	}
	return false
}

// ExtSelector matches pages whose file name ends with a literal suffix; the
// caller includes the dot.
type ExtSelector struct {
	Ext string
}

func (s *ExtSelector) Select(page Page) bool {
	path := page.Path()
	if len(path) == 0 {
		return false
	}
	if s.Ext == "" {
		return true
	}
	return strings.HasSuffix(path[len(path)-1], s.Ext)
}

// TagSelector matches pages carrying the tag in their metadata.
type TagSelector struct {
	Tag string
}

func (s *TagSelector) Select(page Page) bool {
	m := page.Metadata()
	return m != nil && m.Tags.Has(s.Tag)
}

// AuthorSelector matches pages with at least one author of the given name.
type AuthorSelector struct {
	Author string
}

func (s *AuthorSelector) Select(page Page) bool {
	m := page.Metadata()
	return m != nil && m.Authors.Has(s.Author)
}

// DateQuery bounds a publishing date. Between is inclusive on both ends.
type DateQuery struct {
	Before *int64
	After  *int64
}

// Matches reports whether ts satisfies the bounds.
func (q DateQuery) Matches(ts int64) bool {
	if q.Before != nil && ts > *q.Before {
		return false
	}
	if q.After != nil && ts < *q.After {
		return false
	}
	return true
}

// PublishingDateSelector matches pages whose publishing date satisfies a
// DateQuery. Pages without a publishing date never match.
type PublishingDateSelector struct {
	Query DateQuery
}

func (s *PublishingDateSelector) Select(page Page) bool {
	m := page.Metadata()
	if m == nil || m.PublishingDate == nil {
		return false
	}
	return s.Query.Matches(*m.PublishingDate)
}

// AndSelector matches when every inner selector matches; vacuously true.
type AndSelector struct {
	Selectors []Selector
}

func (s *AndSelector) Select(page Page) bool {
	for _, inner := range s.Selectors {
		if !inner.Select(page) {
			return false
		}
	}
	return true
}

// OrSelector matches when any inner selector matches; vacuously false.
type OrSelector struct {
	Selectors []Selector
}

func (s *OrSelector) Select(page Page) bool {
	for _, inner := range s.Selectors {
		if inner.Select(page) {
			return true
		}
	}
	return false
}

// NotSelector negates an inner selector.
type NotSelector struct {
	Inner Selector
}

func (s *NotSelector) Select(page Page) bool {
	return !s.Inner.Select(page)
}
