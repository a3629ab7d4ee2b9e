package pages

import (
	"fmt"
	"time"

	"github.com/abissens/elepages/pkg/config"
	"github.com/abissens/elepages/pkg/errors"
	"gopkg.in/yaml.v3"
)

// BundleQuery selects page records of a BundleIndex. Queries decode from the
// same YAML/JSON vocabulary the selector configuration uses.
type BundleQuery interface {
	Matches(p *PageIndex) bool
}

// AlwaysQuery matches every record.
type AlwaysQuery struct{}

func (AlwaysQuery) Matches(*PageIndex) bool { return true }

// TagQuery matches records carrying the tag.
type TagQuery struct {
	Tag string
}

func (q TagQuery) Matches(p *PageIndex) bool {
	return p.Metadata != nil && containsString(p.Metadata.Tags, q.Tag)
}

// TagsQuery matches records carrying any of the tags.
type TagsQuery struct {
	Tags []string
}

func (q TagsQuery) Matches(p *PageIndex) bool {
	if p.Metadata == nil {
		return false
	}
	for _, t := range q.Tags {
		if containsString(p.Metadata.Tags, t) {
			return true
		}
	}
	return false
}

// AuthorQuery matches records with an author of the given name.
type AuthorQuery struct {
	Author string
}

func (q AuthorQuery) Matches(p *PageIndex) bool {
	return p.Metadata != nil && containsString(p.Metadata.Authors, q.Author)
}

// AuthorsQuery matches records with any of the given author names.
type AuthorsQuery struct {
	Authors []string
}

func (q AuthorsQuery) Matches(p *PageIndex) bool {
	if p.Metadata == nil {
		return false
	}
	for _, a := range q.Authors {
		if containsString(p.Metadata.Authors, a) {
			return true
		}
	}
	return false
}

// PathQuery matches records whose path satisfies a glob query.
type PathQuery struct {
	Query []string
}

func (q PathQuery) Matches(p *PageIndex) bool {
	if len(q.Query) == 0 {
		return true
	}
	return matchSegments(p.PageRef.Path, q.Query)
}

// PublishingDateQuery matches records whose publishing date satisfies the
// bounds; dateless records never match.
type PublishingDateQuery struct {
	Query DateQuery
}

func (q PublishingDateQuery) Matches(p *PageIndex) bool {
	ts := publishingTimestamp(p)
	return ts != nil && q.Query.Matches(*ts)
}

// AndQuery matches when every inner query matches; vacuously true.
type AndQuery struct {
	Queries []BundleQuery
}

func (q AndQuery) Matches(p *PageIndex) bool {
	for _, inner := range q.Queries {
		if !inner.Matches(p) {
			return false
		}
	}
	return true
}

// OrQuery matches when any inner query matches; vacuously false.
type OrQuery struct {
	Queries []BundleQuery
}

func (q OrQuery) Matches(p *PageIndex) bool {
	for _, inner := range q.Queries {
		if inner.Matches(p) {
			return true
		}
	}
	return false
}

// NotQuery negates an inner query.
type NotQuery struct {
	Query BundleQuery
}

func (q NotQuery) Matches(p *PageIndex) bool { return !q.Query.Matches(p) }

// BundlePagination windows a query result. Nil means unbounded.
type BundlePagination struct {
	Skip  *int `yaml:"skip" json:"skip"`
	Limit *int `yaml:"limit" json:"limit"`
}

func containsString(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}

// ParseBundleQueryYAML decodes a YAML query literal; empty input is Always.
func ParseBundleQueryYAML(raw []byte) (BundleQuery, error) {
	if len(raw) == 0 {
		return AlwaysQuery{}, nil
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.WrapValueParsing(err, "invalid bundle query")
	}
	return ParseBundleQuery(config.Normalize(doc))
}

// ParseBundleQuery builds a BundleQuery from a decoded dynamic value.
func ParseBundleQuery(v config.Value) (BundleQuery, error) {
	if v == nil {
		return AlwaysQuery{}, nil
	}
	doc, err := config.AsMap(v)
	if err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return AlwaysQuery{}, nil
	}
	if len(doc) != 1 {
		return nil, errors.ValueParsing("bundle query requires a single root key")
	}
	for key, raw := range doc {
		switch key {
		case "tag":
			tag, err := config.AsString(raw)
			if err != nil {
				return nil, err
			}
			return TagQuery{Tag: tag}, nil
		case "tags":
			tags, err := stringList(raw)
			if err != nil {
				return nil, err
			}
			return TagsQuery{Tags: tags}, nil
		case "author":
			author, err := config.AsString(raw)
			if err != nil {
				return nil, err
			}
			return AuthorQuery{Author: author}, nil
		case "authors":
			authors, err := stringList(raw)
			if err != nil {
				return nil, err
			}
			return AuthorsQuery{Authors: authors}, nil
		case "path":
			query, err := pathQuerySegments(raw)
			if err != nil {
				return nil, err
			}
			return PathQuery{Query: query}, nil
		case "publishing", "publishing_date", "publishingDate":
			dq, err := ParseDateQuery(raw)
			if err != nil {
				return nil, err
			}
			return PublishingDateQuery{Query: dq}, nil
		case "and":
			inner, err := queryList(raw)
			if err != nil {
				return nil, err
			}
			return AndQuery{Queries: inner}, nil
		case "or":
			inner, err := queryList(raw)
			if err != nil {
				return nil, err
			}
			return OrQuery{Queries: inner}, nil
		case "not":
			inner, err := ParseBundleQuery(raw)
			if err != nil {
				return nil, err
			}
			return NotQuery{Query: inner}, nil
		default:
			return nil, errors.ValueParsing(fmt.Sprintf("unknown bundle query %q", key))
		}
	}
	return AlwaysQuery{}, nil
}

// ParseBundlePaginationYAML decodes a YAML pagination literal.
func ParseBundlePaginationYAML(raw []byte) (BundlePagination, error) {
	var paging BundlePagination
	if len(raw) == 0 {
		return paging, nil
	}
	if err := yaml.Unmarshal(raw, &paging); err != nil {
		return paging, errors.WrapValueParsing(err, "invalid pagination")
	}
	return paging, nil
}

// ParseDateQuery decodes a date-query configuration: beforeDate/afterDate
// bound at end of that day in UTC, beforeTime/afterTime at the exact
// RFC 3339 instant. Both bounds together form an inclusive interval.
func ParseDateQuery(v config.Value) (DateQuery, error) {
	var dq DateQuery
	doc, err := config.AsMap(v)
	if err != nil {
		return dq, err
	}
	for key, raw := range doc {
		s, err := config.AsString(raw)
		if err != nil {
			return dq, err
		}
		switch key {
		case "beforeDate":
			ts, err := endOfDayUTC(s)
			if err != nil {
				return dq, err
			}
			dq.Before = &ts
		case "afterDate":
			ts, err := endOfDayUTC(s)
			if err != nil {
				return dq, err
			}
			dq.After = &ts
		case "beforeTime":
			ts, err := instant(s)
			if err != nil {
				return dq, err
			}
			dq.Before = &ts
		case "afterTime":
			ts, err := instant(s)
			if err != nil {
				return dq, err
			}
			dq.After = &ts
		default:
			return dq, errors.ValueParsing(fmt.Sprintf("unknown date query key %q", key))
		}
	}
	if dq.Before == nil && dq.After == nil {
		return dq, errors.ValueParsing("date query requires a bound")
	}
	return dq, nil
}

func endOfDayUTC(s string) (int64, error) {
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, errors.WrapValueParsing(err, fmt.Sprintf("invalid date literal %q", s))
	}
	return day.Add(24*time.Hour - time.Second).Unix(), nil
}

func instant(s string) (int64, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, errors.WrapValueParsing(err, fmt.Sprintf("invalid instant literal %q", s))
	}
	return t.Unix(), nil
}

func queryList(v config.Value) ([]BundleQuery, error) {
	entries, err := config.AsSlice(v)
	if err != nil {
		return nil, err
	}
	out := make([]BundleQuery, 0, len(entries))
	for _, e := range entries {
		q, err := ParseBundleQuery(e)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func stringList(v config.Value) ([]string, error) {
	entries, err := config.AsSlice(v)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		s, err := config.AsString(e)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func pathQuerySegments(v config.Value) ([]string, error) {
	if s, ok := v.(string); ok {
		return NewPathSelector(s).Query, nil
	}
	return stringList(v)
}
