package maker

import (
	"fmt"
	"regexp"

	"github.com/abissens/elepages/pkg/config"
	"github.com/abissens/elepages/pkg/errors"
	"github.com/abissens/elepages/pkg/pages"
)

// makeSelector builds a per-page selector from the shared selector
// configuration vocabulary: a bare glob string, `{path}`, `{ext}`, `{tag}`,
// `{author}`, `{regex}`, `{prefix}`, `{publishing}` and the logical
// combinators.
func (m *Maker) makeSelector(value config.Value) (pages.Selector, error) {
	switch v := config.Normalize(value).(type) {
	case string:
		return pages.NewPathSelector(v), nil
	case map[string]config.Value:
		if len(v) != 1 {
			return nil, errors.ValueParsing("selector requires a single root key")
		}
		for key, raw := range v {
			return m.makeSelectorEntry(key, raw)
		}
	}
	return nil, errors.ValueParsing(fmt.Sprintf("invalid selector configuration of type %T", value))
}

func (m *Maker) makeSelectorEntry(key string, raw config.Value) (pages.Selector, error) {
	switch key {
	case "path":
		path, err := config.AsString(raw)
		if err != nil {
			return nil, err
		}
		return pages.NewPathSelector(path), nil
	case "ext":
		ext, err := config.AsString(raw)
		if err != nil {
			return nil, err
		}
		return &pages.ExtSelector{Ext: ext}, nil
	case "tag":
		tag, err := config.AsString(raw)
		if err != nil {
			return nil, err
		}
		return &pages.TagSelector{Tag: tag}, nil
	case "author":
		author, err := config.AsString(raw)
		if err != nil {
			return nil, err
		}
		return &pages.AuthorSelector{Author: author}, nil
	case "regex":
		expr, err := config.AsString(raw)
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, errors.WrapValueParsing(err, "invalid selector regex")
		}
		return &regexPredicate{regex: re}, nil
	case "prefix":
		prefix, err := config.AsString(raw)
		if err != nil {
			return nil, err
		}
		return &prefixPredicate{prefix: pages.NewPathSelector(prefix).Query}, nil
	case "publishing":
		query, err := pages.ParseDateQuery(raw)
		if err != nil {
			return nil, err
		}
		return &pages.PublishingDateSelector{Query: query}, nil
	case "and":
		inner, err := m.makeSelectorList(raw)
		if err != nil {
			return nil, err
		}
		return &pages.AndSelector{Selectors: inner}, nil
	case "or":
		inner, err := m.makeSelectorList(raw)
		if err != nil {
			return nil, err
		}
		return &pages.OrSelector{Selectors: inner}, nil
	case "not":
		inner, err := m.makeSelector(raw)
		if err != nil {
			return nil, err
		}
		return &pages.NotSelector{Inner: inner}, nil
	default:
		return nil, errors.ValueParsing(fmt.Sprintf("unknown selector %q", key))
	}
}

func (m *Maker) makeSelectorList(raw config.Value) ([]pages.Selector, error) {
	values, err := config.AsSlice(raw)
	if err != nil {
		return nil, err
	}
	out := make([]pages.Selector, 0, len(values))
	for _, value := range values {
		selector, err := m.makeSelector(value)
		if err != nil {
			return nil, err
		}
		out = append(out, selector)
	}
	return out, nil
}

// regexPredicate matches a page's joined path against an expression.
type regexPredicate struct {
	regex *regexp.Regexp
}

func (s *regexPredicate) Select(page pages.Page) bool {
	return s.regex.MatchString(pages.JoinPath(page.Path()))
}

// prefixPredicate matches pages whose path starts with a prefix.
type prefixPredicate struct {
	prefix []string
}

func (s *prefixPredicate) Select(page pages.Page) bool {
	path := page.Path()
	if len(path) < len(s.prefix) {
		return false
	}
	for i, seg := range s.prefix {
		if path[i] != seg {
			return false
		}
	}
	return true
}
