// Package pagetest provides in-memory page fakes and bundle snapshot
// helpers shared by stage tests.
package pagetest

import (
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/abissens/elepages/pkg/pages"
)

// Page is an in-memory page for tests.
type Page struct {
	RelPath []string
	Meta    *pages.Metadata
	Content string
}

// New builds a test page from a slash-separated path.
func New(path string) *Page {
	return &Page{RelPath: strings.Split(path, "/")}
}

// WithMeta attaches metadata (fluent helper).
func (p *Page) WithMeta(m *pages.Metadata) *Page {
	p.Meta = m
	return p
}

// WithContent attaches content (fluent helper).
func (p *Page) WithContent(content string) *Page {
	p.Content = content
	return p
}

func (p *Page) Path() []string            { return p.RelPath }
func (p *Page) Metadata() *pages.Metadata { return p.Meta }

func (p *Page) Open(_ *pages.PageIndex, _ *pages.BundleIndex, _ *pages.Env) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader([]byte(p.Content))), nil
}

// Snapshot is the observable state of a page: path, metadata and content.
type Snapshot struct {
	Path    string
	Meta    *pages.Metadata
	Content string
}

// Snap materialises a page. Open is called with zero-value arguments, which
// every non-template page ignores.
func Snap(p pages.Page) Snapshot {
	content := ""
	if r, err := p.Open(nil, nil, nil); err == nil {
		raw, _ := io.ReadAll(r)
		_ = r.Close()
		content = string(raw)
	}
	return Snapshot{Path: pages.JoinPath(p.Path()), Meta: p.Metadata(), Content: content}
}

// SnapBundle materialises every page of a bundle in order.
func SnapBundle(b pages.PageBundle) []Snapshot {
	out := make([]Snapshot, 0, len(b.Pages()))
	for _, p := range b.Pages() {
		out = append(out, Snap(p))
	}
	return out
}

// Paths returns the joined paths of a bundle in order.
func Paths(b pages.PageBundle) []string {
	out := make([]string, 0, len(b.Pages()))
	for _, p := range b.Pages() {
		out = append(out, pages.JoinPath(p.Path()))
	}
	return out
}

// SortedPaths returns the joined paths of a bundle in lexicographic order.
func SortedPaths(b pages.PageBundle) []string {
	out := Paths(b)
	sort.Strings(out)
	return out
}
