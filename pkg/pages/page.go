// Package pages defines the page and bundle model of the pipeline: the Page
// capability, immutable bundles, metadata, selectors and the derived bundle
// index.
package pages

import (
	"bytes"
	"io"
	"strings"
)

// Page is the pipeline's unit of content. Implementations are immutable and
// freely shared across stages and goroutines; a stage that needs a page with
// a different path or metadata wraps it in a proxy instead of mutating it.
//
// Open receives the post-pipeline page index, bundle index and env because
// template-rendered pages resolve their helpers against the final bundle.
// Non-template pages ignore the arguments.
type Page interface {
	Path() []string
	Metadata() *Metadata
	Open(outPage *PageIndex, outIndex *BundleIndex, env *Env) (io.ReadCloser, error)
}

// PageBundle is an ordered immutable collection of pages. Two pages may
// share a path; the writer treats that as an overwrite in insertion order.
type PageBundle interface {
	Pages() []Page
}

// VecBundle is the canonical slice-backed bundle.
type VecBundle struct {
	P []Page
}

// Pages returns the backing slice. Callers must not mutate it.
func (b *VecBundle) Pages() []Page { return b.P }

// NewBundle wraps pages in a VecBundle.
func NewBundle(p ...Page) *VecBundle { return &VecBundle{P: p} }

// PageProxy shares an inner page while overriding its path and/or metadata.
type PageProxy struct {
	Inner       Page
	NewPath     []string
	NewMetadata *Metadata
}

func (p *PageProxy) Path() []string {
	if p.NewPath != nil {
		return p.NewPath
	}
	return p.Inner.Path()
}

func (p *PageProxy) Metadata() *Metadata {
	if p.NewMetadata != nil {
		return p.NewMetadata
	}
	return p.Inner.Metadata()
}

func (p *PageProxy) Open(outPage *PageIndex, outIndex *BundleIndex, env *Env) (io.ReadCloser, error) {
	return p.Inner.Open(outPage, outIndex, env)
}

// ChangePath returns a proxy of page carrying newPath.
func ChangePath(page Page, newPath []string) Page {
	return &PageProxy{Inner: page, NewPath: newPath}
}

// ChangeMetadata returns a proxy of page carrying newMetadata.
func ChangeMetadata(page Page, newMetadata *Metadata) Page {
	return &PageProxy{Inner: page, NewMetadata: newMetadata}
}

// JoinPath renders path segments as a POSIX-style relative path.
func JoinPath(path []string) string { return strings.Join(path, "/") }

// RawPage is an in-memory page carrying its content as bytes.
type RawPage struct {
	RelPath []string
	Meta    *Metadata
	Content []byte
}

func (p *RawPage) Path() []string      { return p.RelPath }
func (p *RawPage) Metadata() *Metadata { return p.Meta }

func (p *RawPage) Open(_ *PageIndex, _ *BundleIndex, _ *Env) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(p.Content)), nil
}

// Loader produces the input bundle of a pipeline run. Implementations are
// external adapters (a filesystem walker, an archive reader, a test stub).
type Loader interface {
	Load(env *Env) (PageBundle, error)
}

// Writer consumes the final bundle of a pipeline run. Implementations call
// page.Open with the final bundle index after creating parent directories.
type Writer interface {
	Write(bundle PageBundle, env *Env) error
}
