package pages

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/abissens/elepages/pkg/errors"
)

// FsPage is a disk-backed page. The bundle-relative path is derived from the
// file path by stripping a base directory.
type FsPage struct {
	filePath string
	relPath  []string
	metadata *Metadata
}

// NewFsPage builds a page for filePath relative to basePath.
func NewFsPage(basePath, filePath string) (*FsPage, error) {
	return NewFsPageWithMetadata(basePath, filePath, nil)
}

// NewFsPageWithMetadata builds a disk-backed page carrying metadata.
func NewFsPageWithMetadata(basePath, filePath string, metadata *Metadata) (*FsPage, error) {
	rel, err := filepath.Rel(basePath, filePath)
	if err != nil {
		return nil, errors.WrapIO(err, "file path outside base path")
	}
	return &FsPage{
		filePath: filePath,
		relPath:  strings.Split(filepath.ToSlash(rel), "/"),
		metadata: metadata,
	}, nil
}

func (p *FsPage) Path() []string      { return p.relPath }
func (p *FsPage) Metadata() *Metadata { return p.metadata }

func (p *FsPage) Open(_ *PageIndex, _ *BundleIndex, _ *Env) (io.ReadCloser, error) {
	f, err := os.Open(p.filePath)
	if err != nil {
		return nil, errors.WrapIO(err, "open page file")
	}
	return f, nil
}
