package stages

import (
	"testing"

	"github.com/abissens/elepages/pkg/pages"
	"github.com/abissens/elepages/pkg/pages/pagetest"
	"github.com/stretchr/testify/require"
)

func mdSubSet() SubSetSelector {
	return &SelectorSubSet{Selector: &pages.ExtSelector{Ext: ".md"}}
}

func TestCopyCut_Copy_KeepsOriginalsAndAddsRelocated(t *testing.T) {
	in := testBundle("a.md", "b.txt", "d/c.md")
	s := NewCopy("copy", mdSubSet(), []string{"dest"})

	out, _, err := s.Process(in, testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Len(t, out.Pages(), 5)
	require.Equal(t, []string{"a.md", "b.txt", "d/c.md", "dest/a.md", "dest/d/c.md"}, pagetest.Paths(out))
}

func TestCopyCut_Move_RelocatesSelected(t *testing.T) {
	in := testBundle("a.md", "b.txt", "d/c.md")
	s := NewMove("move", mdSubSet(), []string{"dest"})

	out, _, err := s.Process(in, testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Len(t, out.Pages(), 3)
	require.Equal(t, []string{"dest/a.md", "dest/d/c.md", "b.txt"}, pagetest.Paths(out))
}

func TestCopyCut_Ignore_DropsSelected(t *testing.T) {
	in := testBundle("a.md", "b.txt", "d/c.md")
	s := NewIgnore("ignore", mdSubSet())

	out, _, err := s.Process(in, testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Equal(t, []string{"b.txt"}, pagetest.Paths(out))
}

func TestCopyCut_CopySharesContentAndMetadata(t *testing.T) {
	meta := pages.NewMetadata()
	meta.Title = pages.StringPtr("t")
	in := pages.NewBundle(pagetest.New("a.md").WithMeta(meta).WithContent("body"))

	out, _, err := NewCopy("copy", mdSubSet(), []string{"dest"}).Process(in, testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)

	snaps := pagetest.SnapBundle(out)
	require.Equal(t, "a.md", snaps[0].Path)
	require.Equal(t, "dest/a.md", snaps[1].Path)
	require.Equal(t, "body", snaps[1].Content)
	require.Equal(t, meta, snaps[1].Meta)
}
