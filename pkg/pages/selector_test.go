package pages

import (
	"io"
	"strings"
	"testing"

	"github.com/abissens/elepages/internal/util/sets"
	"github.com/stretchr/testify/require"
)

type fakePage struct {
	path []string
	meta *Metadata
}

func newFakePage(path string) *fakePage {
	return &fakePage{path: strings.Split(path, "/")}
}

func (p *fakePage) Path() []string      { return p.path }
func (p *fakePage) Metadata() *Metadata { return p.meta }

func (p *fakePage) Open(*PageIndex, *BundleIndex, *Env) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func selectPaths(s Selector, paths ...string) []string {
	var out []string
	for _, path := range paths {
		if s.Select(newFakePage(path)) {
			out = append(out, path)
		}
	}
	return out
}

func TestPathSelector_GlobAcrossSegments(t *testing.T) {
	s := &PathSelector{Query: []string{"**", "f*.t*t"}}

	got := selectPaths(s, "d1/f1.txt", "d1/f2", "d1/f3.txt", "f4.txt", "d.txt")
	require.Equal(t, []string{"d1/f1.txt", "d1/f3.txt", "f4.txt"}, got)
}

func TestPathSelector_DoubleStarSelectsEveryPage(t *testing.T) {
	s := &PathSelector{Query: []string{"**"}}

	require.True(t, s.Select(newFakePage("a")))
	require.True(t, s.Select(newFakePage("a/b/c")))
	require.False(t, s.Select(&fakePage{path: []string{}}))
}

func TestPathSelector_AdjacentStarsCollapse(t *testing.T) {
	s := &PathSelector{Query: []string{"**", "**", "a"}}
	require.True(t, s.Select(newFakePage("x/y/a")))
	require.True(t, s.Select(newFakePage("a")))

	inSegment := &PathSelector{Query: []string{"f***t"}}
	require.True(t, inSegment.Select(newFakePage("fat")))
	require.True(t, inSegment.Select(newFakePage("ft")))
}

func TestPathSelector_DoubleStarConsumesAsLittleAsPossible(t *testing.T) {
	s := &PathSelector{Query: []string{"**", "d", "**"}}
	// First `d` wins; the rest must still match.
	require.True(t, s.Select(newFakePage("a/d/x")))
	require.True(t, s.Select(newFakePage("d/d")))
	require.False(t, s.Select(newFakePage("a/d")))
}

func TestPathSelector_ExactSegments(t *testing.T) {
	s := NewPathSelector("a/b")
	require.True(t, s.Select(newFakePage("a/b")))
	require.False(t, s.Select(newFakePage("a/b/c")))
	require.False(t, s.Select(newFakePage("a")))
}

func TestExtSelector_MatchesLiteralSuffix(t *testing.T) {
	s := &ExtSelector{Ext: ".md"}
	require.True(t, s.Select(newFakePage("d/readme.md")))
	require.False(t, s.Select(newFakePage("d/readme.html")))
	require.False(t, s.Select(&fakePage{path: []string{}}))
}

func TestTagAndAuthorSelectors(t *testing.T) {
	meta := NewMetadata()
	meta.Tags = sets.New("t1")
	meta.Authors = NewAuthorSet(&Author{Name: "a1", Contacts: sets.New[string]()})
	page := &fakePage{path: []string{"f"}, meta: meta}

	require.True(t, (&TagSelector{Tag: "t1"}).Select(page))
	require.False(t, (&TagSelector{Tag: "t2"}).Select(page))
	require.True(t, (&AuthorSelector{Author: "a1"}).Select(page))
	require.False(t, (&AuthorSelector{Author: "a2"}).Select(page))

	bare := newFakePage("f")
	require.False(t, (&TagSelector{Tag: "t1"}).Select(bare))
	require.False(t, (&AuthorSelector{Author: "a1"}).Select(bare))
}

func TestPublishingDateSelector_InclusiveBounds(t *testing.T) {
	meta := NewMetadata()
	meta.PublishingDate = Int64Ptr(100)
	page := &fakePage{path: []string{"f"}, meta: meta}

	before := &PublishingDateSelector{Query: DateQuery{Before: Int64Ptr(100)}}
	require.True(t, before.Select(page))

	after := &PublishingDateSelector{Query: DateQuery{After: Int64Ptr(100)}}
	require.True(t, after.Select(page))

	between := &PublishingDateSelector{Query: DateQuery{After: Int64Ptr(101), Before: Int64Ptr(200)}}
	require.False(t, between.Select(page))

	require.False(t, before.Select(newFakePage("f")))
}

func TestLogicalSelectors_VacuousTruth(t *testing.T) {
	page := newFakePage("f")

	require.True(t, (&AndSelector{}).Select(page))
	require.False(t, (&OrSelector{}).Select(page))
	require.False(t, (&NotSelector{Inner: &AndSelector{}}).Select(page))
}

func TestLogicalSelectors_Composition(t *testing.T) {
	meta := NewMetadata()
	meta.Tags = sets.New("t1")
	page := &fakePage{path: []string{"d", "f.md"}, meta: meta}

	s := &AndSelector{Selectors: []Selector{
		&ExtSelector{Ext: ".md"},
		&OrSelector{Selectors: []Selector{
			&TagSelector{Tag: "t1"},
			&TagSelector{Tag: "t2"},
		}},
	}}
	require.True(t, s.Select(page))

	s.Selectors = append(s.Selectors, &NotSelector{Inner: &TagSelector{Tag: "t1"}})
	require.False(t, s.Select(page))
}
