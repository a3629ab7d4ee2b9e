package stages

import (
	"testing"

	"github.com/abissens/elepages/internal/util/sets"
	"github.com/abissens/elepages/pkg/pages"
	"github.com/abissens/elepages/pkg/pages/pagetest"
	"github.com/stretchr/testify/require"
)

func pageWithPathHint(path, hint string) pages.Page {
	meta := pages.NewMetadata()
	meta.Data["path"] = hint
	return pagetest.New(path).WithMeta(meta)
}

func TestPathGeneratorStage_PagesWithoutHintPassThrough(t *testing.T) {
	out, _, err := (&PathGeneratorStage{StageName: "path_generator"}).Process(testBundle("a", "b/c"), testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b/c"}, pagetest.Paths(out))
}

func TestPathGeneratorStage_RendersDateAndTitleComponents(t *testing.T) {
	meta := pages.NewMetadata()
	meta.Title = pages.StringPtr("My Post")
	meta.PublishingDate = pages.Int64Ptr(1609582830) // 2021-01-02T10:20:30Z
	meta.Data["path"] = "blog/{{i_year}}/{{month}}/{{url_title}}.html"
	in := pages.NewBundle(pagetest.New("post.md").WithMeta(meta))

	out, _, err := (&PathGeneratorStage{StageName: "path_generator"}).Process(in, testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Equal(t, []string{"blog/2021/01/my_post.html"}, pagetest.Paths(out))
}

func TestPathGeneratorStage_PathAndReversePathParams(t *testing.T) {
	in := pages.NewBundle(pageWithPathHint("d1/d2/f.md", "x/{{rev_path.[0]}}"))

	out, _, err := (&PathGeneratorStage{StageName: "path_generator"}).Process(in, testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Equal(t, []string{"x/f.md"}, pagetest.Paths(out))
}

func TestPathGeneratorStage_KeepsContentAndMetadata(t *testing.T) {
	meta := pages.NewMetadata()
	meta.Tags = sets.New("t1")
	meta.Data["path"] = "fixed"
	in := pages.NewBundle(pagetest.New("orig").WithMeta(meta).WithContent("body"))

	out, _, err := (&PathGeneratorStage{StageName: "path_generator"}).Process(in, testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)

	snap := pagetest.Snap(out.Pages()[0])
	require.Equal(t, "fixed", snap.Path)
	require.Equal(t, "body", snap.Content)
	require.Equal(t, sets.New("t1"), snap.Meta.Tags)
}

func TestPathGeneratorStage_NonStringHintPassesThrough(t *testing.T) {
	meta := pages.NewMetadata()
	meta.Data["path"] = 42
	in := pages.NewBundle(pagetest.New("orig").WithMeta(meta))

	out, _, err := (&PathGeneratorStage{StageName: "path_generator"}).Process(in, testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Equal(t, []string{"orig"}, pagetest.Paths(out))
}
