package stages

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abissens/elepages/internal/util/sets"
	"github.com/abissens/elepages/pkg/pages"
	"github.com/abissens/elepages/pkg/pages/pagetest"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	t    *testing.T
	dir  string
	wt   *git.Worktree
	when time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &testRepo{t: t, dir: dir, wt: wt, when: time.Unix(1600000000, 0).UTC()}
}

// commit writes files, stages them and commits as the given author. Each
// commit advances the clock by one hour.
func (r *testRepo) commit(author, email string, files map[string]string) time.Time {
	r.t.Helper()
	for name, content := range files {
		full := filepath.Join(r.dir, filepath.FromSlash(name))
		require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(r.t, os.WriteFile(full, []byte(content), 0o644))
		_, err := r.wt.Add(filepath.FromSlash(name))
		require.NoError(r.t, err)
	}
	r.when = r.when.Add(time.Hour)
	_, err := r.wt.Commit("update", &git.CommitOptions{
		Author: &object.Signature{Name: author, Email: email, When: r.when},
	})
	require.NoError(r.t, err)
	return r.when
}

func TestGitMetadataStage_MissingRepository_PassesThrough(t *testing.T) {
	in := testBundle("a.md")
	s := &GitMetadataStage{StageName: "git_metadata", RepoPath: t.TempDir()}

	out, _, err := s.Process(in, testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Equal(t, in.Pages(), out.Pages())
}

func TestGitMetadataStage_FillsAuthorsAndLastEditDate(t *testing.T) {
	repo := newTestRepo(t)
	firstTime := repo.commit("dev one", "one@example.com", map[string]string{"a.md": "v1", "b.md": "v1"})
	secondTime := repo.commit("dev two", "two@example.com", map[string]string{"b.md": "v2"})

	in := testBundle("a.md", "b.md", "untracked.md")
	s := &GitMetadataStage{StageName: "git_metadata", RepoPath: repo.dir}

	out, _, err := s.Process(in, testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Equal(t, []string{"a.md", "b.md", "untracked.md"}, pagetest.Paths(out))

	aMeta := out.Pages()[0].Metadata()
	require.Equal(t, sets.New("one@example.com"), aMeta.Authors["dev one"].Contacts)
	require.Equal(t, firstTime.Unix(), *aMeta.LastEditDate)

	bMeta := out.Pages()[1].Metadata()
	require.Contains(t, bMeta.Authors, "dev two")
	require.Equal(t, secondTime.Unix(), *bMeta.LastEditDate)

	require.Nil(t, out.Pages()[2].Metadata())
}

func TestGitMetadataStage_PreservesCompleteMetadata(t *testing.T) {
	repo := newTestRepo(t)
	repo.commit("dev one", "one@example.com", map[string]string{"a.md": "v1"})

	meta := pages.NewMetadata()
	meta.Authors = pages.NewAuthorSet(&pages.Author{Name: "original", Contacts: sets.New("o@example.com")})
	meta.LastEditDate = pages.Int64Ptr(42)

	in := pages.NewBundle(pagetest.New("a.md").WithMeta(meta))
	s := &GitMetadataStage{StageName: "git_metadata", RepoPath: repo.dir}

	out, _, err := s.Process(in, testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Equal(t, meta, out.Pages()[0].Metadata())
}

func TestGitMetadataStage_KeepsPartialFields(t *testing.T) {
	repo := newTestRepo(t)
	editTime := repo.commit("committer", "c@example.com", map[string]string{"a.md": "v1"})

	meta := pages.NewMetadata()
	meta.Authors = pages.NewAuthorSet(&pages.Author{Name: "original", Contacts: sets.New[string]()})

	in := pages.NewBundle(pagetest.New("a.md").WithMeta(meta))
	s := &GitMetadataStage{StageName: "git_metadata", RepoPath: repo.dir}

	out, _, err := s.Process(in, testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)

	got := out.Pages()[0].Metadata()
	// Non-empty authors win over git attribution; the missing date fills
	// from the last touching commit.
	require.Contains(t, got.Authors, "original")
	require.NotContains(t, got.Authors, "committer")
	require.Equal(t, editTime.Unix(), *got.LastEditDate)
}

func TestGitMetadataStage_SkipsEmptyPathPages(t *testing.T) {
	repo := newTestRepo(t)
	repo.commit("dev", "d@example.com", map[string]string{"a.md": "v1"})

	in := pages.NewBundle(&pagetest.Page{RelPath: []string{}}, pagetest.New("a.md"))
	s := &GitMetadataStage{StageName: "git_metadata", RepoPath: repo.dir}

	out, _, err := s.Process(in, testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Equal(t, []string{"a.md"}, pagetest.Paths(out))
}
