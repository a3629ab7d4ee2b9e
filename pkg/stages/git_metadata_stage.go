package stages

import (
	"errors"
	"io"
	"time"

	"github.com/abissens/elepages/internal/util/sets"
	eleerrors "github.com/abissens/elepages/pkg/errors"
	"github.com/abissens/elepages/pkg/pages"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitMetadataStage fills in authors and last edit dates from the history of
// the repository at the env root path. Pages that already carry authors and
// a last edit date pass through untouched; a missing repository makes the
// whole stage a pass-through.
type GitMetadataStage struct {
	StageName string
	RepoPath  string
}

func (s *GitMetadataStage) Name() string { return s.StageName }

func (s *GitMetadataStage) Process(bundle pages.PageBundle, env *pages.Env, _ PageGeneratorBag) (pages.PageBundle, *ProcessingResult, error) {
	start := time.Now()
	env.PrintVV("stage "+s.StageName, "git metadata processing")

	done := func(b pages.PageBundle) (pages.PageBundle, *ProcessingResult, error) {
		return b, &ProcessingResult{StageName: s.StageName, Start: start, End: time.Now()}, nil
	}

	repo, err := git.PlainOpen(s.RepoPath)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return done(bundle)
		}
		return nil, nil, eleerrors.WrapGit(err, "open repository")
	}

	result := &pages.VecBundle{}
	remaining := map[string]pages.Page{}
	order := []string{}
	for _, page := range bundle.Pages() {
		if len(page.Path()) == 0 {
			continue
		}
		if m := page.Metadata(); m != nil && len(m.Authors) > 0 && m.LastEditDate != nil {
			result.P = append(result.P, page)
			continue
		}
		key := pages.JoinPath(page.Path())
		if _, ok := remaining[key]; !ok {
			order = append(order, key)
		}
		remaining[key] = page
	}

	if len(remaining) == 0 {
		return done(result)
	}

	enriched, err := s.walkRepository(repo, remaining)
	if err != nil {
		return nil, nil, err
	}
	for _, key := range order {
		if page, ok := enriched[key]; ok {
			result.P = append(result.P, page)
		} else {
			result.P = append(result.P, remaining[key])
		}
	}

	return done(result)
}

// walkRepository visits commits from HEAD in reverse chronological order and
// attributes each remaining page to the most recent commit touching its
// path.
func (s *GitMetadataStage) walkRepository(repo *git.Repository, remaining map[string]pages.Page) (map[string]pages.Page, error) {
	iter, err := repo.Log(&git.LogOptions{Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, eleerrors.WrapGit(err, "walk repository history")
	}
	defer iter.Close()

	pending := make(map[string]pages.Page, len(remaining))
	for k, v := range remaining {
		pending[k] = v
	}

	enriched := map[string]pages.Page{}
	for len(pending) > 0 {
		commit, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eleerrors.WrapGit(err, "walk repository history")
		}
		changed, err := commitPaths(commit)
		if err != nil {
			return nil, err
		}
		for path := range changed {
			page, ok := pending[path]
			if !ok {
				continue
			}
			delete(pending, path)
			enriched[path] = pages.ChangeMetadata(page, enrichedMetadata(page.Metadata(), commit))
		}
	}
	return enriched, nil
}

// commitPaths returns the paths changed by a commit relative to its single
// parent tree; root and merge commits count their whole tree.
func commitPaths(commit *object.Commit) (sets.Set[string], error) {
	currentTree, err := commit.Tree()
	if err != nil {
		return nil, eleerrors.WrapGit(err, "read commit tree")
	}

	paths := sets.New[string]()
	if commit.NumParents() == 1 {
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, eleerrors.WrapGit(err, "read parent commit")
		}
		parentTree, err := parent.Tree()
		if err != nil {
			return nil, eleerrors.WrapGit(err, "read parent tree")
		}
		changes, err := object.DiffTree(parentTree, currentTree)
		if err != nil {
			return nil, eleerrors.WrapGit(err, "diff trees")
		}
		for _, change := range changes {
			if change.To.Name != "" {
				paths.Add(change.To.Name)
			} else if change.From.Name != "" {
				paths.Add(change.From.Name)
			}
		}
		return paths, nil
	}

	err = currentTree.Files().ForEach(func(f *object.File) error {
		paths.Add(f.Name)
		return nil
	})
	if err != nil {
		return nil, eleerrors.WrapGit(err, "list tree files")
	}
	return paths, nil
}

func enrichedMetadata(origin *pages.Metadata, commit *object.Commit) *pages.Metadata {
	var result *pages.Metadata
	if origin != nil {
		result = origin.Clone()
	} else {
		result = pages.NewMetadata()
	}
	if len(result.Authors) == 0 {
		result.Authors = pages.NewAuthorSet(&pages.Author{
			Name:     commit.Author.Name,
			Contacts: commitContacts(commit),
		})
	}
	if result.LastEditDate == nil {
		ts := commit.Author.When.Unix()
		result.LastEditDate = &ts
	}
	return result
}

func commitContacts(commit *object.Commit) sets.Set[string] {
	if commit.Author.Email == "" {
		return sets.New[string]()
	}
	return sets.New(commit.Author.Email)
}
