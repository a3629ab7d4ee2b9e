package pages

import (
	"encoding/json"
	"sort"

	"github.com/abissens/elepages/internal/util/sets"
)

// The index serialises with deterministic ordering: sets become sorted
// arrays so identical bundles produce identical bytes.

// MarshalJSON renders an author as {"name": ..., "contacts": [...]} with
// sorted contacts.
func (a *Author) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name     string   `json:"name"`
		Contacts []string `json:"contacts"`
	}{Name: a.Name, Contacts: sets.SortedStrings(a.Contacts)})
}

// MarshalJSON renders an author set as an array sorted by name.
func (s AuthorSet) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Author, 0, len(names))
	for _, name := range names {
		out = append(out, s[name])
	}
	return json.Marshal(out)
}

// MarshalJSON renders the index with sets flattened to sorted arrays.
func (idx *BundleIndex) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		AllAuthors    AuthorSet            `json:"all_authors"`
		AllTags       []string             `json:"all_tags"`
		AllPages      []*PageIndex         `json:"all_pages"`
		PagesByAuthor map[string][]PageRef `json:"pages_by_author"`
		PagesByTag    map[string][]PageRef `json:"pages_by_tag"`
	}{
		AllAuthors:    idx.AllAuthors,
		AllTags:       sets.SortedStrings(idx.AllTags),
		AllPages:      idx.AllPages,
		PagesByAuthor: idx.PagesByAuthor,
		PagesByTag:    idx.PagesByTag,
	})
}
