package pages

import (
	"github.com/abissens/elepages/internal/util/sets"
	"github.com/abissens/elepages/pkg/config"
	"github.com/abissens/elepages/pkg/errors"
)

// Author identifies a page author. Identity is the name alone; contacts are
// an open set of addresses merged across sources.
type Author struct {
	Name     string
	Contacts sets.Set[string]
}

// Merge unifies the contacts of two authors carrying the same name.
// Merging authors with different names is an error.
func (a *Author) Merge(parent *Author) (*Author, error) {
	if a.Name != parent.Name {
		return nil, errors.AuthorMerge("cannot merge authors with different names")
	}
	result := &Author{Name: a.Name, Contacts: a.Contacts.Clone()}
	result.Contacts.Union(parent.Contacts)
	return result, nil
}

// Clone returns a deep copy.
func (a *Author) Clone() *Author {
	return &Author{Name: a.Name, Contacts: a.Contacts.Clone()}
}

// AuthorSet is a set of authors unique by name.
type AuthorSet map[string]*Author

// NewAuthorSet builds a set from the given authors; same-name entries merge
// their contacts.
func NewAuthorSet(authors ...*Author) AuthorSet {
	s := make(AuthorSet, len(authors))
	for _, a := range authors {
		s.Add(a)
	}
	return s
}

// Add inserts an author, unifying contacts when the name is already present.
func (s AuthorSet) Add(a *Author) {
	if existing, ok := s[a.Name]; ok {
		merged, _ := existing.Merge(a)
		s[a.Name] = merged
		return
	}
	s[a.Name] = a.Clone()
}

// Has returns true if an author with the given name is present.
func (s AuthorSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Clone returns a deep copy.
func (s AuthorSet) Clone() AuthorSet {
	out := make(AuthorSet, len(s))
	for name, a := range s {
		out[name] = a.Clone()
	}
	return out
}

// Metadata carries the descriptive fields attached to a page. Nil pointer
// fields mean "absent" and are distinguishable from zero values by Merge.
type Metadata struct {
	Title          *string
	Summary        *string
	Authors        AuthorSet
	Tags           sets.Set[string]
	PublishingDate *int64
	LastEditDate   *int64
	Data           map[string]config.Value
}

// NewMetadata returns an empty metadata value with allocated collections.
func NewMetadata() *Metadata {
	return &Metadata{
		Authors: NewAuthorSet(),
		Tags:    sets.New[string](),
		Data:    map[string]config.Value{},
	}
}

// Merge overlays a parent metadata onto the receiver and returns the result
// as a new value. The receiver acts as the child: its scalar fields win when
// present, author and tag sets union (same-name authors unify contacts) and
// data entries union shallowly with the child winning on key conflicts.
func (m *Metadata) Merge(parent *Metadata) (*Metadata, error) {
	result := &Metadata{
		Title:          firstOf(m.Title, parent.Title),
		Summary:        firstOf(m.Summary, parent.Summary),
		Authors:        m.Authors.Clone(),
		Tags:           m.Tags.Clone(),
		PublishingDate: firstOf(m.PublishingDate, parent.PublishingDate),
		LastEditDate:   firstOf(m.LastEditDate, parent.LastEditDate),
		Data:           map[string]config.Value{},
	}
	if result.Authors == nil {
		result.Authors = NewAuthorSet()
	}
	if result.Tags == nil {
		result.Tags = sets.New[string]()
	}

	for _, pAuthor := range parent.Authors {
		if existing, ok := result.Authors[pAuthor.Name]; ok {
			merged, err := existing.Merge(pAuthor)
			if err != nil {
				return nil, err
			}
			result.Authors[pAuthor.Name] = merged
			continue
		}
		result.Authors[pAuthor.Name] = pAuthor.Clone()
	}

	result.Tags.Union(parent.Tags)

	for k, v := range m.Data {
		result.Data[k] = v
	}
	for k, v := range parent.Data {
		if _, ok := result.Data[k]; !ok {
			result.Data[k] = v
		}
	}

	return result, nil
}

// Clone returns a deep copy of the metadata; Data values are shared.
func (m *Metadata) Clone() *Metadata {
	out := &Metadata{
		Title:          m.Title,
		Summary:        m.Summary,
		PublishingDate: m.PublishingDate,
		LastEditDate:   m.LastEditDate,
		Authors:        NewAuthorSet(),
		Tags:           sets.New[string](),
		Data:           map[string]config.Value{},
	}
	if m.Authors != nil {
		out.Authors = m.Authors.Clone()
	}
	if m.Tags != nil {
		out.Tags = m.Tags.Clone()
	}
	for k, v := range m.Data {
		out.Data[k] = v
	}
	return out
}

// DataBool reads a bool flag from the data map; absent or non-bool is false.
func (m *Metadata) DataBool(key string) bool {
	if m == nil || m.Data == nil {
		return false
	}
	b, ok := m.Data[key].(bool)
	return ok && b
}

// DataString reads a string entry from the data map.
func (m *Metadata) DataString(key string) (string, bool) {
	if m == nil || m.Data == nil {
		return "", false
	}
	s, ok := m.Data[key].(string)
	return s, ok
}

func firstOf[T any](child, parent *T) *T {
	if child != nil {
		return child
	}
	return parent
}

// StringPtr returns a pointer to s. Convenience for literal metadata values.
func StringPtr(s string) *string { return &s }

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 { return &v }
