package pages

import (
	"testing"

	"github.com/abissens/elepages/internal/util/sets"
	"github.com/abissens/elepages/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalMetadataYAML_FullDocument(t *testing.T) {
	raw := []byte(`
title: c title
summary: c summary
authors:
  - name: a1
    contacts: [c1, c2]
  - name: a2
tags: [t1, t2]
publishing_date: 1000
lastEditDate: 2000
data:
  path: "{{year}}/{{title}}"
  isRaw: true
`)

	m, err := UnmarshalMetadataYAML(raw)
	require.NoError(t, err)
	require.Equal(t, "c title", *m.Title)
	require.Equal(t, "c summary", *m.Summary)
	require.Len(t, m.Authors, 2)
	require.Equal(t, sets.New("c1", "c2"), m.Authors["a1"].Contacts)
	require.Empty(t, m.Authors["a2"].Contacts)
	require.Equal(t, sets.New("t1", "t2"), m.Tags)
	require.Equal(t, int64(1000), *m.PublishingDate)
	require.Equal(t, int64(2000), *m.LastEditDate)
	require.Equal(t, "{{year}}/{{title}}", m.Data["path"])
	require.Equal(t, true, m.Data["isRaw"])
}

func TestUnmarshalMetadataYAML_DateLiterals(t *testing.T) {
	m, err := UnmarshalMetadataYAML([]byte(`publishing_date: "2021-01-02"`))
	require.NoError(t, err)
	require.Equal(t, int64(1609545600), *m.PublishingDate)

	m, err = UnmarshalMetadataYAML([]byte(`publishing_date: "2021-01-02T10:20:30Z"`))
	require.NoError(t, err)
	require.Equal(t, int64(1609582830), *m.PublishingDate)
}

func TestUnmarshalMetadataYAML_BadDate_Fails(t *testing.T) {
	_, err := UnmarshalMetadataYAML([]byte(`publishing_date: "not a date"`))
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryValueParsing))
}

func TestUnmarshalMetadataJSON_SharesShape(t *testing.T) {
	raw := []byte(`{"title": "j", "tags": ["t1"], "authors": [{"name": "a1", "contacts": ["c1"]}]}`)

	m, err := UnmarshalMetadataJSON(raw)
	require.NoError(t, err)
	require.Equal(t, "j", *m.Title)
	require.Equal(t, sets.New("t1"), m.Tags)
	require.Equal(t, sets.New("c1"), m.Authors["a1"].Contacts)
}

func TestUnmarshalMetadataYAML_EmptyDocument(t *testing.T) {
	m, err := UnmarshalMetadataYAML([]byte(""))
	require.NoError(t, err)
	require.Nil(t, m.Title)
	require.Empty(t, m.Authors)
	require.Empty(t, m.Tags)
}

func TestUnmarshalMetadataYAML_AuthorWithoutName_Fails(t *testing.T) {
	_, err := UnmarshalMetadataYAML([]byte("authors:\n  - contacts: [c1]\n"))
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryValueParsing))
}
