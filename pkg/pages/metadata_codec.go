package pages

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/abissens/elepages/internal/util/sets"
	"github.com/abissens/elepages/pkg/config"
	"github.com/abissens/elepages/pkg/errors"
	"gopkg.in/yaml.v3"
)

// UnmarshalMetadataYAML decodes a YAML metadata document (sidecar shape).
func UnmarshalMetadataYAML(raw []byte) (*Metadata, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.WrapValueParsing(err, "invalid yaml metadata")
	}
	return MetadataFromValue(config.Normalize(doc))
}

// UnmarshalMetadataJSON decodes a JSON metadata document (sidecar shape).
func UnmarshalMetadataJSON(raw []byte) (*Metadata, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.WrapValueParsing(err, "invalid json metadata")
	}
	return MetadataFromValue(config.Normalize(doc))
}

// MetadataFromValue builds a Metadata from a decoded dynamic value. Both
// snake_case and camelCase date keys are accepted; dates may be epoch
// seconds, RFC 3339 instants or bare YYYY-MM-DD days (midnight UTC).
func MetadataFromValue(v config.Value) (*Metadata, error) {
	if v == nil {
		return NewMetadata(), nil
	}
	doc, err := config.AsMap(v)
	if err != nil {
		return nil, err
	}

	m := NewMetadata()

	if raw, ok := doc["title"]; ok && raw != nil {
		s, err := config.AsString(raw)
		if err != nil {
			return nil, err
		}
		m.Title = &s
	}
	if raw, ok := doc["summary"]; ok && raw != nil {
		s, err := config.AsString(raw)
		if err != nil {
			return nil, err
		}
		m.Summary = &s
	}

	if raw, ok := doc["authors"]; ok && raw != nil {
		entries, err := config.AsSlice(raw)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			author, err := authorFromValue(entry)
			if err != nil {
				return nil, err
			}
			m.Authors.Add(author)
		}
	}

	if raw, ok := doc["tags"]; ok && raw != nil {
		entries, err := config.AsSlice(raw)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			tag, err := config.AsString(entry)
			if err != nil {
				return nil, err
			}
			m.Tags.Add(tag)
		}
	}

	if ts, err := timestampField(doc, "publishing_date", "publishingDate"); err != nil {
		return nil, err
	} else if ts != nil {
		m.PublishingDate = ts
	}
	if ts, err := timestampField(doc, "last_edit_date", "lastEditDate"); err != nil {
		return nil, err
	} else if ts != nil {
		m.LastEditDate = ts
	}

	if raw, ok := doc["data"]; ok && raw != nil {
		data, err := config.AsMap(raw)
		if err != nil {
			return nil, err
		}
		m.Data = data
	}

	return m, nil
}

func authorFromValue(v config.Value) (*Author, error) {
	doc, err := config.AsMap(v)
	if err != nil {
		return nil, err
	}
	rawName, ok := doc["name"]
	if !ok {
		return nil, errors.ValueParsing("author requires a name")
	}
	name, err := config.AsString(rawName)
	if err != nil {
		return nil, err
	}
	author := &Author{Name: name, Contacts: sets.New[string]()}
	if raw, ok := doc["contacts"]; ok && raw != nil {
		entries, err := config.AsSlice(raw)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			contact, err := config.AsString(entry)
			if err != nil {
				return nil, err
			}
			author.Contacts.Add(contact)
		}
	}
	return author, nil
}

func timestampField(doc map[string]config.Value, keys ...string) (*int64, error) {
	for _, key := range keys {
		raw, ok := doc[key]
		if !ok || raw == nil {
			continue
		}
		ts, err := parseTimestamp(raw)
		if err != nil {
			return nil, err
		}
		return &ts, nil
	}
	return nil, nil
}

func parseTimestamp(v config.Value) (int64, error) {
	switch t := config.Normalize(v).(type) {
	case int:
		return int64(t), nil
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed.Unix(), nil
		}
		if parsed, err := time.Parse("2006-01-02", t); err == nil {
			return parsed.Unix(), nil
		}
		return 0, errors.ValueParsing(fmt.Sprintf("invalid date literal %q", t))
	default:
		return 0, errors.ValueParsing(fmt.Sprintf("invalid timestamp value %T", v))
	}
}
