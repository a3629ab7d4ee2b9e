package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNormalize_YAMLDocument(t *testing.T) {
	var v any
	require.NoError(t, yaml.Unmarshal([]byte("a: 1\nb: [x, true]\nc:\n  d: text\n"), &v))

	got := Normalize(v)
	m, ok := got.(map[string]Value)
	require.True(t, ok)
	require.Equal(t, 1, m["a"])
	require.Equal(t, []Value{"x", true}, m["b"])
	require.Equal(t, map[string]Value{"d": "text"}, m["c"])
}

func TestNormalize_JSONNumbers(t *testing.T) {
	var v any
	require.NoError(t, json.Unmarshal([]byte(`{"n": 3, "f": 1.5}`), &v))

	m := Normalize(v).(map[string]Value)
	require.Equal(t, 3, m["n"])
	require.Equal(t, 1.5, m["f"])
}

func TestAccessors(t *testing.T) {
	s, err := AsString("x")
	require.NoError(t, err)
	require.Equal(t, "x", s)
	_, err = AsString(1)
	require.Error(t, err)

	b, err := AsBool(true)
	require.NoError(t, err)
	require.True(t, b)
	_, err = AsBool("true")
	require.Error(t, err)

	n, err := AsInt(int64(4))
	require.NoError(t, err)
	require.Equal(t, 4, n)

	m, err := AsMap(map[string]any{"k": "v"})
	require.NoError(t, err)
	require.Equal(t, "v", m["k"])
	_, err = AsMap([]any{})
	require.Error(t, err)

	l, err := AsSlice([]any{"a"})
	require.NoError(t, err)
	require.Equal(t, []Value{"a"}, l)
	_, err = AsSlice("a")
	require.Error(t, err)
}
