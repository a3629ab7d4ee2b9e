package slugify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	cases := map[string]string{
		"Hello World":   "hello_world",
		"Éléphant rosé": "elephant_rose",
		"a/b?c#d":       "abcd",
		"  spaced  ":    "__spaced__",
		"":              "",
		"T 1":           "t_1",
	}
	for in, want := range cases {
		require.Equal(t, want, String(in), in)
	}
}
