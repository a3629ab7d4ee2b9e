package stages

import (
	"testing"

	"github.com/abissens/elepages/pkg/pages"
	"github.com/abissens/elepages/pkg/pages/pagetest"
	"github.com/stretchr/testify/require"
)

func TestReplaceStage_ReplacesSelectedKeepsRest(t *testing.T) {
	s := &ReplaceStage{
		StageName: "replace",
		Inner:     &prefixStage{name: "p", prefix: "html"},
		Selector:  &pages.ExtSelector{Ext: ".md"},
	}

	out, _, err := s.Process(testBundle("a.md", "b.txt", "d/c.md"), testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Equal(t, []string{"html/a.md", "html/d/c.md", "b.txt"}, pagetest.Paths(out))
}

func TestReplaceStage_NoMatch_PassesThrough(t *testing.T) {
	s := &ReplaceStage{
		StageName: "replace",
		Inner:     &prefixStage{name: "p", prefix: "x"},
		Selector:  &pages.ExtSelector{Ext: ".none"},
	}

	out, _, err := s.Process(testBundle("a", "b"), testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, pagetest.Paths(out))
}
