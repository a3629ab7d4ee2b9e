package stages

import (
	"testing"

	"github.com/abissens/elepages/pkg/pages/pagetest"
	"github.com/stretchr/testify/require"
)

func TestAppendStage_KeepsOriginalsAndAddsDerived(t *testing.T) {
	s := &AppendStage{StageName: "append", Inner: &prefixStage{name: "p", prefix: "copy"}}

	out, result, err := s.Process(testBundle("f1", "f2"), testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Equal(t, []string{"f1", "f2", "copy/f1", "copy/f2"}, pagetest.Paths(out))
	require.Len(t, result.SubResults, 1)
}

func TestAppendStage_EmptyInnerOutput(t *testing.T) {
	s := &AppendStage{StageName: "append", Inner: &emitStage{name: "none"}}

	out, _, err := s.Process(testBundle("f1"), testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Equal(t, []string{"f1"}, pagetest.Paths(out))
}
