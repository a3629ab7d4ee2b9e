package stages

import (
	"errors"
	"testing"

	"github.com/abissens/elepages/pkg/pages/pagetest"
	"github.com/stretchr/testify/require"
)

func TestSequenceStage_Empty_IsIdentity(t *testing.T) {
	in := testBundle("a", "b")
	s := &SequenceStage{StageName: "seq"}

	out, result, err := s.Process(in, testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Equal(t, in.Pages(), out.Pages())
	require.Equal(t, "seq", result.StageName)
	require.Empty(t, result.SubResults)
}

func TestSequenceStage_AppliesStagesLeftToRight(t *testing.T) {
	in := testBundle("f")
	s := &SequenceStage{StageName: "seq", Stages: []Stage{
		&prefixStage{name: "p1", prefix: "a"},
		&prefixStage{name: "p2", prefix: "b"},
	}}

	out, result, err := s.Process(in, testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Equal(t, []string{"b/a/f"}, pagetest.Paths(out))
	require.Len(t, result.SubResults, 2)
	require.Equal(t, "p1", result.SubResults[0].StageName)
	require.Equal(t, "p2", result.SubResults[1].StageName)
}

func TestSequenceStage_PropagatesFailure(t *testing.T) {
	boom := errors.New("boom")
	s := &SequenceStage{StageName: "seq", Stages: []Stage{
		&identityStage{name: "ok"},
		&emitStage{name: "bad", err: boom},
		&prefixStage{name: "never", prefix: "x"},
	}}

	_, _, err := s.Process(testBundle("f"), testEnv(), NewPageGeneratorBag())
	require.ErrorIs(t, err, boom)
}

func TestSequenceStage_DoesNotMutateInput(t *testing.T) {
	in := testBundle("f1", "f2")
	s := &SequenceStage{StageName: "seq", Stages: []Stage{&prefixStage{name: "p", prefix: "x"}}}

	_, _, err := s.Process(in, testEnv(), NewPageGeneratorBag())
	require.NoError(t, err)
	require.Equal(t, []string{"f1", "f2"}, pagetest.Paths(in))
}
