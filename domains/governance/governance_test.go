package governance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Julesc013/dominium-sub017/sysreg"
	"github.com/Julesc013/dominium-sub017/workgraph"
)

func TestEmitTasksTalliesEnactedProposals(t *testing.T) {
	s := New([]uint32{1})
	s.SetTier(sysreg.TierMicro)
	s.SetProposals([]Proposal{
		{ID: 1, VotesFor: 10, VotesAgainst: 3},
		{ID: 2, VotesFor: 2, VotesAgainst: 9},
	})

	gb := workgraph.NewBuilder(8, 8, 8)
	ab := workgraph.NewAccessSetBuilder(8)
	n := s.EmitTasks(0, 0, gb, ab)

	require.Equal(t, int32(2), n)
	require.True(t, s.Enacted(1))
	require.False(t, s.Enacted(2))
}

func TestEmitTasksAtLatentTierEmitsNothing(t *testing.T) {
	s := New([]uint32{1})
	s.SetTier(sysreg.TierLatent)
	s.SetProposals([]Proposal{{ID: 1, VotesFor: 1}})

	gb := workgraph.NewBuilder(8, 8, 8)
	ab := workgraph.NewAccessSetBuilder(8)
	n := s.EmitTasks(0, 0, gb, ab)
	require.Equal(t, int32(0), n)
}

func TestEmitTasksBudgetedAcrossMultipleCalls(t *testing.T) {
	s := New([]uint32{1})
	s.SetTier(sysreg.TierMicro)
	s.SetBudgetHint(1)
	s.SetProposals([]Proposal{
		{ID: 1, VotesFor: 1, VotesAgainst: 0},
		{ID: 2, VotesFor: 0, VotesAgainst: 1},
	})

	gb := workgraph.NewBuilder(8, 8, 8)
	ab := workgraph.NewAccessSetBuilder(8)
	n1 := s.EmitTasks(0, 0, gb, ab)
	require.Equal(t, int32(1), n1)
	require.NotEqual(t, sysreg.TimeActMax, s.GetNextDueTick())

	n2 := s.EmitTasks(1, 0, gb, ab)
	require.Equal(t, int32(1), n2)
	require.Equal(t, sysreg.TimeActMax, s.GetNextDueTick())

	require.True(t, s.Enacted(1))
	require.False(t, s.Enacted(2))
}

func TestEmitTasksChainsDependencyEdgesAcrossProposals(t *testing.T) {
	s := New([]uint32{1})
	s.SetTier(sysreg.TierMicro)
	s.SetProposals([]Proposal{{ID: 1, VotesFor: 1}, {ID: 2, VotesFor: 1}})

	gb := workgraph.NewBuilder(8, 8, 8)
	ab := workgraph.NewAccessSetBuilder(8)
	s.EmitTasks(0, 0, gb, ab)

	g := gb.Finalize()
	require.Len(t, g.Edges, 1)
	require.Equal(t, depReasonID, g.Edges[0].ReasonID)
}
