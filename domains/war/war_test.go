package war

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Julesc013/dominium-sub017/sysreg"
	"github.com/Julesc013/dominium-sub017/workgraph"
)

func seededInputs() Inputs {
	return Inputs{
		Engagements: []Engagement{
			{ID: 1, AttackerStrength: 100, DefenderStrength: 80},
			{ID: 2, AttackerStrength: 40, DefenderStrength: 90},
			{ID: 3, AttackerStrength: 60, DefenderStrength: 60},
		},
		Occupations:   []Occupation{{ID: 10, RegionID: 1, Garrison: 5}, {ID: 11, RegionID: 2, Garrison: 3}},
		Resistances:   []Resistance{{ID: 20, RegionID: 1, Unrest: 4}, {ID: 21, RegionID: 2, Unrest: 6}},
		Disruptions:   []Disruption{{ID: 30, LaneID: 1}},
		Routes:        []Route{{ID: 40, LaneID: 1}},
		Blockades:     []Blockade{{ID: 50, LaneID: 1}},
		Interdictions: []Interdiction{{ID: 60, LaneID: 1}, {ID: 61, LaneID: 2}},
	}
}

func newSystem() *System {
	s := New(64, []uint32{1})
	s.SetInputs(seededInputs())
	s.SetTier(sysreg.TierMicro)
	return s
}

func runToCompletion(t *testing.T, s *System, budget uint32) (totalTasks int32, outcomes []Outcome) {
	t.Helper()
	s.SetBudgetHint(budget)
	for i := 0; i < 1000; i++ {
		gb := workgraph.NewBuilder(256, 256, 256)
		ab := workgraph.NewAccessSetBuilder(256)
		n := s.EmitTasks(sysreg.ActTime(i), 0, gb, ab)
		require.GreaterOrEqual(t, n, int32(0))
		totalTasks += n
		if s.GetNextDueTick() == sysreg.TimeActMax {
			break
		}
	}
	return totalTasks, s.Outcomes()
}

func TestWarStepBudgetAndBatchBudgetProduceEquivalentOutcomes(t *testing.T) {
	stepSys := newSystem()
	stepTotal, stepOutcomes := runToCompletion(t, stepSys, 1)

	batchSys := newSystem()
	batchTotal, batchOutcomes := runToCompletion(t, batchSys, 1000)

	require.Equal(t, batchTotal, stepTotal)
	require.Equal(t, batchOutcomes, stepOutcomes)
	require.Equal(t, stepSys.MoraleStateHash(), batchSys.MoraleStateHash())
}

func TestWarZeroAllowedOpsMaskEmitsNoTasks(t *testing.T) {
	s := newSystem()
	s.SetAllowedOpsMask(0)

	gb := workgraph.NewBuilder(256, 256, 256)
	ab := workgraph.NewAccessSetBuilder(256)
	n := s.EmitTasks(0, 0, gb, ab)

	require.Equal(t, int32(0), n)
	require.Equal(t, 0, gb.TaskCount())
}

func TestWarLatentTierEmitsNoTasks(t *testing.T) {
	s := newSystem()
	s.SetTier(sysreg.TierLatent)

	gb := workgraph.NewBuilder(256, 256, 256)
	ab := workgraph.NewAccessSetBuilder(256)
	n := s.EmitTasks(0, 0, gb, ab)
	require.Equal(t, int32(0), n)
}

func TestWarAuditWriteIsAlwaysLastInWriteList(t *testing.T) {
	ab := workgraph.NewAccessSetBuilder(4)
	require.True(t, accessSetFor(ab, 1, 42).Ok())
	set, ok := ab.Lookup(1)
	require.True(t, ok)
	require.Len(t, set.Writes, 2)
	require.Equal(t, auditFieldID, set.Writes[len(set.Writes)-1].FieldID)
}

func TestWarAuditLogWrapsAsRingBuffer(t *testing.T) {
	log := NewAuditLog(2)
	log.Push(AuditEntry{EngagementID: 1})
	log.Push(AuditEntry{EngagementID: 2})
	log.Push(AuditEntry{EngagementID: 3})

	entries := log.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, uint64(2), entries[0].EngagementID)
	require.Equal(t, uint64(3), entries[1].EngagementID)
}

func TestWarTasksCarryFixedSizePolicyParams(t *testing.T) {
	s := newSystem()
	gb := workgraph.NewBuilder(256, 256, 256)
	ab := workgraph.NewAccessSetBuilder(256)
	n := s.EmitTasks(0, 0, gb, ab)
	require.Greater(t, n, int32(0))

	graph := gb.Finalize()
	for _, task := range graph.Tasks {
		require.Len(t, task.PolicyParams, int(opParamsSize))
	}
}
