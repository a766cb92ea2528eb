package workgraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Julesc013/dominium-sub017/detcode"
)

func TestAccessSetBuilderLifecycle(t *testing.T) {
	b := NewAccessSetBuilder(2)
	require.Equal(t, detcode.OK, b.Begin(1, 0, 0))
	require.Equal(t, detcode.OK, b.AddRead(AccessRange{Kind: RangeSingle, ComponentID: 1}))
	require.Equal(t, detcode.OK, b.AddWrite(AccessRange{Kind: RangeSingle, ComponentID: 2}))
	id, code := b.Finalize()
	require.Equal(t, detcode.OK, code)
	require.Equal(t, uint64(1), id)

	set, ok := b.Lookup(1)
	require.True(t, ok)
	require.Len(t, set.Reads, 1)
	require.Len(t, set.Writes, 1)
}

func TestAccessSetBuilderRejectsAddBeforeBegin(t *testing.T) {
	b := NewAccessSetBuilder(2)
	require.Equal(t, detcode.InvalidArgument, b.AddRead(AccessRange{}))
}

func TestAccessSetBuilderRejectsDoubleBeginWithoutFinalize(t *testing.T) {
	b := NewAccessSetBuilder(2)
	require.Equal(t, detcode.OK, b.Begin(1, 0, 0))
	require.Equal(t, detcode.InvalidArgument, b.Begin(2, 0, 0))
}

func TestAccessSetBuilderFinalizeOverflow(t *testing.T) {
	b := NewAccessSetBuilder(1)
	require.Equal(t, detcode.OK, b.Begin(1, 0, 0))
	_, code := b.Finalize()
	require.Equal(t, detcode.OK, code)

	require.Equal(t, detcode.OK, b.Begin(2, 0, 0))
	_, code = b.Finalize()
	require.Equal(t, detcode.CapacityExceeded, code)
}

func TestAccessSetBuilderResetClearsFinalizedSets(t *testing.T) {
	b := NewAccessSetBuilder(1)
	b.Begin(1, 0, 0)
	b.Finalize()
	require.Equal(t, 1, b.Count())
	b.Reset()
	require.Equal(t, 0, b.Count())
}

func taskWithKey(taskID uint64, phase uint32, sub uint32) TaskNode {
	return TaskNode{
		TaskID:    taskID,
		Category:  CategoryDerived,
		PhaseID:   phase,
		CommitKey: MakeCommitKey(phase, taskID, sub),
	}
}

func TestAddTaskRejectsDuplicateID(t *testing.T) {
	b := NewBuilder(4, 4, 4)
	require.Equal(t, detcode.OK, b.AddTask(taskWithKey(1, 0, 0)))
	require.Equal(t, detcode.Duplicate, b.AddTask(taskWithKey(1, 0, 0)))
}

func TestAddTaskRejectsMismatchedCommitKey(t *testing.T) {
	b := NewBuilder(4, 4, 4)
	bad := taskWithKey(1, 0, 0)
	bad.CommitKey.TaskID = 99
	require.Equal(t, detcode.InvalidArgument, b.AddTask(bad))
}

func TestAddTaskRejectsAuthoritativeWithoutLawTargets(t *testing.T) {
	b := NewBuilder(4, 4, 4)
	task := taskWithKey(1, 0, 0)
	task.Category = CategoryAuthoritative
	require.Equal(t, detcode.InvalidArgument, b.AddTask(task))

	task.LawTargets = []uint32{7}
	require.Equal(t, detcode.OK, b.AddTask(task))
}

func TestAddTaskCapacityExceeded(t *testing.T) {
	b := NewBuilder(1, 4, 4)
	require.Equal(t, detcode.OK, b.AddTask(taskWithKey(1, 0, 0)))
	require.Equal(t, detcode.CapacityExceeded, b.AddTask(taskWithKey(2, 0, 0)))
}

func TestFinalizeSortsByCommitKey(t *testing.T) {
	b := NewBuilder(4, 4, 4)
	b.AddTask(taskWithKey(3, 1, 0))
	b.AddTask(taskWithKey(1, 0, 0))
	b.AddTask(taskWithKey(2, 0, 1))

	g := b.Finalize()
	require.Len(t, g.Tasks, 3)
	require.Equal(t, uint64(1), g.Tasks[0].TaskID)
	require.Equal(t, uint64(2), g.Tasks[1].TaskID)
	require.Equal(t, uint64(3), g.Tasks[2].TaskID)
}

func TestHashGraphIsDeterministicAndOrderIndependentOfInsertion(t *testing.T) {
	b1 := NewBuilder(4, 4, 4)
	b1.AddTask(taskWithKey(2, 0, 0))
	b1.AddTask(taskWithKey(1, 0, 0))
	g1 := b1.Finalize()

	b2 := NewBuilder(4, 4, 4)
	b2.AddTask(taskWithKey(1, 0, 0))
	b2.AddTask(taskWithKey(2, 0, 0))
	g2 := b2.Finalize()

	require.Equal(t, HashGraph(g1), HashGraph(g2))
}

func TestTasksAboveBudgetOrdersByDegradationPriorityDescending(t *testing.T) {
	g := &TaskGraph{
		Tasks: []TaskNode{
			{TaskID: 1, CostModelID: 1},
			{TaskID: 2, CostModelID: 2},
			{TaskID: 3, CostModelID: 3},
		},
		CostModels: []CostModel{
			{CostID: 1, CPUUpperBound: 10, DegradationPriority: 1},
			{CostID: 2, CPUUpperBound: 10, DegradationPriority: 5},
			{CostID: 3, CPUUpperBound: 10, DegradationPriority: 3},
		},
	}
	dropped := g.TasksAboveBudget(10)
	require.Equal(t, []uint64{2, 3}, dropped)
}

func TestMakeIDIsDeterministicAcrossCalls(t *testing.T) {
	a := MakeID(1, 2, IDTask)
	b := MakeID(1, 2, IDTask)
	require.Equal(t, a, b)

	c := MakeID(1, 2, IDAccess)
	require.NotEqual(t, a, c)
}

func TestAccessSetConflictsWithDetectsWriteWriteOverlap(t *testing.T) {
	a := AccessSet{Writes: []AccessRange{{Kind: RangeSingle, ComponentID: 5}}}
	b := AccessSet{Writes: []AccessRange{{Kind: RangeComponentSet, StartID: 1, EndID: 10}}}
	require.True(t, a.ConflictsWith(b))
	require.True(t, b.ConflictsWith(a))
}

func TestAccessSetConflictsWithDetectsWriteReadOverlap(t *testing.T) {
	writer := AccessSet{Writes: []AccessRange{{Kind: RangeInterestSet, StartID: 100, EndID: 200}}}
	reader := AccessSet{Reads: []AccessRange{{Kind: RangeSingle, ComponentID: 150}}}
	require.True(t, writer.ConflictsWith(reader))
	require.True(t, reader.ConflictsWith(writer))
}

func TestAccessSetConflictsWithIgnoresDisjointAndReadReadOverlap(t *testing.T) {
	a := AccessSet{
		Reads:  []AccessRange{{Kind: RangeSingle, ComponentID: 1}},
		Writes: []AccessRange{{Kind: RangeSingle, ComponentID: 2}},
	}
	b := AccessSet{
		Reads:  []AccessRange{{Kind: RangeSingle, ComponentID: 1}},
		Writes: []AccessRange{{Kind: RangeSingle, ComponentID: 3}},
	}
	require.False(t, a.ConflictsWith(b), "a shared read must not conflict")
}

func TestAccessSetWriteIDSetCoversFullRangeSpan(t *testing.T) {
	s := AccessSet{Writes: []AccessRange{{Kind: RangeComponentSet, StartID: 10, EndID: 12}}}
	ids := s.WriteIDSet()
	require.True(t, ids.Contains(10))
	require.True(t, ids.Contains(12))
	require.False(t, ids.Contains(13))
}
