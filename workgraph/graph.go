package workgraph

import (
	"sort"

	"github.com/Julesc013/dominium-sub017/detcode"
	"github.com/Julesc013/dominium-sub017/dethash"
)

// Category classifies a task's output kind.
type Category uint32

const (
	CategoryAuthoritative Category = iota
	CategoryDerived
	CategoryPresentation
)

// DeterminismClass classifies how reproducibly a task must execute.
type DeterminismClass uint32

const (
	DetStrict DeterminismClass = iota
	DetOrdered
	DetCommutative
	DetDerived
)

// LatencyClass buckets a cost model's expected latency.
type LatencyClass uint32

const (
	LatencyLow LatencyClass = iota
	LatencyMed
	LatencyHigh
)

// CostModel bounds a task's resource consumption.
type CostModel struct {
	CostID               uint64
	CPUUpperBound        uint64
	MemoryUpperBound     uint64
	BandwidthUpperBound  uint64
	LatencyClass         LatencyClass
	DegradationPriority  uint32
}

// CommitKey orders tasks within a finalized graph.
type CommitKey struct {
	PhaseID  uint32
	TaskID   uint64
	SubIndex uint32
}

// Less is the canonical comparator on commit keys: phase_id, then
// task_id, then sub_index.
func (k CommitKey) Less(o CommitKey) bool {
	if k.PhaseID != o.PhaseID {
		return k.PhaseID < o.PhaseID
	}
	if k.TaskID != o.TaskID {
		return k.TaskID < o.TaskID
	}
	return k.SubIndex < o.SubIndex
}

// TaskNode is the atom of the Work IR.
type TaskNode struct {
	TaskID            uint64
	SystemID          uint64
	Category          Category
	DeterminismClass  DeterminismClass
	FidelityTier      uint32
	NextDueTick       uint64
	AccessSetID       uint64
	CostModelID       uint64
	LawTargets        []uint32
	PhaseID           uint32
	CommitKey         CommitKey
	LawScopeRef       uint64
	ActorRef          uint64
	CapabilitySetRef  uint64
	PolicyParams      []byte
}

// DependencyEdge is a producer-stated dependency between two tasks.
type DependencyEdge struct {
	FromTaskID uint64
	ToTaskID   uint64
	ReasonID   uint64
}

// PhaseBarrier marks a phase boundary all tasks of an earlier phase must
// commit before any task of a later phase, independent of edges.
type PhaseBarrier struct {
	PhaseID uint32
}

// IDKind selects which deterministic id namespace make_id derives into.
type IDKind uint8

const (
	IDTask IDKind = iota
	IDAccess
	IDCost
)

// TaskGraph is the finalized, immutable result of one builder Finalize
// call: tasks in canonical commit-key order.
type TaskGraph struct {
	GraphID     uint64
	EpochID     uint64
	Tasks       []TaskNode
	Edges       []DependencyEdge
	CostModels  []CostModel
	PhaseBarriers []PhaseBarrier
}

// TasksAboveBudget returns task ids whose cost model's CPU upper bound
// would push a cumulative budget over cpuBudget, ordered by
// degradation_priority descending (highest priority dropped first).
// A pure query for an external scheduler: it does not mutate the graph
// or drop anything itself; task execution remains out of this core's
// scope.
func (g *TaskGraph) TasksAboveBudget(cpuBudget uint64) []uint64 {
	costByID := make(map[uint64]CostModel, len(g.CostModels))
	for _, c := range g.CostModels {
		costByID[c.CostID] = c
	}
	type cand struct {
		taskID   uint64
		priority uint32
		cpu      uint64
	}
	cands := make([]cand, 0, len(g.Tasks))
	for _, t := range g.Tasks {
		c := costByID[t.CostModelID]
		cands = append(cands, cand{taskID: t.TaskID, priority: c.DegradationPriority, cpu: c.CPUUpperBound})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].priority != cands[j].priority {
			return cands[i].priority > cands[j].priority
		}
		return cands[i].taskID < cands[j].taskID
	})
	var total uint64
	for _, c := range cands {
		total += c.cpu
	}
	var out []uint64
	for _, c := range cands {
		if total <= cpuBudget {
			break
		}
		out = append(out, c.taskID)
		total -= c.cpu
	}
	return out
}

// Builder stages tasks, edges, cost models, and phase barriers for one
// tick and finalizes them into a TaskGraph.
type Builder struct {
	graphID uint64
	epochID uint64

	tasks        []TaskNode
	edges        []DependencyEdge
	costModels   []CostModel
	phaseBarriers []PhaseBarrier

	taskCap int
	edgeCap int
	costCap int

	seen map[uint64]struct{}
}

// NewBuilder returns a builder with caller-provided bounded capacities.
func NewBuilder(taskCap, edgeCap, costCap int) *Builder {
	return &Builder{
		tasks:      make([]TaskNode, 0, taskCap),
		edges:      make([]DependencyEdge, 0, edgeCap),
		costModels: make([]CostModel, 0, costCap),
		taskCap:    taskCap,
		edgeCap:    edgeCap,
		costCap:    costCap,
		seen:       make(map[uint64]struct{}, taskCap),
	}
}

// SetIDs assigns the graph/epoch identifiers this tick's finalized graph
// will carry.
func (b *Builder) SetIDs(graphID, epochID uint64) {
	b.graphID = graphID
	b.epochID = epochID
}

// MakeID derives a deterministic, stable id from (system_id, local_id,
// kind) via FNV-1a/64 folding in that exact field order, never a raw
// pointer or counter.
func MakeID(systemID, localID uint64, kind IDKind) uint64 {
	a := dethash.New()
	a.WriteU64(systemID)
	a.WriteU64(localID)
	a.WriteU64(uint64(kind))
	return a.Sum()
}

// MakeCommitKey builds a commit key tying phase_id and task_id together,
// matching the invariant that commit_key.phase_id == phase_id and
// commit_key.task_id == task_id.
func MakeCommitKey(phaseID uint32, taskID uint64, subIndex uint32) CommitKey {
	return CommitKey{PhaseID: phaseID, TaskID: taskID, SubIndex: subIndex}
}

func (b *Builder) AddCostModel(c CostModel) detcode.Code {
	if len(b.costModels) >= b.costCap {
		return detcode.CapacityExceeded
	}
	b.costModels = append(b.costModels, c)
	return detcode.OK
}

// AddTask appends a task. It enforces unique
// task_id within the tick, commit_key.phase_id == phase_id,
// commit_key.task_id == task_id, and a non-empty law_targets for
// authoritative tasks.
func (b *Builder) AddTask(t TaskNode) detcode.Code {
	if len(b.tasks) >= b.taskCap {
		return detcode.CapacityExceeded
	}
	if _, dup := b.seen[t.TaskID]; dup {
		return detcode.Duplicate
	}
	if t.CommitKey.PhaseID != t.PhaseID || t.CommitKey.TaskID != t.TaskID {
		return detcode.InvalidArgument
	}
	if t.Category == CategoryAuthoritative && len(t.LawTargets) == 0 {
		return detcode.InvalidArgument
	}
	b.seen[t.TaskID] = struct{}{}
	b.tasks = append(b.tasks, t)
	return detcode.OK
}

// AddDependency stores an edge in insertion order. Commit order is
// defined by commit keys, not edges; edges express structure to an
// external executor only.
func (b *Builder) AddDependency(e DependencyEdge) detcode.Code {
	if len(b.edges) >= b.edgeCap {
		return detcode.CapacityExceeded
	}
	b.edges = append(b.edges, e)
	return detcode.OK
}

func (b *Builder) AddPhaseBarrier(p PhaseBarrier) {
	b.phaseBarriers = append(b.phaseBarriers, p)
}

// Reset clears counts for the next tick without releasing the backing
// arrays' capacity.
func (b *Builder) Reset() {
	b.tasks = b.tasks[:0]
	b.edges = b.edges[:0]
	b.costModels = b.costModels[:0]
	b.phaseBarriers = b.phaseBarriers[:0]
	for k := range b.seen {
		delete(b.seen, k)
	}
}

// Finalize sorts tasks into strict ascending commit-key order and returns
// the immutable task graph.
func (b *Builder) Finalize() *TaskGraph {
	tasks := make([]TaskNode, len(b.tasks))
	copy(tasks, b.tasks)
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].CommitKey.Less(tasks[j].CommitKey) })

	return &TaskGraph{
		GraphID:       b.graphID,
		EpochID:       b.epochID,
		Tasks:         tasks,
		Edges:         append([]DependencyEdge(nil), b.edges...),
		CostModels:    append([]CostModel(nil), b.costModels...),
		PhaseBarriers: append([]PhaseBarrier(nil), b.phaseBarriers...),
	}
}

// TaskCount reports tasks currently staged this tick (pre-finalize).
func (b *Builder) TaskCount() int { return len(b.tasks) }
