// Package renderprep implements the render-prep domain system: a frame
// graph descriptor (graph_id, pass_count, flags) rebuilt or reused each
// tick depending on fidelity tier.
package renderprep

import (
	"github.com/Julesc013/dominium-sub017/dethash"
	"github.com/Julesc013/dominium-sub017/sysreg"
	"github.com/Julesc013/dominium-sub017/workgraph"
)

const systemName = "RENDER_PREP"
const phaseID uint32 = 400

// FrameGraphFlags bitmask.
type FrameGraphFlags uint32

// FlagReuse marks a frame graph descriptor as a carry-forward of the
// previous tick's graph (no new passes built this tick).
const FlagReuse FrameGraphFlags = 1 << 0

// FrameGraph is the render-prep output descriptor.
type FrameGraph struct {
	GraphID   uint64
	PassCount uint32
	Flags     FrameGraphFlags
}

// Scene bundles the inputs one frame graph is derived from.
type Scene struct {
	SceneID              uint64
	PackedViewSetID      uint64
	VisibilityMaskSetID  uint64
	VisibleRegionCount   uint32
	InstanceCount        uint32
}

const seedLabel = "RENDER_PREP_FRAME_GRAPH"

// System is the render-prep domain's ISimSystem implementation.
type System struct {
	scene      Scene
	tier       sysreg.Tier
	allowedOps uint64
	lawTargets []uint32
	nextDue    sysreg.ActTime
	lastGraph  FrameGraph
	haveLast   bool
}

// New returns a render-prep system.
func New(lawTargets []uint32) *System {
	return &System{allowedOps: 1, lawTargets: lawTargets}
}

func (s *System) SetScene(sc Scene)             { s.scene = sc }
func (s *System) SetTier(t sysreg.Tier)         { s.tier = t }
func (s *System) SetAllowedOpsMask(mask uint64) { s.allowedOps = mask }

func (s *System) SystemID() uint64                             { return dethash.String64(systemName) }
func (s *System) IsSimAffecting() bool                         { return false }
func (s *System) LawTargets() []uint32                         { return s.lawTargets }
func (s *System) GetNextDueTick() sysreg.ActTime               { return s.nextDue }
func (s *System) Degrade(t sysreg.Tier, r sysreg.DegradeReason) { s.tier = t }

// LastGraph returns the most recently produced frame graph descriptor.
func (s *System) LastGraph() FrameGraph { return s.lastGraph }

// graphID hashes the scene under the fixed seed label, folding every
// field that contributes to frame-graph shape in a fixed order so the
// same scene at the same tier always yields the same id.
func graphID(seed Scene, tier sysreg.Tier) uint64 {
	a := dethash.Seed(seedLabel)
	a.WriteU64(seed.SceneID)
	a.WriteU64(seed.PackedViewSetID)
	a.WriteU64(seed.VisibilityMaskSetID)
	a.WriteU32(seed.VisibleRegionCount)
	a.WriteU32(seed.InstanceCount)
	a.WriteU32(uint32(tier))
	return a.Sum()
}

func passCountFor(tier sysreg.Tier) uint32 {
	switch tier {
	case sysreg.TierLatent:
		return 0
	case sysreg.TierMacro:
		return 1
	case sysreg.TierMeso:
		return 2
	case sysreg.TierMicro:
		return 3
	case sysreg.TierFocus:
		// FOCUS and MICRO intentionally share pass_count 3 until the
		// host disambiguates whether FOCUS should exceed MICRO.
		return 3
	}
	return 0
}

func (s *System) EmitTasks(actNow, actTarget sysreg.ActTime, gb *workgraph.Builder, ab *workgraph.AccessSetBuilder) int32 {
	if s.allowedOps == 0 {
		return 0
	}
	if s.tier == sysreg.TierLatent {
		// LATENT reuses the previous graph verbatim: no new passes, flag
		// REUSE set, last_frame_id equals the prior tick's graph_id.
		var last uint64
		if s.haveLast {
			last = s.lastGraph.GraphID
		}
		s.lastGraph = FrameGraph{GraphID: last, PassCount: 0, Flags: FlagReuse}
		s.haveLast = true
		s.nextDue = sysreg.TimeActMax
		return 0
	}

	id := graphID(s.scene, s.tier)
	graph := FrameGraph{GraphID: id, PassCount: passCountFor(s.tier), Flags: 0}
	s.lastGraph = graph
	s.haveLast = true

	localID := id
	taskID := workgraph.MakeID(s.SystemID(), localID, workgraph.IDTask)
	accessID := workgraph.MakeID(s.SystemID(), localID, workgraph.IDAccess)
	costID := workgraph.MakeID(s.SystemID(), localID, workgraph.IDCost)

	if code := ab.Begin(accessID, 0, 0); !code.Ok() {
		s.nextDue = actNow + sysreg.ActTime(sysreg.DefaultCadence(s.tier))
		return 0
	}
	ab.AddRead(workgraph.AccessRange{Kind: workgraph.RangeSingle, ComponentID: s.scene.SceneID})
	ab.AddWrite(workgraph.AccessRange{Kind: workgraph.RangeSingle, ComponentID: id})
	if _, code := ab.Finalize(); !code.Ok() {
		s.nextDue = actNow + sysreg.ActTime(sysreg.DefaultCadence(s.tier))
		return 0
	}
	gb.AddCostModel(workgraph.CostModel{CostID: costID, CPUUpperBound: uint64(graph.PassCount) * 20, LatencyClass: workgraph.LatencyMed})

	task := workgraph.TaskNode{
		TaskID:           taskID,
		SystemID:         s.SystemID(),
		Category:         workgraph.CategoryPresentation,
		DeterminismClass: workgraph.DetDerived,
		FidelityTier:     uint32(s.tier),
		AccessSetID:      accessID,
		CostModelID:      costID,
		LawTargets:       s.lawTargets,
		PhaseID:          phaseID,
		CommitKey:        workgraph.MakeCommitKey(phaseID, taskID, 0),
	}
	// CategoryPresentation tasks carry no law_targets requirement; leave
	// lawTargets as provided for audit purposes only.
	code := gb.AddTask(task)
	s.nextDue = actNow + sysreg.ActTime(sysreg.DefaultCadence(s.tier))
	if !code.Ok() {
		return 0
	}
	return 1
}
