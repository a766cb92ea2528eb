// Package streaming implements the streaming domain system: an ordered
// plan of (op, chunk_id) pairs — LOAD or UNLOAD — derived from the
// canonical interest set, gated by the tier's strength threshold and the
// entries' expiry ticks, deduped by target_id, truncated to the tier's
// effective budget (its default clipped by the budget hint), with an
// optional dual-write migration mode for
// comparing against a legacy plan element-wise.
package streaming

import (
	"github.com/Julesc013/dominium-sub017/dethash"
	"github.com/Julesc013/dominium-sub017/detset"
	"github.com/Julesc013/dominium-sub017/sysreg"
	"github.com/Julesc013/dominium-sub017/workgraph"
)

const systemName = "STREAMING"
const phaseID uint32 = 500
const depReasonID uint64 = 2

// Op selects a streaming action.
type Op uint8

const (
	OpLoad Op = iota
	OpUnload
)

// PlanStep is one element of a streaming plan.
type PlanStep struct {
	Op      Op
	ChunkID uint64
}

// Request is one region-kind interest entry the streaming system reads.
// Entries arrive in canonical interest-set order and the plan preserves
// that order; the system never re-sorts them. A LOAD is emitted for an
// entry only when Strength meets the tier's threshold and ExpiryTick is
// still in the future. Dedup among qualifying entries keeps the first
// seen per TargetID; a finer (target_id, chunk_id) key was considered
// and rejected, see the module's design notes.
type Request struct {
	TargetID   uint64
	ChunkID    uint64
	Strength   uint32
	ExpiryTick uint64
}

// System is the streaming domain's ISimSystem implementation.
type System struct {
	requests    []Request
	cache       detset.Set[uint64]
	tier        sysreg.Tier
	allowedOps  uint64
	budgetHint  uint32
	lawTargets  []uint32
	nextDue     sysreg.ActTime
	plan        []PlanStep
	legacyPlan  []PlanStep
	legacyCompute legacyComputeFn
	dualWrite   bool
	mismatches  uint64
}

// New returns a streaming system.
func New(lawTargets []uint32) *System {
	return &System{allowedOps: 1, lawTargets: lawTargets}
}

// SetRequests replaces the canonical interest entries the next emission
// reads. The slice's order is the canonical interest-set order.
func (s *System) SetRequests(r []Request) { s.requests = r }

// SetCachedChunks replaces the host-reported set of resident chunks. A
// LOAD for a chunk already resident is dropped from the plan; a resident
// chunk no longer desired yields an UNLOAD when the tier permits one.
func (s *System) SetCachedChunks(ids ...uint64) { s.cache = detset.Of(ids...) }
func (s *System) SetTier(t sysreg.Tier)         { s.tier = t }
func (s *System) SetAllowedOpsMask(mask uint64) { s.allowedOps = mask }
func (s *System) SetBudgetHint(hint uint32)     { s.budgetHint = hint }

// EnableDualWrite turns on the migration-safety mode: a legacy plan is
// computed alongside the IR plan and compared element-wise, with every
// mismatch counted rather than failing the tick.
func (s *System) EnableDualWrite(legacy func([]Request) []PlanStep) { s.legacyCompute = legacy; s.dualWrite = true }

func (s *System) SystemID() uint64                             { return dethash.String64(systemName) }
func (s *System) IsSimAffecting() bool                         { return true }
func (s *System) LawTargets() []uint32                         { return s.lawTargets }
func (s *System) GetNextDueTick() sysreg.ActTime               { return s.nextDue }
func (s *System) Degrade(t sysreg.Tier, r sysreg.DegradeReason) { s.tier = t }

// Plan returns the most recently built streaming plan.
func (s *System) Plan() []PlanStep { return append([]PlanStep(nil), s.plan...) }

// MismatchCount returns the dual-write probe's running mismatch count.
func (s *System) MismatchCount() uint64 { return s.mismatches }

type legacyComputeFn = func([]Request) []PlanStep

// tierAllowsUnload suppresses unload churn below MESO: coarse tiers keep
// whatever is resident rather than thrashing the chunk cache.
func tierAllowsUnload(t sysreg.Tier) bool { return t >= sysreg.TierMeso }

// buildPlan assembles the full streaming plan. LOADs come first, one per
// qualifying interest entry — strength at or above the tier's threshold,
// expiry still in the future, first entry seen per target, chunk not
// already resident — in the order the entries appear in the canonical
// interest set. Then (tier permitting) an UNLOAD for each resident chunk
// no qualifying entry desires, in ascending chunk order.
func (s *System) buildPlan(now sysreg.ActTime) []PlanStep {
	threshold := sysreg.StrengthThreshold(s.tier)
	seen := detset.New[uint64](len(s.requests))
	desired := detset.New[uint64](len(s.requests))
	plan := make([]PlanStep, 0, len(s.requests))
	for _, r := range s.requests {
		if r.Strength < threshold || r.ExpiryTick <= now {
			continue
		}
		if seen.Contains(r.TargetID) {
			continue
		}
		seen.Add(r.TargetID)
		desired.Add(r.ChunkID)
		if s.cache.Contains(r.ChunkID) {
			continue
		}
		plan = append(plan, PlanStep{Op: OpLoad, ChunkID: r.ChunkID})
	}
	if tierAllowsUnload(s.tier) {
		for _, chunk := range s.cache.SortedList() {
			if !desired.Contains(chunk) {
				plan = append(plan, PlanStep{Op: OpUnload, ChunkID: chunk})
			}
		}
	}
	return plan
}

func (s *System) EmitTasks(actNow, actTarget sysreg.ActTime, gb *workgraph.Builder, ab *workgraph.AccessSetBuilder) int32 {
	if s.tier == sysreg.TierLatent || s.allowedOps == 0 {
		return 0
	}
	budget := int(sysreg.EffectiveBudget(s.tier, s.budgetHint))
	full := s.buildPlan(actNow)

	truncated := full
	if budget >= 0 && len(truncated) > budget {
		truncated = truncated[:budget]
	}
	s.plan = truncated

	if s.dualWrite && s.legacyCompute != nil {
		s.legacyPlan = s.legacyCompute(s.requests)
		n := len(s.plan)
		if len(s.legacyPlan) < n {
			n = len(s.legacyPlan)
		}
		for i := 0; i < n; i++ {
			if s.plan[i] != s.legacyPlan[i] {
				s.mismatches++
			}
		}
		if len(s.plan) != len(s.legacyPlan) {
			s.mismatches++
		}
	}

	var count int32
	var prevTaskID uint64
	havePrev := false
	for i, step := range s.plan {
		localID := dethash.New()
		localID.WriteU32(uint32(step.Op))
		localID.WriteU64(step.ChunkID)
		lid := localID.Sum()

		taskID := workgraph.MakeID(s.SystemID(), lid, workgraph.IDTask)
		accessID := workgraph.MakeID(s.SystemID(), lid, workgraph.IDAccess)
		costID := workgraph.MakeID(s.SystemID(), lid, workgraph.IDCost)

		if code := ab.Begin(accessID, 0, 0); !code.Ok() {
			continue
		}
		ab.AddWrite(workgraph.AccessRange{Kind: workgraph.RangeSingle, ComponentID: step.ChunkID})
		if _, code := ab.Finalize(); !code.Ok() {
			continue
		}
		gb.AddCostModel(workgraph.CostModel{CostID: costID, CPUUpperBound: 10, LatencyClass: workgraph.LatencyLow})

		task := workgraph.TaskNode{
			TaskID:           taskID,
			SystemID:         s.SystemID(),
			Category:         workgraph.CategoryDerived,
			DeterminismClass: workgraph.DetOrdered,
			FidelityTier:     uint32(s.tier),
			AccessSetID:      accessID,
			CostModelID:      costID,
			LawTargets:       s.lawTargets,
			PhaseID:          phaseID,
			CommitKey:        workgraph.MakeCommitKey(phaseID, taskID, uint32(i)),
		}
		if code := gb.AddTask(task); !code.Ok() {
			continue
		}
		count++
		if havePrev {
			gb.AddDependency(workgraph.DependencyEdge{FromTaskID: prevTaskID, ToTaskID: taskID, ReasonID: depReasonID})
		}
		prevTaskID = taskID
		havePrev = true
	}

	cycleComplete := len(full) <= budget
	if cycleComplete {
		s.nextDue = sysreg.TimeActMax
	} else {
		s.nextDue = actNow + sysreg.ActTime(sysreg.DefaultCadence(s.tier))
	}
	return count
}
