// Package interest implements the interest domain system: a four-phase
// graph that collects interest points per source kind (in a fixed
// ascending kind order), merges them into a set, applies hysteresis, and
// builds per-entity fidelity requests.
package interest

import (
	"sort"

	"github.com/Julesc013/dominium-sub017/dethash"
	"github.com/Julesc013/dominium-sub017/detset"
	"github.com/Julesc013/dominium-sub017/sysreg"
	"github.com/Julesc013/dominium-sub017/workgraph"
)

const systemName = "INTEREST"

// Kind is an interest source kind. Collection walks kinds in this fixed
// ascending order: player focus, command intent, logistics, sensor/comms,
// hazard/conflict, governance scope.
type Kind uint32

const (
	KindPlayerFocus Kind = iota
	KindCommandIntent
	KindLogistics
	KindSensorComms
	KindHazardConflict
	KindGovernanceScope
	kindCount
)

// Phase ids are fixed: collect, merge, hysteresis, build.
const (
	PhaseCollect    uint32 = 0
	PhaseMerge      uint32 = 1
	PhaseHysteresis uint32 = 2
	PhaseBuild      uint32 = 3
)

// Source is one interest-producing input, e.g. one player's focus point
// or one logistics convoy's route.
type Source struct {
	Kind     Kind
	SourceID uint64
	EntityID uint64
	Strength uint32
}

// FidelityRequest is the output of the build phase: a requested tier for
// one entity, derived from its post-hysteresis interest strength. The
// strength itself is carried too, so downstream consumers (streaming's
// load gate) can apply their own tier thresholds to the same value.
type FidelityRequest struct {
	EntityID uint64
	Tier     sysreg.Tier
	Strength uint32
}

// System is the interest domain's ISimSystem implementation.
type System struct {
	sources    []Source
	tier       sysreg.Tier
	allowedOps uint64
	lawTargets []uint32
	nextDue    sysreg.ActTime

	// prevStrength holds the last tick's merged strength per entity, used
	// by the hysteresis phase to damp tier flapping at a threshold
	// boundary.
	prevStrength map[uint64]uint32
	requests     []FidelityRequest
}

// New returns an interest system.
func New(lawTargets []uint32) *System {
	return &System{allowedOps: 1, lawTargets: lawTargets, prevStrength: make(map[uint64]uint32)}
}

func (s *System) SetSources(src []Source)       { s.sources = src }
func (s *System) SetTier(t sysreg.Tier)         { s.tier = t }
func (s *System) SetAllowedOpsMask(mask uint64) { s.allowedOps = mask }

func (s *System) SystemID() uint64                             { return dethash.String64(systemName) }
func (s *System) IsSimAffecting() bool                         { return true }
func (s *System) LawTargets() []uint32                         { return s.lawTargets }
func (s *System) GetNextDueTick() sysreg.ActTime               { return s.nextDue }
func (s *System) Degrade(t sysreg.Tier, r sysreg.DegradeReason) { s.tier = t }

// Requests returns the most recently built fidelity requests.
func (s *System) Requests() []FidelityRequest { return append([]FidelityRequest(nil), s.requests...) }

func sourcesByKind(sources []Source, k Kind) []Source {
	var out []Source
	for _, s := range sources {
		if s.Kind == k {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceID < out[j].SourceID })
	return out
}

// mergeToSet sums every source's strength per entity, in ascending kind
// then ascending source_id order, so the sum's intermediate order never
// depends on input slice order.
func mergeToSet(sources []Source) map[uint64]uint32 {
	merged := make(map[uint64]uint32)
	for k := Kind(0); k < kindCount; k++ {
		for _, src := range sourcesByKind(sources, k) {
			merged[src.EntityID] += src.Strength
		}
	}
	return merged
}

const hysteresisMargin uint32 = 32

// applyHysteresis damps small one-tick changes: an entity keeps its
// previous tick's strength unless the new merged strength differs from it
// by at least hysteresisMargin, so small fluctuations around a tier
// threshold do not flip its tier. Entities with no previous value take
// the merged value as is.
func applyHysteresis(merged map[uint64]uint32, prev map[uint64]uint32) map[uint64]uint32 {
	out := make(map[uint64]uint32, len(merged))
	for id, v := range merged {
		p, had := prev[id]
		if had {
			diff := int64(v) - int64(p)
			if diff < 0 {
				diff = -diff
			}
			if uint32(diff) < hysteresisMargin {
				out[id] = p
				continue
			}
		}
		out[id] = v
	}
	return out
}

// tierForStrength maps a post-hysteresis interest strength to a
// requested fidelity tier. FOCUS is never reached through accumulated
// strength alone (its threshold of zero is a floor, not a target) — it is
// reserved for explicit host overrides such as "the entity the player
// currently controls", outside this system's scope.
func tierForStrength(strength uint32) sysreg.Tier {
	switch {
	case strength >= sysreg.StrengthThreshold(sysreg.TierMacro):
		return sysreg.TierMacro
	case strength >= sysreg.StrengthThreshold(sysreg.TierMeso):
		return sysreg.TierMeso
	case strength >= sysreg.StrengthThreshold(sysreg.TierMicro):
		return sysreg.TierMicro
	default:
		return sysreg.TierLatent
	}
}

func (s *System) EmitTasks(actNow, actTarget sysreg.ActTime, gb *workgraph.Builder, ab *workgraph.AccessSetBuilder) int32 {
	if s.allowedOps == 0 {
		s.nextDue = actNow + sysreg.ActTime(sysreg.DefaultCadence(s.tier))
		return 0
	}

	var count int32
	var collectTaskIDs []uint64

	localID := func(phase uint32, salt uint64) uint64 {
		a := dethash.New()
		a.WriteU32(phase)
		a.WriteU64(salt)
		return a.Sum()
	}
	pushTask := func(phase uint32, lid uint64, componentID uint64, deps []uint64) (uint64, bool) {
		taskID := workgraph.MakeID(s.SystemID(), lid, workgraph.IDTask)
		accessID := workgraph.MakeID(s.SystemID(), lid, workgraph.IDAccess)
		costID := workgraph.MakeID(s.SystemID(), lid, workgraph.IDCost)

		if code := ab.Begin(accessID, 0, 0); !code.Ok() {
			return 0, false
		}
		ab.AddRead(workgraph.AccessRange{Kind: workgraph.RangeSingle, ComponentID: componentID})
		ab.AddWrite(workgraph.AccessRange{Kind: workgraph.RangeSingle, ComponentID: componentID})
		if _, code := ab.Finalize(); !code.Ok() {
			return 0, false
		}
		gb.AddCostModel(workgraph.CostModel{CostID: costID, CPUUpperBound: 5, LatencyClass: workgraph.LatencyLow})
		task := workgraph.TaskNode{
			TaskID:           taskID,
			SystemID:         s.SystemID(),
			Category:         workgraph.CategoryDerived,
			DeterminismClass: workgraph.DetCommutative,
			FidelityTier:     uint32(s.tier),
			AccessSetID:      accessID,
			CostModelID:      costID,
			LawTargets:       s.lawTargets,
			PhaseID:          phase,
			CommitKey:        workgraph.MakeCommitKey(phase, taskID, 0),
		}
		if code := gb.AddTask(task); !code.Ok() {
			return 0, false
		}
		for _, dep := range deps {
			gb.AddDependency(workgraph.DependencyEdge{FromTaskID: dep, ToTaskID: taskID, ReasonID: 3})
		}
		return taskID, true
	}

	// Phase 0: collect, one task per source, ascending kind then source_id.
	for k := Kind(0); k < kindCount; k++ {
		for _, src := range sourcesByKind(s.sources, k) {
			lid := localID(PhaseCollect, src.SourceID)
			if taskID, ok := pushTask(PhaseCollect, lid, src.EntityID, nil); ok {
				collectTaskIDs = append(collectTaskIDs, taskID)
				count++
			}
		}
	}

	merged := mergeToSet(s.sources)

	// Phase 1: merge, a single task depending on every collect task.
	if mergeTaskID, ok := pushTask(PhaseMerge, localID(PhaseMerge, 0), 0, collectTaskIDs); ok {
		count++

		effective := applyHysteresis(merged, s.prevStrength)
		s.prevStrength = effective

		// Phase 2: hysteresis, a single task depending on merge.
		if hystTaskID, ok := pushTask(PhaseHysteresis, localID(PhaseHysteresis, 0), 0, []uint64{mergeTaskID}); ok {
			count++

			entities := detset.New[uint64](len(effective))
			for id := range effective {
				entities.Add(id)
			}
			ids := entities.SortedList()
			requests := make([]FidelityRequest, 0, len(ids))
			for _, id := range ids {
				requests = append(requests, FidelityRequest{EntityID: id, Tier: tierForStrength(effective[id]), Strength: effective[id]})
			}
			s.requests = requests

			// Phase 3: build, a single task depending on hysteresis.
			if _, ok := pushTask(PhaseBuild, localID(PhaseBuild, 0), 0, []uint64{hystTaskID}); ok {
				count++
			}
		}
	}

	s.nextDue = actNow + sysreg.ActTime(sysreg.DefaultCadence(s.tier))
	return count
}
