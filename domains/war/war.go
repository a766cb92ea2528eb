// Package war implements the war domain system emitter: engagement,
// occupation, resistance, disruption, route, and blockade/interdiction
// sub-pipelines, each a fixed ordered chain of ops with a stable phase_id
// per op.
package war

import (
	"sort"

	"github.com/Julesc013/dominium-sub017/detcode"
	"github.com/Julesc013/dominium-sub017/dethash"
	"github.com/Julesc013/dominium-sub017/domains"
	"github.com/Julesc013/dominium-sub017/primitive"
	"github.com/Julesc013/dominium-sub017/sysreg"
	"github.com/Julesc013/dominium-sub017/workgraph"
)

// OpKind identifies one op within the war system's total op taxonomy.
// Each carries a single allowed-ops-mask bit and a fixed phase_id,
// independent of which engagement/occupation/etc. fires it.
type OpKind uint32

const (
	OpAdmit OpKind = iota
	OpResolve
	OpApplyCasualties
	OpApplyEquipmentLosses
	OpUpdateMorale
	OpOccupy
	OpOccupationResolve
	OpResistanceResolve
	OpResistanceApply
	OpDisruptionApply
	OpRouteApply
	OpBlockadeApply
	OpInterdictionDetect
	OpInterdictionApply
	opKindCount
)

func (k OpKind) bit() uint64   { return 1 << uint(k) }
func (k OpKind) phaseID() uint32 { return uint32(k) } // fixed 1:1, stable across ticks

// AllOpsMask is the mask admitting every op kind.
const AllOpsMask = (uint64(1) << uint(opKindCount)) - 1

// opParams is the fixed-size policy-params payload every war task
// carries: the op kind and its target entity, encoded LE.
type opParams struct {
	kind     OpKind
	entityID uint64
}

const opParamsSize uint32 = 12

func (p opParams) Bytes() []byte {
	e := primitive.NewEncoder(int(opParamsSize))
	e.PutU32(uint32(p.kind))
	e.PutU64(p.entityID)
	return e.Bytes
}

func (p opParams) Size() uint32 { return opParamsSize }

var _ domains.PolicyParams = opParams{}

// Engagement, Occupation, Resistance, Disruption, Route, and Blockade are
// the war system's input records. Fields are intentionally minimal:
// enough to drive a deterministic outcome without floating point.
type Engagement struct {
	ID               uint64
	AttackerStrength uint32
	DefenderStrength uint32
}

type Occupation struct {
	ID        uint64
	RegionID  uint64
	Garrison  uint32
}

type Resistance struct {
	ID       uint64
	RegionID uint64
	Unrest   uint32
}

type Disruption struct {
	ID     uint64
	LaneID uint64
}

type Route struct {
	ID    uint64
	LaneID uint64
}

type Blockade struct {
	ID     uint64
	LaneID uint64
}

type Interdiction struct {
	ID     uint64
	LaneID uint64
}

// Inputs bundles the seven sub-pipelines' input slices for one cycle. A
// host replaces Inputs between cycles, never mid-cycle: IR lives one
// tick, but a system's own cursor-driven cycle spans several ticks over
// a stable input set.
type Inputs struct {
	Engagements   []Engagement
	Occupations   []Occupation
	Resistances   []Resistance
	Disruptions   []Disruption
	Routes        []Route
	Blockades     []Blockade
	Interdictions []Interdiction
}

// Outcome records one resolved engagement's winner.
type Outcome struct {
	EngagementID   uint64
	AttackerWins   bool
}

// AuditEntry is one ring-buffer slot of casualty/morale deltas.
type AuditEntry struct {
	EngagementID  uint64
	CasualtyDelta uint32
	MoraleDelta   int32
}

// AuditLog is a fixed-capacity ring buffer: oldest entry overwritten,
// never reallocated.
type AuditLog struct {
	entries  []AuditEntry
	capacity int
	next     int
	full     bool
}

// NewAuditLog returns a ring buffer with a fixed capacity set at
// construction.
func NewAuditLog(capacity int) *AuditLog {
	return &AuditLog{entries: make([]AuditEntry, capacity), capacity: capacity}
}

func (a *AuditLog) Push(e AuditEntry) {
	if a.capacity == 0 {
		return
	}
	a.entries[a.next] = e
	a.next = (a.next + 1) % a.capacity
	if a.next == 0 {
		a.full = true
	}
}

// Entries returns the log's contents in insertion order (oldest first).
func (a *AuditLog) Entries() []AuditEntry {
	if !a.full {
		return append([]AuditEntry(nil), a.entries[:a.next]...)
	}
	out := make([]AuditEntry, 0, a.capacity)
	out = append(out, a.entries[a.next:]...)
	out = append(out, a.entries[:a.next]...)
	return out
}

const systemName = "WAR"

// System is the war domain's ISimSystem implementation.
type System struct {
	inputs        Inputs
	cursor        domains.Cursor
	tier          sysreg.Tier
	allowedOps    uint64
	budgetHint    uint32
	lawTargets    []uint32
	nextDue       sysreg.ActTime
	lastEmitted   int32

	outcomes  []Outcome
	audit     *AuditLog
	morale    map[uint64]int32
}

// New returns a war system with the given audit-log capacity.
func New(auditCapacity int, lawTargets []uint32) *System {
	return &System{
		audit:      NewAuditLog(auditCapacity),
		morale:     make(map[uint64]int32),
		allowedOps: AllOpsMask,
		lawTargets: lawTargets,
		nextDue:    0,
	}
}

// SetInputs replaces the cycle's input set. Call only between cycles.
func (s *System) SetInputs(in Inputs) { s.inputs = in }

// SetTier sets the system's current fidelity tier.
func (s *System) SetTier(t sysreg.Tier) { s.tier = t }

// SetAllowedOpsMask sets the externally-controlled allowed-ops mask;
// zero means the system emits zero tasks this and every subsequent tick
// until raised again.
func (s *System) SetAllowedOpsMask(mask uint64) { s.allowedOps = mask }

// SetBudgetHint sets the host-provided budget hint (zero means "use the
// tier default").
func (s *System) SetBudgetHint(hint uint32) { s.budgetHint = hint }

func (s *System) SystemID() uint64      { return dethash.String64(systemName) }
func (s *System) IsSimAffecting() bool  { return true }
func (s *System) LawTargets() []uint32  { return s.lawTargets }
func (s *System) GetNextDueTick() sysreg.ActTime { return s.nextDue }
func (s *System) Degrade(tier sysreg.Tier, reason sysreg.DegradeReason) { s.tier = tier }

// Outcomes returns every resolved engagement outcome recorded so far.
func (s *System) Outcomes() []Outcome { return append([]Outcome(nil), s.outcomes...) }

// AuditLog returns the ring buffer of casualty/morale deltas.
func (s *System) AuditLog() *AuditLog { return s.audit }

// MoraleStateHash hashes the current morale map in ascending
// engagement-id order, so the map's unspecified Go iteration order never
// leaks into a value the core claims is deterministic.
func (s *System) MoraleStateHash() uint64 {
	ids := make([]uint64, 0, len(s.morale))
	for id := range s.morale {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	a := dethash.New()
	for _, id := range ids {
		a.WriteU64(id)
		a.WriteU64(uint64(int64(s.morale[id])))
	}
	return a.Sum()
}

// opUnit is one (kind, entityIndex) step in the flat, precedence-ordered
// op sequence this cycle walks. Building this list fresh from the stable
// Inputs each call (rather than caching it) keeps the cursor's integer
// position the only persisted state, and is why step-budget=1 and
// batch-budget=N produce identical results: both walk the same ordered
// list, just in different-sized slices.
type opUnit struct {
	kind  OpKind
	index int // index into the relevant sub-pipeline slice
}

func (s *System) combinedMask() uint64 {
	return s.allowedOps & (AllOpsMask) // tier op mask intentionally 1:1 with AllOpsMask for this domain's 14 fixed ops
}

func (s *System) buildOpList() []opUnit {
	mask := s.combinedMask()
	var list []opUnit
	add := func(k OpKind, n int) {
		if mask&k.bit() == 0 {
			return
		}
		for i := 0; i < n; i++ {
			list = append(list, opUnit{kind: k, index: i})
		}
	}
	ne := len(s.inputs.Engagements)
	add(OpAdmit, ne)
	add(OpResolve, ne)
	add(OpApplyCasualties, ne)
	add(OpApplyEquipmentLosses, ne)
	add(OpUpdateMorale, ne)
	add(OpOccupy, len(s.inputs.Occupations))
	add(OpOccupationResolve, len(s.inputs.Occupations))
	add(OpResistanceResolve, len(s.inputs.Resistances))
	add(OpResistanceApply, len(s.inputs.Resistances))
	add(OpDisruptionApply, len(s.inputs.Disruptions))
	add(OpRouteApply, len(s.inputs.Routes))
	add(OpBlockadeApply, len(s.inputs.Blockades))
	add(OpInterdictionDetect, len(s.inputs.Interdictions))
	add(OpInterdictionApply, len(s.inputs.Interdictions))
	return list
}

func localID(kind OpKind, entityID uint64) uint64 {
	a := dethash.New()
	a.WriteU32(uint32(kind))
	a.WriteU64(entityID)
	return a.Sum()
}

func (s *System) entityIDFor(u opUnit) uint64 {
	switch u.kind {
	case OpAdmit, OpResolve, OpApplyCasualties, OpApplyEquipmentLosses, OpUpdateMorale:
		return s.inputs.Engagements[u.index].ID
	case OpOccupy, OpOccupationResolve:
		return s.inputs.Occupations[u.index].ID
	case OpResistanceResolve, OpResistanceApply:
		return s.inputs.Resistances[u.index].ID
	case OpDisruptionApply:
		return s.inputs.Disruptions[u.index].ID
	case OpRouteApply:
		return s.inputs.Routes[u.index].ID
	case OpBlockadeApply:
		return s.inputs.Blockades[u.index].ID
	case OpInterdictionDetect, OpInterdictionApply:
		return s.inputs.Interdictions[u.index].ID
	}
	return 0
}

// applyDomainEffect runs the op's actual (non-IR) domain logic: resolving
// engagements, applying casualties/equipment losses, updating morale.
// This is deterministic and depends only on the op's own record, so it is
// naturally associative across however the budget chunks the op list.
func (s *System) applyDomainEffect(u opUnit) {
	switch u.kind {
	case OpResolve:
		e := s.inputs.Engagements[u.index]
		s.outcomes = append(s.outcomes, Outcome{EngagementID: e.ID, AttackerWins: e.AttackerStrength >= e.DefenderStrength})
	case OpApplyCasualties:
		e := s.inputs.Engagements[u.index]
		loser := e.DefenderStrength
		if e.AttackerStrength < e.DefenderStrength {
			loser = e.AttackerStrength
		}
		casualty := loser / 10
		s.audit.Push(AuditEntry{EngagementID: e.ID, CasualtyDelta: casualty})
	case OpApplyEquipmentLosses:
		e := s.inputs.Engagements[u.index]
		s.audit.Push(AuditEntry{EngagementID: e.ID, CasualtyDelta: e.AttackerStrength / 100})
	case OpUpdateMorale:
		e := s.inputs.Engagements[u.index]
		delta := int32(1)
		if e.AttackerStrength < e.DefenderStrength {
			delta = -1
		}
		s.morale[e.ID] += delta
		s.audit.Push(AuditEntry{EngagementID: e.ID, MoraleDelta: delta})
	}
}

// accessSetFor fills a minimal read/write(+audit) access set for one op:
// a read from the input's component set and writes to the output
// component set plus the audit set. The audit write is always last in
// the write list so auditors see the full effect.
func accessSetFor(ab *workgraph.AccessSetBuilder, accessID, entityID uint64) detcode.Code {
	if code := ab.Begin(accessID, 0, 0); !code.Ok() {
		return code
	}
	ab.AddRead(workgraph.AccessRange{Kind: workgraph.RangeSingle, ComponentID: entityID})
	ab.AddWrite(workgraph.AccessRange{Kind: workgraph.RangeSingle, ComponentID: entityID})
	// audit write last
	ab.AddWrite(workgraph.AccessRange{Kind: workgraph.RangeSingle, ComponentID: entityID, FieldID: auditFieldID})
	_, code := ab.Finalize()
	return code
}

const auditFieldID = ^uint64(0)

// EmitTasks implements sysreg.ISimSystem.
func (s *System) EmitTasks(actNow, actTarget sysreg.ActTime, gb *workgraph.Builder, ab *workgraph.AccessSetBuilder) int32 {
	s.lastEmitted = 0
	if s.tier == sysreg.TierLatent {
		return 0
	}
	opList := s.buildOpList()
	total := len(opList)
	budget := int(sysreg.EffectiveBudget(s.tier, s.budgetHint))
	if budget <= 0 {
		return 0
	}
	lo, hi, atEnd := s.cursor.Take(total, budget)

	var prevTaskID uint64
	havePrev := false
	var count int32
	for i := lo; i < hi; i++ {
		u := opList[i]
		entityID := s.entityIDFor(u)
		lid := localID(u.kind, entityID)
		taskID := workgraph.MakeID(s.SystemID(), lid, workgraph.IDTask)
		accessID := workgraph.MakeID(s.SystemID(), lid, workgraph.IDAccess)
		costID := workgraph.MakeID(s.SystemID(), lid, workgraph.IDCost)

		if code := accessSetFor(ab, accessID, entityID); !code.Ok() {
			continue
		}
		gb.AddCostModel(workgraph.CostModel{CostID: costID, CPUUpperBound: 100, LatencyClass: workgraph.LatencyLow})

		phase := u.kind.phaseID()
		params := opParams{kind: u.kind, entityID: entityID}
		task := workgraph.TaskNode{
			TaskID:           taskID,
			SystemID:         s.SystemID(),
			Category:         workgraph.CategoryAuthoritative,
			DeterminismClass: workgraph.DetStrict,
			FidelityTier:     uint32(s.tier),
			NextDueTick:      s.nextDue,
			AccessSetID:      accessID,
			CostModelID:      costID,
			LawTargets:       s.lawTargets,
			PhaseID:          phase,
			CommitKey:        workgraph.MakeCommitKey(phase, taskID, 0),
			PolicyParams:     params.Bytes(),
		}
		if code := gb.AddTask(task); !code.Ok() {
			continue
		}
		s.applyDomainEffect(u)
		count++

		if havePrev {
			gb.AddDependency(workgraph.DependencyEdge{FromTaskID: prevTaskID, ToTaskID: taskID, ReasonID: 1})
		}
		prevTaskID = taskID
		havePrev = true
	}

	cycleComplete := atEnd && hi >= total
	if cycleComplete {
		s.cursor.Reset()
		s.nextDue = sysreg.TimeActMax
	} else {
		s.nextDue = actNow + uint64(cadenceFor(s.tier))
	}
	s.lastEmitted = count
	return count
}

func cadenceFor(tier sysreg.Tier) uint32 { return sysreg.DefaultCadence(tier) }
