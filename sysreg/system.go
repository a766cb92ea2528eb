package sysreg

import "github.com/Julesc013/dominium-sub017/workgraph"

// ActTime is a tick timestamp; the "never due" sentinel is TimeActMax.
type ActTime = uint64

// TimeActMax is the "never due" value for next_due_tick.
const TimeActMax ActTime = 0xFFFF_FFFF_FFFF_FFFF

// ExecTickInvalid is the sentinel invalid tick value.
const ExecTickInvalid uint64 = 0xFFFF_FFFF_FFFF_FFFF

// DegradeReason is an opaque reason code passed to Degrade.
type DegradeReason uint32

// ISimSystem is the uniform contract every domain system implements:
// emit, degrade, due-tick, law targets.
type ISimSystem interface {
	// SystemID is a stable FNV-1a/64 of an ASCII name.
	SystemID() uint64
	// IsSimAffecting reports whether this system's outputs are
	// authoritative simulation state.
	IsSimAffecting() bool
	// LawTargets are FNV-1a/32 hashes of capability names.
	LawTargets() []uint32
	// GetNextDueTick reports when this system should next be asked to
	// emit.
	GetNextDueTick() ActTime
	// EmitTasks pushes this tick's IR into the shared builders, returning
	// the count of tasks emitted (>= 0) or a negative detcode.Code.
	EmitTasks(actNow, actTarget ActTime, gb *workgraph.Builder, ab *workgraph.AccessSetBuilder) int32
	// Degrade reduces this system's fidelity tier, with an opaque reason.
	Degrade(tier Tier, reason DegradeReason)
}
