// Package kernel implements deterministic kernel selection: the
// policy/registry machinery that picks one backend reproducibly for a
// given op and determinism class.
package kernel

import "github.com/Julesc013/dominium-sub017/detcode"

// BackendID is a single-bit backend identifier so masks compose with OR.
type BackendID uint32

const (
	BackendNone   BackendID = 0
	BackendScalar BackendID = 1 << 0
	BackendSIMD   BackendID = 1 << 1
	BackendGPU    BackendID = 1 << 2
)

const BackendAll = BackendScalar | BackendSIMD | BackendGPU

// DeterminismClass classifies the calling task's reproducibility
// requirement.
type DeterminismClass uint32

const (
	ClassStrict DeterminismClass = iota
	ClassOrdered
	ClassCommutative
	ClassDerived
)

// PolicyFlags is a bitmask of global policy toggles.
type PolicyFlags uint32

const (
	FlagDisableSIMD           PolicyFlags = 1 << 0
	FlagDisableGPU            PolicyFlags = 1 << 1
	FlagAdaptiveDerived       PolicyFlags = 1 << 2
	FlagEnforceDerivedBudget  PolicyFlags = 1 << 3
)

// OpOverride pins a specific op to its own backend order, overriding the
// policy default.
type OpOverride struct {
	OpID         uint64
	BackendOrder []BackendID
}

// Policy is the per-op backend-ordering policy.
type Policy struct {
	DefaultOrder        []BackendID // length <= 3
	StrictBackendMask   uint32
	DerivedBackendMask  uint32
	Flags               PolicyFlags
	MaxCPUTimeUsDerived uint64
	Overrides           []OpOverride
}

// isPermutationOfSubset reports whether order is a duplicate-free
// sequence drawn from {SCALAR, SIMD, GPU}.
func isPermutationOfSubset(order []BackendID) bool {
	if len(order) > 3 {
		return false
	}
	seen := map[BackendID]bool{}
	for _, b := range order {
		switch b {
		case BackendScalar, BackendSIMD, BackendGPU:
		default:
			return false
		}
		if seen[b] {
			return false
		}
		seen[b] = true
	}
	return true
}

// Validate rejects a policy whose default order, or any override order,
// is not a permutation of a subset of {SCALAR, SIMD, GPU}.
func (p *Policy) Validate() detcode.Code {
	if !isPermutationOfSubset(p.DefaultOrder) {
		return detcode.InvalidArgument
	}
	for _, o := range p.Overrides {
		if !isPermutationOfSubset(o.BackendOrder) {
			return detcode.InvalidArgument
		}
	}
	return detcode.OK
}

func (p *Policy) orderFor(opID uint64) []BackendID {
	for _, o := range p.Overrides {
		if o.OpID == opID {
			return o.BackendOrder
		}
	}
	return p.DefaultOrder
}

// AddOverride appends an op-specific backend order, rejecting it if it
// is not a valid permutation of a backend subset.
func (p *Policy) AddOverride(opID uint64, order []BackendID) detcode.Code {
	if !isPermutationOfSubset(order) {
		return detcode.InvalidArgument
	}
	for _, o := range p.Overrides {
		if o.OpID == opID {
			return detcode.Duplicate
		}
	}
	p.Overrides = append(p.Overrides, OpOverride{OpID: opID, BackendOrder: order})
	return detcode.OK
}

// ProfileFlags is a bitmask describing the caller's runtime profile
// signal (e.g. SLOW), consulted only for derived-class adaptive start
// index selection.
type ProfileFlags uint32

const FlagSlow ProfileFlags = 1 << 0

// ReasonCode explains a selection outcome.
type ReasonCode uint32

const (
	ReasonNone ReasonCode = iota
	ReasonNoMatch
)

// Request is the input to Select.
type Request struct {
	OpID               uint64
	DeterminismClass   DeterminismClass
	AvailableBackendMask uint32
	LawBackendMask     uint32
	ProfileFlags       ProfileFlags
	DerivedCPUTimeUs   uint64
}

// Result is the output of Select.
type Result struct {
	Backend BackendID
	Reason  ReasonCode
	Found   bool
}

func classAllows(class DeterminismClass, b BackendID) bool {
	if b == BackendGPU {
		return class == ClassDerived
	}
	return true
}

// Select runs the deterministic selection algorithm: a pure function of
// (policy, request), consulting no global state.
func Select(policy *Policy, req Request) Result {
	var allowedMask uint32
	if req.DeterminismClass == ClassDerived {
		allowedMask = policy.DerivedBackendMask
	} else {
		allowedMask = policy.StrictBackendMask
	}
	if policy.Flags&FlagDisableSIMD != 0 {
		allowedMask &^= uint32(BackendSIMD)
	}
	if policy.Flags&FlagDisableGPU != 0 {
		allowedMask &^= uint32(BackendGPU)
	}

	availableMask := req.AvailableBackendMask
	if availableMask == 0 {
		availableMask = uint32(BackendScalar)
	}
	lawMask := req.LawBackendMask
	if lawMask == 0 {
		lawMask = uint32(BackendAll)
	}
	combinedMask := allowedMask & availableMask & lawMask

	order := policy.orderFor(req.OpID)

	start := 0
	if req.DeterminismClass == ClassDerived {
		if policy.Flags&FlagAdaptiveDerived != 0 && req.ProfileFlags&FlagSlow != 0 {
			start = 1
		}
		if policy.Flags&FlagEnforceDerivedBudget != 0 && req.DerivedCPUTimeUs >= policy.MaxCPUTimeUsDerived {
			start = 1
		}
		if start >= len(order) {
			start = 0
		}
	}

	tryRange := func(lo, hi int) (Result, bool) {
		for i := lo; i < hi; i++ {
			b := order[i]
			if uint32(b)&combinedMask == 0 {
				continue
			}
			if !classAllows(req.DeterminismClass, b) {
				continue
			}
			return Result{Backend: b, Reason: ReasonNone, Found: true}, true
		}
		return Result{}, false
	}

	if res, ok := tryRange(start, len(order)); ok {
		return res
	}
	if res, ok := tryRange(0, start); ok {
		return res
	}
	return Result{Backend: BackendNone, Reason: ReasonNoMatch, Found: false}
}
