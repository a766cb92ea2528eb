package kernel

import "github.com/Julesc013/dominium-sub017/detcode"

// KernelFn is an opaque backend implementation handle; the core never
// calls it, but a resolved Entry's Fn is what an external executor would
// invoke.
type KernelFn func()

// EntryFlags bitmask for registry entries.
type EntryFlags uint32

const FlagDerivedOnly EntryFlags = 1 << 0

// Entry describes one (op, backend) registration.
type Entry struct {
	CapabilityMask uint32
	Deterministic  bool
	Flags          EntryFlags
	Fn             KernelFn
}

type opBackendKey struct {
	opID      uint64
	backendID BackendID
}

// Registry maps (op_id, backend_id) -> Entry.
type Registry struct {
	entries map[opBackendKey]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[opBackendKey]Entry)}
}

// Insert rejects a duplicate (op_id, backend_id) pair.
func (r *Registry) Insert(opID uint64, backendID BackendID, e Entry) detcode.Code {
	key := opBackendKey{opID, backendID}
	if _, exists := r.entries[key]; exists {
		return detcode.Duplicate
	}
	r.entries[key] = e
	return detcode.OK
}

func determinismRequiresDeterministic(class DeterminismClass) bool {
	return class == ClassStrict || class == ClassOrdered || class == ClassCommutative
}

// Resolve looks up (op_id, backend_id), filtering by required
// capabilities, determinism requirement, and the DERIVED_ONLY flag.
func (r *Registry) Resolve(opID uint64, backendID BackendID, class DeterminismClass, requiredCaps uint32) (Entry, detcode.Code) {
	e, ok := r.entries[opBackendKey{opID, backendID}]
	if !ok {
		return Entry{}, detcode.NotFound
	}
	if e.CapabilityMask&requiredCaps != requiredCaps {
		return Entry{}, detcode.PolicyRefusal
	}
	if determinismRequiresDeterministic(class) && !e.Deterministic {
		return Entry{}, detcode.PolicyRefusal
	}
	if e.Flags&FlagDerivedOnly != 0 && class != ClassDerived {
		return Entry{}, detcode.PolicyRefusal
	}
	return e, detcode.OK
}

// ResolveResult is the outcome of the entry-point resolver.
type ResolveResult struct {
	Entry        Entry
	Backend      BackendID
	NoCandidate  bool
}

// ResolveSelected runs Select then resolves the chosen backend against
// the registry in one step; failure to resolve downgrades the result to
// NO_CANDIDATE.
func ResolveSelected(policy *Policy, registry *Registry, req Request, requiredCaps uint32) ResolveResult {
	sel := Select(policy, req)
	if !sel.Found {
		return ResolveResult{NoCandidate: true}
	}
	entry, code := registry.Resolve(req.OpID, sel.Backend, req.DeterminismClass, requiredCaps)
	if !code.Ok() {
		return ResolveResult{NoCandidate: true}
	}
	return ResolveResult{Entry: entry, Backend: sel.Backend}
}
