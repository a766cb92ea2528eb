// Package orderkey defines the single total order used across every
// scheduler-owned queue in the core.
package orderkey

// Key is the canonical 7-tuple. Pad0/Pad1 are reserved and always zero;
// they are kept as named fields (rather than omitted) so the struct's
// layout mirrors the wire/ABI layout exactly.
type Key struct {
	Phase       uint16
	Pad0        uint16
	DomainID    uint64
	ChunkID     uint64
	EntityID    uint64
	ComponentID uint64
	TypeID      uint64
	Seq         uint32
	Pad1        uint32
}

// Compare returns -1, 0, or +1 by strict lexicographic comparison of the
// tuple in phase, domain, chunk, entity, component, type, seq order. Seq
// is the producer-monotonic last-resort tie-break.
func Compare(a, b Key) int {
	if a.Phase != b.Phase {
		return cmpU64(uint64(a.Phase), uint64(b.Phase))
	}
	if a.DomainID != b.DomainID {
		return cmpU64(a.DomainID, b.DomainID)
	}
	if a.ChunkID != b.ChunkID {
		return cmpU64(a.ChunkID, b.ChunkID)
	}
	if a.EntityID != b.EntityID {
		return cmpU64(a.EntityID, b.EntityID)
	}
	if a.ComponentID != b.ComponentID {
		return cmpU64(a.ComponentID, b.ComponentID)
	}
	if a.TypeID != b.TypeID {
		return cmpU64(a.TypeID, b.TypeID)
	}
	if a.Seq != b.Seq {
		return cmpU64(uint64(a.Seq), uint64(b.Seq))
	}
	return 0
}

// Less reports whether a sorts strictly before b.
func Less(a, b Key) bool { return Compare(a, b) < 0 }

// Equal reports whether all comparable fields of a and b are equal.
func Equal(a, b Key) bool { return Compare(a, b) == 0 }

func cmpU64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Item is a work item: an order key plus an opaque handle to its payload
// (a task id, packet index, or similar caller-owned reference — the
// queue itself never interprets it).
type Item struct {
	Key     Key
	Payload uint64
}
