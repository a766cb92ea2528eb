// Package workgraph implements the access-set builder and work-graph
// builder: per-task access ranges, cost models, dependency edges, and
// the task graph they assemble into.
package workgraph

import (
	"github.com/Julesc013/dominium-sub017/detcode"
	"github.com/Julesc013/dominium-sub017/detset"
)

// RangeKind selects which fields of an AccessRange are meaningful.
type RangeKind uint8

const (
	RangeSingle RangeKind = iota
	RangeComponentSet
	RangeInterestSet
)

// AccessRange describes one read/write/reduce target. Unused fields for
// the given Kind are zero.
type AccessRange struct {
	Kind          RangeKind
	ComponentID   uint64
	FieldID       uint64
	StartID       uint64
	EndID         uint64
	SetID         uint64
	ReductionID   uint64 // meaningful only for reduce ranges
}

// AccessSet is the immutable, finalized result of one access-set build:
// reads and writes stored in separate arrays, indexed by AccessID.
type AccessSet struct {
	AccessID uint64
	Reads    []AccessRange
	Writes   []AccessRange
	Reduces  []AccessRange
	Flags    uint32
}

// AccessSetBuilder implements begin/add_read/add_write/add_reduce/
// finalize. After Finalize, the set this builder produced is immutable;
// the builder itself may be Reset and reused for the next access set.
type AccessSetBuilder struct {
	accessID  uint64
	flags     uint32
	reads     []AccessRange
	writes    []AccessRange
	reduces   []AccessRange
	begun     bool
	finalized bool

	sets     []AccessSet
	capacity int
}

// NewAccessSetBuilder returns a builder with room for capacity finalized
// access sets across the tick.
func NewAccessSetBuilder(capacity int) *AccessSetBuilder {
	return &AccessSetBuilder{sets: make([]AccessSet, 0, capacity), capacity: capacity}
}

// Begin starts a new access set under construction.
func (b *AccessSetBuilder) Begin(accessID uint64, reductionID uint64, flags uint32) detcode.Code {
	_ = reductionID // ignored; each reduce range carries its own ReductionID via AddReduce
	if b.begun && !b.finalized {
		return detcode.InvalidArgument
	}
	b.accessID = accessID
	b.flags = flags
	b.reads = b.reads[:0]
	b.writes = b.writes[:0]
	b.reduces = b.reduces[:0]
	b.begun = true
	b.finalized = false
	return detcode.OK
}

func (b *AccessSetBuilder) AddRead(r AccessRange) detcode.Code {
	if !b.begun || b.finalized {
		return detcode.InvalidArgument
	}
	b.reads = append(b.reads, r)
	return detcode.OK
}

func (b *AccessSetBuilder) AddWrite(r AccessRange) detcode.Code {
	if !b.begun || b.finalized {
		return detcode.InvalidArgument
	}
	b.writes = append(b.writes, r)
	return detcode.OK
}

func (b *AccessSetBuilder) AddReduce(r AccessRange) detcode.Code {
	if !b.begun || b.finalized {
		return detcode.InvalidArgument
	}
	b.reduces = append(b.reduces, r)
	return detcode.OK
}

// Finalize seals the in-progress access set, appending it to the
// builder's owned storage, and returns its id. Overflow is a hard error,
// never a silent truncation.
func (b *AccessSetBuilder) Finalize() (uint64, detcode.Code) {
	if !b.begun || b.finalized {
		return 0, detcode.InvalidArgument
	}
	if len(b.sets) >= b.capacity {
		return 0, detcode.CapacityExceeded
	}
	set := AccessSet{
		AccessID: b.accessID,
		Reads:    append([]AccessRange(nil), b.reads...),
		Writes:   append([]AccessRange(nil), b.writes...),
		Reduces:  append([]AccessRange(nil), b.reduces...),
		Flags:    b.flags,
	}
	b.sets = append(b.sets, set)
	b.finalized = true
	return set.AccessID, detcode.OK
}

// Lookup finds a finalized access set by id.
func (b *AccessSetBuilder) Lookup(accessID uint64) (AccessSet, bool) {
	for _, s := range b.sets {
		if s.AccessID == accessID {
			return s, true
		}
	}
	return AccessSet{}, false
}

// Reset clears the builder's counts for the next tick without touching
// storage ownership (the backing slice's capacity is retained).
func (b *AccessSetBuilder) Reset() {
	b.sets = b.sets[:0]
	b.begun = false
	b.finalized = false
	b.reads = b.reads[:0]
	b.writes = b.writes[:0]
	b.reduces = b.reduces[:0]
}

// Count returns the number of finalized access sets this tick.
func (b *AccessSetBuilder) Count() int { return len(b.sets) }

// rangeIDSet folds a range list into a membership set: SINGLE ranges
// contribute their component id, COMPONENT_SET/INTEREST_SET ranges their
// full start_id..end_id span.
func rangeIDSet(ranges []AccessRange) *detset.RangeSet {
	set := detset.NewRangeSet()
	for _, r := range ranges {
		switch r.Kind {
		case RangeSingle:
			set.Add(r.ComponentID)
		case RangeComponentSet, RangeInterestSet:
			set.AddRange(r.StartID, r.EndID)
		}
	}
	return set
}

// ReadIDSet returns the set of ids this access set reads.
func (s AccessSet) ReadIDSet() *detset.RangeSet { return rangeIDSet(s.Reads) }

// WriteIDSet returns the set of ids this access set writes.
func (s AccessSet) WriteIDSet() *detset.RangeSet { return rangeIDSet(s.Writes) }

// ConflictsWith reports whether two access sets cannot commute: one
// writes an id the other reads or writes. Reduce ranges are not
// consulted; reductions commute with each other by contract and their
// write-back is already declared in the write list.
func (s AccessSet) ConflictsWith(o AccessSet) bool {
	sw, ow := s.WriteIDSet(), o.WriteIDSet()
	if sw.Overlaps(ow) {
		return true
	}
	if sw.Overlaps(o.ReadIDSet()) {
		return true
	}
	return ow.Overlaps(s.ReadIDSet())
}
