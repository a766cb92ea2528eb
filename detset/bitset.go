package detset

import roaring64 "github.com/RoaringBitmap/roaring/v2/roaring64"

// RangeSet is a dense membership structure over the uint64 id space,
// backed by a roaring bitmap. The access-set machinery uses it to test
// whether an id falls within a COMPONENT_SET/INTEREST_SET range, and
// whether two access sets touch any common id, without materializing
// every id in a range: a range can span start_id..end_id over a large
// component/interest space.
type RangeSet struct {
	bm *roaring64.Bitmap
}

// NewRangeSet returns an empty range set.
func NewRangeSet() *RangeSet {
	return &RangeSet{bm: roaring64.New()}
}

// AddRange adds every id in [start, end] inclusive.
func (r *RangeSet) AddRange(start, end uint64) {
	if end < start {
		return
	}
	if end == ^uint64(0) {
		// AddRange's half-open upper bound cannot express MaxUint64.
		r.bm.Add(end)
		if start == end {
			return
		}
		end--
	}
	r.bm.AddRange(start, end+1)
}

// Add adds a single id.
func (r *RangeSet) Add(id uint64) { r.bm.Add(id) }

// Contains reports membership.
func (r *RangeSet) Contains(id uint64) bool { return r.bm.Contains(id) }

// Cardinality returns the number of distinct ids represented.
func (r *RangeSet) Cardinality() uint64 { return r.bm.GetCardinality() }

// Overlaps reports whether two range sets share any id.
func (r *RangeSet) Overlaps(o *RangeSet) bool {
	return r.bm.Intersects(o.bm)
}
