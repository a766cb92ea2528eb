// Package domains holds the shared cursor-driven cooperative-progress
// helper and the policy-params byte-layout convention used by every
// concrete domain system emitter (war, economy, governance, agents,
// streaming, renderprep, interest).
package domains

// Cursor tracks resumable progress over one input slice of known length:
// no coroutines, just a position an emitter advances and persists across
// ticks.
type Cursor struct {
	pos int
}

// NewCursor returns a cursor starting at position zero.
func NewCursor() Cursor { return Cursor{} }

// Pos reports the current position.
func (c Cursor) Pos() int { return c.pos }

// Take returns the [lo, hi) slice bounds to process this call, advancing
// at most budget elements from the current position, and reports whether
// the cursor has now reached the end of an input of the given length
// (atEnd). Cursor semantics: wrap to zero if past end at entry.
func (c *Cursor) Take(length, budget int) (lo, hi int, atEnd bool) {
	if c.pos >= length {
		c.pos = 0
	}
	if length == 0 {
		return 0, 0, true
	}
	lo = c.pos
	hi = lo + budget
	if hi > length {
		hi = length
	}
	c.pos = hi
	atEnd = c.pos >= length
	return lo, hi, atEnd
}

// Reset returns the cursor to position zero, used when a full emission
// cycle across every sub-pipeline completes.
func (c *Cursor) Reset() { c.pos = 0 }

// PolicyParams is an opaque, fixed-size byte view of a system's declared
// params struct, with a canonical byte layout so no unsafe
// reinterpretation is ever needed. Concrete param types implement this
// by encoding their fields LE via primitive.Encoder.
type PolicyParams interface {
	Bytes() []byte
	Size() uint32
}
