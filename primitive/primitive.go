// Package primitive provides the fixed-width numeric substrate for the
// simulation core. Floating point is forbidden on authoritative paths;
// q16_16 fixed-point stands in wherever fractional arithmetic is needed.
package primitive

// U16, U32, U64, I32, I64 are explicit aliases kept distinct from the Go
// built-ins only in name, so call sites read the way the wire layout reads.
type (
	U16 = uint16
	U32 = uint32
	U64 = uint64
	I32 = int32
	I64 = int64
)

// DBool is the deterministic boolean: exactly 0 or 1 on the wire, never a
// language-level bool whose in-memory representation is unspecified.
type DBool uint8

const (
	DFalse DBool = 0
	DTrue  DBool = 1
)

// BoolToD converts a Go bool to its canonical DBool encoding.
func BoolToD(b bool) DBool {
	if b {
		return DTrue
	}
	return DFalse
}

// Bool reports the DBool's truthiness. Any nonzero value is true.
func (d DBool) Bool() bool { return d != DFalse }

// Q16_16 is a signed 16.16 fixed-point number: the low 16 bits are the
// fractional part, the high 16 bits (plus sign) are the integer part.
type Q16_16 int32

const q16Shift = 16
const q16One = 1 << q16Shift

// Q16FromInt builds a Q16_16 from a whole number.
func Q16FromInt(v int32) Q16_16 { return Q16_16(v) << q16Shift }

// Int rounds toward negative infinity (an arithmetic shift), discarding
// the fractional part: -1.5 yields -2.
func (q Q16_16) Int() int32 { return int32(q) >> q16Shift }

// Add, Sub are exact; Q16_16 arithmetic never overflows silently in this
// module's authoritative paths because all domain magnitudes are bounded
// well under 2^31 by construction of the systems that produce them.
func (q Q16_16) Add(o Q16_16) Q16_16 { return q + o }
func (q Q16_16) Sub(o Q16_16) Q16_16 { return q - o }

// Mul multiplies two fixed-point numbers, widening to 64 bits to avoid
// intermediate overflow before shifting back down.
func (q Q16_16) Mul(o Q16_16) Q16_16 {
	return Q16_16((int64(q) * int64(o)) >> q16Shift)
}

// Div divides two fixed-point numbers. Division by zero returns zero:
// the core never panics, and a caller that divides by a genuine zero
// denominator has a producer bug to fix, not a trap to catch here.
func (q Q16_16) Div(o Q16_16) Q16_16 {
	if o == 0 {
		return 0
	}
	return Q16_16((int64(q) << q16Shift) / int64(o))
}
