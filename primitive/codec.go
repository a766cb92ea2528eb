package primitive

import "encoding/binary"

// Codec wraps a growable byte buffer with explicit little-endian put/get
// helpers, little-endian throughout, as every wire and hash format in
// this module requires.

// Encoder appends explicit little-endian fields to an internal buffer.
type Encoder struct {
	Bytes []byte
}

// NewEncoder returns an Encoder with a pre-sized backing array.
func NewEncoder(sizeHint int) *Encoder {
	return &Encoder{Bytes: make([]byte, 0, sizeHint)}
}

func (e *Encoder) PutByte(b byte) { e.Bytes = append(e.Bytes, b) }

func (e *Encoder) PutBytes(b []byte) { e.Bytes = append(e.Bytes, b...) }

func (e *Encoder) PutU16(v U16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	e.Bytes = append(e.Bytes, buf[:]...)
}

func (e *Encoder) PutU32(v U32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	e.Bytes = append(e.Bytes, buf[:]...)
}

func (e *Encoder) PutU64(v U64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	e.Bytes = append(e.Bytes, buf[:]...)
}

func (e *Encoder) PutI32(v I32) { e.PutU32(uint32(v)) }
func (e *Encoder) PutI64(v I64) { e.PutU64(uint64(v)) }
func (e *Encoder) PutQ16(v Q16_16) { e.PutU32(uint32(int32(v))) }
func (e *Encoder) PutDBool(v DBool) { e.PutByte(byte(v)) }

// Decoder reads explicit little-endian fields off a fixed slice, tracking
// a read cursor. Get* methods return ok=false (never panic) on short
// reads.
type Decoder struct {
	Bytes []byte
	pos   int
}

func NewDecoder(b []byte) *Decoder { return &Decoder{Bytes: b} }

func (d *Decoder) Remaining() int { return len(d.Bytes) - d.pos }

func (d *Decoder) GetByte() (byte, bool) {
	if d.Remaining() < 1 {
		return 0, false
	}
	b := d.Bytes[d.pos]
	d.pos++
	return b, true
}

func (d *Decoder) GetBytes(n int) ([]byte, bool) {
	if n < 0 || d.Remaining() < n {
		return nil, false
	}
	b := d.Bytes[d.pos : d.pos+n]
	d.pos += n
	return b, true
}

func (d *Decoder) GetU16() (U16, bool) {
	b, ok := d.GetBytes(2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}

func (d *Decoder) GetU32() (U32, bool) {
	b, ok := d.GetBytes(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func (d *Decoder) GetU64() (U64, bool) {
	b, ok := d.GetBytes(8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

func (d *Decoder) GetI32() (I32, bool) {
	v, ok := d.GetU32()
	return int32(v), ok
}

func (d *Decoder) GetI64() (I64, bool) {
	v, ok := d.GetU64()
	return int64(v), ok
}

func (d *Decoder) GetQ16() (Q16_16, bool) {
	v, ok := d.GetU32()
	return Q16_16(int32(v)), ok
}

func (d *Decoder) GetDBool() (DBool, bool) {
	v, ok := d.GetByte()
	return DBool(v), ok
}
