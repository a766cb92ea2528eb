// Package tlv implements the canonical TLV container: a sequence of
// records [tag:u32 LE][len:u32 LE][payload], canonicalized by sorting
// ascending on (tag, payload bytes lexicographic, length).
package tlv

import (
	"bytes"
	"sort"

	"github.com/Julesc013/dominium-sub017/detcode"
)

// ReservedTag is the single reserved zero tag; a record bearing it is
// invalid.
const ReservedTag uint32 = 0

// Record is one decoded TLV entry.
type Record struct {
	Tag     uint32
	Payload []byte
}

const headerSize = 8 // tag u32 + len u32

// Iterate decodes a byte buffer into a sequence of records in the order
// they appear. It fails with Malformed if a declared length exceeds the
// remaining buffer, or a record declares the reserved tag.
func Iterate(buf []byte) ([]Record, error) {
	var out []Record
	pos := 0
	for pos < len(buf) {
		if len(buf)-pos < headerSize {
			return nil, detcode.Malformed
		}
		tag := leU32(buf[pos : pos+4])
		length := leU32(buf[pos+4 : pos+8])
		pos += headerSize
		if tag == ReservedTag {
			return nil, detcode.Malformed
		}
		if uint64(len(buf)-pos) < uint64(length) {
			return nil, detcode.Malformed
		}
		out = append(out, Record{Tag: tag, Payload: buf[pos : pos+int(length)]})
		pos += int(length)
	}
	return out, nil
}

// Encode serializes records in the given order (no sorting) into a single
// byte buffer.
func Encode(records []Record) []byte {
	size := 0
	for _, r := range records {
		size += headerSize + len(r.Payload)
	}
	buf := make([]byte, 0, size)
	for _, r := range records {
		buf = appendU32(buf, r.Tag)
		buf = appendU32(buf, uint32(len(r.Payload)))
		buf = append(buf, r.Payload...)
	}
	return buf
}

// recordLess implements the canonical ordering: ascending by tag, then by
// payload bytes lexicographically, then by length. bytes.Compare already
// orders a payload before any longer payload it is a prefix of, so the
// length comparison is reached only for byte-identical payloads and never
// decides the order.
func recordLess(a, b Record) bool {
	if a.Tag != b.Tag {
		return a.Tag < b.Tag
	}
	c := bytes.Compare(a.Payload, b.Payload)
	if c != 0 {
		return c < 0
	}
	return len(a.Payload) < len(b.Payload)
}

// Canonicalize stably sorts records into canonical order. Stability plus
// the length tie-break make this deterministic for duplicate records:
// two records with identical tag and payload bytes (hence identical
// length) retain their relative input order.
func Canonicalize(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return recordLess(out[i], out[j]) })
	return out
}

// CanonicalizeBytes decodes, canonicalizes, and re-encodes a container in
// one step.
func CanonicalizeBytes(buf []byte) ([]byte, error) {
	records, err := Iterate(buf)
	if err != nil {
		return nil, err
	}
	return Encode(Canonicalize(records)), nil
}

// IsCanonical reports whether a container's records already appear in
// non-decreasing canonical order; a descending transition anywhere makes
// the container non-canonical.
func IsCanonical(records []Record) bool {
	for i := 1; i < len(records); i++ {
		if recordLess(records[i], records[i-1]) {
			return false
		}
	}
	return true
}

// Idempotent reports whether canonicalizing twice yields the same bytes
// as canonicalizing once, exposed for callers/tests that want to assert
// it on arbitrary input rather than trust it structurally.
func Idempotent(buf []byte) (bool, error) {
	once, err := CanonicalizeBytes(buf)
	if err != nil {
		return false, err
	}
	twice, err := CanonicalizeBytes(once)
	if err != nil {
		return false, err
	}
	return bytes.Equal(once, twice), nil
}

func leU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func appendU32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
