// Package idmap implements the external->runtime id remap table, its TLV
// encoding, and the stride-based cadence decimation helper.
package idmap

import (
	"sort"

	"github.com/Julesc013/dominium-sub017/detcode"
	"github.com/Julesc013/dominium-sub017/dethash"
	"github.com/Julesc013/dominium-sub017/tlv"
)

// Entry is one external_id -> runtime_id mapping.
type Entry struct {
	ExternalID uint64
	RuntimeID  uint64
}

// Table holds entries sorted by external_id, duplicates refused on load.
type Table struct {
	entries []Entry
}

// New returns an empty table.
func New() *Table { return &Table{} }

func (t *Table) indexOf(externalID uint64) (int, bool) {
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].ExternalID >= externalID })
	if i < len(t.entries) && t.entries[i].ExternalID == externalID {
		return i, true
	}
	return i, false
}

// Insert adds an entry, refusing a duplicate external_id.
func (t *Table) Insert(e Entry) detcode.Code {
	idx, found := t.indexOf(e.ExternalID)
	if found {
		return detcode.Duplicate
	}
	t.entries = append(t.entries, Entry{})
	copy(t.entries[idx+1:], t.entries[idx:len(t.entries)-1])
	t.entries[idx] = e
	return detcode.OK
}

// Lookup resolves an external id to its runtime id.
func (t *Table) Lookup(externalID uint64) (uint64, bool) {
	idx, found := t.indexOf(externalID)
	if !found {
		return 0, false
	}
	return t.entries[idx].RuntimeID, true
}

// Len reports the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns every entry in ascending external_id order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

const idmapEntryTag uint32 = 1

// EncodeTLV serializes the table as repeated tag-1 records, each payload
// external_id u64 LE, runtime_id u64 LE.
func (t *Table) EncodeTLV() []byte {
	records := make([]tlv.Record, 0, len(t.entries))
	for _, e := range t.entries {
		payload := make([]byte, 16)
		putU64LE(payload[0:8], e.ExternalID)
		putU64LE(payload[8:16], e.RuntimeID)
		records = append(records, tlv.Record{Tag: idmapEntryTag, Payload: payload})
	}
	return tlv.Encode(records)
}

// DecodeTLV loads a table from its TLV encoding, refusing duplicate
// external ids: a later duplicate in the stream is reported as
// Duplicate, while a record that is not an idmap entry or has the wrong
// payload size is Malformed.
func DecodeTLV(buf []byte) (*Table, detcode.Code) {
	records, err := tlv.Iterate(buf)
	if err != nil {
		return nil, detcode.Malformed
	}
	t := New()
	for _, r := range records {
		if r.Tag != idmapEntryTag || len(r.Payload) != 16 {
			return nil, detcode.Malformed
		}
		e := Entry{ExternalID: getU64LE(r.Payload[0:8]), RuntimeID: getU64LE(r.Payload[8:16])}
		if code := t.Insert(e); !code.Ok() {
			return nil, detcode.Duplicate
		}
	}
	return t, detcode.OK
}

func putU64LE(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getU64LE(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// StableHash is the deterministic id hash H used by ShouldRun.
func StableHash(stableID uint64) uint64 {
	a := dethash.New()
	a.WriteU64(stableID)
	return a.Sum()
}

// ShouldRun implements the cadence decimation helper: (tick + H(stable_id))
// mod stride == 0, with stride <= 1 meaning "always". No RNG, no wall
// clock.
func ShouldRun(tick uint64, stableID uint64, stride uint32) bool {
	if stride <= 1 {
		return true
	}
	return (tick+StableHash(stableID))%uint64(stride) == 0
}
