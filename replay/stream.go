package replay

import (
	"bytes"
	"sort"

	"github.com/google/uuid"

	"github.com/Julesc013/dominium-sub017/dethash"
	"github.com/Julesc013/dominium-sub017/idmap"
)

// InputPacketRecord is one recorded packet: header plus its canonical
// payload and precomputed packet hash, stored in a canonical order
// independent of record call order.
type InputPacketRecord struct {
	Tick             uint64
	DomainID         uint64
	ChunkID          uint64
	SrcEntity        uint64
	DstEntity        uint64
	TypeID           uint64
	SchemaID         uint64
	SchemaVer        uint16
	Flags            uint16
	Seq              uint32
	CanonicalPayload []byte
	PacketHash       uint64
}

func packetLess(a, b InputPacketRecord) bool {
	if a.Tick != b.Tick {
		return a.Tick < b.Tick
	}
	if a.DomainID != b.DomainID {
		return a.DomainID < b.DomainID
	}
	if a.ChunkID != b.ChunkID {
		return a.ChunkID < b.ChunkID
	}
	if a.SrcEntity != b.SrcEntity {
		return a.SrcEntity < b.SrcEntity
	}
	if a.DstEntity != b.DstEntity {
		return a.DstEntity < b.DstEntity
	}
	if a.TypeID != b.TypeID {
		return a.TypeID < b.TypeID
	}
	if a.SchemaID != b.SchemaID {
		return a.SchemaID < b.SchemaID
	}
	if a.SchemaVer != b.SchemaVer {
		return a.SchemaVer < b.SchemaVer
	}
	if a.Flags != b.Flags {
		return a.Flags < b.Flags
	}
	if a.Seq != b.Seq {
		return a.Seq < b.Seq
	}
	if c := bytes.Compare(a.CanonicalPayload, b.CanonicalPayload); c != 0 {
		return c < 0
	}
	return a.PacketHash < b.PacketHash
}

// TickRecord is everything recorded for one tick.
type TickRecord struct {
	Tick         uint64
	Snapshot     Snapshot
	Packets      []InputPacketRecord
	ContentPacks []uint64
	IDRemap      *idmap.Table
	ProbeSamples []uint64
}

// Stream is the replay stream: one TickRecord per tick, plus a
// host-visible session label (never hashed into deterministic values).
type Stream struct {
	SessionID string
	Ticks     []TickRecord
}

// NewStream returns an empty replay stream with a fresh session label.
func NewStream() *Stream {
	return &Stream{SessionID: uuid.NewString()}
}

// RecordTick appends a tick's record, sorting packets into canonical
// order and the auxiliary arrays (pack ids, id remap is already
// internally sorted) regardless of call order.
func (s *Stream) RecordTick(tick uint64, snap Snapshot, packets []InputPacketRecord, contentPacks []uint64, remap *idmap.Table, probes []uint64) {
	sortedPackets := make([]InputPacketRecord, len(packets))
	copy(sortedPackets, packets)
	sort.Slice(sortedPackets, func(i, j int) bool { return packetLess(sortedPackets[i], sortedPackets[j]) })

	sortedPacks := make([]uint64, len(contentPacks))
	copy(sortedPacks, contentPacks)
	sort.Slice(sortedPacks, func(i, j int) bool { return sortedPacks[i] < sortedPacks[j] })

	s.Ticks = append(s.Ticks, TickRecord{
		Tick:         tick,
		Snapshot:     snap,
		Packets:      sortedPackets,
		ContentPacks: sortedPacks,
		IDRemap:      remap,
		ProbeSamples: append([]uint64(nil), probes...),
	})
}

// BuildPacketRecord is a convenience constructor that turns a header and
// an already-canonical payload into a recorded, hashed packet. It does not
// canonicalize the payload itself (dethash.HashPacketAny does).
func BuildPacketRecord(h dethash.PacketHeader, canonicalPayload []byte) InputPacketRecord {
	return InputPacketRecord{
		Tick:             h.Tick,
		DomainID:         h.DomainID,
		ChunkID:          h.ChunkID,
		SrcEntity:        h.SrcEntity,
		DstEntity:        h.DstEntity,
		TypeID:           h.TypeID,
		SchemaID:         h.SchemaID,
		SchemaVer:        h.SchemaVer,
		Flags:            h.Flags,
		Seq:              h.Seq,
		CanonicalPayload: canonicalPayload,
		PacketHash:       dethash.PacketHash(h, canonicalPayload),
	}
}
