package dethash

import "github.com/Julesc013/dominium-sub017/tlv"

// PacketHeader is the fixed 68-byte wire header, explicit LE, no
// padding.
type PacketHeader struct {
	TypeID     uint64
	SchemaID   uint64
	SchemaVer  uint16
	Flags      uint16
	Tick       uint64
	SrcEntity  uint64
	DstEntity  uint64
	DomainID   uint64
	ChunkID    uint64
	Seq        uint32
	PayloadLen uint32
}

const PacketHeaderSize = 68

// Encode writes the header in its exact wire order and width.
func (h PacketHeader) Encode() []byte {
	buf := make([]byte, 0, PacketHeaderSize)
	put64 := func(v uint64) {
		buf = append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
			byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
	}
	put32 := func(v uint32) {
		buf = append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	put16 := func(v uint16) {
		buf = append(buf, byte(v), byte(v>>8))
	}
	put64(h.TypeID)
	put64(h.SchemaID)
	put16(h.SchemaVer)
	put16(h.Flags)
	put64(h.Tick)
	put64(h.SrcEntity)
	put64(h.DstEntity)
	put64(h.DomainID)
	put64(h.ChunkID)
	put32(h.Seq)
	put32(h.PayloadLen)
	return buf
}

// PacketHash folds (header, canonical_payload) in a fixed field order:
// type_id, schema_id, schema_ver, flags, tick,
// src_entity, dst_entity, domain_id, chunk_id, seq, payload_len,
// payload_bytes. canonicalPayload must already be in TLV canonical form;
// use HashPacketAny to canonicalize first.
func PacketHash(h PacketHeader, canonicalPayload []byte) uint64 {
	a := New()
	a.WriteU64(h.TypeID)
	a.WriteU64(h.SchemaID)
	a.WriteU16(h.SchemaVer)
	a.WriteU16(h.Flags)
	a.WriteU64(h.Tick)
	a.WriteU64(h.SrcEntity)
	a.WriteU64(h.DstEntity)
	a.WriteU64(h.DomainID)
	a.WriteU64(h.ChunkID)
	a.WriteU32(h.Seq)
	a.WriteU32(uint32(len(canonicalPayload)))
	a.WriteBytes(canonicalPayload)
	return a.Sum()
}

// HashPacketAny is the convenience entry point that accepts a
// non-canonical payload: it canonicalizes first, since PacketHash of a
// non-canonical payload is undefined.
func HashPacketAny(h PacketHeader, payload []byte) (uint64, error) {
	canon, err := tlv.CanonicalizeBytes(payload)
	if err != nil {
		return 0, err
	}
	h.PayloadLen = uint32(len(canon))
	return PacketHash(h, canon), nil
}
