package dethash

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Julesc013/dominium-sub017/tlv"
)

func TestAccumulatorIsDeterministicAcrossCalls(t *testing.T) {
	build := func() uint64 {
		a := New()
		a.WriteU64(42)
		a.WriteU32(7)
		a.WriteBytes([]byte("hello"))
		return a.Sum()
	}
	require.Equal(t, build(), build())
}

func TestAccumulatorFieldOrderAffectsHash(t *testing.T) {
	a := New()
	a.WriteU32(1)
	a.WriteU32(2)

	b := New()
	b.WriteU32(2)
	b.WriteU32(1)

	require.NotEqual(t, a.Sum(), b.Sum())
}

func TestString32MatchesKnownFNV1a32Vectors(t *testing.T) {
	// Reference vectors for FNV-1a/32.
	require.Equal(t, uint32(0x811c9dc5), String32(""))
	require.Equal(t, uint32(0xe40c292c), String32("a"))
	require.Equal(t, uint32(0xbf9cf968), String32("foobar"))
}

func TestPacketHashIsOrderIndependentOfTLVRecordOrderBeforeCanonicalization(t *testing.T) {
	h := PacketHeader{TypeID: 1, SchemaID: 2, Tick: 3, DomainID: 4}

	payloadA := tlv.Encode([]tlv.Record{
		{Tag: 2, Payload: []byte{0x02}},
		{Tag: 1, Payload: []byte{0x01}},
	})
	payloadB := tlv.Encode([]tlv.Record{
		{Tag: 1, Payload: []byte{0x01}},
		{Tag: 2, Payload: []byte{0x02}},
	})

	hashA, err := HashPacketAny(h, payloadA)
	require.NoError(t, err)
	hashB, err := HashPacketAny(h, payloadB)
	require.NoError(t, err)
	require.Equal(t, hashA, hashB)
}

func TestPacketHeaderEncodeHasFixedSize(t *testing.T) {
	h := PacketHeader{TypeID: 1, SchemaID: 2, SchemaVer: 3, Flags: 4, Tick: 5}
	require.Len(t, h.Encode(), PacketHeaderSize)
}
