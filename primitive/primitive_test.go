package primitive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQ16FromIntAndInt(t *testing.T) {
	q := Q16FromInt(5)
	require.Equal(t, int32(5), q.Int())
}

func TestQ16MulAndDiv(t *testing.T) {
	a := Q16FromInt(4)
	b := Q16FromInt(2)
	require.Equal(t, int32(8), a.Mul(b).Int())
	require.Equal(t, int32(2), a.Div(b).Int())
}

func TestQ16DivByZeroReturnsZero(t *testing.T) {
	a := Q16FromInt(4)
	require.Equal(t, Q16_16(0), a.Div(0))
}

func TestBoolToDRoundTrip(t *testing.T) {
	require.True(t, BoolToD(true).Bool())
	require.False(t, BoolToD(false).Bool())
}

func TestEncoderDecoderRoundTrip(t *testing.T) {
	enc := NewEncoder(32)
	enc.PutU16(7)
	enc.PutU32(1000)
	enc.PutU64(1 << 40)
	enc.PutI32(-5)
	enc.PutQ16(Q16FromInt(3))
	enc.PutDBool(DTrue)

	dec := NewDecoder(enc.Bytes)
	u16, ok := dec.GetU16()
	require.True(t, ok)
	require.Equal(t, U16(7), u16)

	u32, ok := dec.GetU32()
	require.True(t, ok)
	require.Equal(t, U32(1000), u32)

	u64, ok := dec.GetU64()
	require.True(t, ok)
	require.Equal(t, U64(1<<40), u64)

	i32, ok := dec.GetI32()
	require.True(t, ok)
	require.Equal(t, I32(-5), i32)

	q16, ok := dec.GetQ16()
	require.True(t, ok)
	require.Equal(t, int32(3), q16.Int())

	b, ok := dec.GetDBool()
	require.True(t, ok)
	require.Equal(t, DTrue, b)
}

func TestDecoderShortReadReturnsFalseNeverPanics(t *testing.T) {
	dec := NewDecoder([]byte{0x01})
	_, ok := dec.GetU64()
	require.False(t, ok)
}
