package idmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertKeepsEntriesSortedByExternalID(t *testing.T) {
	tbl := New()
	require.True(t, tbl.Insert(Entry{ExternalID: 5, RuntimeID: 50}).Ok())
	require.True(t, tbl.Insert(Entry{ExternalID: 1, RuntimeID: 10}).Ok())
	require.True(t, tbl.Insert(Entry{ExternalID: 3, RuntimeID: 30}).Ok())

	entries := tbl.Entries()
	require.Equal(t, []uint64{1, 3, 5}, []uint64{entries[0].ExternalID, entries[1].ExternalID, entries[2].ExternalID})
}

func TestInsertRejectsDuplicateExternalID(t *testing.T) {
	tbl := New()
	require.True(t, tbl.Insert(Entry{ExternalID: 1, RuntimeID: 10}).Ok())
	require.False(t, tbl.Insert(Entry{ExternalID: 1, RuntimeID: 99}).Ok())
	require.Equal(t, 1, tbl.Len())
}

func TestLookupMissReturnsFalse(t *testing.T) {
	tbl := New()
	tbl.Insert(Entry{ExternalID: 1, RuntimeID: 10})
	_, ok := tbl.Lookup(2)
	require.False(t, ok)
}

func TestEncodeDecodeTLVRoundTrip(t *testing.T) {
	tbl := New()
	tbl.Insert(Entry{ExternalID: 1, RuntimeID: 100})
	tbl.Insert(Entry{ExternalID: 2, RuntimeID: 200})

	buf := tbl.EncodeTLV()
	got, code := DecodeTLV(buf)
	require.True(t, code.Ok())
	require.Equal(t, tbl.Entries(), got.Entries())
}

func TestDecodeTLVRejectsDuplicateEntries(t *testing.T) {
	tbl := New()
	tbl.Insert(Entry{ExternalID: 1, RuntimeID: 100})
	buf := tbl.EncodeTLV()
	buf = append(buf, buf...) // duplicate the single record

	_, code := DecodeTLV(buf)
	require.False(t, code.Ok())
}

func TestShouldRunStrideZeroOrOneAlwaysRuns(t *testing.T) {
	require.True(t, ShouldRun(0, 42, 0))
	require.True(t, ShouldRun(7, 42, 1))
}

func TestShouldRunDecimatesByStride(t *testing.T) {
	stableID := uint64(7)
	h := StableHash(stableID)
	stride := uint32(4)

	due := (stride - uint32(h%uint64(stride))) % stride
	require.True(t, ShouldRun(uint64(due), stableID, stride))
	require.False(t, ShouldRun(uint64(due)+1, stableID, stride))
}

func TestShouldRunIsDeterministicAcrossCalls(t *testing.T) {
	require.Equal(t, ShouldRun(100, 9, 3), ShouldRun(100, 9, 3))
}
