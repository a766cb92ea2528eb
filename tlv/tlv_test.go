package tlv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalizeSortsByTagThenPayloadThenLength(t *testing.T) {
	records := []Record{
		{Tag: 2, Payload: []byte{0x01}},
		{Tag: 1, Payload: []byte{0x02}},
		{Tag: 1, Payload: []byte{0x01}},
	}
	got := Canonicalize(records)
	require.Equal(t, []Record{
		{Tag: 1, Payload: []byte{0x01}},
		{Tag: 1, Payload: []byte{0x02}},
		{Tag: 2, Payload: []byte{0x01}},
	}, got)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	records := []Record{
		{Tag: 5, Payload: []byte("hello")},
		{Tag: 7, Payload: []byte{}},
	}
	buf := Encode(records)
	got, err := Iterate(buf)
	require.NoError(t, err)
	require.Equal(t, records, got)
}

func TestIterateRejectsReservedTag(t *testing.T) {
	buf := Encode([]Record{{Tag: ReservedTag, Payload: []byte{0x01}}})
	_, err := Iterate(buf)
	require.Error(t, err)
}

func TestIterateRejectsShortLength(t *testing.T) {
	_, err := Iterate([]byte{0x01, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF})
	require.Error(t, err)
}

func TestIsCanonicalDetectsDescendingTagOrder(t *testing.T) {
	nonCanonical := []Record{
		{Tag: 2, Payload: []byte{0x01}},
		{Tag: 1, Payload: []byte{0x01}},
	}
	require.False(t, IsCanonical(nonCanonical))
	require.True(t, IsCanonical(Canonicalize(nonCanonical)))
}

func TestIdempotentHoldsRegardlessOfInputOrder(t *testing.T) {
	nonCanonical := Encode([]Record{
		{Tag: 2, Payload: []byte{0x01}},
		{Tag: 1, Payload: []byte{0x01}},
	})
	ok, err := Idempotent(nonCanonical)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestValidateAgainstSchemaFlagsNonCanonicalOrder(t *testing.T) {
	schema := &Schema{ID: 1, Fields: []FieldDescriptor{
		{Tag: 1, Type: FieldU32},
		{Tag: 2, Type: FieldU32},
	}}
	records := []Record{
		{Tag: 2, Payload: []byte{0, 0, 0, 0}},
		{Tag: 1, Payload: []byte{0, 0, 0, 0}},
	}
	report := ValidateAgainstSchema(records, schema)
	require.Equal(t, Refuse, report.Disposition)
	require.NotEmpty(t, report.Issues)
}

func TestValidateAgainstSchemaAcceptsWellFormedRecords(t *testing.T) {
	schema := &Schema{ID: 1, Fields: []FieldDescriptor{
		{Tag: 1, Type: FieldU32, Flags: FlagRequired},
	}}
	records := []Record{{Tag: 1, Payload: []byte{1, 0, 0, 0}}}
	report := ValidateAgainstSchema(records, schema)
	require.Equal(t, Accept, report.Disposition)
	require.Empty(t, report.Issues)
}

func TestValidateAgainstSchemaRejectsMissingRequired(t *testing.T) {
	schema := &Schema{ID: 1, Fields: []FieldDescriptor{
		{Tag: 1, Type: FieldU32, Flags: FlagRequired},
	}}
	report := ValidateAgainstSchema(nil, schema)
	require.Equal(t, Refuse, report.Disposition)
}

func TestSchemaRegistryAddAndLookup(t *testing.T) {
	r := NewSchemaRegistry()
	require.True(t, r.Add(&Schema{ID: 10}).Ok())
	require.False(t, r.Add(&Schema{ID: 10}).Ok())

	s, code := r.Lookup(10)
	require.True(t, code.Ok())
	require.Equal(t, uint64(10), s.ID)

	_, code = r.Lookup(99)
	require.False(t, code.Ok())
}

func TestSchemaRegistryValidateUnknownSchemaRefuses(t *testing.T) {
	r := NewSchemaRegistry()
	report := r.Validate(99, nil)
	require.Equal(t, Refuse, report.Disposition)
}

func TestRegisterBuiltinInstallsCoreSchemas(t *testing.T) {
	r := NewSchemaRegistry()
	require.True(t, r.RegisterBuiltin().Ok())
	require.Equal(t, 3, r.Len())

	records := []Record{{Tag: TagCatalogSchemaVersion, Payload: []byte{1, 0, 0, 0}}}
	report := r.Validate(SchemaIDCapabilityCatalog, records)
	require.Equal(t, Accept, report.Disposition)
}
