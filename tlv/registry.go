package tlv

import (
	"github.com/Julesc013/dominium-sub017/detcode"
	"github.com/Julesc013/dominium-sub017/sorttable"
)

// SchemaRegistry is the process-wide, append-only schema table: schemas
// are added during an administrative phase (never during a tick) and
// looked up read-only by id afterward. Schemas carry no version: lookup
// is by id alone, no version check is made, and the registry never
// reports VersionMismatch.
type SchemaRegistry struct {
	table *sorttable.Table[*Schema]
}

// NewSchemaRegistry returns an empty registry.
func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{table: sorttable.New[*Schema]()}
}

// Add registers a schema under its id, refusing a duplicate.
func (r *SchemaRegistry) Add(s *Schema) detcode.Code {
	if s == nil {
		return detcode.InvalidArgument
	}
	return r.table.Insert(s.ID, s)
}

// Lookup returns the schema for an id.
func (r *SchemaRegistry) Lookup(id uint64) (*Schema, detcode.Code) {
	s, ok := r.table.Lookup(id)
	if !ok {
		return nil, detcode.NotFound
	}
	return s, detcode.OK
}

// Len reports the number of registered schemas.
func (r *SchemaRegistry) Len() int { return r.table.Len() }

// Validate resolves the schema for id and validates records against it.
// A missing schema yields a Refuse report with a single SCHEMA-class
// issue rather than an error, so callers get one uniform report shape.
func (r *SchemaRegistry) Validate(id uint64, records []Record) *ValidationReport {
	s, code := r.Lookup(id)
	if !code.Ok() {
		return &ValidationReport{
			Disposition: Refuse,
			Issues: []Issue{{
				Class:    ClassSchema,
				Severity: SeverityError,
				Code:     CodeUnknownTag,
			}},
		}
	}
	return ValidateAgainstSchema(records, s)
}

// Builtin schema ids. These cover the containers the core itself
// produces; hosts register their own content schemas alongside them.
const (
	SchemaIDCapabilityCatalog uint64 = 1
	SchemaIDSolverExplain     uint64 = 2
	SchemaIDIdmap             uint64 = 3
)

// Capability catalog tags: a schema_version record then repeated entry
// records, each entry itself a nested TLV container.
const (
	TagCatalogSchemaVersion uint32 = 1
	TagCatalogEntry         uint32 = 2
)

// Solver explain tags.
const (
	TagExplainSchemaVersion uint32 = 1
	TagExplainSelected      uint32 = 2
	TagExplainRejected      uint32 = 3
)

// Idmap tag.
const TagIdmapEntry uint32 = 1

// RegisterBuiltin installs the core's own container schemas. It is
// idempotent in effect only when called once; a second call reports
// Duplicate for the first schema it re-adds.
func (r *SchemaRegistry) RegisterBuiltin() detcode.Code {
	builtins := []*Schema{
		{
			ID:            SchemaIDCapabilityCatalog,
			Authoritative: true,
			Fields: []FieldDescriptor{
				{Tag: TagCatalogSchemaVersion, Type: FieldU32, Flags: FlagRequired},
				{Tag: TagCatalogEntry, Type: FieldBytes, Flags: FlagRepeatable},
			},
		},
		{
			ID: SchemaIDSolverExplain,
			Fields: []FieldDescriptor{
				{Tag: TagExplainSchemaVersion, Type: FieldU32, Flags: FlagRequired},
				{Tag: TagExplainSelected, Type: FieldBytes, Flags: FlagRepeatable},
				{Tag: TagExplainRejected, Type: FieldBytes, Flags: FlagRepeatable},
			},
		},
		{
			ID:            SchemaIDIdmap,
			Authoritative: true,
			Fields: []FieldDescriptor{
				{Tag: TagIdmapEntry, Type: FieldBytes, Flags: FlagRepeatable},
			},
		},
	}
	for _, s := range builtins {
		if code := r.Add(s); !code.Ok() {
			return code
		}
	}
	return detcode.OK
}
