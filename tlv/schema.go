package tlv

// FieldType is the wire type of one schema field descriptor.
type FieldType uint8

const (
	FieldU32 FieldType = iota
	FieldI32
	FieldU64
	FieldF32
	FieldF64
	FieldString
	FieldBytes
)

// FieldFlags is a bitmask of schema field modifiers.
type FieldFlags uint32

const (
	FlagRequired   FieldFlags = 1 << 0
	FlagRepeatable FieldFlags = 1 << 1
	FlagLOD        FieldFlags = 1 << 2
	FlagFallback   FieldFlags = 1 << 3
)

// FieldDescriptor describes one tag's expected shape within a schema.
type FieldDescriptor struct {
	Tag      uint32
	Type     FieldType
	Flags    FieldFlags
	MinValue int64
	MaxValue int64
	MaxCount uint32
}

// Schema is an ordered list of field descriptors. Authoritative schemas
// forbid floating-point fields outright, preserving determinism.
type Schema struct {
	ID            uint64
	Fields        []FieldDescriptor
	Authoritative bool
}

func (s *Schema) field(tag uint32) (FieldDescriptor, bool) {
	for _, f := range s.Fields {
		if f.Tag == tag {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// IssueClass classifies a validation issue.
type IssueClass uint8

const (
	ClassSchema IssueClass = iota
	ClassSemantic
	ClassMigration
	ClassDeterminism
	ClassPerformance
	ClassIO
)

// Severity is the severity of a validation issue.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
)

// IssueCode names a specific validation failure.
type IssueCode uint16

const (
	CodeUnknownTag IssueCode = iota
	CodeTypeLengthMismatch
	CodeMissingRequired
	CodeTooManyRepeats
	CodeValueOutOfRange
	CodeFloatInAuthoritative
	CodeTagOrderNoncanonical
)

// Issue is one structured validation finding.
type Issue struct {
	Class    IssueClass
	Severity Severity
	Code     IssueCode
	Path     string
	Line     int
}

// Disposition is the final outcome of validating a container against a
// schema.
type Disposition uint8

const (
	Accept Disposition = iota
	AcceptWithWarnings
	Refuse
)

// ValidationReport is the result of ValidateAgainstSchema.
type ValidationReport struct {
	Disposition Disposition
	Issues      []Issue
}

func typeWidth(t FieldType) (int, bool) {
	switch t {
	case FieldU32, FieldI32, FieldF32:
		return 4, true
	case FieldU64, FieldF64:
		return 8, true
	default:
		return 0, false // variable-width: String/Bytes
	}
}

// ValidateAgainstSchema checks a decoded container's records against a
// schema, producing a structured report. It never panics and never
// returns a bare error for a content problem — content problems become
// Issues; only a malformed container decode failure upstream (see
// Iterate) is reported as an error by the caller.
func ValidateAgainstSchema(records []Record, schema *Schema) *ValidationReport {
	report := &ValidationReport{}

	if !IsCanonical(records) {
		report.Issues = append(report.Issues, Issue{
			Class:    ClassDeterminism,
			Severity: SeverityError,
			Code:     CodeTagOrderNoncanonical,
		})
	}

	counts := map[uint32]int{}
	for i, r := range records {
		counts[r.Tag]++
		f, ok := schema.field(r.Tag)
		if !ok {
			report.Issues = append(report.Issues, Issue{
				Class: ClassSchema, Severity: SeverityWarning,
				Code: CodeUnknownTag, Line: i,
			})
			continue
		}
		if schema.Authoritative && (f.Type == FieldF32 || f.Type == FieldF64) {
			report.Issues = append(report.Issues, Issue{
				Class: ClassDeterminism, Severity: SeverityError,
				Code: CodeFloatInAuthoritative, Line: i,
			})
		}
		if width, fixed := typeWidth(f.Type); fixed && len(r.Payload) != width {
			report.Issues = append(report.Issues, Issue{
				Class: ClassSchema, Severity: SeverityError,
				Code: CodeTypeLengthMismatch, Line: i,
			})
		}
	}

	for _, f := range schema.Fields {
		n := counts[f.Tag]
		if f.Flags&FlagRequired != 0 && n == 0 {
			report.Issues = append(report.Issues, Issue{
				Class: ClassSemantic, Severity: SeverityError,
				Code: CodeMissingRequired,
			})
		}
		if f.Flags&FlagRepeatable == 0 && n > 1 {
			report.Issues = append(report.Issues, Issue{
				Class: ClassSchema, Severity: SeverityError,
				Code: CodeTooManyRepeats,
			})
		}
		if f.MaxCount > 0 && uint32(n) > f.MaxCount {
			report.Issues = append(report.Issues, Issue{
				Class: ClassSchema, Severity: SeverityError,
				Code: CodeTooManyRepeats,
			})
		}
	}

	worst := Accept
	for _, iss := range report.Issues {
		if iss.Severity == SeverityError {
			worst = Refuse
			break
		}
		worst = AcceptWithWarnings
	}
	report.Disposition = worst
	return report
}
