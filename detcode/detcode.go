// Package detcode holds the small set of negative status codes every
// fallible operation in the core returns. Zero is success; the core never
// panics.
package detcode

// Code is a fallible-operation status. Zero means success.
type Code int32

const (
	OK Code = 0

	// InvalidArgument: null or mismatched sizes; callers must check.
	InvalidArgument Code = -1
	// CapacityExceeded: builder/queue full; never truncates silently.
	CapacityExceeded Code = -2
	// Malformed: TLV violations, misaligned lengths, non-canonical order
	// where canonical was required.
	Malformed Code = -3
	// SchemaViolation: schema registry rejects a record.
	SchemaViolation Code = -4
	// PolicyRefusal: kernel selection yields no candidate.
	PolicyRefusal Code = -5
	// Duplicate: registry insertion for a key that already exists.
	Duplicate Code = -6
	// NotFound: registry lookup miss.
	NotFound Code = -7
	// VersionMismatch: schema major version requires migration.
	VersionMismatch Code = -8
)

func (c Code) Error() string {
	switch c {
	case OK:
		return "ok"
	case InvalidArgument:
		return "invalid argument"
	case CapacityExceeded:
		return "capacity exceeded"
	case Malformed:
		return "malformed"
	case SchemaViolation:
		return "schema violation"
	case PolicyRefusal:
		return "policy refusal"
	case Duplicate:
		return "duplicate"
	case NotFound:
		return "not found"
	case VersionMismatch:
		return "version mismatch"
	default:
		return "unknown code"
	}
}

// Ok reports whether c represents success.
func (c Code) Ok() bool { return c == OK }
