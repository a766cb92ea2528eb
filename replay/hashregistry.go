// Package replay implements the per-tick hash registry and the replay
// stream: canonical input-packet recording and the three replay
// validation modes.
package replay

import (
	"sort"

	"github.com/Julesc013/dominium-sub017/dethash"
)

// DomainID is a stable hash-domain identifier from a closed enum.
type DomainID uint32

const (
	DomainSchedulerState DomainID = iota
	DomainPacketStreams
	DomainDeltaCommitResults
	DomainDomainStates
	DomainGraphStates
	DomainBeliefDB
	DomainCommsQueues
	DomainLODState
)

// DomainFlags classifies a hash domain for selective replay validation.
type DomainFlags uint32

const (
	FlagStructural DomainFlags = 1 << 0
	FlagBehavioral DomainFlags = 1 << 1
)

// Callback computes one domain's hash for a tick, given a stream already
// seeded with (domain_id, tick).
type Callback func(stream *dethash.Accumulator) uint64

type domainEntry struct {
	id       DomainID
	flags    DomainFlags
	callback Callback
}

// HashRegistry maps hash_domain_id -> callback, invoked in ascending
// domain_id order.
type HashRegistry struct {
	entries []domainEntry
}

// NewHashRegistry returns an empty hash registry.
func NewHashRegistry() *HashRegistry { return &HashRegistry{} }

// Register adds a domain callback, keeping entries sorted by domain_id.
func (r *HashRegistry) Register(id DomainID, flags DomainFlags, cb Callback) {
	r.entries = append(r.entries, domainEntry{id: id, flags: flags, callback: cb})
	sort.Slice(r.entries, func(i, j int) bool { return r.entries[i].id < r.entries[j].id })
}

// Snapshot is a per-tick map from hash-domain-id to its 64-bit value.
type Snapshot map[DomainID]uint64

// ComputeTick iterates registered domains in ascending domain_id order,
// seeding each callback's stream with (domain_id, tick), and writes the
// finalized value into the returned snapshot.
func (r *HashRegistry) ComputeTick(tick uint64) Snapshot {
	snap := make(Snapshot, len(r.entries))
	for _, e := range r.entries {
		stream := dethash.New()
		stream.WriteU32(uint32(e.id))
		stream.WriteU64(tick)
		snap[e.id] = e.callback(stream)
	}
	return snap
}

// DomainsWithFlag returns the domain ids carrying the given flag, in
// ascending order.
func (r *HashRegistry) DomainsWithFlag(flag DomainFlags) []DomainID {
	var out []DomainID
	for _, e := range r.entries {
		if e.flags&flag != 0 {
			out = append(out, e.id)
		}
	}
	return out
}
