package sysreg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Julesc013/dominium-sub017/workgraph"
)

// Errs collects per-system emission errors across a tick without
// aborting the whole pass: add freely, inspect once at the end.
type Errs struct {
	errs []error
}

func (e *Errs) Add(systemID uint64, err error) {
	if err == nil {
		return
	}
	e.errs = append(e.errs, fmt.Errorf("system %d: %w", systemID, err))
}

func (e *Errs) Errored() bool { return len(e.errs) > 0 }

func (e *Errs) Len() int { return len(e.errs) }

func (e *Errs) Error() string {
	if len(e.errs) == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d system emission error(s):", len(e.errs))
	for _, err := range e.errs {
		sb.WriteString("\n\t* ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// entry is one registered system plus its host-controlled emission
// policy.
type entry struct {
	sys         ISimSystem
	enabled     bool
	fidelity    Tier
	budgetHint  uint32
}

// Registry drives emission in deterministic order by system_id; disabled
// systems are skipped entirely.
type Registry struct {
	entries []entry
}

// New returns an empty registry.
func New() *Registry { return &Registry{} }

// Register adds a system, keeping entries sorted by system_id.
func (r *Registry) Register(sys ISimSystem, fidelity Tier, budgetHint uint32) {
	r.entries = append(r.entries, entry{sys: sys, enabled: true, fidelity: fidelity, budgetHint: budgetHint})
	sort.Slice(r.entries, func(i, j int) bool { return r.entries[i].sys.SystemID() < r.entries[j].sys.SystemID() })
}

// SetEnabled toggles a registered system by id.
func (r *Registry) SetEnabled(systemID uint64, enabled bool) {
	for i := range r.entries {
		if r.entries[i].sys.SystemID() == systemID {
			r.entries[i].enabled = enabled
			return
		}
	}
}

// SetFidelity updates a registered system's fidelity tier.
func (r *Registry) SetFidelity(systemID uint64, tier Tier) {
	for i := range r.entries {
		if r.entries[i].sys.SystemID() == systemID {
			r.entries[i].fidelity = tier
			return
		}
	}
}

// EmissionResult reports per-system task counts for one tick.
type EmissionResult struct {
	SystemID   uint64
	TaskCount  int32
}

// tierSettable and hintSettable are the optional setters a system may
// expose so the registry's stored per-system policy reaches it each tick.
type tierSettable interface{ SetTier(Tier) }
type hintSettable interface{ SetBudgetHint(uint32) }

// EmitAll calls EmitTasks on each enabled system in ascending system_id
// order with the shared builders, pushing the registry's stored fidelity
// tier and budget hint into the system first where it accepts them. A
// system whose EmitTasks returns a negative code aborts that system's
// emission for the tick (recorded in Errs) but emission continues with
// the next system.
func (r *Registry) EmitAll(actNow, actTarget ActTime, gb *workgraph.Builder, ab *workgraph.AccessSetBuilder) ([]EmissionResult, *Errs) {
	errs := &Errs{}
	results := make([]EmissionResult, 0, len(r.entries))
	for _, e := range r.entries {
		if !e.enabled {
			continue
		}
		if ts, ok := e.sys.(tierSettable); ok {
			ts.SetTier(e.fidelity)
		}
		if hs, ok := e.sys.(hintSettable); ok {
			hs.SetBudgetHint(e.budgetHint)
		}
		n := e.sys.EmitTasks(actNow, actTarget, gb, ab)
		if n < 0 {
			errs.Add(e.sys.SystemID(), fmt.Errorf("emit failed with code %d", n))
			continue
		}
		results = append(results, EmissionResult{SystemID: e.sys.SystemID(), TaskCount: n})
	}
	return results, errs
}

// Count returns the number of registered systems.
func (r *Registry) Count() int { return len(r.entries) }
