// Package agents implements the agents domain system: a flat pass over
// autonomous-agent records advancing each agent's behaviour-tree tick
// counter deterministically.
package agents

import (
	"github.com/Julesc013/dominium-sub017/dethash"
	"github.com/Julesc013/dominium-sub017/domains"
	"github.com/Julesc013/dominium-sub017/sysreg"
	"github.com/Julesc013/dominium-sub017/workgraph"
)

const systemName = "AGENTS"
const phaseID uint32 = 300
const depReasonID uint64 = 6

// Agent is one autonomous actor's minimal deterministic state.
type Agent struct {
	ID    uint64
	Goal  uint32
}

// System is the agents domain's ISimSystem implementation.
type System struct {
	agents     []Agent
	cursor     domains.Cursor
	tier       sysreg.Tier
	allowedOps uint64
	budgetHint uint32
	lawTargets []uint32
	nextDue    sysreg.ActTime
	ticks      map[uint64]uint32
}

// New returns an agents system.
func New(lawTargets []uint32) *System {
	return &System{allowedOps: 1, lawTargets: lawTargets, ticks: make(map[uint64]uint32)}
}

func (s *System) SetAgents(a []Agent)           { s.agents = a }
func (s *System) SetTier(t sysreg.Tier)         { s.tier = t }
func (s *System) SetAllowedOpsMask(mask uint64) { s.allowedOps = mask }
func (s *System) SetBudgetHint(hint uint32)     { s.budgetHint = hint }

func (s *System) SystemID() uint64                             { return dethash.String64(systemName) }
func (s *System) IsSimAffecting() bool                         { return true }
func (s *System) LawTargets() []uint32                         { return s.lawTargets }
func (s *System) GetNextDueTick() sysreg.ActTime               { return s.nextDue }
func (s *System) Degrade(t sysreg.Tier, r sysreg.DegradeReason) { s.tier = t }

// TickCount reports how many behaviour-tree steps an agent has been
// advanced, after processing.
func (s *System) TickCount(agentID uint64) uint32 { return s.ticks[agentID] }

func (s *System) EmitTasks(actNow, actTarget sysreg.ActTime, gb *workgraph.Builder, ab *workgraph.AccessSetBuilder) int32 {
	if s.tier == sysreg.TierLatent || s.allowedOps == 0 {
		return 0
	}
	budget := int(sysreg.EffectiveBudget(s.tier, s.budgetHint))
	length := len(s.agents)

	count, processed, atEnd := domains.EmitSingleItems(
		s.SystemID(), phaseID, workgraph.CategoryDerived, workgraph.DetCommutative,
		s.tier, s.lawTargets, depReasonID, length,
		func(i int) uint64 { return s.agents[i].ID },
		&s.cursor, budget, gb, ab,
	)
	for _, i := range processed {
		a := s.agents[i]
		s.ticks[a.ID]++
	}
	if atEnd {
		s.cursor.Reset()
	}
	s.nextDue = domains.NextDue(actNow, s.tier, atEnd)
	return count
}
