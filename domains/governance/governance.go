// Package governance implements the governance domain system: a flat
// pass over policy proposals, one task per proposal, tallying votes
// deterministically.
package governance

import (
	"github.com/Julesc013/dominium-sub017/dethash"
	"github.com/Julesc013/dominium-sub017/domains"
	"github.com/Julesc013/dominium-sub017/sysreg"
	"github.com/Julesc013/dominium-sub017/workgraph"
)

const systemName = "GOVERNANCE"
const phaseID uint32 = 200
const depReasonID uint64 = 5

// Proposal is one pending governance vote.
type Proposal struct {
	ID        uint64
	VotesFor  uint32
	VotesAgainst uint32
}

// System is the governance domain's ISimSystem implementation.
type System struct {
	proposals  []Proposal
	cursor     domains.Cursor
	tier       sysreg.Tier
	allowedOps uint64
	budgetHint uint32
	lawTargets []uint32
	nextDue    sysreg.ActTime
	enacted    map[uint64]bool
}

// New returns a governance system.
func New(lawTargets []uint32) *System {
	return &System{allowedOps: 1, lawTargets: lawTargets, enacted: make(map[uint64]bool)}
}

func (s *System) SetProposals(p []Proposal)     { s.proposals = p }
func (s *System) SetTier(t sysreg.Tier)         { s.tier = t }
func (s *System) SetAllowedOpsMask(mask uint64) { s.allowedOps = mask }
func (s *System) SetBudgetHint(hint uint32)     { s.budgetHint = hint }

func (s *System) SystemID() uint64                             { return dethash.String64(systemName) }
func (s *System) IsSimAffecting() bool                         { return true }
func (s *System) LawTargets() []uint32                         { return s.lawTargets }
func (s *System) GetNextDueTick() sysreg.ActTime               { return s.nextDue }
func (s *System) Degrade(t sysreg.Tier, r sysreg.DegradeReason) { s.tier = t }

// Enacted reports whether a proposal passed, after it has been processed.
func (s *System) Enacted(proposalID uint64) bool { return s.enacted[proposalID] }

func (s *System) EmitTasks(actNow, actTarget sysreg.ActTime, gb *workgraph.Builder, ab *workgraph.AccessSetBuilder) int32 {
	if s.tier == sysreg.TierLatent || s.allowedOps == 0 {
		return 0
	}
	budget := int(sysreg.EffectiveBudget(s.tier, s.budgetHint))
	length := len(s.proposals)

	count, processed, atEnd := domains.EmitSingleItems(
		s.SystemID(), phaseID, workgraph.CategoryAuthoritative, workgraph.DetOrdered,
		s.tier, s.lawTargets, depReasonID, length,
		func(i int) uint64 { return s.proposals[i].ID },
		&s.cursor, budget, gb, ab,
	)
	for _, i := range processed {
		p := s.proposals[i]
		s.enacted[p.ID] = p.VotesFor > p.VotesAgainst
	}
	if atEnd {
		s.cursor.Reset()
	}
	s.nextDue = domains.NextDue(actNow, s.tier, atEnd)
	return count
}
