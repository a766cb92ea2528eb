// Package economy implements the economy domain system: a single flat
// pass over tradeable-good ledgers, one task per ledger, driven by the
// shared domains.EmitSingleItems helper.
package economy

import (
	"github.com/Julesc013/dominium-sub017/dethash"
	"github.com/Julesc013/dominium-sub017/domains"
	"github.com/Julesc013/dominium-sub017/sysreg"
	"github.com/Julesc013/dominium-sub017/workgraph"
)

const systemName = "ECONOMY"
const phaseID uint32 = 100
const depReasonID uint64 = 4

// Ledger is one tradeable good's supply/demand record.
type Ledger struct {
	ID     uint64
	Supply uint32
	Demand uint32
}

// System is the economy domain's ISimSystem implementation.
type System struct {
	ledgers    []Ledger
	cursor     domains.Cursor
	tier       sysreg.Tier
	allowedOps uint64
	budgetHint uint32
	lawTargets []uint32
	nextDue    sysreg.ActTime
	prices     map[uint64]uint32
}

// New returns an economy system.
func New(lawTargets []uint32) *System {
	return &System{allowedOps: 1, lawTargets: lawTargets, prices: make(map[uint64]uint32)}
}

func (s *System) SetLedgers(l []Ledger)           { s.ledgers = l }
func (s *System) SetTier(t sysreg.Tier)           { s.tier = t }
func (s *System) SetAllowedOpsMask(mask uint64)   { s.allowedOps = mask }
func (s *System) SetBudgetHint(hint uint32)       { s.budgetHint = hint }

func (s *System) SystemID() uint64                      { return dethash.String64(systemName) }
func (s *System) IsSimAffecting() bool                  { return true }
func (s *System) LawTargets() []uint32                  { return s.lawTargets }
func (s *System) GetNextDueTick() sysreg.ActTime        { return s.nextDue }
func (s *System) Degrade(t sysreg.Tier, r sysreg.DegradeReason) { s.tier = t }

// Price returns the last-computed clearing price for a ledger, or zero if
// it has not been processed yet.
func (s *System) Price(ledgerID uint64) uint32 { return s.prices[ledgerID] }

func (s *System) EmitTasks(actNow, actTarget sysreg.ActTime, gb *workgraph.Builder, ab *workgraph.AccessSetBuilder) int32 {
	if s.tier == sysreg.TierLatent || s.allowedOps == 0 {
		return 0
	}
	budget := int(sysreg.EffectiveBudget(s.tier, s.budgetHint))
	length := len(s.ledgers)

	count, processed, atEnd := domains.EmitSingleItems(
		s.SystemID(), phaseID, workgraph.CategoryAuthoritative, workgraph.DetStrict,
		s.tier, s.lawTargets, depReasonID, length,
		func(i int) uint64 { return s.ledgers[i].ID },
		&s.cursor, budget, gb, ab,
	)
	for _, i := range processed {
		l := s.ledgers[i]
		s.prices[l.ID] = clearingPrice(l)
	}
	cycleComplete := atEnd
	if cycleComplete {
		s.cursor.Reset()
	}
	s.nextDue = domains.NextDue(actNow, s.tier, cycleComplete)
	return count
}

// clearingPrice is a deterministic, integer-only supply/demand model:
// price rises as demand outstrips supply, floored at 1.
func clearingPrice(l Ledger) uint32 {
	if l.Supply == 0 {
		return l.Demand + 1
	}
	price := (l.Demand * 100) / l.Supply
	if price == 0 {
		price = 1
	}
	return price
}
