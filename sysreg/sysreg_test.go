package sysreg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Julesc013/dominium-sub017/workgraph"
)

func TestEffectiveBudgetZeroHintMeansDefault(t *testing.T) {
	require.Equal(t, DefaultBudget(TierMicro), EffectiveBudget(TierMicro, 0))
}

func TestEffectiveBudgetCapsAtTierDefault(t *testing.T) {
	require.Equal(t, DefaultBudget(TierMicro), EffectiveBudget(TierMicro, 1000))
}

func TestEffectiveBudgetHonorsSmallerHint(t *testing.T) {
	require.Equal(t, uint32(1), EffectiveBudget(TierMicro, 1))
}

func TestAllowedOpMaskLatentIsAlwaysZero(t *testing.T) {
	require.Equal(t, uint64(0), AllowedOpMask(TierLatent))
}

type stubSystem struct {
	id     uint64
	result int32
}

func (s *stubSystem) SystemID() uint64      { return s.id }
func (s *stubSystem) IsSimAffecting() bool  { return true }
func (s *stubSystem) LawTargets() []uint32  { return nil }
func (s *stubSystem) GetNextDueTick() ActTime { return 0 }
func (s *stubSystem) EmitTasks(actNow, actTarget ActTime, gb *workgraph.Builder, ab *workgraph.AccessSetBuilder) int32 {
	return s.result
}
func (s *stubSystem) Degrade(tier Tier, reason DegradeReason) {}

func TestRegistryEmitsInAscendingSystemIDOrder(t *testing.T) {
	r := New()
	r.Register(&stubSystem{id: 20, result: 1}, TierMicro, 0)
	r.Register(&stubSystem{id: 5, result: 2}, TierMicro, 0)

	gb := workgraph.NewBuilder(8, 8, 8)
	ab := workgraph.NewAccessSetBuilder(8)
	results, errs := r.EmitAll(0, 0, gb, ab)

	require.False(t, errs.Errored())
	require.Len(t, results, 2)
	require.Equal(t, uint64(5), results[0].SystemID)
	require.Equal(t, uint64(20), results[1].SystemID)
}

func TestRegistrySkipsDisabledSystems(t *testing.T) {
	r := New()
	r.Register(&stubSystem{id: 1, result: 1}, TierMicro, 0)
	r.SetEnabled(1, false)

	gb := workgraph.NewBuilder(8, 8, 8)
	ab := workgraph.NewAccessSetBuilder(8)
	results, _ := r.EmitAll(0, 0, gb, ab)
	require.Empty(t, results)
}

func TestRegistryContinuesAfterNegativeResult(t *testing.T) {
	r := New()
	r.Register(&stubSystem{id: 1, result: -2}, TierMicro, 0)
	r.Register(&stubSystem{id: 2, result: 3}, TierMicro, 0)

	gb := workgraph.NewBuilder(8, 8, 8)
	ab := workgraph.NewAccessSetBuilder(8)
	results, errs := r.EmitAll(0, 0, gb, ab)

	require.True(t, errs.Errored())
	require.Equal(t, 1, errs.Len())
	require.Len(t, results, 1)
	require.Equal(t, uint64(2), results[0].SystemID)
}

type settableSystem struct {
	stubSystem
	tier Tier
	hint uint32
}

func (s *settableSystem) SetTier(t Tier)          { s.tier = t }
func (s *settableSystem) SetBudgetHint(h uint32)  { s.hint = h }

func TestRegistryPushesStoredTierAndHintBeforeEmit(t *testing.T) {
	r := New()
	sys := &settableSystem{stubSystem: stubSystem{id: 7, result: 0}}
	r.Register(sys, TierMeso, 3)

	gb := workgraph.NewBuilder(8, 8, 8)
	ab := workgraph.NewAccessSetBuilder(8)
	r.EmitAll(0, 0, gb, ab)

	require.Equal(t, TierMeso, sys.tier)
	require.Equal(t, uint32(3), sys.hint)

	r.SetFidelity(7, TierFocus)
	r.EmitAll(1, 1, gb, ab)
	require.Equal(t, TierFocus, sys.tier)
}

func TestErrsAddIgnoresNilError(t *testing.T) {
	e := &Errs{}
	e.Add(1, nil)
	require.False(t, e.Errored())
	e.Add(1, errors.New("boom"))
	require.True(t, e.Errored())
}
