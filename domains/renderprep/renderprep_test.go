package renderprep

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Julesc013/dominium-sub017/sysreg"
	"github.com/Julesc013/dominium-sub017/workgraph"
)

func testScene() Scene {
	return Scene{SceneID: 1, PackedViewSetID: 2, VisibilityMaskSetID: 3, VisibleRegionCount: 4, InstanceCount: 5}
}

func TestMicroTierEmitsOneTaskWithThreePasses(t *testing.T) {
	s := New(nil)
	s.SetScene(testScene())
	s.SetTier(sysreg.TierMicro)

	gb := workgraph.NewBuilder(8, 8, 8)
	ab := workgraph.NewAccessSetBuilder(8)
	n := s.EmitTasks(0, 0, gb, ab)

	require.Equal(t, int32(1), n)
	require.Equal(t, uint32(3), s.LastGraph().PassCount)
	require.Equal(t, FrameGraphFlags(0), s.LastGraph().Flags)
	require.Equal(t, graphID(testScene(), sysreg.TierMicro), s.LastGraph().GraphID)
}

func TestLatentTierReusesPreviousGraphWithZeroPasses(t *testing.T) {
	s := New(nil)
	s.SetScene(testScene())
	s.SetTier(sysreg.TierMicro)

	gb := workgraph.NewBuilder(8, 8, 8)
	ab := workgraph.NewAccessSetBuilder(8)
	s.EmitTasks(0, 0, gb, ab)
	prevID := s.LastGraph().GraphID

	s.SetTier(sysreg.TierLatent)
	gb2 := workgraph.NewBuilder(8, 8, 8)
	ab2 := workgraph.NewAccessSetBuilder(8)
	n := s.EmitTasks(1, 0, gb2, ab2)

	require.Equal(t, int32(0), n)
	require.Equal(t, uint32(0), s.LastGraph().PassCount)
	require.Equal(t, FlagReuse, s.LastGraph().Flags)
	require.Equal(t, prevID, s.LastGraph().GraphID)
	require.Equal(t, 0, gb2.TaskCount())
}

func TestLatentTierWithNoPriorGraphReusesZero(t *testing.T) {
	s := New(nil)
	s.SetScene(testScene())
	s.SetTier(sysreg.TierLatent)

	gb := workgraph.NewBuilder(8, 8, 8)
	ab := workgraph.NewAccessSetBuilder(8)
	s.EmitTasks(0, 0, gb, ab)

	require.Equal(t, uint64(0), s.LastGraph().GraphID)
	require.Equal(t, FlagReuse, s.LastGraph().Flags)
}

func TestGraphIDIsStableForSameSceneAndTier(t *testing.T) {
	require.Equal(t, graphID(testScene(), sysreg.TierMicro), graphID(testScene(), sysreg.TierMicro))
}

func TestGraphIDDependsOnTier(t *testing.T) {
	require.NotEqual(t, graphID(testScene(), sysreg.TierMicro), graphID(testScene(), sysreg.TierMeso))
}

func TestAllowedOpsMaskZeroEmitsNothing(t *testing.T) {
	s := New(nil)
	s.SetAllowedOpsMask(0)
	s.SetTier(sysreg.TierMicro)

	gb := workgraph.NewBuilder(8, 8, 8)
	ab := workgraph.NewAccessSetBuilder(8)
	n := s.EmitTasks(0, 0, gb, ab)
	require.Equal(t, int32(0), n)
}
