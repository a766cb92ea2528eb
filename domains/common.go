package domains

import (
	"github.com/Julesc013/dominium-sub017/dethash"
	"github.com/Julesc013/dominium-sub017/sysreg"
	"github.com/Julesc013/dominium-sub017/workgraph"
)

// EmitSingleItems is the shared shape used by the simpler cursor-driven
// domain systems (economy, governance, agents): a flat input slice walked
// by a single Cursor, one task per item, a single fixed phase, no
// sub-pipeline partitioning. War's own emission logic is not built on
// this helper because it needs per-op phases and explicit cross-op
// dependency edges; this covers the common case everything else shares.
//
// itemID extracts a stable identifier from the item at the given index.
// Each task after the first in a call carries a dependency edge from the
// previous task, tagged with the caller's reasonID. Returns the count of
// tasks emitted, the slice indices actually processed this call (for
// callers that need to run domain-specific side effects on the same
// items), and whether the cursor reached the end of the input this call.
// Callers reset the cursor themselves on a complete cycle — this helper
// only walks, it never resets.
func EmitSingleItems(
	systemID uint64,
	phaseID uint32,
	category workgraph.Category,
	detClass workgraph.DeterminismClass,
	tier sysreg.Tier,
	lawTargets []uint32,
	reasonID uint64,
	length int,
	itemID func(index int) uint64,
	cursor *Cursor,
	budget int,
	gb *workgraph.Builder,
	ab *workgraph.AccessSetBuilder,
) (int32, []int, bool) {
	if budget <= 0 {
		return 0, nil, length == 0
	}
	lo, hi, atEnd := cursor.Take(length, budget)
	var count int32
	var prevTaskID uint64
	havePrev := false
	processed := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		entityID := itemID(i)
		lid := localID(systemID, entityID)
		taskID := workgraph.MakeID(systemID, lid, workgraph.IDTask)
		accessID := workgraph.MakeID(systemID, lid, workgraph.IDAccess)
		costID := workgraph.MakeID(systemID, lid, workgraph.IDCost)

		if code := ab.Begin(accessID, 0, 0); !code.Ok() {
			continue
		}
		ab.AddRead(workgraph.AccessRange{Kind: workgraph.RangeSingle, ComponentID: entityID})
		ab.AddWrite(workgraph.AccessRange{Kind: workgraph.RangeSingle, ComponentID: entityID})
		if _, code := ab.Finalize(); !code.Ok() {
			continue
		}
		gb.AddCostModel(workgraph.CostModel{CostID: costID, CPUUpperBound: 50, LatencyClass: workgraph.LatencyLow})

		task := workgraph.TaskNode{
			TaskID:           taskID,
			SystemID:         systemID,
			Category:         category,
			DeterminismClass: detClass,
			FidelityTier:     uint32(tier),
			AccessSetID:      accessID,
			CostModelID:      costID,
			LawTargets:       lawTargets,
			PhaseID:          phaseID,
			CommitKey:        workgraph.MakeCommitKey(phaseID, taskID, 0),
		}
		if code := gb.AddTask(task); !code.Ok() {
			continue
		}
		count++
		processed = append(processed, i)
		if havePrev {
			gb.AddDependency(workgraph.DependencyEdge{FromTaskID: prevTaskID, ToTaskID: taskID, ReasonID: reasonID})
		}
		prevTaskID = taskID
		havePrev = true
	}
	return count, processed, atEnd
}

func localID(systemID, entityID uint64) uint64 {
	a := dethash.New()
	a.WriteU64(systemID)
	a.WriteU64(entityID)
	return a.Sum()
}

// NextDue computes the next-due tick for a cursor-driven system: re-due
// next tick at the tier's cadence while a cycle is mid-flight or more
// input remains unprocessed, or TimeActMax ("never", until a host event
// changes the inputs) once a full pass completes with nothing left.
func NextDue(actNow sysreg.ActTime, tier sysreg.Tier, cycleComplete bool) sysreg.ActTime {
	if cycleComplete {
		return sysreg.TimeActMax
	}
	return actNow + sysreg.ActTime(sysreg.DefaultCadence(tier))
}
