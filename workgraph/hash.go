package workgraph

import "github.com/Julesc013/dominium-sub017/dethash"

// HashGraph folds task ids, access-set ids, phase ids, commit keys,
// determinism class, and policy-params bytes for every task in the
// graph's canonical (commit-key sorted) order. Two runs over identical
// inputs must produce identical values; tests assert on this.
func HashGraph(g *TaskGraph) uint64 {
	a := dethash.New()
	for _, t := range g.Tasks {
		a.WriteU64(t.TaskID)
		a.WriteU64(t.AccessSetID)
		a.WriteU32(t.PhaseID)
		a.WriteU32(t.CommitKey.PhaseID)
		a.WriteU64(t.CommitKey.TaskID)
		a.WriteU32(t.CommitKey.SubIndex)
		a.WriteU32(uint32(t.DeterminismClass))
		a.WriteU32(uint32(len(t.PolicyParams)))
		a.WriteBytes(t.PolicyParams)
	}
	return a.Sum()
}
