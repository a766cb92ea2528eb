package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Julesc013/dominium-sub017/dethash"
	"github.com/Julesc013/dominium-sub017/dlog"
	"github.com/Julesc013/dominium-sub017/domains/agents"
	"github.com/Julesc013/dominium-sub017/domains/economy"
	"github.com/Julesc013/dominium-sub017/domains/governance"
	"github.com/Julesc013/dominium-sub017/domains/interest"
	"github.com/Julesc013/dominium-sub017/domains/renderprep"
	"github.com/Julesc013/dominium-sub017/domains/streaming"
	"github.com/Julesc013/dominium-sub017/domains/war"
	"github.com/Julesc013/dominium-sub017/orderkey"
	"github.com/Julesc013/dominium-sub017/replay"
	"github.com/Julesc013/dominium-sub017/simconfig"
	"github.com/Julesc013/dominium-sub017/sysreg"
	"github.com/Julesc013/dominium-sub017/telemetry"
	"github.com/Julesc013/dominium-sub017/tlv"
	"github.com/Julesc013/dominium-sub017/workgraph"
	"github.com/Julesc013/dominium-sub017/workqueue"
)

func tickCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Run N ticks over synthetic input and print the per-tick hash snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ticks, _ := cmd.Flags().GetInt("ticks")
			return runTicks(ticks)
		},
	}
	cmd.Flags().Int("ticks", 4, "number of ticks to run")
	return cmd
}

// hostSystems bundles the registry with the two systems the host itself
// shuttles data between each tick: interest's fidelity requests feed
// streaming's canonical interest entries.
type hostSystems struct {
	reg    *sysreg.Registry
	inter  *interest.System
	stream *streaming.System
}

// entityChunk is the host's entity->chunk mapping; synthetic here, a
// spatial index in a real host.
func entityChunk(entityID uint64) uint64 { return entityID >> 4 }

// streamRequestTTL is how many ticks a fed interest entry stays live
// before streaming's expiry gate drops it.
const streamRequestTTL = 8

// feedInterestToStreaming converts the previous tick's fidelity requests
// into streaming's canonical interest entries, preserving their order.
func feedInterestToStreaming(h hostSystems, now uint64) {
	frs := h.inter.Requests()
	reqs := make([]streaming.Request, 0, len(frs))
	for _, fr := range frs {
		reqs = append(reqs, streaming.Request{
			TargetID:   fr.EntityID,
			ChunkID:    entityChunk(fr.EntityID),
			Strength:   fr.Strength,
			ExpiryTick: now + streamRequestTTL,
		})
	}
	h.stream.SetRequests(reqs)
}

func buildSystems() hostSystems {
	warSys := war.New(64, []uint32{dethash.String32("capability.combat")})
	warSys.SetInputs(war.Inputs{
		Engagements: []war.Engagement{
			{ID: 1, AttackerStrength: 100, DefenderStrength: 80},
			{ID: 2, AttackerStrength: 40, DefenderStrength: 90},
		},
		Occupations: []war.Occupation{{ID: 10, RegionID: 1, Garrison: 5}},
	})

	econ := economy.New([]uint32{dethash.String32("capability.trade")})
	econ.SetLedgers([]economy.Ledger{
		{ID: 1, Supply: 100, Demand: 80},
		{ID: 2, Supply: 50, Demand: 120},
	})

	gov := governance.New([]uint32{dethash.String32("capability.govern")})
	gov.SetProposals([]governance.Proposal{
		{ID: 1, VotesFor: 10, VotesAgainst: 3},
	})

	ag := agents.New(nil)
	ag.SetAgents([]agents.Agent{
		{ID: 1, Goal: 1}, {ID: 2, Goal: 2},
	})

	stream := streaming.New(nil)
	stream.SetCachedChunks(7)

	inter := interest.New(nil)
	inter.SetSources([]interest.Source{
		{Kind: interest.KindPlayerFocus, SourceID: 1, EntityID: 100, Strength: 800},
		{Kind: interest.KindLogistics, SourceID: 2, EntityID: 200, Strength: 300},
	})

	render := renderprep.New(nil)
	render.SetScene(renderprep.Scene{
		SceneID: 42, PackedViewSetID: 1001, VisibilityMaskSetID: 2001,
		VisibleRegionCount: 12, InstanceCount: 80,
	})

	reg := sysreg.New()
	reg.Register(warSys, sysreg.TierMicro, 0)
	reg.Register(econ, sysreg.TierMicro, 0)
	reg.Register(gov, sysreg.TierMeso, 0)
	reg.Register(ag, sysreg.TierMacro, 0)
	reg.Register(stream, sysreg.TierMicro, 0)
	reg.Register(inter, sysreg.TierMicro, 0)
	reg.Register(render, sysreg.TierMicro, 0)
	return hostSystems{reg: reg, inter: inter, stream: stream}
}

// accessConflicts counts task pairs whose access sets cannot commute
// (write/write or write/read id overlap) — what an external executor
// would consult, alongside the dependency edges, to decide which tasks
// may run concurrently.
func accessConflicts(graph *workgraph.TaskGraph, ab *workgraph.AccessSetBuilder) int {
	conflicts := 0
	for i := 0; i < len(graph.Tasks); i++ {
		a, ok := ab.Lookup(graph.Tasks[i].AccessSetID)
		if !ok {
			continue
		}
		for j := i + 1; j < len(graph.Tasks); j++ {
			b, ok := ab.Lookup(graph.Tasks[j].AccessSetID)
			if !ok {
				continue
			}
			if a.ConflictsWith(b) {
				conflicts++
			}
		}
	}
	return conflicts
}

// commitOrder drains the finalized graph through a sorted work queue,
// returning task ids in canonical order-key order. The queue is how an
// executor consumes the graph; here it doubles as a structural check
// that the commit pipeline stays sorted.
func commitOrder(graph *workgraph.TaskGraph, capacity int) ([]uint64, uint64) {
	q := workqueue.New(capacity)
	for i, task := range graph.Tasks {
		q.Push(orderkey.Item{
			Key: orderkey.Key{
				Phase:    uint16(task.PhaseID),
				DomainID: task.SystemID,
				EntityID: task.TaskID,
				Seq:      uint32(i),
			},
			Payload: task.TaskID,
		})
	}
	order := make([]uint64, 0, q.Count())
	for {
		item, ok := q.PopNext()
		if !ok {
			break
		}
		order = append(order, item.Payload)
	}
	return order, q.ProbeRefused()
}

func runTicks(ticks int) error {
	cfg := simconfig.DefaultConfig()

	logger, err := dlog.New()
	if err != nil {
		return err
	}
	defer logger.Sync()

	rec, err := telemetry.NewProm(prometheus.NewRegistry())
	if err != nil {
		return err
	}

	schemas := tlv.NewSchemaRegistry()
	if code := schemas.RegisterBuiltin(); !code.Ok() {
		return fmt.Errorf("registering builtin schemas: %s", code.Error())
	}

	host := buildSystems()
	reg := host.reg

	var currentGraphHash uint64
	hreg := replay.NewHashRegistry()
	hreg.Register(replay.DomainGraphStates, replay.FlagStructural|replay.FlagBehavioral, func(stream *dethash.Accumulator) uint64 {
		stream.WriteU64(currentGraphHash)
		return stream.Sum()
	})

	stream := replay.NewStream()
	logger.Info("starting run", zap.Int("ticks", ticks), zap.Int("systems", reg.Count()))

	for t := 0; t < ticks; t++ {
		started := time.Now()

		// The previous tick's interest output is this tick's canonical
		// interest set for streaming.
		feedInterestToStreaming(host, uint64(t))

		gb := workgraph.NewBuilder(cfg.TaskCapacity, cfg.EdgeCapacity, cfg.CostModelCapacity)
		ab := workgraph.NewAccessSetBuilder(cfg.AccessSetCapacity)
		gb.SetIDs(uint64(t), uint64(t))

		results, errs := reg.EmitAll(uint64(t), uint64(t+1), gb, ab)
		if errs.Errored() {
			return fmt.Errorf("tick %d: %v", t, errs)
		}
		graph := gb.Finalize()
		currentGraphHash = workgraph.HashGraph(graph)

		order, refused := commitOrder(graph, cfg.WorkQueueCapacity)
		if refused > 0 {
			rec.ProbeRefused("work_queue", refused)
			logger.Warn("work queue refused items", zap.Uint64("refused", refused))
		}

		// Record one synthetic input packet per tick so the replay stream
		// carries the full tick shape, validated against a builtin schema.
		payload := tlv.Encode([]tlv.Record{{Tag: tlv.TagCatalogSchemaVersion, Payload: []byte{1, 0, 0, 0}}})
		records, err := tlv.Iterate(payload)
		if err != nil {
			return fmt.Errorf("tick %d: %w", t, err)
		}
		if report := schemas.Validate(tlv.SchemaIDCapabilityCatalog, records); report.Disposition == tlv.Refuse {
			return fmt.Errorf("tick %d: input packet refused by schema", t)
		}
		hdr := dethash.PacketHeader{
			TypeID: 1, SchemaID: tlv.SchemaIDCapabilityCatalog, SchemaVer: 1,
			Tick: uint64(t), DomainID: 1, PayloadLen: uint32(len(payload)),
		}
		pkt := replay.BuildPacketRecord(hdr, payload)

		snap := hreg.ComputeTick(uint64(t))
		stream.RecordTick(uint64(t), snap, []replay.InputPacketRecord{pkt}, []uint64{1}, nil, nil)

		rec.TickDuration(time.Since(started).Seconds())

		fmt.Printf("tick %d: tasks=%d committed=%d conflicts=%d graph_hash=%016x\n",
			t, len(graph.Tasks), len(order), accessConflicts(graph, ab), currentGraphHash)
		for _, r := range results {
			fmt.Printf("  system=%#x tasks=%d\n", r.SystemID, r.TaskCount)
		}
		for _, id := range sortedDomainIDs(snap) {
			fmt.Printf("  domain=%d hash=%016x\n", id, snap[id])
		}
	}

	logger.Info("run complete", zap.Int("recorded_ticks", len(stream.Ticks)))
	return nil
}

func sortedDomainIDs(snap replay.Snapshot) []replay.DomainID {
	out := make([]replay.DomainID, 0, len(snap))
	for id := range snap {
		out = append(out, id)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
