// Package telemetry wraps the core's probe counters (probe_refused,
// kernel NO_CANDIDATE outcomes, per-tick emission durations) in
// prometheus counters and a histogram. Instrumentation is always injected by the
// host, never read back by core logic, so the tick-hot path stays free
// of global mutable state.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the instrumentation surface a host reports the core's probe
// counts and tick durations through; no registry, builder, or queue of
// this module takes a Recorder. Every method is optional to call; NoOp
// returns a Recorder that discards everything.
type Recorder interface {
	ProbeRefused(component string, n uint64)
	KernelNoCandidate(opID uint64)
	TickDuration(seconds float64)
}

// Prom is a Recorder backed by prometheus client_golang counters/
// histograms.
type Prom struct {
	probeRefused      *prometheus.CounterVec
	kernelNoCandidate prometheus.Counter
	tickDuration      prometheus.Histogram
}

// NewProm registers the module's metrics against reg and returns a
// Recorder. Any registration error is surfaced to the caller.
func NewProm(reg prometheus.Registerer) (*Prom, error) {
	p := &Prom{
		probeRefused: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dominium_core_probe_refused_total",
			Help: "Count of refused pushes/merges by component.",
		}, []string{"component"}),
		kernelNoCandidate: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dominium_core_kernel_no_candidate_total",
			Help: "Count of kernel selections that returned NO_CANDIDATE.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "dominium_core_tick_duration_seconds",
			Help: "Wall-clock duration of one tick's emission pass.",
		}),
	}
	for _, c := range []prometheus.Collector{p.probeRefused, p.kernelNoCandidate, p.tickDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prom) ProbeRefused(component string, n uint64) {
	p.probeRefused.WithLabelValues(component).Add(float64(n))
}

func (p *Prom) KernelNoCandidate(opID uint64) { p.kernelNoCandidate.Inc() }

func (p *Prom) TickDuration(seconds float64) { p.tickDuration.Observe(seconds) }

type noOp struct{}

// NoOp is a Recorder that discards everything.
func NoOp() Recorder { return noOp{} }

func (noOp) ProbeRefused(component string, n uint64) {}
func (noOp) KernelNoCandidate(opID uint64)           {}
func (noOp) TickDuration(seconds float64)            {}
