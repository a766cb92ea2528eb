// Package simconfig is the host-facing configuration surface: a plain
// JSON-tagged struct with a fluent Builder. Loading from a file is a
// host/CLI concern; the core itself never touches a filesystem.
package simconfig

import (
	"encoding/json"
	"time"

	"github.com/Julesc013/dominium-sub017/kernel"
	"github.com/Julesc013/dominium-sub017/replay"
)

// Config holds every host-tunable parameter of a simulation run.
type Config struct {
	// WorkQueueCapacity bounds each scheduler-owned sorted work queue.
	WorkQueueCapacity int `json:"workQueueCapacity"`
	// TaskCapacity, EdgeCapacity, CostModelCapacity bound one tick's
	// work-graph builder storage.
	TaskCapacity      int `json:"taskCapacity"`
	EdgeCapacity      int `json:"edgeCapacity"`
	CostModelCapacity int `json:"costModelCapacity"`
	// AccessSetCapacity bounds one tick's access-set builder storage.
	AccessSetCapacity int `json:"accessSetCapacity"`

	// KernelPolicy is the default backend-selection policy.
	KernelPolicy kernel.Policy `json:"kernelPolicy"`

	// ReplayValidationMode selects which hash domains a replay comparison
	// checks.
	ReplayValidationMode replay.ValidationMode `json:"replayValidationMode"`

	// TickBudget bounds how long one tick's emission pass may run before
	// the host should consider it slow (advisory; the core itself never
	// enforces a wall-clock timeout).
	TickBudget time.Duration `json:"tickBudget,omitempty"`
}

// DefaultConfig returns the default builder capacities, kernel policy, and
// replay validation mode.
func DefaultConfig() Config {
	return Config{
		WorkQueueCapacity: 4096,
		TaskCapacity:      4096,
		EdgeCapacity:      8192,
		CostModelCapacity: 4096,
		AccessSetCapacity: 4096,
		KernelPolicy: kernel.Policy{
			DefaultOrder:       []kernel.BackendID{kernel.BackendScalar, kernel.BackendSIMD, kernel.BackendGPU},
			StrictBackendMask:  uint32(kernel.BackendScalar),
			DerivedBackendMask: uint32(kernel.BackendAll),
		},
		ReplayValidationMode: replay.ModeStrict,
	}
}

// Builder provides a fluent interface for constructing a Config.
type Builder struct {
	cfg Config
	err error
}

// NewBuilder starts from DefaultConfig.
func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

func (b *Builder) WithWorkQueueCapacity(n int) *Builder {
	if b.err == nil {
		b.cfg.WorkQueueCapacity = n
	}
	return b
}

func (b *Builder) WithKernelPolicy(p kernel.Policy) *Builder {
	if b.err == nil {
		if code := p.Validate(); !code.Ok() {
			b.err = code
			return b
		}
		b.cfg.KernelPolicy = p
	}
	return b
}

func (b *Builder) WithReplayValidationMode(m replay.ValidationMode) *Builder {
	if b.err == nil {
		b.cfg.ReplayValidationMode = m
	}
	return b
}

// Build finalizes the configuration, returning the first error recorded
// by any With* call.
func (b *Builder) Build() (Config, error) {
	return b.cfg, b.err
}

// Marshal/Unmarshal round-trip the config as plain JSON; a host-facing,
// non-authoritative surface needs no bespoke format.
func (c Config) Marshal() ([]byte, error) { return json.MarshalIndent(c, "", "  ") }

func Unmarshal(data []byte) (Config, error) {
	var c Config
	err := json.Unmarshal(data, &c)
	return c, err
}
