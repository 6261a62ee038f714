package behavior

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"

	"github.com/autopeer-io/roadsense/internal/node/peripheral"
)

// Settings holds the thresholds and timings the states act on.
type Settings struct {
	// OverheatThreshold in Celsius, inclusive.
	OverheatThreshold float64
	// FreezeThreshold in Celsius, inclusive.
	FreezeThreshold float64
	// Cooldown is how long the fan runs once overheat protection starts.
	Cooldown time.Duration
	// IndicatorPulse is how long the vehicle indicator is lit after an uplink.
	IndicatorPulse time.Duration
	// RadioAddress is the destination of detection payloads.
	RadioAddress int
}

// DefaultSettings returns the production thresholds.
func DefaultSettings() Settings {
	return Settings{
		OverheatThreshold: 35,
		FreezeThreshold:   1,
		Cooldown:          5 * time.Minute,
		IndicatorPulse:    250 * time.Millisecond,
	}
}

// Context owns the current state of one monitoring chain together with the
// actions that state deferred during the current cycle.
type Context struct {
	name     string
	registry *peripheral.Registry
	settings Settings
	clock    clock.Clock

	mu      sync.Mutex
	current State
	machine *machine
	queue   []Action
}

// Option configures a Context.
type Option func(*Context)

// WithClock replaces the real clock, for tests.
func WithClock(clk clock.Clock) Option {
	return func(c *Context) {
		c.clock = clk
	}
}

// NewContext returns a context named name, rooted at initial, operating on registry.
// The registry is shared, not owned.
func NewContext(name string, initial State, registry *peripheral.Registry, settings Settings, opts ...Option) *Context {
	c := &Context{
		name:     name,
		registry: registry,
		settings: settings,
		clock:    clock.RealClock{},
		machine:  newMachine(name, initial.Kind()),
	}
	c.current = bind(initial, c)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the context name used in logs and metrics.
func (c *Context) Name() string { return c.name }

// Current returns the current state.
func (c *Context) Current() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Start clears the deferred queue and re-enters the current state.
func (c *Context) Start(ctx context.Context) (bool, error) {
	c.mu.Lock()
	c.queue = nil
	current := c.current
	c.mu.Unlock()

	return c.TransitionTo(ctx, current)
}

// TransitionTo replaces the current state with next and runs it, returning its
// result. The previous state is dropped.
func (c *Context) TransitionTo(ctx context.Context, next State) (bool, error) {
	c.mu.Lock()
	if err := c.machine.advance(ctx, next.Kind()); err != nil {
		c.mu.Unlock()
		return false, err
	}
	next = bind(next, c)
	c.current = next
	c.mu.Unlock()

	logr.FromContextOrDiscard(ctx).V(1).Info("Entering state", "context", c.name, "state", next.Kind())
	return c.run(ctx, next)
}

// Reset replaces the current state without running it.
func (c *Context) Reset(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.machine.reset(s.Kind())
	c.current = bind(s, c)
}

// Defer queues a transition to next, to be run when the cycle drains.
func (c *Context) Defer(next State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = append(c.queue, Action{
		Context: c.name,
		Target:  next.Kind(),
		run: func(ctx context.Context) error {
			_, err := c.TransitionTo(ctx, next)
			return err
		},
	})
}

// Actions returns the actions deferred since the last Start.
func (c *Context) Actions() []Action {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Action(nil), c.queue...)
}

func (c *Context) run(ctx context.Context, s State) (bool, error) {
	switch s := s.(type) {
	case Boot:
		return c.boot(ctx)
	case VehicleMonitor:
		return c.monitorVehicle(ctx)
	case VehicleDetected:
		return s.Owner.reportVehicle(ctx)
	case TemperatureMonitor:
		return c.monitorTemperature(ctx)
	case OverheatProtection:
		return c.protectOverheat(ctx)
	case FreezeProtection:
		return c.protectFreeze(ctx)
	}
	return false, fmt.Errorf("%s: unknown state %T", c.name, s)
}
