package node

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"k8s.io/utils/clock"

	"github.com/autopeer-io/roadsense/internal/node/behavior"
	"github.com/autopeer-io/roadsense/internal/node/cycle"
	"github.com/autopeer-io/roadsense/internal/node/peripheral"
	"github.com/autopeer-io/roadsense/internal/node/server"
	"github.com/autopeer-io/roadsense/pkg/log"
)

// Node runs wake cycles: boot the peripherals, run the driver until it
// signals stop, park, and start over as if freshly powered on.
type Node struct {
	cfg      atomic.Pointer[Config]
	registry atomic.Pointer[peripheral.Registry]

	clock    clock.Clock
	hardware HardwareFactory
	power    cycle.Power
	server   *server.Server
}

// Option configures a Node.
type Option func(*Node)

// WithClock sets the clock used for every delay.
func WithClock(clk clock.Clock) Option {
	return func(n *Node) { n.clock = clk }
}

// WithHardware replaces the peripheral factory.
func WithHardware(f HardwareFactory) Option {
	return func(n *Node) { n.hardware = f }
}

// WithPower replaces the power primitive selected by the configuration.
func WithPower(p cycle.Power) Option {
	return func(n *Node) { n.power = p }
}

// NewNode returns a node for cfg.
func NewNode(cfg *Config, opts ...Option) (*Node, error) {
	if cfg == nil {
		return nil, errors.New("node config is required")
	}

	n := &Node{clock: clock.RealClock{}}
	for _, opt := range opts {
		opt(n)
	}
	if n.hardware == nil {
		n.hardware = simulatedHardware(n.clock)
	}
	if cfg.HttpOptions != nil && cfg.HttpOptions.Addr != "" {
		n.server = server.NewServer(cfg.HttpOptions, n.Ready)
	}
	n.cfg.Store(cfg)

	return n, nil
}

// Reconfigure replaces the configuration. It takes effect at the next wake.
func (n *Node) Reconfigure(cfg *Config) {
	n.cfg.Store(cfg)
	log.Info("Configuration updated, applying at next wake")
}

// Ready reports whether the current wake's peripherals are set up.
func (n *Node) Ready() bool {
	r := n.registry.Load()
	return r != nil && r.Ready()
}

// Run wakes, cycles and parks until ctx is done, or once if the power
// options say so.
func (n *Node) Run(ctx context.Context) error {
	if n.server != nil {
		go func() {
			if err := n.server.Start(ctx); err != nil {
				log.Error(err, "Diagnostics server stopped")
			}
		}()
	}

	for wake := 1; ; wake++ {
		cfg := n.cfg.Load()

		if err := n.wake(ctx, cfg, wake); err != nil {
			return err
		}
		if ctx.Err() != nil || cfg.PowerOptions.Once {
			log.Info("Sensor node stopped", "wakes", wake)
			return nil
		}
	}
}

// wake runs one boot-to-park period. Only power failures are returned; cycle
// errors end the wake early but never the process.
func (n *Node) wake(ctx context.Context, cfg *Config, wake int) error {
	bootID := uuid.New().String()
	logger := log.Logr().WithValues("node", cfg.NodeOptions.ID, "bootID", bootID, "wake", wake)
	ctx = logr.NewContext(ctx, logger)

	logger.Info("Node awake")

	release := func(context.Context) {}
	hw, err := n.hardware(ctx, cfg)
	if err != nil {
		logger.Error(err, "Failed to initialize hardware")
	} else {
		release = hw.Release
		n.runCycles(ctx, cfg, hw)
	}

	if ctx.Err() != nil {
		release(context.WithoutCancel(ctx))
		return nil
	}

	power := n.power
	if power == nil {
		if power, err = newPower(cfg.PowerOptions, n.clock); err != nil {
			return fmt.Errorf("failed to select power mode: %w", err)
		}
	}

	p := cycle.NewPowerCycle(power, cfg.PowerOptions.Grace, cfg.PowerOptions.SleepDuration,
		cycle.WithPowerClock(n.clock),
		cycle.WithFlush(release),
		cycle.WithFlush(func(context.Context) { _ = log.Sync() }),
	)
	if err := p.Park(ctx); err != nil {
		if ctx.Err() != nil {
			release(context.WithoutCancel(ctx))
			return nil
		}
		return fmt.Errorf("failed to park: %w", err)
	}
	n.registry.Store(nil)
	return nil
}

func (n *Node) runCycles(ctx context.Context, cfg *Config, hw *Hardware) {
	logger := logr.FromContextOrDiscard(ctx)

	registry, err := peripheral.NewRegistry(hw.Components)
	if err != nil {
		logger.Error(err, "Incomplete peripheral set")
		return
	}
	n.registry.Store(registry)

	settings := settingsFrom(cfg)
	vehicle := behavior.NewContext("vehicle", behavior.Boot{}, registry, settings, behavior.WithClock(n.clock))
	temperature := behavior.NewContext("temperature", behavior.TemperatureMonitor{}, registry, settings, behavior.WithClock(n.clock))

	driver := cycle.NewDriver(vehicle, temperature,
		cycle.WithTemperatureReset(cfg.CycleOptions.ResetTemperatureMonitor),
		cycle.WithDriverClock(n.clock),
	)

	cycles, err := driver.Run(ctx)
	if err != nil {
		logger.Info("Driver stopped on error", "cycles", cycles, "error", err.Error())
		return
	}
	logger.Info("Driver stopped", "cycles", cycles)
}

func settingsFrom(cfg *Config) behavior.Settings {
	return behavior.Settings{
		OverheatThreshold: cfg.CycleOptions.OverheatThreshold,
		FreezeThreshold:   cfg.CycleOptions.FreezeThreshold,
		Cooldown:          cfg.CycleOptions.Cooldown,
		IndicatorPulse:    cfg.CycleOptions.IndicatorPulse,
		RadioAddress:      cfg.NodeOptions.RadioAddress,
	}
}
