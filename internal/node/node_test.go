package node

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/roadsense/internal/node/hal"
	"github.com/autopeer-io/roadsense/internal/node/peripheral"
	"github.com/autopeer-io/roadsense/pkg/options"
)

func testConfig() *Config {
	cfg := &Config{
		NodeOptions:       options.NewNodeOptions(),
		CycleOptions:      options.NewCycleOptions(),
		PowerOptions:      options.NewPowerOptions(),
		SimulationOptions: options.NewSimulationOptions(),
		MqttOptions:       options.NewMqttOptions(),
		HttpOptions:       options.NewHttpOptions(),
	}
	cfg.CycleOptions.Cooldown = 0
	cfg.CycleOptions.IndicatorPulse = 0
	cfg.PowerOptions.Grace = 0
	cfg.PowerOptions.Once = true
	return cfg
}

type fakePower struct {
	mu      sync.Mutex
	calls   int
	onSleep func(call int)
}

func (p *fakePower) Sleep(context.Context, time.Duration) error {
	p.mu.Lock()
	p.calls++
	call := p.calls
	p.mu.Unlock()
	if p.onSleep != nil {
		p.onSleep(call)
	}
	return nil
}

func (p *fakePower) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type board struct {
	mu   sync.Mutex
	sims []*hal.Simulator
	cfgs []*Config
	sc   hal.Scenario
}

func (b *board) factory(_ context.Context, cfg *Config) (*Hardware, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sim := hal.NewSimulator(b.sc)
	b.sims = append(b.sims, sim)
	b.cfgs = append(b.cfgs, cfg)
	return &Hardware{Components: sim.Components(nil), Release: func(context.Context) {}}, nil
}

func (b *board) wakes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sims)
}

func TestRunParksOnceWhenIdle(t *testing.T) {
	b := &board{sc: hal.Scenario{DeviceTemperature: 20}}
	power := &fakePower{}
	n, err := NewNode(testConfig(), WithHardware(b.factory), WithPower(power))
	require.NoError(t, err)

	require.NoError(t, n.Run(context.Background()))
	assert.Equal(t, 1, power.count())
	assert.Equal(t, 1, b.wakes())
	assert.Equal(t, 1, b.sims[0].Count(peripheral.SlotLighting, "celebrate"))
}

func TestRunStartsOverAfterPark(t *testing.T) {
	cfg := testConfig()
	cfg.PowerOptions.Once = false

	b := &board{sc: hal.Scenario{DeviceTemperature: 20}}
	power := &fakePower{}
	n, err := NewNode(cfg, WithHardware(b.factory), WithPower(power))
	require.NoError(t, err)

	next := testConfig()
	next.NodeOptions.ID = "rs-node-002"
	power.onSleep = func(call int) {
		if call == 2 {
			n.Reconfigure(next)
		}
	}

	require.NoError(t, n.Run(context.Background()))
	assert.Equal(t, 3, power.count())
	require.Equal(t, 3, b.wakes())

	// every wake boots a fresh board
	for _, sim := range b.sims {
		assert.Equal(t, 1, sim.Count(peripheral.SlotLighting, "setup"))
	}
	assert.Equal(t, "rs-node-002", b.cfgs[2].NodeOptions.ID)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.PowerOptions.Once = false

	b := &board{sc: hal.Scenario{Distance: 150, DeviceTemperature: 20}}
	power := &fakePower{}
	n, err := NewNode(cfg, WithHardware(b.factory), WithPower(power))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		assert.Eventually(t, func() bool {
			b.mu.Lock()
			defer b.mu.Unlock()
			return len(b.sims) == 1 && len(b.sims[0].Writes()) >= 2
		}, 5*time.Second, time.Millisecond)
		cancel()
	}()

	require.NoError(t, n.Run(ctx))
	assert.Zero(t, power.count())
}

func TestRunParksWhenHardwareFails(t *testing.T) {
	power := &fakePower{}
	broken := func(context.Context, *Config) (*Hardware, error) {
		return nil, errors.New("no i2c bus")
	}
	n, err := NewNode(testConfig(), WithHardware(broken), WithPower(power))
	require.NoError(t, err)

	require.NoError(t, n.Run(context.Background()))
	assert.Equal(t, 1, power.count())
	assert.False(t, n.Ready())
}

func TestSelfCheckWithSimulatedHardware(t *testing.T) {
	cfg := testConfig()
	cfg.SimulationOptions.FailSetup = []string{"imaging"}
	cfg.SimulationOptions.Unhealthy = []string{"radio"}

	n, err := cfg.NewNode()
	require.NoError(t, err)

	report, err := n.SelfCheck(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, hal.ErrInjected)
	require.Len(t, report, len(peripheral.Slots()))
	assert.False(t, report[peripheral.SlotRadio].Healthy)
	assert.True(t, report[peripheral.SlotImaging].Healthy)
}

func TestNewPower(t *testing.T) {
	o := options.NewPowerOptions()
	p, err := newPower(o, nil)
	require.NoError(t, err)
	assert.IsType(t, &hal.SimulatedPower{}, p)

	o.Mode = options.PowerModeSuspend
	o.RTCDevice = t.TempDir()
	_, err = newPower(o, nil)
	assert.Error(t, err)

	o.Mode = "hibernate"
	_, err = newPower(o, nil)
	assert.Error(t, err)
}

func TestScenarioFromOptions(t *testing.T) {
	o := options.NewSimulationOptions()
	o.FailSetup = []string{"ranging"}
	sc, err := scenario(o)
	require.NoError(t, err)
	assert.True(t, sc.FailSetup[peripheral.SlotRanging])

	o.Unhealthy = []string{"lidar"}
	_, err = scenario(o)
	assert.Error(t, err)
}
