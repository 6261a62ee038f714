package hal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/autopeer-io/roadsense/internal/node/peripheral"
	"github.com/autopeer-io/roadsense/internal/node/radio"
	"github.com/autopeer-io/roadsense/internal/pkg/util/wait"
	"github.com/autopeer-io/roadsense/pkg/log"
)

// MatrixSize is the pixel count of the simulated 8x8 thermal array.
const MatrixSize = 64

// ErrInjected is returned by slots configured to fail.
var ErrInjected = errors.New("injected failure")

// Scenario is what the simulated sensors report.
type Scenario struct {
	Distance           float64
	DeviceTemperature  float64
	AmbientTemperature float64
	// Matrix defaults to MatrixSize pixels at the ambient temperature.
	Matrix []float64

	FailSetup map[peripheral.Slot]bool
	Unhealthy map[peripheral.Slot]bool
}

// Op is a recorded component call.
type Op struct {
	Slot peripheral.Slot
	Name string
}

func (o Op) String() string { return fmt.Sprintf("%s.%s", o.Slot, o.Name) }

// Simulator is a development board without a sensor bus. It plays back a
// Scenario and records every call it receives.
type Simulator struct {
	clock  clock.Clock
	framer *radio.Framer

	mu       sync.Mutex
	scenario Scenario
	ops      []Op
	writes   [][]float64
	fanOn    bool
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithSimulatorClock sets the clock used for light pulses.
func WithSimulatorClock(clk clock.Clock) SimulatorOption {
	return func(s *Simulator) { s.clock = clk }
}

// WithFramer makes the simulated radio log the frames it would transmit.
func WithFramer(f radio.Framer) SimulatorOption {
	return func(s *Simulator) { s.framer = &f }
}

// NewSimulator returns a board playing sc.
func NewSimulator(sc Scenario, opts ...SimulatorOption) *Simulator {
	s := &Simulator{clock: clock.RealClock{}, scenario: sc}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Components returns the simulated peripherals. A non-nil r replaces the
// simulated radio.
func (s *Simulator) Components(r peripheral.Radio) peripheral.Components {
	c := peripheral.Components{
		Lighting:        &simLighting{base{s, peripheral.SlotLighting}},
		Imaging:         &simImaging{base{s, peripheral.SlotImaging}},
		Ranging:         &simRanging{base{s, peripheral.SlotRanging}},
		Radio:           &simRadio{base{s, peripheral.SlotRadio}},
		Thermometer:     &simThermometer{base{s, peripheral.SlotThermometer}},
		ThermalActuator: &simActuator{base{s, peripheral.SlotThermalActuator}},
	}
	if r != nil {
		c.Radio = r
	}
	return c
}

// Update changes the scenario in place.
func (s *Simulator) Update(fn func(*Scenario)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.scenario)
}

// Ops returns the recorded calls in order.
func (s *Simulator) Ops() []Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Op(nil), s.ops...)
}

// Count returns how many times slot.name was called.
func (s *Simulator) Count(slot peripheral.Slot, name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, op := range s.ops {
		if op.Slot == slot && op.Name == name {
			n++
		}
	}
	return n
}

// Writes returns the payloads handed to the simulated radio.
func (s *Simulator) Writes() [][]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]float64(nil), s.writes...)
}

// FanOn reports the actuator state.
func (s *Simulator) FanOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fanOn
}

func (s *Simulator) record(slot peripheral.Slot, name string) Scenario {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, Op{Slot: slot, Name: name})
	return s.scenario
}

type base struct {
	s    *Simulator
	slot peripheral.Slot
}

func (b base) Setup(context.Context) error {
	sc := b.s.record(b.slot, "setup")
	if sc.FailSetup[b.slot] {
		return fmt.Errorf("%s: %w", b.slot, ErrInjected)
	}
	return nil
}

func (b base) Heartbeat(context.Context) (bool, error) {
	sc := b.s.record(b.slot, "heartbeat")
	return !sc.Unhealthy[b.slot], nil
}

type simLighting struct{ base }

func (l *simLighting) Celebrate(context.Context) error {
	l.s.record(l.slot, "celebrate")
	return nil
}

func (l *simLighting) FailureSequence(context.Context) error {
	l.s.record(l.slot, "failure")
	return nil
}

func (l *simLighting) Pulse(ctx context.Context, indicator peripheral.Indicator, d time.Duration) error {
	l.s.record(l.slot, "pulse:"+string(indicator))
	return wait.Sleep(ctx, l.s.clock, d)
}

type simImaging struct{ base }

func (i *simImaging) TemperatureMatrix(context.Context) ([]float64, error) {
	sc := i.s.record(i.slot, "matrix")
	if sc.Matrix != nil {
		return append([]float64(nil), sc.Matrix...), nil
	}
	m := make([]float64, MatrixSize)
	for j := range m {
		m[j] = sc.AmbientTemperature
	}
	return m, nil
}

func (i *simImaging) AmbientTemperature(context.Context) (float64, error) {
	return i.s.record(i.slot, "ambient").AmbientTemperature, nil
}

type simRanging struct{ base }

func (r *simRanging) Distance(context.Context) (float64, error) {
	return r.s.record(r.slot, "distance").Distance, nil
}

type simRadio struct{ base }

func (r *simRadio) Write(_ context.Context, payload []float64, address int) error {
	r.s.record(r.slot, "write")

	r.s.mu.Lock()
	r.s.writes = append(r.s.writes, append([]float64(nil), payload...))
	r.s.mu.Unlock()

	if r.s.framer != nil {
		frame, err := r.s.framer.Frame(payload)
		if err != nil {
			return err
		}
		log.Info("Radio frame", "address", address, "frame", string(frame))
	}
	return nil
}

type simThermometer struct{ base }

func (t *simThermometer) Read(context.Context) (float64, error) {
	return t.s.record(t.slot, "read").DeviceTemperature, nil
}

type simActuator struct{ base }

func (a *simActuator) On() {
	a.s.record(a.slot, "on")
	a.s.mu.Lock()
	a.s.fanOn = true
	a.s.mu.Unlock()
}

func (a *simActuator) Off() {
	a.s.record(a.slot, "off")
	a.s.mu.Lock()
	a.s.fanOn = false
	a.s.mu.Unlock()
}
