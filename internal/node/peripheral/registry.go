package peripheral

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/autopeer-io/roadsense/internal/pkg/metrics"
)

// Slot identifies a peripheral position in the registry.
type Slot int

// Slots in setup and heartbeat order.
const (
	SlotLighting Slot = iota
	SlotImaging
	SlotRanging
	SlotRadio
	SlotThermometer
	SlotThermalActuator

	slotCount
)

var slotNames = [slotCount]string{
	SlotLighting:        "lighting",
	SlotImaging:         "imaging",
	SlotRanging:         "ranging",
	SlotRadio:           "radio",
	SlotThermometer:     "thermometer",
	SlotThermalActuator: "thermal-actuator",
}

func (s Slot) String() string {
	if s < 0 || s >= slotCount {
		return fmt.Sprintf("slot(%d)", int(s))
	}
	return slotNames[s]
}

// Slots returns every slot in order.
func Slots() []Slot {
	out := make([]Slot, 0, slotCount)
	for s := Slot(0); s < slotCount; s++ {
		out = append(out, s)
	}
	return out
}

// ParseSlot returns the slot with the given name.
func ParseSlot(name string) (Slot, error) {
	for s, n := range slotNames {
		if n == name {
			return Slot(s), nil
		}
	}
	return 0, fmt.Errorf("unknown peripheral slot %q", name)
}

// Registry owns the peripherals of a node. Both control contexts share one
// registry; capability calls go through it so that a component method is
// never entered while another call to the same component is in progress.
type Registry struct {
	c     Components
	slots [slotCount]Component
	locks [slotCount]sync.Mutex

	setupMu sync.Mutex
	ready   atomic.Bool
}

// NewRegistry returns a registry over c. Every slot must be populated.
func NewRegistry(c Components) (*Registry, error) {
	r := &Registry{c: c}

	r.slots = [slotCount]Component{
		SlotLighting:        c.Lighting,
		SlotImaging:         c.Imaging,
		SlotRanging:         c.Ranging,
		SlotRadio:           c.Radio,
		SlotThermometer:     c.Thermometer,
		SlotThermalActuator: c.ThermalActuator,
	}

	var missing []error
	for s, comp := range r.slots {
		if comp == nil {
			missing = append(missing, fmt.Errorf("%s: component is required", Slot(s)))
		}
	}
	if len(missing) > 0 {
		return nil, utilerrors.NewAggregate(missing)
	}

	return r, nil
}

// Ready reports whether Setup has completed successfully.
func (r *Registry) Ready() bool {
	return r.ready.Load()
}

// Setup initializes every component in slot order. Failures do not stop the
// sequence; all of them are returned as one aggregate of *SetupError. Once a
// Setup has succeeded, later calls return nil without touching the components.
func (r *Registry) Setup(ctx context.Context) error {
	r.setupMu.Lock()
	defer r.setupMu.Unlock()

	if r.ready.Load() {
		return nil
	}

	logger := logr.FromContextOrDiscard(ctx).WithName("peripheral")

	var errs []error
	for s := Slot(0); s < slotCount; s++ {
		err := r.with(s, func() error { return r.slots[s].Setup(ctx) })
		if err != nil {
			metrics.PeripheralSetupFailures.WithLabelValues(s.String()).Inc()
			logger.Error(err, "Peripheral setup failed", "slot", s)
			errs = append(errs, &SetupError{Slot: s, Err: err})
			continue
		}
		logger.V(1).Info("Peripheral ready", "slot", s)
	}

	if len(errs) > 0 {
		metrics.PeripheralReady.Set(0)
		return utilerrors.NewAggregate(errs)
	}

	r.ready.Store(true)
	metrics.PeripheralReady.Set(1)
	logger.Info("All peripherals ready")
	return nil
}

// Heartbeat checks every component in slot order and stops at the first one
// that is unhealthy or fails. A failing heartbeat is returned as *HeartbeatError.
func (r *Registry) Heartbeat(ctx context.Context) (bool, error) {
	logger := logr.FromContextOrDiscard(ctx).WithName("peripheral")

	for s := Slot(0); s < slotCount; s++ {
		healthy, err := r.heartbeat(ctx, s)
		metrics.PeripheralHealthy.WithLabelValues(s.String()).Set(metrics.BoolValue(healthy && err == nil))
		if err != nil {
			logger.Error(err, "Peripheral heartbeat failed", "slot", s)
			return false, &HeartbeatError{Slot: s, Err: err}
		}
		if !healthy {
			logger.Info("Peripheral unhealthy", "slot", s)
			return false, nil
		}
	}
	return true, nil
}

// Status is the heartbeat outcome of a single slot.
type Status struct {
	Slot    Slot
	Healthy bool
	Err     error
}

// Report heartbeats every slot regardless of earlier failures. It is meant
// for diagnostics; the boot path uses Heartbeat.
func (r *Registry) Report(ctx context.Context) []Status {
	out := make([]Status, 0, slotCount)
	for s := Slot(0); s < slotCount; s++ {
		healthy, err := r.heartbeat(ctx, s)
		out = append(out, Status{Slot: s, Healthy: healthy && err == nil, Err: err})
	}
	return out
}

func (r *Registry) heartbeat(ctx context.Context, s Slot) (healthy bool, err error) {
	err = r.with(s, func() error {
		var herr error
		healthy, herr = r.slots[s].Heartbeat(ctx)
		return herr
	})
	return healthy, err
}

// with runs fn while holding the slot's lock.
func (r *Registry) with(s Slot, fn func() error) error {
	r.locks[s].Lock()
	defer r.locks[s].Unlock()
	return fn()
}

// --- Capability accessors ---

func (r *Registry) Celebrate(ctx context.Context) error {
	return r.with(SlotLighting, func() error { return r.c.Lighting.Celebrate(ctx) })
}

func (r *Registry) FailureSequence(ctx context.Context) error {
	return r.with(SlotLighting, func() error { return r.c.Lighting.FailureSequence(ctx) })
}

func (r *Registry) Pulse(ctx context.Context, indicator Indicator, d time.Duration) error {
	return r.with(SlotLighting, func() error { return r.c.Lighting.Pulse(ctx, indicator, d) })
}

func (r *Registry) TemperatureMatrix(ctx context.Context) (m []float64, err error) {
	err = r.with(SlotImaging, func() error {
		m, err = r.c.Imaging.TemperatureMatrix(ctx)
		return err
	})
	return m, err
}

func (r *Registry) AmbientTemperature(ctx context.Context) (t float64, err error) {
	err = r.with(SlotImaging, func() error {
		t, err = r.c.Imaging.AmbientTemperature(ctx)
		return err
	})
	return t, err
}

func (r *Registry) Distance(ctx context.Context) (d float64, err error) {
	err = r.with(SlotRanging, func() error {
		d, err = r.c.Ranging.Distance(ctx)
		return err
	})
	return d, err
}

func (r *Registry) Write(ctx context.Context, payload []float64, address int) error {
	err := r.with(SlotRadio, func() error { return r.c.Radio.Write(ctx, payload, address) })
	if err != nil {
		metrics.RadioFrames.WithLabelValues("failed").Inc()
		return err
	}
	metrics.RadioFrames.WithLabelValues("success").Inc()
	return nil
}

func (r *Registry) DeviceTemperature(ctx context.Context) (t float64, err error) {
	err = r.with(SlotThermometer, func() error {
		t, err = r.c.Thermometer.Read(ctx)
		return err
	})
	return t, err
}

func (r *Registry) ActuatorOn() {
	_ = r.with(SlotThermalActuator, func() error { r.c.ThermalActuator.On(); return nil })
}

func (r *Registry) ActuatorOff() {
	_ = r.with(SlotThermalActuator, func() error { r.c.ThermalActuator.Off(); return nil })
}
