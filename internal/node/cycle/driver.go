package cycle

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"

	"github.com/autopeer-io/roadsense/internal/node/behavior"
	"github.com/autopeer-io/roadsense/internal/pkg/metrics"
)

// Driver runs the vehicle and temperature contexts once per cycle and
// decides whether the node stays awake.
type Driver struct {
	vehicle     *behavior.Context
	temperature *behavior.Context

	resetTemperature bool
	clock            clock.PassiveClock
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithTemperatureReset makes a continuing cycle also re-root the temperature
// context at TemperatureMonitor. Without it the temperature context re-enters
// the protection state it last reached.
func WithTemperatureReset(enabled bool) DriverOption {
	return func(d *Driver) { d.resetTemperature = enabled }
}

// WithDriverClock sets the clock used to time cycles.
func WithDriverClock(clk clock.PassiveClock) DriverOption {
	return func(d *Driver) { d.clock = clk }
}

// NewDriver returns a driver over the two root contexts.
func NewDriver(vehicle, temperature *behavior.Context, opts ...DriverOption) *Driver {
	d := &Driver{
		vehicle:     vehicle,
		temperature: temperature,
		clock:       clock.RealClock{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RunCycle runs one cycle and reports whether another should follow. An
// error from either context or from a deferred action ends the cycle with a
// stop decision; the error is logged and returned for the caller's records.
func (d *Driver) RunCycle(ctx context.Context) (bool, error) {
	logger := logr.FromContextOrDiscard(ctx).WithName("driver")
	start := d.clock.Now()

	next, err := d.runCycle(ctx)
	metrics.CycleDuration.Observe(d.clock.Since(start).Seconds())

	if err != nil {
		logger.Error(err, "Cycle failed, stopping")
		metrics.Cycles.WithLabelValues("stop").Inc()
		return false, err
	}
	if !next {
		logger.Info("Nothing to do, stopping")
		metrics.Cycles.WithLabelValues("stop").Inc()
		return false, nil
	}

	d.vehicle.Reset(behavior.VehicleMonitor{})
	if d.resetTemperature {
		d.temperature.Reset(behavior.TemperatureMonitor{})
	}
	metrics.Cycles.WithLabelValues("continue").Inc()
	logger.V(1).Info("Cycle complete, continuing", "took", d.clock.Since(start).Round(time.Millisecond))
	return true, nil
}

func (d *Driver) runCycle(ctx context.Context) (bool, error) {
	vehicleOK, err := d.vehicle.Start(ctx)
	if err != nil {
		return false, err
	}
	temperatureOK, err := d.temperature.Start(ctx)
	if err != nil {
		return false, err
	}

	actions := append(d.vehicle.Actions(), d.temperature.Actions()...)
	if err := behavior.Drain(ctx, actions...); err != nil {
		return false, err
	}

	return vehicleOK || temperatureOK, nil
}

// Run repeats RunCycle until a cycle signals stop or ctx is done. It returns
// the number of cycles run and the error of the last one.
func (d *Driver) Run(ctx context.Context) (int, error) {
	cycles := 0
	for {
		if err := ctx.Err(); err != nil {
			return cycles, err
		}
		cycles++
		next, err := d.RunCycle(ctx)
		if !next {
			return cycles, err
		}
	}
}
