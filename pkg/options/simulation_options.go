package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Slot names accepted by the failure injection flags.
var slotNames = map[string]bool{
	"lighting":         true,
	"imaging":          true,
	"ranging":          true,
	"radio":            true,
	"thermometer":      true,
	"thermal-actuator": true,
}

var _ IOptions = (*SimulationOptions)(nil)

// SimulationOptions drives the simulated peripherals used on development
// hosts, where no sensor bus is attached.
type SimulationOptions struct {
	// Distance reported by the ranging sensor; 0 means nothing in range.
	Distance float64 `json:"distance" mapstructure:"distance"`

	// DeviceTemperature reported by the thermometer in Celsius.
	DeviceTemperature float64 `json:"device-temperature" mapstructure:"device-temperature"`

	// AmbientTemperature reported by the thermal camera's thermistor.
	AmbientTemperature float64 `json:"ambient-temperature" mapstructure:"ambient-temperature"`

	// FailSetup lists slots whose setup fails.
	FailSetup []string `json:"fail-setup" mapstructure:"fail-setup"`

	// Unhealthy lists slots whose heartbeat reports unhealthy.
	Unhealthy []string `json:"unhealthy" mapstructure:"unhealthy"`
}

// NewSimulationOptions creates a SimulationOptions with default values.
func NewSimulationOptions() *SimulationOptions {
	return &SimulationOptions{
		Distance:           0,
		DeviceTemperature:  20,
		AmbientTemperature: 21.5,
	}
}

func (o *SimulationOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error

	if o.Distance < 0 {
		errs = append(errs, fmt.Errorf("sim.distance must not be negative"))
	}
	for _, s := range append(append([]string{}, o.FailSetup...), o.Unhealthy...) {
		if !slotNames[s] {
			errs = append(errs, fmt.Errorf("unknown peripheral slot %q", s))
		}
	}

	return errs
}

func (o *SimulationOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.Float64Var(&o.Distance, "sim.distance", o.Distance, "Distance reported by the simulated ranging sensor (0 = nothing detected).")
	fs.Float64Var(&o.DeviceTemperature, "sim.device-temperature", o.DeviceTemperature, "Temperature (C) reported by the simulated thermometer.")
	fs.Float64Var(&o.AmbientTemperature, "sim.ambient-temperature", o.AmbientTemperature, "Ambient temperature (C) reported by the simulated thermal camera.")
	fs.StringSliceVar(&o.FailSetup, "sim.fail-setup", o.FailSetup, "Peripheral slots whose setup fails.")
	fs.StringSliceVar(&o.Unhealthy, "sim.unhealthy", o.Unhealthy, "Peripheral slots whose heartbeat reports unhealthy.")
}
