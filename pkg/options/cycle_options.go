package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*CycleOptions)(nil)

// CycleOptions holds the thresholds and durations of the behavior engine.
type CycleOptions struct {
	// OverheatThreshold in Celsius; readings at or above it start the fan.
	OverheatThreshold float64 `json:"overheat-threshold" mapstructure:"overheat-threshold"`

	// FreezeThreshold in Celsius; readings at or below it engage freeze protection.
	FreezeThreshold float64 `json:"freeze-threshold" mapstructure:"freeze-threshold"`

	// Cooldown is how long overheat protection keeps the actuator on.
	Cooldown time.Duration `json:"cooldown" mapstructure:"cooldown"`

	// IndicatorPulse is how long the vehicle indicator stays lit after an uplink.
	IndicatorPulse time.Duration `json:"indicator-pulse" mapstructure:"indicator-pulse"`

	// ResetTemperatureMonitor re-roots the temperature context at
	// TemperatureMonitor after a continuing cycle. Off by default: the
	// temperature context keeps the protection state it last reached.
	ResetTemperatureMonitor bool `json:"reset-temperature-monitor" mapstructure:"reset-temperature-monitor"`
}

// NewCycleOptions creates a CycleOptions with default values.
func NewCycleOptions() *CycleOptions {
	return &CycleOptions{
		OverheatThreshold: 35,
		FreezeThreshold:   1,
		Cooldown:          5 * time.Minute,
		IndicatorPulse:    250 * time.Millisecond,
	}
}

func (o *CycleOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error

	if o.FreezeThreshold >= o.OverheatThreshold {
		errs = append(errs, fmt.Errorf("cycle.freeze-threshold (%v) must be below cycle.overheat-threshold (%v)",
			o.FreezeThreshold, o.OverheatThreshold))
	}
	if o.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("cycle.cooldown must not be negative"))
	}
	if o.IndicatorPulse < 0 {
		errs = append(errs, fmt.Errorf("cycle.indicator-pulse must not be negative"))
	}

	return errs
}

func (o *CycleOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.Float64Var(&o.OverheatThreshold, "cycle.overheat-threshold", o.OverheatThreshold, "Device temperature (C) at or above which overheat protection runs.")
	fs.Float64Var(&o.FreezeThreshold, "cycle.freeze-threshold", o.FreezeThreshold, "Device temperature (C) at or below which freeze protection runs.")
	fs.DurationVar(&o.Cooldown, "cycle.cooldown", o.Cooldown, "How long overheat protection keeps the thermal actuator on.")
	fs.DurationVar(&o.IndicatorPulse, "cycle.indicator-pulse", o.IndicatorPulse, "How long the vehicle indicator is lit after a detection uplink.")
	fs.BoolVar(&o.ResetTemperatureMonitor, "cycle.reset-temperature-monitor", o.ResetTemperatureMonitor,
		"Re-root the temperature context at TemperatureMonitor after a continuing cycle.")
}
