package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

const (
	// PowerModeSimulated parks the node by sleeping in-process.
	PowerModeSimulated = "simulated"
	// PowerModeSuspend suspends the host to RAM with an RTC wake alarm (linux only).
	PowerModeSuspend = "suspend"
)

var _ IOptions = (*PowerOptions)(nil)

// PowerOptions configures the power-down sequence after the last cycle.
type PowerOptions struct {
	// Mode selects the power primitive.
	Mode string `json:"mode" mapstructure:"mode"`

	// Grace is the delay before parking, letting uplinks and logs flush.
	Grace time.Duration `json:"grace" mapstructure:"grace"`

	// SleepDuration is how long the node stays in the low-power state.
	SleepDuration time.Duration `json:"sleep-duration" mapstructure:"sleep-duration"`

	// RTCDevice is the sysfs directory of the wake-capable RTC (suspend mode).
	RTCDevice string `json:"rtc-device" mapstructure:"rtc-device"`

	// Once stops the process after the first park instead of waking again.
	Once bool `json:"once" mapstructure:"once"`
}

// NewPowerOptions creates a PowerOptions with default values.
func NewPowerOptions() *PowerOptions {
	return &PowerOptions{
		Mode:          PowerModeSimulated,
		Grace:         5 * time.Second,
		SleepDuration: 3 * time.Second,
		RTCDevice:     "/sys/class/rtc/rtc0",
	}
}

func (o *PowerOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error

	if o.Mode != PowerModeSimulated && o.Mode != PowerModeSuspend {
		errs = append(errs, fmt.Errorf("power.mode must be %q or %q, got %q", PowerModeSimulated, PowerModeSuspend, o.Mode))
	}
	if o.Grace < 0 {
		errs = append(errs, fmt.Errorf("power.grace must not be negative"))
	}
	if o.SleepDuration <= 0 {
		errs = append(errs, fmt.Errorf("power.sleep-duration must be positive"))
	}
	if o.Mode == PowerModeSuspend && o.SleepDuration < time.Second {
		errs = append(errs, fmt.Errorf("power.sleep-duration must be at least 1s in suspend mode"))
	}

	return errs
}

func (o *PowerOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Mode, "power.mode", o.Mode, "Power primitive: 'simulated' or 'suspend'.")
	fs.DurationVar(&o.Grace, "power.grace", o.Grace, "Delay before parking so pending uplinks and logs can flush.")
	fs.DurationVar(&o.SleepDuration, "power.sleep-duration", o.SleepDuration, "Duration of the low-power state.")
	fs.StringVar(&o.RTCDevice, "power.rtc-device", o.RTCDevice, "Sysfs directory of the RTC used as wake source.")
	fs.BoolVar(&o.Once, "power.once", o.Once, "Exit after the first power-down instead of waking again.")
}
