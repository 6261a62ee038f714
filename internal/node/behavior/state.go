package behavior

// Kind tags a behavior state.
type Kind string

const (
	KindBoot               Kind = "boot"
	KindVehicleMonitor     Kind = "vehicle-monitor"
	KindVehicleDetected    Kind = "vehicle-detected"
	KindTemperatureMonitor Kind = "temperature-monitor"
	KindOverheatProtection Kind = "overheat-protection"
	KindFreezeProtection   Kind = "freeze-protection"
)

// State is the mode a control context is in. The set of states is closed:
// only the types in this file implement it.
type State interface {
	Kind() Kind
	isState()
}

// Boot sets up and checks the peripherals. It is the initial state of the
// vehicle context after every wake.
type Boot struct{}

// VehicleMonitor polls the ranging sensor.
type VehicleMonitor struct{}

// VehicleDetected captures a thermal snapshot and transmits it.
type VehicleDetected struct {
	// Owner is the context the state runs in. It is bound on transition.
	Owner *Context
}

// TemperatureMonitor compares the enclosure temperature with the thresholds.
type TemperatureMonitor struct{}

// OverheatProtection runs the fan for the cooldown period.
type OverheatProtection struct{}

// FreezeProtection is reserved for a heater; it does nothing yet.
type FreezeProtection struct{}

func (Boot) Kind() Kind               { return KindBoot }
func (VehicleMonitor) Kind() Kind     { return KindVehicleMonitor }
func (VehicleDetected) Kind() Kind    { return KindVehicleDetected }
func (TemperatureMonitor) Kind() Kind { return KindTemperatureMonitor }
func (OverheatProtection) Kind() Kind { return KindOverheatProtection }
func (FreezeProtection) Kind() Kind   { return KindFreezeProtection }

func (Boot) isState()               {}
func (VehicleMonitor) isState()     {}
func (VehicleDetected) isState()    {}
func (TemperatureMonitor) isState() {}
func (OverheatProtection) isState() {}
func (FreezeProtection) isState()   {}

// bind returns s with its back-reference set to c.
func bind(s State, c *Context) State {
	if d, ok := s.(VehicleDetected); ok {
		d.Owner = c
		return d
	}
	return s
}
