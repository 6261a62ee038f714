package peripheral

import (
	"context"
	"time"
)

// Component is the contract every peripheral implements.
type Component interface {
	// Setup initializes the device. It is called at most once per successful boot.
	Setup(ctx context.Context) error

	// Heartbeat reports whether the device is operable. An error counts as unhealthy.
	Heartbeat(ctx context.Context) (bool, error)
}

// Indicator names a light on the lighting component.
type Indicator string

const (
	// IndicatorVehicle is pulsed after a detection was handed to the radio.
	IndicatorVehicle Indicator = "vehicle"
	// IndicatorStatus shows the boot animations.
	IndicatorStatus Indicator = "status"
)

// Lighting drives the indicator lights.
type Lighting interface {
	Component
	// Celebrate plays the success animation.
	Celebrate(ctx context.Context) error
	// FailureSequence plays the failure animation.
	FailureSequence(ctx context.Context) error
	// Pulse lights an indicator for d.
	Pulse(ctx context.Context, indicator Indicator, d time.Duration) error
}

// Imaging is the thermal camera.
type Imaging interface {
	Component
	// TemperatureMatrix returns the pixel temperatures in row-major order.
	// The length is fixed by the sensor.
	TemperatureMatrix(ctx context.Context) ([]float64, error)
	// AmbientTemperature returns the on-board thermistor reading.
	AmbientTemperature(ctx context.Context) (float64, error)
}

// Ranging is the proximity sensor.
type Ranging interface {
	Component
	// Distance returns the measured distance. 0 means nothing detected.
	Distance(ctx context.Context) (float64, error)
}

// Radio transmits payloads to the collector.
type Radio interface {
	Component
	// Write transmits payload to address. Framing is up to the implementation.
	Write(ctx context.Context, payload []float64, address int) error
}

// Thermometer measures the enclosure temperature in Celsius.
type Thermometer interface {
	Component
	Read(ctx context.Context) (float64, error)
}

// ThermalActuator is the fan cooling the enclosure.
type ThermalActuator interface {
	Component
	On()
	Off()
}

// Components is the full set of peripherals of one node.
type Components struct {
	Lighting        Lighting
	Imaging         Imaging
	Ranging         Ranging
	Radio           Radio
	Thermometer     Thermometer
	ThermalActuator ThermalActuator
}
