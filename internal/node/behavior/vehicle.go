package behavior

import (
	"context"
	"fmt"
	"math"

	"github.com/go-logr/logr"

	"github.com/autopeer-io/roadsense/internal/node/peripheral"
)

func (c *Context) monitorVehicle(ctx context.Context) (bool, error) {
	distance, err := c.registry.Distance(ctx)
	if err != nil {
		return false, fmt.Errorf("read distance: %w", err)
	}
	if distance == 0 {
		return false, nil
	}

	logr.FromContextOrDiscard(ctx).Info("Vehicle detected", "context", c.name, "distance", distance)
	c.Defer(VehicleDetected{})
	return true, nil
}

func (c *Context) reportVehicle(ctx context.Context) (bool, error) {
	matrix, err := c.registry.TemperatureMatrix(ctx)
	if err != nil {
		return false, fmt.Errorf("read temperature matrix: %w", err)
	}
	ambient, err := c.registry.AmbientTemperature(ctx)
	if err != nil {
		return false, fmt.Errorf("read ambient temperature: %w", err)
	}
	distance, err := c.registry.Distance(ctx)
	if err != nil {
		return false, fmt.Errorf("read distance: %w", err)
	}

	payload := Payload(distance, ambient, matrix)
	if err := c.registry.Write(ctx, payload, c.settings.RadioAddress); err != nil {
		return false, fmt.Errorf("transmit detection: %w", err)
	}
	logr.FromContextOrDiscard(ctx).Info("Detection transmitted",
		"context", c.name, "distance", distance, "ambient", ambient, "values", len(payload))

	if err := c.registry.Pulse(ctx, peripheral.IndicatorVehicle, c.settings.IndicatorPulse); err != nil {
		return false, fmt.Errorf("pulse vehicle indicator: %w", err)
	}
	return true, nil
}

// Payload assembles a detection payload: distance, ambient temperature, then
// the matrix with each pixel truncated to whole degrees.
func Payload(distance, ambient float64, matrix []float64) []float64 {
	out := make([]float64, 0, len(matrix)+2)
	out = append(out, distance, ambient)
	for _, v := range matrix {
		out = append(out, math.Trunc(v))
	}
	return out
}
