package behavior

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/autopeer-io/roadsense/internal/pkg/util/wait"
)

func (c *Context) monitorTemperature(ctx context.Context) (bool, error) {
	t, err := c.registry.DeviceTemperature(ctx)
	if err != nil {
		return false, fmt.Errorf("read device temperature: %w", err)
	}

	logger := logr.FromContextOrDiscard(ctx).WithValues("context", c.name, "temperature", t)
	switch {
	case t >= c.settings.OverheatThreshold:
		logger.Info("Device overheating", "threshold", c.settings.OverheatThreshold)
		c.Defer(OverheatProtection{})
		return true, nil
	case t <= c.settings.FreezeThreshold:
		logger.Info("Device freezing", "threshold", c.settings.FreezeThreshold)
		c.Defer(FreezeProtection{})
		return true, nil
	}
	logger.V(1).Info("Device temperature nominal")
	return false, nil
}

func (c *Context) protectOverheat(ctx context.Context) (bool, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("context", c.name)

	c.registry.ActuatorOn()
	defer func() {
		c.registry.ActuatorOff()
		logger.Info("Thermal actuator off")
	}()
	logger.Info("Thermal actuator on", "cooldown", c.settings.Cooldown)

	if err := wait.Sleep(ctx, c.clock, c.settings.Cooldown); err != nil {
		return false, fmt.Errorf("cooldown interrupted: %w", err)
	}
	return true, nil
}

func (c *Context) protectFreeze(ctx context.Context) (bool, error) {
	logr.FromContextOrDiscard(ctx).V(1).Info("Freeze protection has no actuator", "context", c.name)
	return true, nil
}
