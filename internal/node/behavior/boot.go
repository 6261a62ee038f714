package behavior

import (
	"context"

	"github.com/go-logr/logr"
)

func (c *Context) boot(ctx context.Context) (bool, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("context", c.name)

	if err := c.registry.Setup(ctx); err != nil {
		c.indicateFailure(ctx, logger)
		return false, err
	}

	healthy, err := c.registry.Heartbeat(ctx)
	if err != nil || !healthy {
		c.indicateFailure(ctx, logger)
		return false, err
	}

	if err := c.registry.Celebrate(ctx); err != nil {
		logger.Error(err, "Success animation failed")
	}
	logger.Info("Boot complete, monitoring for vehicles")

	return c.TransitionTo(ctx, VehicleMonitor{})
}

func (c *Context) indicateFailure(ctx context.Context, logger logr.Logger) {
	logger.Info("Boot self-check failed")
	if err := c.registry.FailureSequence(ctx); err != nil {
		logger.Error(err, "Failure animation failed")
	}
}
