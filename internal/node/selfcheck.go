package node

import (
	"context"

	"github.com/autopeer-io/roadsense/internal/node/peripheral"
)

// SelfCheck sets up the peripherals and heartbeats every slot without
// running any behavior. The setup error, if any, is returned alongside the
// per-slot report.
func (n *Node) SelfCheck(ctx context.Context) ([]peripheral.Status, error) {
	hw, err := n.hardware(ctx, n.cfg.Load())
	if err != nil {
		return nil, err
	}
	defer hw.Release(context.WithoutCancel(ctx))

	registry, err := peripheral.NewRegistry(hw.Components)
	if err != nil {
		return nil, err
	}

	setupErr := registry.Setup(ctx)
	return registry.Report(ctx), setupErr
}
