package wait

import (
	"context"
	"time"

	"k8s.io/utils/clock"
)

// Sleep blocks for d on clk, or until ctx is done. It returns ctx.Err() in the
// latter case. Non-positive durations return immediately.
func Sleep(ctx context.Context, clk clock.Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := clk.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C():
		return nil
	}
}
