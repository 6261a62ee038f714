package hal

import (
	"context"
	"sync/atomic"
	"time"

	"k8s.io/utils/clock"

	"github.com/autopeer-io/roadsense/internal/pkg/util/wait"
)

// SimulatedPower sleeps in-process.
type SimulatedPower struct {
	clock clock.Clock
	calls atomic.Int32
}

// NewSimulatedPower returns a Power sleeping on clk.
func NewSimulatedPower(clk clock.Clock) *SimulatedPower {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &SimulatedPower{clock: clk}
}

func (p *SimulatedPower) Sleep(ctx context.Context, d time.Duration) error {
	p.calls.Add(1)
	return wait.Sleep(ctx, p.clock, d)
}

// Calls returns how many times Sleep was called.
func (p *SimulatedPower) Calls() int {
	return int(p.calls.Load())
}
