package cycle

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"

	"github.com/autopeer-io/roadsense/internal/pkg/metrics"
	"github.com/autopeer-io/roadsense/internal/pkg/util/wait"
)

// Power is the platform low-power primitive.
type Power interface {
	// Sleep returns once the low-power period d is over.
	Sleep(ctx context.Context, d time.Duration) error
}

// PowerCycle parks the node after the driver signals stop.
type PowerCycle struct {
	power Power
	grace time.Duration
	sleep time.Duration
	clock clock.Clock

	flush []func(ctx context.Context)
}

// PowerOption configures a PowerCycle.
type PowerOption func(*PowerCycle)

// WithPowerClock sets the clock used for the grace countdown.
func WithPowerClock(clk clock.Clock) PowerOption {
	return func(p *PowerCycle) { p.clock = clk }
}

// WithFlush registers fn to run at the end of the grace period, before the
// node powers down.
func WithFlush(fn func(ctx context.Context)) PowerOption {
	return func(p *PowerCycle) { p.flush = append(p.flush, fn) }
}

// NewPowerCycle returns a PowerCycle waiting grace before sleeping for sleep.
func NewPowerCycle(power Power, grace, sleep time.Duration, opts ...PowerOption) *PowerCycle {
	p := &PowerCycle{
		power: power,
		grace: grace,
		sleep: sleep,
		clock: clock.RealClock{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Park counts down the grace period, runs the flush hooks and calls
// Power.Sleep exactly once. Cancelling ctx during the countdown returns
// without sleeping.
func (p *PowerCycle) Park(ctx context.Context) error {
	logger := logr.FromContextOrDiscard(ctx).WithName("power")

	for remaining := p.grace; remaining > 0; {
		step := min(time.Second, remaining)
		logger.Info("Powering down", "in", remaining.Round(time.Millisecond))
		if err := wait.Sleep(ctx, p.clock, step); err != nil {
			return err
		}
		remaining -= step
	}

	for _, fn := range p.flush {
		fn(ctx)
	}

	logger.Info("Entering low-power state", "duration", p.sleep)
	metrics.Parks.Inc()
	return p.power.Sleep(ctx, p.sleep)
}
