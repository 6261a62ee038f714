package wait

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	clocktesting "k8s.io/utils/clock/testing"
)

func TestSleepZero(t *testing.T) {
	clk := clocktesting.NewFakeClock(time.Now())
	assert.NoError(t, Sleep(context.Background(), clk, 0))
}

func TestSleepWaitsForClock(t *testing.T) {
	clk := clocktesting.NewFakeClock(time.Now())
	done := make(chan error, 1)
	go func() { done <- Sleep(context.Background(), clk, time.Minute) }()

	assert.Eventually(t, clk.HasWaiters, time.Second, time.Millisecond)
	select {
	case <-done:
		t.Fatal("returned before the clock advanced")
	default:
	}

	clk.Step(time.Minute)
	assert.NoError(t, <-done)
}

func TestSleepCanceled(t *testing.T) {
	clk := clocktesting.NewFakeClock(time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, Sleep(ctx, clk, time.Hour), context.Canceled)
}
