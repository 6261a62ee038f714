package behavior

import (
	"context"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/autopeer-io/roadsense/internal/pkg/metrics"
)

// Action is a deferred transition.
type Action struct {
	// Context is the name of the context the action belongs to.
	Context string
	// Target is the state the action transitions to.
	Target Kind

	run func(ctx context.Context) error
}

// Run performs the transition.
func (a Action) Run(ctx context.Context) error {
	return a.run(ctx)
}

// Drain runs actions concurrently until all of them have returned. An action
// is entered only after the one enqueued before it has been entered. A
// failing action does not cancel the others. The first error is returned;
// every failure is logged.
func Drain(ctx context.Context, actions ...Action) error {
	logger := logr.FromContextOrDiscard(ctx)

	var (
		g  errgroup.Group
		mu sync.Mutex
		n  int
	)
	for _, a := range actions {
		started := make(chan struct{})
		g.Go(func() error {
			close(started)
			err := a.Run(ctx)
			if err != nil {
				metrics.DeferredActions.WithLabelValues("failed").Inc()
				logger.Error(err, "Deferred action failed", "context", a.Context, "target", a.Target)
				return err
			}
			metrics.DeferredActions.WithLabelValues("success").Inc()
			mu.Lock()
			n++
			mu.Unlock()
			return nil
		})
		<-started
	}

	err := g.Wait()
	logger.V(1).Info("Drained deferred actions", "total", len(actions), "succeeded", n)
	return err
}
