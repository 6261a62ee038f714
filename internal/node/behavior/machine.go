package behavior

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/autopeer-io/roadsense/internal/pkg/metrics"
	fsmutil "github.com/autopeer-io/roadsense/internal/pkg/util/fsm"
)

const (
	// EventBooted moves a healthy node to vehicle monitoring.
	EventBooted = "booted"
	// EventDetected hands a detection to the uplink state.
	EventDetected = "detected"
	// EventOverheat starts the fan.
	EventOverheat = "overheat"
	// EventFreeze engages freeze protection.
	EventFreeze = "freeze"
)

// eventFor maps a transition to the event that performs it.
var eventFor = map[Kind]map[Kind]string{
	KindBoot:               {KindVehicleMonitor: EventBooted},
	KindVehicleMonitor:     {KindVehicleDetected: EventDetected},
	KindTemperatureMonitor: {KindOverheatProtection: EventOverheat, KindFreezeProtection: EventFreeze},
}

// TransitionError is returned when a context is asked to move along an edge
// the state machine does not have.
type TransitionError struct {
	Context string
	From    Kind
	To      Kind
	Err     error
}

func (e *TransitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: transition %s -> %s: %v", e.Context, e.From, e.To, e.Err)
	}
	return fmt.Sprintf("%s: transition %s -> %s not allowed", e.Context, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return e.Err }

type machine struct {
	*fsm.FSM
	context string
}

func newMachine(name string, initial Kind) *machine {
	m := &machine{context: name}

	events := fsm.Events{
		{Name: EventBooted, Src: []string{string(KindBoot)}, Dst: string(KindVehicleMonitor)},
		{Name: EventDetected, Src: []string{string(KindVehicleMonitor)}, Dst: string(KindVehicleDetected)},
		{Name: EventOverheat, Src: []string{string(KindTemperatureMonitor)}, Dst: string(KindOverheatProtection)},
		{Name: EventFreeze, Src: []string{string(KindTemperatureMonitor)}, Dst: string(KindFreezeProtection)},
	}

	callbacks := fsm.Callbacks{
		"enter_state": fsmutil.WrapEvent(m.actionEnterState),
	}

	m.FSM = fsm.NewFSM(string(initial), events, callbacks)
	return m
}

func (m *machine) actionEnterState(_ context.Context, e *fsm.Event) error {
	metrics.StateEntries.WithLabelValues(m.context, e.Dst).Inc()
	return nil
}

// advance validates and records the move to next. Re-entering the current
// kind is always allowed and fires no event.
func (m *machine) advance(ctx context.Context, next Kind) error {
	from := Kind(m.Current())
	if from == next {
		metrics.StateEntries.WithLabelValues(m.context, string(next)).Inc()
		return nil
	}

	event, ok := eventFor[from][next]
	if !ok {
		return &TransitionError{Context: m.context, From: from, To: next}
	}

	if err := m.Event(ctx, event); fsmutil.IsRealError(err) {
		return &TransitionError{Context: m.context, From: from, To: next, Err: err}
	}
	return nil
}

// reset moves the machine to k without validation.
func (m *machine) reset(k Kind) {
	m.SetState(string(k))
}
