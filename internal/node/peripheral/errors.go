package peripheral

import (
	"fmt"
)

// SetupError is a setup failure of one slot.
type SetupError struct {
	Slot Slot
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s setup failed: %v", e.Slot, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// HeartbeatError is a heartbeat that raised instead of reporting a status.
type HeartbeatError struct {
	Slot Slot
	Err  error
}

func (e *HeartbeatError) Error() string {
	return fmt.Sprintf("%s heartbeat failed: %v", e.Slot, e.Err)
}

func (e *HeartbeatError) Unwrap() error { return e.Err }
