//go:build !linux

package hal

import (
	"context"
	"errors"
	"time"
)

// SuspendPower is only available on linux.
type SuspendPower struct{}

// NewSuspendPower always fails on this platform.
func NewSuspendPower(string) (*SuspendPower, error) {
	return nil, errors.New("suspend power mode requires linux")
}

func (p *SuspendPower) Sleep(context.Context, time.Duration) error {
	return errors.New("suspend power mode requires linux")
}
