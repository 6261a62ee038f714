//go:build linux

package hal

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/autopeer-io/roadsense/pkg/log"
)

// SuspendPower suspends the host to RAM and lets the RTC wake it.
type SuspendPower struct {
	rtcDir    string
	statePath string
}

// NewSuspendPower returns a Power using the RTC in rtcDir as wake source.
func NewSuspendPower(rtcDir string) (*SuspendPower, error) {
	if _, err := os.Stat(filepath.Join(rtcDir, "wakealarm")); err != nil {
		return nil, fmt.Errorf("rtc wake alarm unavailable: %w", err)
	}
	return &SuspendPower{rtcDir: rtcDir, statePath: "/sys/power/state"}, nil
}

func (p *SuspendPower) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	alarm := filepath.Join(p.rtcDir, "wakealarm")
	seconds := int64(math.Ceil(d.Seconds()))

	// The kernel rejects a new alarm while one is pending.
	if err := os.WriteFile(alarm, []byte("0"), 0); err != nil {
		return fmt.Errorf("clear wake alarm: %w", err)
	}
	if err := os.WriteFile(alarm, []byte(fmt.Sprintf("+%d", seconds)), 0); err != nil {
		return fmt.Errorf("arm wake alarm: %w", err)
	}

	log.Info("Suspending to RAM", "wakeIn", time.Duration(seconds)*time.Second)
	syscall.Sync()

	// Blocks until resume.
	if err := os.WriteFile(p.statePath, []byte("mem"), 0); err != nil {
		return fmt.Errorf("suspend: %w", err)
	}
	log.Info("Resumed from suspend")
	return nil
}
