//go:build linux

package hal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuspendPowerWritesAlarmAndState(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wakealarm"), nil, 0o644))
	state := filepath.Join(dir, "state")
	require.NoError(t, os.WriteFile(state, nil, 0o644))

	p, err := NewSuspendPower(dir)
	require.NoError(t, err)
	p.statePath = state

	require.NoError(t, p.Sleep(context.Background(), 2500*time.Millisecond))

	alarm, err := os.ReadFile(filepath.Join(dir, "wakealarm"))
	require.NoError(t, err)
	assert.Equal(t, "+3", string(alarm))

	got, err := os.ReadFile(state)
	require.NoError(t, err)
	assert.Equal(t, "mem", string(got))
}

func TestNewSuspendPowerRequiresRTC(t *testing.T) {
	_, err := NewSuspendPower(t.TempDir())
	assert.Error(t, err)
}
