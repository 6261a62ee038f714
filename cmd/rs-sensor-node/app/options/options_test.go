package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/roadsense/pkg/options"
)

func TestDefaultsAreValid(t *testing.T) {
	o := NewSensorNodeOptions()
	require.NoError(t, o.Complete())
	assert.NoError(t, o.Validate())
}

func TestMqttValidatedOnlyInMqttMode(t *testing.T) {
	o := NewSensorNodeOptions()
	o.MqttOptions.Broker = ""
	assert.NoError(t, o.Validate())

	o.NodeOptions.RadioMode = options.RadioModeMQTT
	assert.Error(t, o.Validate())
}

func TestFlagsOverrideDefaults(t *testing.T) {
	o := NewSensorNodeOptions()
	fss := o.Flags()

	require.NoError(t, fss.FlagSet("cycle").Parse([]string{"--cycle.overheat-threshold=40", "--cycle.reset-temperature-monitor"}))
	require.NoError(t, fss.FlagSet("power").Parse([]string{"--power.once"}))

	assert.Equal(t, 40.0, o.CycleOptions.OverheatThreshold)
	assert.True(t, o.CycleOptions.ResetTemperatureMonitor)
	assert.True(t, o.PowerOptions.Once)

	cfg, err := o.Config()
	require.NoError(t, err)
	assert.Same(t, o.CycleOptions, cfg.CycleOptions)
}
