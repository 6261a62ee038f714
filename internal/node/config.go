package node

import (
	"context"
	"fmt"

	"k8s.io/utils/clock"

	"github.com/autopeer-io/roadsense/internal/node/cycle"
	"github.com/autopeer-io/roadsense/internal/node/hal"
	"github.com/autopeer-io/roadsense/internal/node/peripheral"
	"github.com/autopeer-io/roadsense/internal/node/radio"
	"github.com/autopeer-io/roadsense/pkg/mqtt"
	mqtttopic "github.com/autopeer-io/roadsense/pkg/mqtt/topic"
	"github.com/autopeer-io/roadsense/pkg/options"
)

// Config is the complete configuration of a node.
type Config struct {
	NodeOptions       *options.NodeOptions
	CycleOptions      *options.CycleOptions
	PowerOptions      *options.PowerOptions
	SimulationOptions *options.SimulationOptions
	MqttOptions       *options.MqttOptions
	HttpOptions       *options.HttpOptions
}

// Hardware is the peripheral set of one wake. Release runs before the node
// powers down.
type Hardware struct {
	Components peripheral.Components
	Release    func(ctx context.Context)
}

// HardwareFactory builds the peripherals for a wake.
type HardwareFactory func(ctx context.Context, cfg *Config) (*Hardware, error)

// NewNode builds a node from cfg.
func (cfg *Config) NewNode(opts ...Option) (*Node, error) {
	return NewNode(cfg, opts...)
}

// simulatedHardware builds a simulator board playing the configured scenario.
// The radio slot is either the simulator's logging radio or the MQTT uplink.
func simulatedHardware(clk clock.Clock) HardwareFactory {
	return func(_ context.Context, cfg *Config) (*Hardware, error) {
		sc, err := scenario(cfg.SimulationOptions)
		if err != nil {
			return nil, err
		}

		framer := radio.Framer{
			Board:    cfg.NodeOptions.BoardID,
			Repeater: cfg.NodeOptions.Repeater,
			Clock:    clk,
		}
		sim := hal.NewSimulator(sc, hal.WithSimulatorClock(clk), hal.WithFramer(framer))

		hw := &Hardware{Release: func(context.Context) {}}
		switch cfg.NodeOptions.RadioMode {
		case options.RadioModeMQTT:
			r, err := newMQTTRadio(cfg, framer)
			if err != nil {
				return nil, err
			}
			hw.Components = sim.Components(r)
			hw.Release = r.Close
		default:
			hw.Components = sim.Components(nil)
		}
		return hw, nil
	}
}

func scenario(o *options.SimulationOptions) (hal.Scenario, error) {
	sc := hal.Scenario{
		Distance:           o.Distance,
		DeviceTemperature:  o.DeviceTemperature,
		AmbientTemperature: o.AmbientTemperature,
		FailSetup:          map[peripheral.Slot]bool{},
		Unhealthy:          map[peripheral.Slot]bool{},
	}
	for _, name := range o.FailSetup {
		s, err := peripheral.ParseSlot(name)
		if err != nil {
			return hal.Scenario{}, err
		}
		sc.FailSetup[s] = true
	}
	for _, name := range o.Unhealthy {
		s, err := peripheral.ParseSlot(name)
		if err != nil {
			return hal.Scenario{}, err
		}
		sc.Unhealthy[s] = true
	}
	return sc, nil
}

func newMQTTRadio(cfg *Config, framer radio.Framer) (*radio.MQTTRadio, error) {
	nodeID := cfg.NodeOptions.ID
	topics := mqtttopic.NewTopicBuilder(cfg.MqttOptions.TopicRoot)

	mqttConfig := cfg.MqttOptions.ToClientConfig()
	if mqttConfig.ClientID == "" {
		mqttConfig.ClientID = fmt.Sprintf("rs-node-%s", nodeID)
	}
	mqttConfig.WillTopic = topics.Status(nodeID)
	mqttConfig.WillPayload = []byte(mqtttopic.StatusOffline)
	mqttConfig.WillQoS = 1
	mqttConfig.WillRetain = true

	client, err := mqtt.NewClient(mqttConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to init mqtt client: %w", err)
	}
	return radio.NewMQTTRadio(client, topics, framer, nodeID, cfg.MqttOptions.QoS, cfg.MqttOptions.ConnectTimeout), nil
}

// newPower returns the power primitive selected by the power mode.
func newPower(o *options.PowerOptions, clk clock.Clock) (cycle.Power, error) {
	switch o.Mode {
	case options.PowerModeSuspend:
		p, err := hal.NewSuspendPower(o.RTCDevice)
		if err != nil {
			return nil, err
		}
		return p, nil
	case options.PowerModeSimulated, "":
		return hal.NewSimulatedPower(clk), nil
	}
	return nil, fmt.Errorf("unknown power mode %q", o.Mode)
}
