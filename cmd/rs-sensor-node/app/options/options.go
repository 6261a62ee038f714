package options

import (
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/roadsense/internal/node"
	"github.com/autopeer-io/roadsense/pkg/app"
	"github.com/autopeer-io/roadsense/pkg/log"
	"github.com/autopeer-io/roadsense/pkg/options"
)

type SensorNodeOptions struct {
	NodeOptions       *options.NodeOptions       `json:"node" mapstructure:"node"`
	CycleOptions      *options.CycleOptions      `json:"cycle" mapstructure:"cycle"`
	PowerOptions      *options.PowerOptions      `json:"power" mapstructure:"power"`
	SimulationOptions *options.SimulationOptions `json:"sim" mapstructure:"sim"`
	MqttOptions       *options.MqttOptions       `json:"mqtt" mapstructure:"mqtt"`
	HttpOptions       *options.HttpOptions       `json:"http" mapstructure:"http"`
	Log               *log.Options               `json:"log" mapstructure:"log"`
}

var _ app.NamedFlagSetOptions = (*SensorNodeOptions)(nil)

func NewSensorNodeOptions() *SensorNodeOptions {
	o := &SensorNodeOptions{
		NodeOptions:       options.NewNodeOptions(),
		CycleOptions:      options.NewCycleOptions(),
		PowerOptions:      options.NewPowerOptions(),
		SimulationOptions: options.NewSimulationOptions(),
		MqttOptions:       options.NewMqttOptions(),
		HttpOptions:       options.NewHttpOptions(),
		Log:               log.NewOptions(),
	}

	return o
}

func (o *SensorNodeOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	o.NodeOptions.AddFlags(fss.FlagSet("node"))
	o.CycleOptions.AddFlags(fss.FlagSet("cycle"))
	o.PowerOptions.AddFlags(fss.FlagSet("power"))
	o.SimulationOptions.AddFlags(fss.FlagSet("simulation"))
	o.MqttOptions.AddFlags(fss.FlagSet("mqtt"))
	o.HttpOptions.AddFlags(fss.FlagSet("http"))
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

func (o *SensorNodeOptions) Complete() error {
	if o.Log.Name == "" {
		o.Log.Name = o.NodeOptions.ID
	}
	return nil
}

func (o *SensorNodeOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.NodeOptions.Validate()...)
	errs = append(errs, o.CycleOptions.Validate()...)
	errs = append(errs, o.PowerOptions.Validate()...)
	errs = append(errs, o.SimulationOptions.Validate()...)
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)

	// The broker is only dialled when the radio slot is the MQTT bridge.
	if o.NodeOptions.RadioMode == options.RadioModeMQTT {
		errs = append(errs, o.MqttOptions.Validate()...)
	}
	return utilerrors.NewAggregate(errs)
}

func (o *SensorNodeOptions) Config() (*node.Config, error) {
	return &node.Config{
		NodeOptions:       o.NodeOptions,
		CycleOptions:      o.CycleOptions,
		PowerOptions:      o.PowerOptions,
		SimulationOptions: o.SimulationOptions,
		MqttOptions:       o.MqttOptions,
		HttpOptions:       o.HttpOptions,
	}, nil
}
