package app

import (
	"fmt"
	"sync/atomic"

	genericapiserver "k8s.io/apiserver/pkg/server"

	"github.com/autopeer-io/roadsense/cmd/rs-sensor-node/app/options"
	"github.com/autopeer-io/roadsense/internal/node"
	"github.com/autopeer-io/roadsense/pkg/app"
	"github.com/autopeer-io/roadsense/pkg/log"
)

const (
	commandName = "rs-sensor-node"
	commandDesc = `The RoadSense sensor node wakes, checks its peripherals, watches for
vehicles and enclosure temperature, reports detections over the radio link
and parks in a low-power state until the next wake.`
)

type sensorNode struct {
	app  *app.App
	opts *options.SensorNodeOptions
	node atomic.Pointer[node.Node]
}

func NewApp() *app.App {
	s := &sensorNode{opts: options.NewSensorNodeOptions()}
	s.app = app.NewApp(
		commandName,
		"Launch a RoadSense sensor node",
		app.WithDescription(commandDesc),
		app.WithOptions(s.opts),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(s.run),
		app.WithConfigReload(s.reload),
		app.WithSubCommands(newSelfCheckCommand(s.opts)),
	)
	return s.app
}

func (s *sensorNode) run() error {
	ctx := genericapiserver.SetupSignalContext()

	log.Init(s.opts.Log)
	defer func() { _ = log.Sync() }()

	cfg, err := s.opts.Config()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	n, err := cfg.NewNode()
	if err != nil {
		return fmt.Errorf("failed to create sensor node: %w", err)
	}
	s.node.Store(n)

	log.Info("Starting rs-sensor-node", "node", cfg.NodeOptions.ID, "radio", cfg.NodeOptions.RadioMode, "power", cfg.PowerOptions.Mode)
	return n.Run(ctx)
}

// reload re-reads the configuration and hands it to the running node.
// Invalid files are ignored.
func (s *sensorNode) reload() {
	n := s.node.Load()
	if n == nil {
		return
	}

	fresh := options.NewSensorNodeOptions()
	if err := s.app.Decode(fresh); err != nil {
		log.Error(err, "Ignoring configuration change")
		return
	}
	if err := fresh.Complete(); err != nil {
		log.Error(err, "Ignoring configuration change")
		return
	}
	if err := fresh.Validate(); err != nil {
		log.Error(err, "Ignoring invalid configuration change")
		return
	}

	cfg, err := fresh.Config()
	if err != nil {
		log.Error(err, "Ignoring configuration change")
		return
	}

	log.Init(fresh.Log)
	n.Reconfigure(cfg)
}
