package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

const (
	// RadioModeLog writes frames to the log only (bench runs).
	RadioModeLog = "log"
	// RadioModeMQTT publishes frames through the gateway bridge.
	RadioModeMQTT = "mqtt"
)

var _ IOptions = (*NodeOptions)(nil)

// NodeOptions identifies the node on the radio network.
type NodeOptions struct {
	// ID is the node identifier used in topics and logs.
	ID string `json:"id" mapstructure:"id"`

	// BoardID is the source board number written in every frame header.
	BoardID int `json:"board-id" mapstructure:"board-id"`

	// Repeater marks the node as a repeater in frame headers.
	Repeater bool `json:"repeater" mapstructure:"repeater"`

	// RadioMode selects the radio slot implementation: "log" or "mqtt".
	RadioMode string `json:"radio-mode" mapstructure:"radio-mode"`

	// RadioAddress is the destination address passed to every radio write.
	RadioAddress int `json:"radio-address" mapstructure:"radio-address"`
}

// NewNodeOptions creates a NodeOptions with default values.
func NewNodeOptions() *NodeOptions {
	return &NodeOptions{
		ID:           "rs-node-001",
		BoardID:      1,
		RadioMode:    RadioModeLog,
		RadioAddress: 0,
	}
}

func (o *NodeOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error

	if o.ID == "" {
		errs = append(errs, fmt.Errorf("node.id is required"))
	}
	if o.BoardID < 0 {
		errs = append(errs, fmt.Errorf("node.board-id must not be negative"))
	}
	if o.RadioMode != RadioModeLog && o.RadioMode != RadioModeMQTT {
		errs = append(errs, fmt.Errorf("node.radio-mode must be %q or %q, got %q", RadioModeLog, RadioModeMQTT, o.RadioMode))
	}
	if o.RadioAddress < 0 || o.RadioAddress > 65535 {
		errs = append(errs, fmt.Errorf("node.radio-address out of range: %d", o.RadioAddress))
	}

	return errs
}

func (o *NodeOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.ID, "node.id", o.ID, "Identifier of this sensor node.")
	fs.IntVar(&o.BoardID, "node.board-id", o.BoardID, "Board ID written into radio frame headers.")
	fs.BoolVar(&o.Repeater, "node.repeater", o.Repeater, "Mark this node as a radio repeater.")
	fs.StringVar(&o.RadioMode, "node.radio-mode", o.RadioMode, "Radio implementation: 'log' or 'mqtt'.")
	fs.IntVar(&o.RadioAddress, "node.radio-address", o.RadioAddress, "Destination radio address of detection frames.")
}
