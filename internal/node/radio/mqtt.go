package radio

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/autopeer-io/roadsense/internal/node/peripheral"
	"github.com/autopeer-io/roadsense/pkg/log"
	"github.com/autopeer-io/roadsense/pkg/mqtt"
	"github.com/autopeer-io/roadsense/pkg/mqtt/topic"
)

var _ peripheral.Radio = (*MQTTRadio)(nil)

// MQTTRadio is a radio slot backed by an MQTT gateway bridge. Each write
// publishes one frame on {root}/detection/{node}; a non-zero address is
// appended as an extra topic level.
type MQTTRadio struct {
	client  mqtt.Client
	topics  *topic.TopicBuilder
	framer  Framer
	nodeID  string
	qos     int
	timeout time.Duration

	started bool
}

// NewMQTTRadio returns a radio publishing through client.
func NewMQTTRadio(client mqtt.Client, topics *topic.TopicBuilder, framer Framer, nodeID string, qos int, connectTimeout time.Duration) *MQTTRadio {
	return &MQTTRadio{
		client:  client,
		topics:  topics,
		framer:  framer,
		nodeID:  nodeID,
		qos:     qos,
		timeout: connectTimeout,
	}
}

// Setup connects to the broker and announces the node as online.
func (r *MQTTRadio) Setup(ctx context.Context) error {
	if !r.started {
		if err := r.client.Start(ctx); err != nil {
			return fmt.Errorf("start mqtt client: %w", err)
		}
		r.started = true
	}

	awaitCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		awaitCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	if err := r.client.AwaitConnection(awaitCtx); err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}

	return r.client.Publish(ctx, r.topics.Status(r.nodeID), r.qos, true, []byte(topic.StatusOnline))
}

// Heartbeat reports whether the broker connection is up.
func (r *MQTTRadio) Heartbeat(context.Context) (bool, error) {
	if !r.started {
		return false, errors.New("radio not set up")
	}
	return r.client.IsConnected(), nil
}

// Write frames payload and publishes it.
func (r *MQTTRadio) Write(ctx context.Context, payload []float64, address int) error {
	frame, err := r.framer.Frame(payload)
	if err != nil {
		return err
	}

	t := r.topics.Detection(r.nodeID)
	if address != 0 {
		t += "/" + strconv.Itoa(address)
	}

	if err := r.client.Publish(ctx, t, r.qos, false, frame); err != nil {
		return fmt.Errorf("publish to %s: %w", t, err)
	}
	log.Debug("Published detection frame", "topic", t, "bytes", len(frame))
	return nil
}

// Close marks the node offline and disconnects. The node calls it before parking.
func (r *MQTTRadio) Close(ctx context.Context) {
	if !r.started {
		return
	}
	if err := r.client.Publish(ctx, r.topics.Status(r.nodeID), r.qos, true, []byte(topic.StatusOffline)); err != nil {
		log.Warn("Failed to publish offline status", "error", err)
	}
	r.client.Disconnect(ctx)
	r.started = false
}
