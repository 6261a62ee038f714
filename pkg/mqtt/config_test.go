package mqtt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientAppliesDefaults(t *testing.T) {
	cfg := &ClientConfig{BrokerURL: "tcp://127.0.0.1:1883", ClientID: "rs-node-001"}

	c, err := NewClient(cfg)
	require.NoError(t, err)
	assert.False(t, c.IsConnected())
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, uint16(60), cfg.KeepAlive)
}

func TestClientConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ClientConfig
		wantErr bool
	}{
		{name: "ok", cfg: ClientConfig{BrokerURL: "tcp://broker:1883", ClientID: "a"}},
		{name: "missing broker", cfg: ClientConfig{ClientID: "a"}, wantErr: true},
		{name: "no scheme", cfg: ClientConfig{BrokerURL: "broker:1883", ClientID: "a"}, wantErr: true},
		{name: "missing client id", cfg: ClientConfig{BrokerURL: "tcp://broker:1883"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUnstartedClient(t *testing.T) {
	c, err := NewClient(&ClientConfig{BrokerURL: "tcp://127.0.0.1:1883", ClientID: "a"})
	require.NoError(t, err)

	assert.Error(t, c.Publish(t.Context(), "x", 0, false, nil))
	assert.Error(t, c.AwaitConnection(t.Context()))
}

func TestWillMessage(t *testing.T) {
	c := &pahoClient{cfg: &ClientConfig{}}
	assert.Nil(t, c.willMessage())

	c.cfg.WillTopic = "roadsense/v1/status/a"
	c.cfg.WillPayload = []byte("offline")
	c.cfg.WillRetain = true
	w := c.willMessage()
	require.NotNil(t, w)
	assert.Equal(t, "roadsense/v1/status/a", w.Topic)
	assert.True(t, w.Retain)
}
