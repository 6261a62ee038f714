package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicBuilder(t *testing.T) {
	b := NewTopicBuilder("roadsense/v1")

	assert.Equal(t, "roadsense/v1/detection/rs-node-001", b.Detection("rs-node-001"))
	assert.Equal(t, "roadsense/v1/detection/+", b.DetectionWildcard())
	assert.Equal(t, "roadsense/v1/status/rs-node-001", b.Status("rs-node-001"))
	assert.Equal(t, "roadsense/v1/#", b.All())
}
