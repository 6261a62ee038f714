package topic

import (
	"fmt"
)

// Constants defining the standard uplink topic segments.
// Downstream consumers subscribe to these; renaming one breaks them.
const (
	// SuffixDetection carries one radio frame per detected vehicle (Node -> Collector).
	// Structure: {root}/detection/{nodeID}
	SuffixDetection = "detection"

	// SuffixStatus carries the retained online/offline marker of a node.
	// Structure: {root}/status/{nodeID}
	SuffixStatus = "status"
)

// Status payloads published on the status topic.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// TopicBuilder constructs MQTT topic strings under a common root namespace.
type TopicBuilder struct {
	// root is the base namespace for all topics (e.g., "roadsense/v1").
	root string
}

// NewTopicBuilder creates a new instance of TopicBuilder with the specified root namespace.
func NewTopicBuilder(root string) *TopicBuilder {
	return &TopicBuilder{root: root}
}

// Detection returns the topic a node publishes detection frames on.
func (b *TopicBuilder) Detection(nodeID string) string {
	return b.build(SuffixDetection, nodeID)
}

// DetectionWildcard returns the filter a collector uses to receive every node's detections.
// Result: {root}/detection/+
func (b *TopicBuilder) DetectionWildcard() string {
	return b.build(SuffixDetection, Wildcard)
}

// Status returns the retained status topic of a node.
func (b *TopicBuilder) Status(nodeID string) string {
	return b.build(SuffixStatus, nodeID)
}

// All returns a filter matching every topic under the root.
func (b *TopicBuilder) All() string {
	return fmt.Sprintf("%s/%s", b.root, MultiWildcard)
}

// build is a private helper to construct the final topic string.
// Pattern: {root}/{suffix}/{identifier}
func (b *TopicBuilder) build(suffix, id string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, suffix, id)
}
