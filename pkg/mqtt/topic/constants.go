package topic

// MQTT wildcards, for collectors subscribing to node topics.
const (
	// Wildcard matches exactly one topic level.
	// Example: "roadsense/v1/detection/+" matches every node's detections.
	Wildcard = "+"

	// MultiWildcard matches the current level and all below it. It must be
	// the last character of a filter.
	// Example: "roadsense/v1/#" matches every topic of the deployment.
	MultiWildcard = "#"
)
