package domain

// ConfigEntry is a single topic configuration key/value pair. Order is
// preserved when a list of entries is sent to the broker.
type ConfigEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TopicSpec describes a topic to be created.
type TopicSpec struct {
	Name              string        `json:"name"`
	Partitions        int32         `json:"partitions"`
	ReplicationFactor int16         `json:"replication_factor"`
	Configs           []ConfigEntry `json:"configs,omitempty"`
}

// TopicListing is one row of the topic list: name, partition count and any
// broker-reported metadata error for that topic.
type TopicListing struct {
	Name       string `json:"name"`
	Partitions int    `json:"partitions"`
	Error      string `json:"error,omitempty"`
}

// PartitionOffsets carries the low/high watermarks of a partition.
type PartitionOffsets struct {
	Earliest int64 `json:"earliest"`
	Latest   int64 `json:"latest"`
}

// PartitionDescriptor is the derived, read-only view of one partition,
// recomputed on every describe call.
type PartitionDescriptor struct {
	ID             int32            `json:"id"`
	Leader         int32            `json:"leader"`
	Replicas       []int32          `json:"replicas"`
	InSyncReplicas []int32          `json:"isr"`
	Offsets        PartitionOffsets `json:"offsets"`
}

// TopicDescription is the full partition-level view of a topic.
type TopicDescription struct {
	Name       string                `json:"name"`
	Partitions []PartitionDescriptor `json:"partitions"`
}

// CreateTopicResult confirms a topic creation.
type CreateTopicResult struct {
	Name              string `json:"name"`
	Partitions        int32  `json:"partitions"`
	ReplicationFactor int16  `json:"replication_factor"`
}

// AlterConfigResult reports the outcome of a topic config alteration. Applied
// is false when the change was only validated by the broker.
type AlterConfigResult struct {
	Resource     string `json:"resource"`
	Topic        string `json:"topic"`
	ValidateOnly bool   `json:"validate_only"`
	Applied      bool   `json:"applied"`
}

// AddPartitionsResult reports the partition count after an increase.
type AddPartitionsResult struct {
	Topic              string `json:"topic"`
	NewTotalPartitions int32  `json:"new_total_partitions"`
	ValidateOnly       bool   `json:"validate_only"`
}
