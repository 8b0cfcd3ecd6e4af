package application

import (
	"errors"
	"fmt"
)

var (
	// ErrClusterNotFound is returned when a cluster id/name is unknown.
	ErrClusterNotFound = errors.New("cluster not found")

	// ErrTopicNotFound is returned when a topic does not exist on the broker.
	ErrTopicNotFound = errors.New("topic not found")

	// ErrBackupNotFound is returned when a backup id, or a partition within
	// it, has no stored data.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrInvalidClusterConfig is returned when a cluster profile or patch is
	// missing required fields.
	ErrInvalidClusterConfig = errors.New("invalid cluster configuration")

	// ErrInvalidTopicName is returned when a topic name is empty.
	ErrInvalidTopicName = errors.New("invalid topic name")

	// ErrInvalidPartitionCount is returned when a partition count is not positive.
	ErrInvalidPartitionCount = errors.New("invalid partition count")

	// ErrInvalidReplicationFactor is returned when a replication factor is not positive.
	ErrInvalidReplicationFactor = errors.New("invalid replication factor")

	// ErrInvalidTopicConfig is returned when a config update carries no entries.
	ErrInvalidTopicConfig = errors.New("invalid topic configuration")

	// ErrInvalidBackupID is returned when a backup id is empty.
	ErrInvalidBackupID = errors.New("invalid backup id")

	// ErrChecksumMismatch is returned when stored backup data fails checksum
	// verification on load.
	ErrChecksumMismatch = errors.New("backup data checksum mismatch")
)

// BrokerError carries a broker-side rejection: the operation, the resource it
// targeted and the broker's error detail.
type BrokerError struct {
	Op       string
	Resource string
	Err      error
}

func (e *BrokerError) Error() string {
	return fmt.Sprintf("broker rejected %s for %q: %v", e.Op, e.Resource, e.Err)
}

func (e *BrokerError) Unwrap() error {
	return e.Err
}
