package domain

import "time"

// MessageHeader is one record header. Order is preserved end to end.
type MessageHeader struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Record is a single message as seen by a broker client: consumed during a
// backup, produced during a restore or a one-off write.
type Record struct {
	Partition int32
	Offset    int64
	Timestamp time.Time
	Key       []byte
	Value     []byte
	Headers   []MessageHeader
}

// BackupMessage is one captured message, immutable once written.
type BackupMessage struct {
	Offset          int64           `json:"offset"`
	TimestampMillis int64           `json:"timestamp"`
	Key             *string         `json:"key,omitempty"`
	Value           string          `json:"value"`
	Headers         []MessageHeader `json:"headers,omitempty"`
}

// BackupData is the per-(backup run, partition) batch of captured messages.
// Messages are ordered by ascending offset. Checksum, when non-zero, must
// validate against the serialized message batch on load.
type BackupData struct {
	BackupID  string          `json:"backup_id"`
	Topic     string          `json:"topic"`
	Partition int32           `json:"partition"`
	Messages  []BackupMessage `json:"messages"`
	Checksum  uint64          `json:"checksum"`
	CreatedAt string          `json:"created_at"`
}

// BackupMetadata is the run-level record: the authoritative list of which
// partitions a backup id covers. A backup id without metadata is invalid.
type BackupMetadata struct {
	BackupID   string  `json:"backup_id"`
	Topic      string  `json:"topic"`
	Partitions []int32 `json:"partitions"`
	CreatedAt  string  `json:"created_at"`
}

// ConsumeWindow bounds how much of each partition a backup run captures.
// A nil StartOffset means the partition's earliest offset; a nil EndOffset
// means no upper bound; MaxMessages caps the total across the whole run.
type ConsumeWindow struct {
	StartOffset    *int64 `json:"start_offset,omitempty"`
	EndOffset      *int64 `json:"end_offset,omitempty"`
	MaxMessages    uint64 `json:"max_messages,omitempty"`
	IncludeHeaders bool   `json:"include_headers"`
}

// BackupRequest is the boundary shape of a backup operation. The window
// fields are inlined so the request is flat on the wire.
type BackupRequest struct {
	Topic      string  `json:"topic"`
	Partitions []int32 `json:"partitions,omitempty"`
	ConsumeWindow
}

// BackupResult aggregates one backup run.
type BackupResult struct {
	BackupID           string  `json:"backup_id"`
	Topic              string  `json:"topic"`
	PartitionsBackedUp []int32 `json:"partitions_backed_up"`
	TotalMessages      uint64  `json:"total_messages"`
	StartTime          string  `json:"start_time"`
	EndTime            string  `json:"end_time"`
}

// RestoreRequest is the boundary shape of a restore operation.
type RestoreRequest struct {
	BackupID           string  `json:"backup_id"`
	TargetTopic        string  `json:"target_topic"`
	Partitions         []int32 `json:"partitions,omitempty"`
	PreserveKeys       bool    `json:"preserve_keys"`
	PreserveHeaders    bool    `json:"preserve_headers"`
	PreserveTimestamps bool    `json:"preserve_timestamps"`
}

// RestoreResult aggregates one restore run. MessagesRestored counts only
// successful publishes.
type RestoreResult struct {
	TargetTopic        string  `json:"target_topic"`
	MessagesRestored   uint64  `json:"messages_restored"`
	PartitionsRestored []int32 `json:"partitions_restored"`
	StartTime          string  `json:"start_time"`
	EndTime            string  `json:"end_time"`
}
