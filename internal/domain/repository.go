package domain

import (
	"context"

	"github.com/OliveiraNt/kafka-vault/internal/config"
)

// ClusterRepository defines operations for managing cluster connection
// profiles. Resolve matches by id first, then by exact name.
type ClusterRepository interface {
	Resolve(idOrName string) (config.ClusterConfig, bool)
	Save(cfg config.ClusterConfig) error
	Delete(idOrName string) error
	FindAll() []config.ClusterConfig
	Watch() error
}

// ClusterResolver is the read side of ClusterRepository, injected into the
// services that only need to look connections up.
type ClusterResolver interface {
	Resolve(idOrName string) (config.ClusterConfig, bool)
}

// ClientFactory builds broker clients from connection settings. One client is
// constructed per top-level operation and closed when it completes.
type ClientFactory interface {
	Admin(cfg config.ClusterConfig, clientID string) (AdminClient, error)
	// PartitionConsumer binds a consumer to a single topic partition,
	// positioned at start, or at the partition's earliest offset when start
	// is nil.
	PartitionConsumer(cfg config.ClusterConfig, clientID, topic string, partition int32, start *int64) (PartitionConsumer, error)
	// TopicConsumer binds a consumer to every partition of a topic from the
	// log end, for live tailing.
	TopicConsumer(cfg config.ClusterConfig, clientID, topic string) (PartitionConsumer, error)
	Producer(cfg config.ClusterConfig, clientID string) (Producer, error)
}

// AdminClient exposes the topic and cluster administration operations used by
// the services. Implementations carry their own per-call timeouts.
type AdminClient interface {
	ListTopics(ctx context.Context) ([]TopicListing, error)
	CreateTopic(ctx context.Context, spec TopicSpec) error
	DeleteTopic(ctx context.Context, name string) error
	DescribeTopic(ctx context.Context, name string) (*TopicDescription, error)
	AlterTopicConfigs(ctx context.Context, name string, entries []ConfigEntry, validateOnly bool) error
	UpdatePartitions(ctx context.Context, name string, total int32, validateOnly bool) error
	Partitions(ctx context.Context, topic string) ([]int32, error)
	BrokerStatus(ctx context.Context) ([]BrokerStatus, error)
	Close()
}

// PartitionConsumer pulls records from its assigned partition(s). Poll returns
// an empty batch with a nil error when the wait bounded by ctx elapses with
// nothing to read.
type PartitionConsumer interface {
	Poll(ctx context.Context) ([]Record, error)
	Close()
}

// Producer publishes records to a topic.
type Producer interface {
	Produce(ctx context.Context, topic string, rec Record) error
	Close()
}

// Compression is a pluggable strategy for backup payloads. Ext is the file
// name suffix that makes the strategy self-describing for loads.
type Compression interface {
	Name() string
	Ext() string
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// BackupStore persists per-partition message batches and run-level metadata.
// Store must be durable before returning. Load and LoadMetadata report
// unknown keys via an error matching application.ErrBackupNotFound.
type BackupStore interface {
	Store(data *BackupData, codec Compression) error
	Load(backupID string, partition int32) (*BackupData, error)
	LoadMetadata(backupID string) (*BackupMetadata, error)
}
