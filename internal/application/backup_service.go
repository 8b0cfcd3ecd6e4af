package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/OliveiraNt/kafka-vault/internal/config"
	"github.com/OliveiraNt/kafka-vault/internal/domain"
	"github.com/OliveiraNt/kafka-vault/internal/utils"
)

// pollTimeout bounds each consumer poll during a backup run. A poll that
// returns nothing within this window marks the end of the partition.
const pollTimeout = 5 * time.Second

// BackupService captures topic messages into durable per-partition snapshots.
type BackupService struct {
	resolver domain.ClusterResolver
	factory  domain.ClientFactory
	store    domain.BackupStore
	codec    domain.Compression
}

// NewBackupService creates a new backup service writing through store with
// the given compression codec.
func NewBackupService(resolver domain.ClusterResolver, factory domain.ClientFactory, store domain.BackupStore, codec domain.Compression) *BackupService {
	return &BackupService{resolver: resolver, factory: factory, store: store, codec: codec}
}

// newBackupID builds a unique, human-scannable backup id.
func newBackupID(topic string) (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generating backup id: %w", err)
	}
	return fmt.Sprintf("backup_%s_%d_%s", topic, time.Now().Unix(), hex.EncodeToString(buf[:])), nil
}

// Backup consumes the requested partitions of a topic and persists one
// snapshot file per partition plus a run-level metadata record. Partitions
// whose consumer cannot be built are skipped with a warning; a storage
// failure aborts the run.
func (s *BackupService) Backup(ctx context.Context, clusterID string, req domain.BackupRequest) (*domain.BackupResult, error) {
	if req.Topic == "" {
		return nil, ErrInvalidTopicName
	}

	cfg, ok := s.resolver.Resolve(clusterID)
	if !ok {
		return nil, ErrClusterNotFound
	}

	partitions := req.Partitions
	if len(partitions) == 0 {
		admin, err := s.factory.Admin(cfg, "kvault-backup")
		if err != nil {
			return nil, err
		}
		partitions, err = admin.Partitions(ctx, req.Topic)
		admin.Close()
		if err != nil {
			return nil, err
		}
	}

	backupID, err := newBackupID(req.Topic)
	if err != nil {
		return nil, err
	}

	startTime := time.Now().UTC()
	utils.Logger.Info("backup started", "backupId", backupID, "cluster", clusterID,
		"topic", req.Topic, "partitions", partitions)

	var (
		total    uint64
		backedUp []int32
	)
	for _, partition := range partitions {
		if req.MaxMessages > 0 && total >= req.MaxMessages {
			break
		}

		messages := s.capturePartition(ctx, cfg, req, backupID, partition, &total)
		if messages == nil {
			continue
		}
		backedUp = append(backedUp, partition)

		if len(messages) == 0 {
			utils.Logger.Debug("partition empty, nothing stored", "backupId", backupID, "partition", partition)
			continue
		}

		data := &domain.BackupData{
			BackupID:  backupID,
			Topic:     req.Topic,
			Partition: partition,
			Messages:  messages,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.store.Store(data, s.codec); err != nil {
			utils.Logger.Error("storing backup data failed", "backupId", backupID, "partition", partition, "err", err)
			return nil, fmt.Errorf("storing backup %s partition %d: %w", backupID, partition, err)
		}
	}

	endTime := time.Now().UTC()
	utils.Logger.Info("backup finished", "backupId", backupID, "topic", req.Topic,
		"partitions", len(backedUp), "messages", total,
		"took", endTime.Sub(startTime).Round(time.Millisecond))

	return &domain.BackupResult{
		BackupID:           backupID,
		Topic:              req.Topic,
		PartitionsBackedUp: backedUp,
		TotalMessages:      total,
		StartTime:          startTime.Format(time.RFC3339),
		EndTime:            endTime.Format(time.RFC3339),
	}, nil
}

// capturePartition drains one partition within the request window. It returns
// a nil slice when the partition's consumer could not be built, which excludes
// the partition from the run without failing it.
func (s *BackupService) capturePartition(ctx context.Context, cfg config.ClusterConfig, req domain.BackupRequest, backupID string, partition int32, total *uint64) []domain.BackupMessage {
	consumer, err := s.factory.PartitionConsumer(cfg, "kvault-backup", req.Topic, partition, req.StartOffset)
	if err != nil {
		utils.Logger.Warn("skipping partition, consumer setup failed",
			"backupId", backupID, "partition", partition, "err", err)
		return nil
	}
	defer consumer.Close()

	messages := []domain.BackupMessage{}
	for {
		if req.MaxMessages > 0 && *total >= req.MaxMessages {
			return messages
		}

		pollCtx, cancel := context.WithTimeout(ctx, pollTimeout)
		records, err := consumer.Poll(pollCtx)
		cancel()
		if err != nil {
			utils.Logger.Warn("poll failed, ending partition capture",
				"backupId", backupID, "partition", partition, "err", err)
			return messages
		}
		if len(records) == 0 {
			// Nothing within the poll window: end of partition.
			return messages
		}

		for _, rec := range records {
			if req.EndOffset != nil && rec.Offset >= *req.EndOffset {
				return messages
			}
			messages = append(messages, backupMessageFromRecord(rec, req.IncludeHeaders))
			*total++
			if req.MaxMessages > 0 && *total >= req.MaxMessages {
				return messages
			}
		}
	}
}

func backupMessageFromRecord(rec domain.Record, includeHeaders bool) domain.BackupMessage {
	msg := domain.BackupMessage{
		Offset:          rec.Offset,
		TimestampMillis: rec.Timestamp.UnixMilli(),
		Value:           string(rec.Value),
	}
	if rec.Key != nil {
		key := string(rec.Key)
		msg.Key = &key
	}
	if includeHeaders && len(rec.Headers) > 0 {
		msg.Headers = append(msg.Headers, rec.Headers...)
	}
	return msg
}
