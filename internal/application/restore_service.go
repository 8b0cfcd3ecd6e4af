package application

import (
	"context"
	"slices"
	"time"

	"github.com/OliveiraNt/kafka-vault/internal/domain"
	"github.com/OliveiraNt/kafka-vault/internal/utils"
)

// produceTimeout bounds each individual publish during a restore run.
const produceTimeout = 10 * time.Second

// RestoreService republishes backed-up messages into a target topic.
type RestoreService struct {
	resolver domain.ClusterResolver
	factory  domain.ClientFactory
	store    domain.BackupStore
}

// NewRestoreService creates a new restore service reading from store.
func NewRestoreService(resolver domain.ClusterResolver, factory domain.ClientFactory, store domain.BackupStore) *RestoreService {
	return &RestoreService{resolver: resolver, factory: factory, store: store}
}

// Restore loads the backup's metadata, then replays each requested partition
// into the target topic in ascending offset order. Partitions absent from the
// metadata are skipped with a warning, as are partitions whose snapshot fails
// to load. Individual publish failures are logged and do not stop the run.
func (s *RestoreService) Restore(ctx context.Context, clusterID string, req domain.RestoreRequest) (*domain.RestoreResult, error) {
	if req.BackupID == "" {
		return nil, ErrInvalidBackupID
	}
	if req.TargetTopic == "" {
		return nil, ErrInvalidTopicName
	}

	cfg, ok := s.resolver.Resolve(clusterID)
	if !ok {
		return nil, ErrClusterNotFound
	}

	// Metadata is loaded before any producer is built so that an unknown
	// backup id fails without a single publish.
	meta, err := s.store.LoadMetadata(req.BackupID)
	if err != nil {
		return nil, err
	}

	partitions := req.Partitions
	if len(partitions) == 0 {
		partitions = meta.Partitions
	}

	producer, err := s.factory.Producer(cfg, "kvault-restore")
	if err != nil {
		return nil, err
	}
	defer producer.Close()

	startTime := time.Now().UTC()
	utils.Logger.Info("restore started", "backupId", req.BackupID, "cluster", clusterID,
		"targetTopic", req.TargetTopic, "partitions", partitions)

	var (
		total    uint64
		restored []int32
	)
	for _, partition := range partitions {
		if !slices.Contains(meta.Partitions, partition) {
			utils.Logger.Warn("partition not in backup metadata, skipping",
				"backupId", req.BackupID, "partition", partition)
			continue
		}

		data, err := s.store.Load(req.BackupID, partition)
		if err != nil {
			utils.Logger.Warn("loading backup data failed, skipping partition",
				"backupId", req.BackupID, "partition", partition, "err", err)
			continue
		}

		for _, msg := range data.Messages {
			if err := s.produceOne(ctx, producer, req, msg); err != nil {
				utils.Logger.Warn("publish failed, continuing",
					"backupId", req.BackupID, "partition", partition, "offset", msg.Offset, "err", err)
				continue
			}
			total++
		}
		restored = append(restored, partition)
	}

	endTime := time.Now().UTC()
	utils.Logger.Info("restore finished", "backupId", req.BackupID,
		"targetTopic", req.TargetTopic, "partitions", len(restored), "messages", total,
		"took", endTime.Sub(startTime).Round(time.Millisecond))

	return &domain.RestoreResult{
		TargetTopic:        req.TargetTopic,
		MessagesRestored:   total,
		PartitionsRestored: restored,
		StartTime:          startTime.Format(time.RFC3339),
		EndTime:            endTime.Format(time.RFC3339),
	}, nil
}

func (s *RestoreService) produceOne(ctx context.Context, producer domain.Producer, req domain.RestoreRequest, msg domain.BackupMessage) error {
	rec := domain.Record{Value: []byte(msg.Value)}
	if req.PreserveKeys && msg.Key != nil {
		rec.Key = []byte(*msg.Key)
	}
	if req.PreserveHeaders && len(msg.Headers) > 0 {
		rec.Headers = msg.Headers
	}
	if req.PreserveTimestamps {
		rec.Timestamp = time.UnixMilli(msg.TimestampMillis)
	}

	produceCtx, cancel := context.WithTimeout(ctx, produceTimeout)
	defer cancel()
	return producer.Produce(produceCtx, req.TargetTopic, rec)
}
