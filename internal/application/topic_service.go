package application

import (
	"context"

	"github.com/OliveiraNt/kafka-vault/internal/domain"
	"github.com/OliveiraNt/kafka-vault/internal/utils"
)

// TopicService handles topic administration for a resolved cluster: listing,
// creation, description, deletion, configuration changes and partition
// expansion. Every operation builds a fresh admin client and closes it on
// completion.
type TopicService struct {
	resolver domain.ClusterResolver
	factory  domain.ClientFactory
}

// NewTopicService creates a new topic service.
func NewTopicService(resolver domain.ClusterResolver, factory domain.ClientFactory) *TopicService {
	return &TopicService{resolver: resolver, factory: factory}
}

func (s *TopicService) admin(clusterID string) (domain.AdminClient, error) {
	cfg, ok := s.resolver.Resolve(clusterID)
	if !ok {
		return nil, ErrClusterNotFound
	}
	return s.factory.Admin(cfg, "kvault-topic-admin")
}

// ListTopics returns the non-internal topics of the cluster, sorted by name.
func (s *TopicService) ListTopics(ctx context.Context, clusterID string) ([]domain.TopicListing, error) {
	admin, err := s.admin(clusterID)
	if err != nil {
		return nil, err
	}
	defer admin.Close()

	topics, err := admin.ListTopics(ctx)
	if err != nil {
		utils.Logger.Error("list topics failed", "cluster", clusterID, "err", err)
		return nil, err
	}
	return topics, nil
}

// CreateTopic validates the spec and creates the topic on the broker.
func (s *TopicService) CreateTopic(ctx context.Context, clusterID string, spec domain.TopicSpec) (*domain.CreateTopicResult, error) {
	if spec.Name == "" {
		return nil, ErrInvalidTopicName
	}
	if spec.Partitions <= 0 {
		return nil, ErrInvalidPartitionCount
	}
	if spec.ReplicationFactor <= 0 {
		return nil, ErrInvalidReplicationFactor
	}

	admin, err := s.admin(clusterID)
	if err != nil {
		return nil, err
	}
	defer admin.Close()

	if err := admin.CreateTopic(ctx, spec); err != nil {
		utils.Logger.Error("create topic failed", "cluster", clusterID, "topic", spec.Name, "err", err)
		return nil, err
	}

	utils.Logger.Info("topic created", "cluster", clusterID, "topic", spec.Name,
		"partitions", spec.Partitions, "replicationFactor", spec.ReplicationFactor)
	return &domain.CreateTopicResult{
		Name:              spec.Name,
		Partitions:        spec.Partitions,
		ReplicationFactor: spec.ReplicationFactor,
	}, nil
}

// DescribeTopic returns the partition-level view of a topic, including
// per-partition watermarks.
func (s *TopicService) DescribeTopic(ctx context.Context, clusterID, name string) (*domain.TopicDescription, error) {
	if name == "" {
		return nil, ErrInvalidTopicName
	}

	admin, err := s.admin(clusterID)
	if err != nil {
		return nil, err
	}
	defer admin.Close()

	return admin.DescribeTopic(ctx, name)
}

// DeleteTopic removes a topic from the cluster.
func (s *TopicService) DeleteTopic(ctx context.Context, clusterID, name string) error {
	if name == "" {
		return ErrInvalidTopicName
	}

	admin, err := s.admin(clusterID)
	if err != nil {
		return err
	}
	defer admin.Close()

	if err := admin.DeleteTopic(ctx, name); err != nil {
		utils.Logger.Error("delete topic failed", "cluster", clusterID, "topic", name, "err", err)
		return err
	}
	utils.Logger.Info("topic deleted", "cluster", clusterID, "topic", name)
	return nil
}

// AlterTopicConfig submits a batch of config entries for a topic. With
// validateOnly the broker checks the change without applying it.
func (s *TopicService) AlterTopicConfig(ctx context.Context, clusterID, name string, entries []domain.ConfigEntry, validateOnly bool) (*domain.AlterConfigResult, error) {
	if name == "" {
		return nil, ErrInvalidTopicName
	}
	if len(entries) == 0 {
		return nil, ErrInvalidTopicConfig
	}
	for _, e := range entries {
		if e.Key == "" {
			return nil, ErrInvalidTopicConfig
		}
	}

	admin, err := s.admin(clusterID)
	if err != nil {
		return nil, err
	}
	defer admin.Close()

	if err := admin.AlterTopicConfigs(ctx, name, entries, validateOnly); err != nil {
		utils.Logger.Error("alter topic configs failed", "cluster", clusterID, "topic", name, "err", err)
		return nil, err
	}

	utils.Logger.Info("topic configs altered", "cluster", clusterID, "topic", name,
		"entries", len(entries), "validateOnly", validateOnly)
	return &domain.AlterConfigResult{
		Resource:     "topic",
		Topic:        name,
		ValidateOnly: validateOnly,
		Applied:      !validateOnly,
	}, nil
}

// AddPartitions grows a topic to newTotal partitions. The count is validated
// before any broker call is made.
func (s *TopicService) AddPartitions(ctx context.Context, clusterID, name string, newTotal int32, validateOnly bool) (*domain.AddPartitionsResult, error) {
	if name == "" {
		return nil, ErrInvalidTopicName
	}
	if newTotal <= 0 {
		return nil, ErrInvalidPartitionCount
	}

	admin, err := s.admin(clusterID)
	if err != nil {
		return nil, err
	}
	defer admin.Close()

	if err := admin.UpdatePartitions(ctx, name, newTotal, validateOnly); err != nil {
		utils.Logger.Error("add partitions failed", "cluster", clusterID, "topic", name, "err", err)
		return nil, err
	}

	utils.Logger.Info("partitions updated", "cluster", clusterID, "topic", name,
		"total", newTotal, "validateOnly", validateOnly)
	return &domain.AddPartitionsResult{
		Topic:              name,
		NewTotalPartitions: newTotal,
		ValidateOnly:       validateOnly,
	}, nil
}

// WriteMessage publishes a single record to a topic.
func (s *TopicService) WriteMessage(ctx context.Context, clusterID, topic string, rec domain.Record) error {
	if topic == "" {
		return ErrInvalidTopicName
	}

	cfg, ok := s.resolver.Resolve(clusterID)
	if !ok {
		return ErrClusterNotFound
	}

	producer, err := s.factory.Producer(cfg, "kvault-producer")
	if err != nil {
		return err
	}
	defer producer.Close()

	if err := producer.Produce(ctx, topic, rec); err != nil {
		utils.Logger.Error("write message failed", "cluster", clusterID, "topic", topic, "err", err)
		return err
	}
	return nil
}

// StreamMessages tails a topic from the log end, sending each record to out
// until ctx is cancelled. The caller owns the channel; it is not closed here.
func (s *TopicService) StreamMessages(ctx context.Context, clusterID, topic string, out chan<- domain.Record) error {
	if topic == "" {
		return ErrInvalidTopicName
	}

	cfg, ok := s.resolver.Resolve(clusterID)
	if !ok {
		return ErrClusterNotFound
	}

	consumer, err := s.factory.TopicConsumer(cfg, "kvault-tail", topic)
	if err != nil {
		return err
	}
	defer consumer.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		records, err := consumer.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			utils.Logger.Error("stream poll failed", "cluster", clusterID, "topic", topic, "err", err)
			return err
		}
		for _, rec := range records {
			select {
			case out <- rec:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
