package kafka

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/OliveiraNt/kafka-vault/internal/application"
	"github.com/OliveiraNt/kafka-vault/internal/domain"
	"github.com/OliveiraNt/kafka-vault/internal/utils"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	metadataTimeout = 10 * time.Second
	adminTimeout    = 30 * time.Second
)

// internalTopicPrefix marks broker-internal topics excluded from listings.
const internalTopicPrefix = "__"

// Admin implements domain.AdminClient using franz-go's kadm package.
type Admin struct {
	client *kgo.Client
	admin  *kadm.Client
}

// NewAdmin creates a new Admin over the given clients.
func NewAdmin(client *kgo.Client, admin *kadm.Client) *Admin {
	return &Admin{client: client, admin: admin}
}

// ListTopics returns all non-internal topics with their partition counts.
func (a *Admin) ListTopics(ctx context.Context) ([]domain.TopicListing, error) {
	cctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	details, err := a.admin.ListTopics(cctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.TopicListing, 0, len(details))
	for name, detail := range details {
		if strings.HasPrefix(name, internalTopicPrefix) {
			continue
		}
		listing := domain.TopicListing{
			Name:       name,
			Partitions: len(detail.Partitions),
		}
		if detail.Err != nil {
			listing.Error = detail.Err.Error()
		}
		out = append(out, listing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CreateTopic creates a topic with the given spec.
func (a *Admin) CreateTopic(ctx context.Context, spec domain.TopicSpec) error {
	cctx, cancel := context.WithTimeout(ctx, adminTimeout)
	defer cancel()

	var configs map[string]*string
	if len(spec.Configs) > 0 {
		configs = make(map[string]*string, len(spec.Configs))
		for _, c := range spec.Configs {
			v := c.Value
			configs[c.Key] = &v
		}
	}

	resp, err := a.admin.CreateTopics(cctx, spec.Partitions, spec.ReplicationFactor, configs, spec.Name)
	if err != nil {
		return err
	}
	for _, r := range resp {
		if r.Err != nil {
			return &application.BrokerError{Op: "create topic", Resource: r.Topic, Err: r.Err}
		}
	}
	return nil
}

// DeleteTopic deletes a topic.
func (a *Admin) DeleteTopic(ctx context.Context, name string) error {
	cctx, cancel := context.WithTimeout(ctx, adminTimeout)
	defer cancel()

	resp, err := a.admin.DeleteTopics(cctx, name)
	if err != nil {
		return err
	}
	for _, r := range resp {
		if r.Err != nil {
			if errors.Is(r.Err, kerr.UnknownTopicOrPartition) {
				return application.ErrTopicNotFound
			}
			return &application.BrokerError{Op: "delete topic", Resource: r.Topic, Err: r.Err}
		}
	}
	return nil
}

// DescribeTopic returns the partition-level view of a topic, enriched with
// current low/high watermarks. A watermark fetch failure for one partition is
// recorded as offsets (0,0) and does not abort the others.
func (a *Admin) DescribeTopic(ctx context.Context, name string) (*domain.TopicDescription, error) {
	cctx, cancel := context.WithTimeout(ctx, adminTimeout)
	defer cancel()

	details, err := a.admin.ListTopics(cctx, name)
	if err != nil {
		return nil, err
	}
	detail, ok := details[name]
	if !ok || errors.Is(detail.Err, kerr.UnknownTopicOrPartition) {
		return nil, application.ErrTopicNotFound
	}
	if detail.Err != nil {
		return nil, &application.BrokerError{Op: "describe topic", Resource: name, Err: detail.Err}
	}

	starts, err := a.admin.ListStartOffsets(cctx, name)
	if err != nil {
		utils.Logger.Warn("fetch start offsets failed", "topic", name, "err", err)
		starts = nil
	}
	ends, err := a.admin.ListEndOffsets(cctx, name)
	if err != nil {
		utils.Logger.Warn("fetch end offsets failed", "topic", name, "err", err)
		ends = nil
	}

	ids := make([]int32, 0, len(detail.Partitions))
	for id := range detail.Partitions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	partitions := make([]domain.PartitionDescriptor, 0, len(ids))
	for _, id := range ids {
		p := detail.Partitions[id]
		partitions = append(partitions, domain.PartitionDescriptor{
			ID:             p.Partition,
			Leader:         p.Leader,
			Replicas:       p.Replicas,
			InSyncReplicas: p.ISR,
			Offsets:        watermarks(starts, ends, name, id),
		})
	}

	return &domain.TopicDescription{Name: name, Partitions: partitions}, nil
}

// watermarks extracts the (earliest, latest) pair for one partition, falling
// back to (0,0) on any per-partition error.
func watermarks(starts, ends kadm.ListedOffsets, topic string, partition int32) domain.PartitionOffsets {
	var out domain.PartitionOffsets
	if start, ok := starts.Lookup(topic, partition); ok && start.Err == nil {
		out.Earliest = start.Offset
	}
	if end, ok := ends.Lookup(topic, partition); ok && end.Err == nil {
		out.Latest = end.Offset
	}
	return out
}

// AlterTopicConfigs applies (or, with validateOnly, only validates) the given
// config entries on a topic.
func (a *Admin) AlterTopicConfigs(ctx context.Context, name string, entries []domain.ConfigEntry, validateOnly bool) error {
	cctx, cancel := context.WithTimeout(ctx, adminTimeout)
	defer cancel()

	configs := make([]kadm.AlterConfig, 0, len(entries))
	for _, e := range entries {
		v := e.Value
		configs = append(configs, kadm.AlterConfig{
			Op:    kadm.SetConfig,
			Name:  e.Key,
			Value: &v,
		})
	}

	var (
		resp kadm.AlterConfigsResponses
		err  error
	)
	if validateOnly {
		resp, err = a.admin.ValidateAlterTopicConfigs(cctx, configs, name)
	} else {
		resp, err = a.admin.AlterTopicConfigs(cctx, configs, name)
	}
	if err != nil {
		return err
	}
	for _, r := range resp {
		if r.Err != nil {
			return &application.BrokerError{Op: "alter topic configs", Resource: r.Name, Err: r.Err}
		}
	}
	return nil
}

// UpdatePartitions sets the total partition count of a topic. The broker
// rejects decreases.
func (a *Admin) UpdatePartitions(ctx context.Context, name string, total int32, validateOnly bool) error {
	cctx, cancel := context.WithTimeout(ctx, adminTimeout)
	defer cancel()

	var (
		resp kadm.CreatePartitionsResponses
		err  error
	)
	if validateOnly {
		resp, err = a.admin.ValidateUpdatePartitions(cctx, int(total), name)
	} else {
		resp, err = a.admin.UpdatePartitions(cctx, int(total), name)
	}
	if err != nil {
		return err
	}
	for _, r := range resp {
		if r.Err != nil {
			if errors.Is(r.Err, kerr.UnknownTopicOrPartition) {
				return application.ErrTopicNotFound
			}
			return &application.BrokerError{Op: "update partitions", Resource: r.Topic, Err: r.Err}
		}
	}
	return nil
}

// Partitions returns the partition ids of a topic, sorted ascending.
func (a *Admin) Partitions(ctx context.Context, topic string) ([]int32, error) {
	cctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	details, err := a.admin.ListTopics(cctx, topic)
	if err != nil {
		return nil, err
	}
	detail, ok := details[topic]
	if !ok || errors.Is(detail.Err, kerr.UnknownTopicOrPartition) {
		return nil, application.ErrTopicNotFound
	}
	if detail.Err != nil {
		return nil, &application.BrokerError{Op: "topic metadata", Resource: topic, Err: detail.Err}
	}

	ids := make([]int32, 0, len(detail.Partitions))
	for id := range detail.Partitions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// BrokerStatus returns the id, host and port of every broker in the cluster.
func (a *Admin) BrokerStatus(ctx context.Context) ([]domain.BrokerStatus, error) {
	cctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	meta, err := a.admin.BrokerMetadata(cctx)
	if err != nil {
		return nil, err
	}

	brokers := make([]domain.BrokerStatus, 0, len(meta.Brokers))
	for _, b := range meta.Brokers {
		brokers = append(brokers, domain.BrokerStatus{
			ID:   b.NodeID,
			Host: b.Host,
			Port: b.Port,
		})
	}
	sort.Slice(brokers, func(i, j int) bool { return brokers[i].ID < brokers[j].ID })
	return brokers, nil
}

// Close releases the underlying client.
func (a *Admin) Close() {
	a.client.Close()
}
