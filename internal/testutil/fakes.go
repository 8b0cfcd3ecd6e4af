package testutil

import (
	"context"

	"github.com/OliveiraNt/kafka-vault/internal/config"
	"github.com/OliveiraNt/kafka-vault/internal/domain"
)

// FakeRepository is a simple in-memory cluster repository for tests.
type FakeRepository struct {
	Cfgs    []config.ClusterConfig
	SaveErr error
}

func NewFakeRepository(cfgs ...config.ClusterConfig) *FakeRepository {
	return &FakeRepository{Cfgs: cfgs}
}

func (r *FakeRepository) Resolve(idOrName string) (config.ClusterConfig, bool) {
	for _, c := range r.Cfgs {
		if c.ID != "" && c.ID == idOrName {
			return c, true
		}
	}
	for _, c := range r.Cfgs {
		if c.Name == idOrName {
			return c, true
		}
	}
	return config.ClusterConfig{}, false
}

func (r *FakeRepository) Save(cfg config.ClusterConfig) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	for i, c := range r.Cfgs {
		if (cfg.ID != "" && c.ID == cfg.ID) || c.Name == cfg.Name {
			r.Cfgs[i] = cfg
			return nil
		}
	}
	r.Cfgs = append(r.Cfgs, cfg)
	return nil
}

func (r *FakeRepository) Delete(idOrName string) error {
	for i, c := range r.Cfgs {
		if c.ID == idOrName || c.Name == idOrName {
			r.Cfgs = append(r.Cfgs[:i], r.Cfgs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *FakeRepository) FindAll() []config.ClusterConfig {
	return append([]config.ClusterConfig(nil), r.Cfgs...)
}

func (r *FakeRepository) Watch() error { return nil }

// FakeAdmin is a test double implementing domain.AdminClient, recording the
// mutating calls it receives.
type FakeAdmin struct {
	Topics         []domain.TopicListing
	Description    *domain.TopicDescription
	PartitionIDs   []int32
	Brokers        []domain.BrokerStatus
	Err            error
	CreatedSpecs   []domain.TopicSpec
	DeletedTopics  []string
	AlterCalls     []AlterCall
	PartitionCalls []PartitionCall
	Closed         bool
}

type AlterCall struct {
	Topic        string
	Entries      []domain.ConfigEntry
	ValidateOnly bool
}

type PartitionCall struct {
	Topic        string
	Total        int32
	ValidateOnly bool
}

func (f *FakeAdmin) ListTopics(_ context.Context) ([]domain.TopicListing, error) {
	return f.Topics, f.Err
}

func (f *FakeAdmin) CreateTopic(_ context.Context, spec domain.TopicSpec) error {
	if f.Err != nil {
		return f.Err
	}
	f.CreatedSpecs = append(f.CreatedSpecs, spec)
	return nil
}

func (f *FakeAdmin) DeleteTopic(_ context.Context, name string) error {
	if f.Err != nil {
		return f.Err
	}
	f.DeletedTopics = append(f.DeletedTopics, name)
	return nil
}

func (f *FakeAdmin) DescribeTopic(_ context.Context, _ string) (*domain.TopicDescription, error) {
	return f.Description, f.Err
}

func (f *FakeAdmin) AlterTopicConfigs(_ context.Context, name string, entries []domain.ConfigEntry, validateOnly bool) error {
	if f.Err != nil {
		return f.Err
	}
	f.AlterCalls = append(f.AlterCalls, AlterCall{Topic: name, Entries: entries, ValidateOnly: validateOnly})
	return nil
}

func (f *FakeAdmin) UpdatePartitions(_ context.Context, name string, total int32, validateOnly bool) error {
	if f.Err != nil {
		return f.Err
	}
	f.PartitionCalls = append(f.PartitionCalls, PartitionCall{Topic: name, Total: total, ValidateOnly: validateOnly})
	return nil
}

func (f *FakeAdmin) Partitions(_ context.Context, _ string) ([]int32, error) {
	return f.PartitionIDs, f.Err
}

func (f *FakeAdmin) BrokerStatus(_ context.Context) ([]domain.BrokerStatus, error) {
	return f.Brokers, f.Err
}

func (f *FakeAdmin) Close() { f.Closed = true }

// FakeConsumer serves its prepared batches one per Poll, then empty batches.
type FakeConsumer struct {
	Batches [][]domain.Record
	Err     error
	Closed  bool

	next int
}

func (f *FakeConsumer) Poll(_ context.Context) ([]domain.Record, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if f.next >= len(f.Batches) {
		return nil, nil
	}
	batch := f.Batches[f.next]
	f.next++
	return batch, nil
}

func (f *FakeConsumer) Close() { f.Closed = true }

// FakeProducer captures every produced record, optionally failing specific
// sends by zero-based sequence number.
type FakeProducer struct {
	Produced []domain.Record
	Topics   []string
	Err      error
	FailAt   map[int]error
	Closed   bool

	calls int
}

func (f *FakeProducer) Produce(_ context.Context, topic string, rec domain.Record) error {
	seq := f.calls
	f.calls++
	if f.Err != nil {
		return f.Err
	}
	if err, ok := f.FailAt[seq]; ok {
		return err
	}
	f.Produced = append(f.Produced, rec)
	f.Topics = append(f.Topics, topic)
	return nil
}

func (f *FakeProducer) Close() { f.Closed = true }

// FakeFactory hands out the configured fakes for any cluster config.
type FakeFactory struct {
	AdminClient  *FakeAdmin
	Consumers    map[int32]*FakeConsumer
	TailConsumer *FakeConsumer
	ProducerFake *FakeProducer

	AdminErr    error
	ConsumerErr map[int32]error
	ProducerErr error

	// StartOffsets records the start offset requested per partition, with
	// nil meaning "earliest".
	StartOffsets map[int32]*int64
}

func NewFakeFactory() *FakeFactory {
	return &FakeFactory{
		AdminClient:  &FakeAdmin{},
		Consumers:    map[int32]*FakeConsumer{},
		ProducerFake: &FakeProducer{},
		ConsumerErr:  map[int32]error{},
		StartOffsets: map[int32]*int64{},
	}
}

func (f *FakeFactory) Admin(_ config.ClusterConfig, _ string) (domain.AdminClient, error) {
	if f.AdminErr != nil {
		return nil, f.AdminErr
	}
	return f.AdminClient, nil
}

func (f *FakeFactory) PartitionConsumer(_ config.ClusterConfig, _, _ string, partition int32, start *int64) (domain.PartitionConsumer, error) {
	if err := f.ConsumerErr[partition]; err != nil {
		return nil, err
	}
	f.StartOffsets[partition] = start
	if c, ok := f.Consumers[partition]; ok {
		return c, nil
	}
	return &FakeConsumer{}, nil
}

func (f *FakeFactory) TopicConsumer(_ config.ClusterConfig, _, _ string) (domain.PartitionConsumer, error) {
	if f.TailConsumer != nil {
		return f.TailConsumer, nil
	}
	return &FakeConsumer{}, nil
}

func (f *FakeFactory) Producer(_ config.ClusterConfig, _ string) (domain.Producer, error) {
	if f.ProducerErr != nil {
		return nil, f.ProducerErr
	}
	return f.ProducerFake, nil
}
