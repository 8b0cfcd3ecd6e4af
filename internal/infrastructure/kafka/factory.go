package kafka

import (
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/OliveiraNt/kafka-vault/internal/config"
	"github.com/OliveiraNt/kafka-vault/internal/domain"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl"
	"github.com/twmb/franz-go/pkg/sasl/plain"
	"github.com/twmb/franz-go/pkg/sasl/scram"
)

// Factory builds Kafka clients from cluster connection settings. Clients are
// constructed per operation and never pooled.
type Factory struct{}

// NewFactory creates a new client factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Admin builds an admin client for the cluster.
func (f *Factory) Admin(cfg config.ClusterConfig, clientID string) (domain.AdminClient, error) {
	client, err := newKgoClient(cfg, clientID)
	if err != nil {
		return nil, err
	}
	return NewAdmin(client, kadm.NewClient(client)), nil
}

// PartitionConsumer builds a consumer bound to a single partition, positioned
// at start or at the earliest offset when start is nil.
func (f *Factory) PartitionConsumer(cfg config.ClusterConfig, clientID, topic string, partition int32, start *int64) (domain.PartitionConsumer, error) {
	offset := kgo.NewOffset().AtStart()
	if start != nil {
		offset = kgo.NewOffset().At(*start)
	}
	client, err := newKgoClient(cfg, clientID,
		kgo.ConsumePartitions(map[string]map[int32]kgo.Offset{
			topic: {partition: offset},
		}),
	)
	if err != nil {
		return nil, err
	}
	return &consumer{client: client}, nil
}

// TopicConsumer builds a consumer over every partition of the topic, starting
// at the log end.
func (f *Factory) TopicConsumer(cfg config.ClusterConfig, clientID, topic string) (domain.PartitionConsumer, error) {
	client, err := newKgoClient(cfg, clientID,
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtEnd()),
	)
	if err != nil {
		return nil, err
	}
	return &consumer{client: client}, nil
}

// Producer builds a producer client for the cluster.
func (f *Factory) Producer(cfg config.ClusterConfig, clientID string) (domain.Producer, error) {
	client, err := newKgoClient(cfg, clientID)
	if err != nil {
		return nil, err
	}
	return &producer{client: client}, nil
}

func newKgoClient(cfg config.ClusterConfig, clientID string, extra ...kgo.Opt) (*kgo.Client, error) {
	var opts []kgo.Opt

	if len(cfg.BootstrapServers) > 0 {
		opts = append(opts, kgo.SeedBrokers(cfg.BootstrapServers...))
	}
	if clientID != "" {
		opts = append(opts, kgo.ClientID(clientID))
	} else if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	if wantsTLS(cfg.SecurityProtocol) {
		opts = append(opts, kgo.DialTLSConfig(new(tls.Config)))
	}
	if cfg.SASLMechanism != "" {
		mech, err := buildSASLMechanism(cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, kgo.SASL(mech))
	}
	opts = append(opts, extra...)

	return kgo.NewClient(opts...)
}

// wantsTLS reports whether the security protocol implies a TLS dialer.
func wantsTLS(protocol string) bool {
	return strings.Contains(strings.ToUpper(protocol), "SSL")
}

// buildSASLMechanism creates a franz-go sasl.Mechanism from the cluster's
// SASL settings.
func buildSASLMechanism(cfg config.ClusterConfig) (sasl.Mechanism, error) {
	switch strings.ToUpper(cfg.SASLMechanism) {
	case "PLAIN":
		return plain.Auth{User: cfg.SASLUsername, Pass: cfg.SASLPassword}.AsMechanism(), nil
	case "SCRAM-SHA-256", "SCRAM-SHA256":
		return scram.Auth{User: cfg.SASLUsername, Pass: cfg.SASLPassword}.AsSha256Mechanism(), nil
	case "SCRAM-SHA-512", "SCRAM-SHA512":
		return scram.Auth{User: cfg.SASLUsername, Pass: cfg.SASLPassword}.AsSha512Mechanism(), nil
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism %q", cfg.SASLMechanism)
	}
}
