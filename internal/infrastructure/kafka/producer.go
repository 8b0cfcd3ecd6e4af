package kafka

import (
	"context"

	"github.com/OliveiraNt/kafka-vault/internal/domain"
	"github.com/twmb/franz-go/pkg/kgo"
)

// producer implements domain.Producer over a kgo client.
type producer struct {
	client *kgo.Client
}

// Produce publishes a single record synchronously, honoring ctx for the wait.
func (p *producer) Produce(ctx context.Context, topic string, rec domain.Record) error {
	return p.client.ProduceSync(ctx, recordToKgo(topic, rec)).FirstErr()
}

// Close flushes pending records and releases the underlying client.
func (p *producer) Close() {
	p.client.Close()
}

func recordToKgo(topic string, rec domain.Record) *kgo.Record {
	var headers []kgo.RecordHeader
	if len(rec.Headers) > 0 {
		headers = make([]kgo.RecordHeader, len(rec.Headers))
		for i, h := range rec.Headers {
			headers[i] = kgo.RecordHeader{Key: h.Key, Value: []byte(h.Value)}
		}
	}
	return &kgo.Record{
		Topic:     topic,
		Key:       rec.Key,
		Value:     rec.Value,
		Headers:   headers,
		Timestamp: rec.Timestamp,
	}
}
