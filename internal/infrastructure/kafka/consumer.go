package kafka

import (
	"context"
	"errors"

	"github.com/OliveiraNt/kafka-vault/internal/domain"
	"github.com/twmb/franz-go/pkg/kgo"
)

// consumer implements domain.PartitionConsumer over a kgo client with a
// direct partition (or whole-topic) assignment.
type consumer struct {
	client *kgo.Client
}

// Poll fetches the next batch of records. When the wait bounded by ctx
// elapses with nothing to read, it returns an empty batch and a nil error.
func (c *consumer) Poll(ctx context.Context) ([]domain.Record, error) {
	fetches := c.client.PollFetches(ctx)
	if fetches.IsClientClosed() {
		return nil, errors.New("consumer closed")
	}

	var fetchErr error
	fetches.EachError(func(_ string, _ int32, err error) {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return
		}
		if fetchErr == nil {
			fetchErr = err
		}
	})
	if fetchErr != nil {
		return nil, fetchErr
	}

	records := make([]domain.Record, 0, fetches.NumRecords())
	fetches.EachRecord(func(r *kgo.Record) {
		records = append(records, recordFromKgo(r))
	})
	return records, nil
}

// Close releases the underlying client.
func (c *consumer) Close() {
	c.client.Close()
}

func recordFromKgo(r *kgo.Record) domain.Record {
	var headers []domain.MessageHeader
	if len(r.Headers) > 0 {
		headers = make([]domain.MessageHeader, len(r.Headers))
		for i, h := range r.Headers {
			headers[i] = domain.MessageHeader{Key: h.Key, Value: string(h.Value)}
		}
	}
	return domain.Record{
		Partition: r.Partition,
		Offset:    r.Offset,
		Timestamp: r.Timestamp,
		Key:       r.Key,
		Value:     r.Value,
		Headers:   headers,
	}
}
