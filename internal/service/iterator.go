// Package service turns a stream of Kafka messages into decoded work items
// for the ranking worker. Payloads are either a ranking request inline or a
// MinIO bucket notification pointing at a stored request object.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"tourism/internal/logging"
	"tourism/internal/metrics"
)

// MessageIterator is the consumer side the Iterator reads from.
// pkg/kafkaclient.KafkaConsumer satisfies it.
type MessageIterator interface {
	// Messages is closed when the consumer stops.
	Messages() <-chan kafka.Message
	CommitOffset(ctx context.Context, msg kafka.Message) error
}

// Decoder turns one message into a work item.
type Decoder[T any] func(ctx context.Context, msg kafka.Message) (T, error)

// LoaderFunc loads and decodes the object at bucket/key.
type LoaderFunc[T any] func(ctx context.Context, bucket, key string) (T, error)

// Fetched pairs a decoded item with the message it came from.
type Fetched[T any] struct {
	Data    T
	Message kafka.Message
}

// ErrNoRecords is returned for a notification without any records.
var ErrNoRecords = errors.New("notification has no records")

type Iterator[T any] struct {
	msgs   MessageIterator
	decode Decoder[T]
	log    zerolog.Logger
}

func NewIterator[T any](msgs MessageIterator, decode Decoder[T]) *Iterator[T] {
	return &Iterator[T]{
		msgs:   msgs,
		decode: decode,
		log:    logging.With().Str("component", "iterator").Logger(),
	}
}

// Objects streams decoded items until the message channel closes or ctx is
// done. Messages that fail to decode are logged, committed and skipped so a
// malformed payload is not redelivered forever. Decoded items are committed
// by the caller through Commit once handled.
func (it *Iterator[T]) Objects(ctx context.Context) <-chan *Fetched[T] {
	out := make(chan *Fetched[T])
	go func() {
		defer close(out)
		for {
			var (
				msg kafka.Message
				ok  bool
			)
			select {
			case <-ctx.Done():
				return
			case msg, ok = <-it.msgs.Messages():
				if !ok {
					return
				}
			}

			data, err := it.decode(ctx, msg)
			if err != nil {
				it.log.Warn().Err(err).
					Int("partition", msg.Partition).
					Int64("offset", msg.Offset).
					Msg("skipping undecodable message")
				metrics.WorkerMessages.WithLabelValues("undecodable").Inc()
				it.commit(ctx, msg)
				continue
			}

			select {
			case out <- &Fetched[T]{Data: data, Message: msg}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Commit acknowledges the message behind f.
func (it *Iterator[T]) Commit(ctx context.Context, f *Fetched[T]) {
	it.commit(ctx, f.Message)
}

func (it *Iterator[T]) commit(ctx context.Context, msg kafka.Message) {
	if err := it.msgs.CommitOffset(ctx, msg); err != nil {
		it.log.Error().Err(err).Int64("offset", msg.Offset).Msg("failed to commit offset")
	}
}

// DecodeJSON decodes the message value directly as T.
func DecodeJSON[T any]() Decoder[T] {
	return func(_ context.Context, msg kafka.Message) (T, error) {
		var v T
		if err := json.Unmarshal(msg.Value, &v); err != nil {
			return v, fmt.Errorf("decode payload: %w", err)
		}
		return v, nil
	}
}

// DecodeNotification reads a MinIO notification and loads the object named
// by its first record.
func DecodeNotification[T any](load LoaderFunc[T]) Decoder[T] {
	return func(ctx context.Context, msg kafka.Message) (T, error) {
		var zero T
		var event notification.Info
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return zero, fmt.Errorf("decode notification: %w", err)
		}
		if len(event.Records) == 0 {
			return zero, ErrNoRecords
		}
		s3 := event.Records[0].S3
		key, err := url.QueryUnescape(s3.Object.Key)
		if err != nil {
			return zero, fmt.Errorf("unescape object key %q: %w", s3.Object.Key, err)
		}
		v, err := load(ctx, s3.Bucket.Name, key)
		if err != nil {
			return zero, fmt.Errorf("load %s/%s: %w", s3.Bucket.Name, key, err)
		}
		return v, nil
	}
}

// Sniff routes payloads carrying a top-level "Records" array to notif and
// everything else to direct.
func Sniff[T any](notif, direct Decoder[T]) Decoder[T] {
	return func(ctx context.Context, msg kafka.Message) (T, error) {
		var head struct {
			Records json.RawMessage `json:"Records"`
		}
		if err := json.Unmarshal(msg.Value, &head); err == nil && len(head.Records) > 0 {
			return notif(ctx, msg)
		}
		return direct(ctx, msg)
	}
}
