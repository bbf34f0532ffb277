// Package kafkaclient wraps segmentio/kafka-go with a channel-based consumer
// and a JSON producer.
package kafkaclient

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"tourism/internal/logging"
)

// KafkaReader is the subset of *kafka.Reader used by the consumer.
type KafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// readBackoff is the pause after a failed read.
const readBackoff = time.Second

// KafkaConsumer reads messages in a background loop and hands them out on
// Messages. Offsets are committed explicitly with CommitOffset.
type KafkaConsumer struct {
	reader      KafkaReader
	doneChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
	messageChan chan kafka.Message
	log         zerolog.Logger
}

func NewKafkaConsumer(topic, groupID, broker string) (*KafkaConsumer, error) {
	if topic == "" || broker == "" {
		return nil, errors.New("kafkaclient: topic and broker are required")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: groupID,
		// Manual commits only.
		CommitInterval: 0,
		MinBytes:       1,
		MaxBytes:       10e6,
	})
	return newConsumer(reader), nil
}

func newConsumer(reader KafkaReader) *KafkaConsumer {
	return &KafkaConsumer{
		reader:      reader,
		doneChan:    make(chan struct{}),
		messageChan: make(chan kafka.Message),
		log:         logging.With().Str("component", "kafka-consumer").Logger(),
	}
}

// Messages is closed when the consume loop exits.
func (kc *KafkaConsumer) Messages() <-chan kafka.Message {
	return kc.messageChan
}

func (kc *KafkaConsumer) CommitOffset(ctx context.Context, msg kafka.Message) error {
	kc.log.Debug().Str("topic", msg.Topic).Int("partition", msg.Partition).Int64("offset", msg.Offset).Msg("committing offset")
	return kc.reader.CommitMessages(ctx, msg)
}

// StartConsuming runs the read loop until ctx is done, Stop is called, or
// the reader is closed.
func (kc *KafkaConsumer) StartConsuming(ctx context.Context) {
	kc.wg.Add(1)
	go func() {
		defer kc.wg.Done()
		defer close(kc.messageChan)

		kc.log.Info().Msg("starting consumer loop")
		for {
			select {
			case <-ctx.Done():
				return
			case <-kc.doneChan:
				return
			default:
			}

			msg, err := kc.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					kc.log.Info().Err(err).Msg("consumer loop stopped")
					return
				}
				kc.log.Warn().Err(err).Msg("error reading message")
				select {
				case <-time.After(readBackoff):
				case <-ctx.Done():
					return
				case <-kc.doneChan:
					return
				}
				continue
			}

			select {
			case kc.messageChan <- msg:
				kc.log.Debug().Str("topic", msg.Topic).Int("partition", msg.Partition).Int64("offset", msg.Offset).Msg("message received")
			case <-ctx.Done():
				return
			case <-kc.doneChan:
				return
			}
		}
	}()
}

// Stop ends the loop, waits for it and closes the reader. Safe to call twice.
func (kc *KafkaConsumer) Stop() {
	kc.stopOnce.Do(func() {
		close(kc.doneChan)
		kc.wg.Wait()
		if err := kc.reader.Close(); err != nil {
			kc.log.Warn().Err(err).Msg("failed to close reader")
		}
		kc.log.Info().Msg("consumer stopped")
	})
}
