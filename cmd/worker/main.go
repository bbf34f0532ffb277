package main

import (
	"context"

	"tourism/internal/app"
	"tourism/internal/config"
	"tourism/internal/env"
	"tourism/internal/logging"
	"tourism/internal/recommend"
	"tourism/internal/service"
	"tourism/pkg/graceful"
	"tourism/pkg/kafkaclient"
)

func main() {
	env.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	svc, err := app.NewService(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build recommend service")
	}
	archive, err := app.NewArchive(ctx, cfg.Archive)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to archive")
	}

	k := cfg.Kafka
	logging.Info().Str("broker", k.Broker).Str("topic", k.Topic).Str("group_id", k.GroupID).Msg("connecting to kafka")
	consumer, err := kafkaclient.NewKafkaConsumer(k.Topic, k.GroupID, k.Broker)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create kafka consumer")
	}
	producer, err := kafkaclient.NewProducer(k.ResultTopic, k.Broker)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create kafka producer")
	}

	decode := service.Sniff(
		service.DecodeNotification(archive.LoadRequest),
		service.DecodeJSON[recommend.Request](),
	)
	it := service.NewIterator(consumer, decode)
	w := newWorker(svc, archive, producer)

	consumer.StartConsuming(ctx)
	runErr := w.run(ctx, it)
	cancel()
	consumer.Stop()
	if err := producer.Close(); err != nil {
		logging.Warn().Err(err).Msg("failed to close kafka producer")
	}
	if runErr != nil {
		logging.Fatal().Err(runErr).Msg("worker stopped on an unpublished request")
	}
	logging.Info().Msg("worker stopped")
}
