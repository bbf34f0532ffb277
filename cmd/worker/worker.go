package main

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"tourism/internal/logging"
	"tourism/internal/metrics"
	"tourism/internal/recommend"
	"tourism/internal/service"
)

type recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error)
}

type archiver interface {
	StoreResult(ctx context.Context, res *recommend.Result) (string, error)
}

type publisher interface {
	Publish(ctx context.Context, key string, v any) error
}

// requestSource yields decoded requests and acknowledges them.
type requestSource interface {
	Objects(ctx context.Context) <-chan *service.Fetched[recommend.Request]
	Commit(ctx context.Context, f *service.Fetched[recommend.Request])
}

// Completion statuses.
const (
	statusOK        = "ok"
	statusNoResults = "no_results"
	statusFailed    = "failed"
)

// kindArchive marks a ranking that succeeded but could not be stored.
const kindArchive recommend.ErrorKind = "archive"

// completedEvent is published once per handled request.
type completedEvent struct {
	RequestID   string              `json:"request_id"`
	Category    string              `json:"category"`
	Status      string              `json:"status"`
	ErrorKind   recommend.ErrorKind `json:"error_kind,omitempty"`
	Error       string              `json:"error,omitempty"`
	ArchiveKey  string              `json:"archive_key,omitempty"`
	SpotCount   int                 `json:"spot_count"`
	CompletedAt time.Time           `json:"completed_at"`
}

type worker struct {
	rec     recommender
	archive archiver
	pub     publisher
	clock   func() time.Time
	log     zerolog.Logger
}

func newWorker(rec recommender, archive archiver, pub publisher) *worker {
	return &worker{
		rec:     rec,
		archive: archive,
		pub:     pub,
		clock:   time.Now,
		log:     logging.With().Str("component", "worker").Logger(),
	}
}

// run handles requests until the source closes. A message is committed only
// after its completion event is published; a failed publish stops the loop
// with the message uncommitted so it is redelivered.
func (w *worker) run(ctx context.Context, src requestSource) error {
	for obj := range src.Objects(ctx) {
		if err := w.handle(ctx, obj.Data); err != nil {
			if ctx.Err() != nil {
				// Shutting down; the request is redelivered.
				return nil
			}
			return err
		}
		src.Commit(ctx, obj)
	}
	return nil
}

// handle ranks one request, archives the result and publishes a completion
// event. Request and archive failures are reported on the event; the
// returned error is non-nil only when the publish failed or ctx is done.
func (w *worker) handle(ctx context.Context, req recommend.Request) error {
	if req.ID == "" {
		req.ID = logging.GenerateRequestID()
	}
	ev := completedEvent{RequestID: req.ID, Category: string(req.Category)}

	res, err := w.rec.Recommend(ctx, req)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	switch {
	case errors.Is(err, recommend.ErrNoResults):
		ev.Status = statusNoResults
	case err != nil:
		ev.Status = statusFailed
		ev.ErrorKind = recommend.KindOf(err)
		ev.Error = err.Error()
	default:
		ev.Status = statusOK
		ev.SpotCount = len(res.Spots)
		key, err := w.archive.StoreResult(ctx, res)
		if err != nil {
			metrics.WorkerMessages.WithLabelValues("archive_failed").Inc()
			w.log.Error().Err(err).Str("request_id", req.ID).Msg("failed to archive result")
			ev.Status = statusFailed
			ev.ErrorKind = kindArchive
			ev.Error = err.Error()
			break
		}
		ev.ArchiveKey = key
	}
	ev.CompletedAt = w.clock()

	if err := w.pub.Publish(ctx, req.ID, ev); err != nil {
		metrics.WorkerMessages.WithLabelValues("publish_failed").Inc()
		w.log.Error().Err(err).Str("request_id", req.ID).Msg("failed to publish completion")
		return err
	}
	metrics.WorkerMessages.WithLabelValues(ev.Status).Inc()
	w.log.Info().Str("request_id", req.ID).Str("status", ev.Status).Int("spots", ev.SpotCount).Msg("request handled")
	return nil
}
