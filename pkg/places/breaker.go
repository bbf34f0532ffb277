package places

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"tourism/internal/logging"
	"tourism/internal/metrics"
	"tourism/internal/models"
)

// BreakerSettings configures the circuit breaker around the Places API.
type BreakerSettings struct {
	Name string
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval after which closed-state counts reset.
	Interval time.Duration
	// Timeout before an open breaker moves to half-open.
	Timeout time.Duration
	// MinRequests before FailureRatio is considered.
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerSettings opens after 60% failures over at least 10 calls
// and tries again after 30 seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:         "google-places",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// BreakerClient wraps Client so a Places outage fails fast instead of
// costing two timed-out calls per candidate.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

func NewBreakerClient(client *Client, s BreakerSettings) *BreakerClient {
	if s.Name == "" {
		s.Name = DefaultBreakerSettings().Name
	}
	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= s.FailureRatio
			if trip {
				logging.Warn().
					Str("breaker", s.Name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_ratio", ratio).
					Msg("opening circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		// Neither a caller giving up nor a missing key is a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrMissingAPIKey)
		},
	})

	return &BreakerClient{client: client, cb: cb, name: s.Name}
}

func (b *BreakerClient) execute(op string, fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.ExternalCalls.WithLabelValues("google_places", op, "rejected").Inc()
		return nil, fmt.Errorf("places %s: %w", op, err)
	}
	metrics.ExternalCalls.WithLabelValues("google_places", op, metrics.CallStatus(err)).Inc()
	return result, err
}

func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// State reports the current breaker state.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerClient) FindPlaceID(ctx context.Context, query string, hint models.Coordinates) (string, error) {
	return castResult[string](b.execute("find", func() (any, error) {
		return b.client.FindPlaceID(ctx, query, hint)
	}))
}

func (b *BreakerClient) PlaceDetails(ctx context.Context, placeID string) (*Place, error) {
	return castResult[*Place](b.execute("details", func() (any, error) {
		return b.client.PlaceDetails(ctx, placeID)
	}))
}

func (b *BreakerClient) NearbySearch(ctx context.Context, q NearbyQuery) ([]Place, error) {
	return castResult[[]Place](b.execute("nearby", func() (any, error) {
		return b.client.NearbySearch(ctx, q)
	}))
}

func (b *BreakerClient) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	return castResult[models.Coordinates](b.execute("geocode", func() (any, error) {
		return b.client.Geocode(ctx, address)
	}))
}

// PhotoURL makes no request and bypasses the breaker.
func (b *BreakerClient) PhotoURL(photoReference string) string {
	return b.client.PhotoURL(photoReference)
}
