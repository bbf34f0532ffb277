package places

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourism/internal/models"
)

func TestBreakerClient_PassesThrough(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case findPlacePath:
			_, _ = w.Write([]byte(`{"status":"OK","candidates":[{"place_id":"P1"}]}`))
		case detailsPath:
			_, _ = w.Write([]byte(`{"status":"NOT_FOUND"}`))
		}
	})
	b := NewBreakerClient(client, DefaultBreakerSettings())

	id, err := b.FindPlaceID(context.Background(), "q", models.Coordinates{})
	require.NoError(t, err)
	assert.Equal(t, "P1", id)

	p, err := b.PlaceDetails(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerClient_OpensAndRejects(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	b := NewBreakerClient(client, BreakerSettings{
		Name:         "test-places",
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  2,
		FailureRatio: 0.5,
	})

	for i := 0; i < 2; i++ {
		_, err := b.PlaceDetails(context.Background(), "id")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.PlaceDetails(context.Background(), "id")
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), calls.Load())
}

func TestBreakerClient_MissingKeyDoesNotTrip(t *testing.T) {
	b := NewBreakerClient(NewClient("", nil), BreakerSettings{
		Name:         "test-missing-key",
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  1,
		FailureRatio: 0.1,
	})
	for i := 0; i < 3; i++ {
		_, err := b.Geocode(context.Background(), "東京駅")
		require.ErrorIs(t, err, ErrMissingAPIKey)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerClient_PhotoURLBypassesBreaker(t *testing.T) {
	b := NewBreakerClient(NewClient("k", nil), DefaultBreakerSettings())
	assert.Contains(t, b.PhotoURL("REF"), "photo_reference=REF")
}
