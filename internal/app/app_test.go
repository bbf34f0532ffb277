package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourism/internal/config"
	"tourism/pkg/location"
	"tourism/pkg/places"
	"tourism/pkg/wikipedia"
)

func testConfig() *config.Config {
	return &config.Config{
		Providers: config.ProvidersConfig{
			HTTPTimeout:   time.Second,
			Geocoder:      config.GeocoderGoogle,
			PhotoMaxWidth: 400,
		},
		Recommend: config.RecommendConfig{MergePolicy: "preserve", CandidateCount: 10, NearbyRadius: 1000},
		Breaker: config.BreakerConfig{
			MaxRequests: 1, Interval: time.Minute, Timeout: time.Second, MinRequests: 5, FailureRatio: 0.5,
		},
	}
}

func TestDeps_MissingKeysLeaveProvidersNil(t *testing.T) {
	deps := Deps(testConfig())
	assert.Nil(t, deps.Primary)
	assert.Nil(t, deps.Lookup)
	assert.Nil(t, deps.Places)
	assert.Nil(t, deps.Geocoder)
	assert.Nil(t, deps.Describer)
}

func TestDeps_WikipediaDescriber(t *testing.T) {
	cfg := testConfig()
	cfg.Providers.WikipediaEnabled = true
	assert.IsType(t, &wikipedia.Client{}, Deps(cfg).Describer)
}

func TestDeps_GoogleKeyWiresBreaker(t *testing.T) {
	cfg := testConfig()
	cfg.Providers.GoogleAPIKey = "g"
	cfg.Providers.HotpepperAPIKey = "h"

	deps := Deps(cfg)
	require.NotNil(t, deps.Primary)
	assert.IsType(t, &places.BreakerClient{}, deps.Lookup)
	assert.IsType(t, &places.BreakerClient{}, deps.Places)
	assert.IsType(t, &places.BreakerClient{}, deps.Geocoder)
	assert.Contains(t, deps.Places.PhotoURL("REF"), "maxwidth=400")
}

func TestDeps_NominatimGeocoderNeedsNoKey(t *testing.T) {
	cfg := testConfig()
	cfg.Providers.Geocoder = config.GeocoderNominatim

	deps := Deps(cfg)
	assert.IsType(t, &location.Client{}, deps.Geocoder)
	assert.Nil(t, deps.Places)
}

func TestNewService_RejectsUnknownPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Recommend.MergePolicy = "overwrite"
	_, err := NewService(cfg)
	assert.Error(t, err)

	cfg.Recommend.MergePolicy = "secondary_only"
	svc, err := NewService(cfg)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
