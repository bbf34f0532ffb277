// Package app assembles the ranking service from configuration. It is
// shared by the HTTP server and the Kafka worker.
package app

import (
	"context"
	"fmt"
	"net/http"

	"tourism/internal/config"
	"tourism/internal/logging"
	"tourism/internal/recommend"
	"tourism/internal/resolve"
	"tourism/internal/storage"
	"tourism/pkg/hotpepper"
	"tourism/pkg/location"
	"tourism/pkg/places"
	"tourism/pkg/wikipedia"
)

// Deps builds the provider collaborators. Providers without an API key are
// left nil so requests that need them fail as configuration errors.
func Deps(cfg *config.Config) recommend.Deps {
	httpClient := &http.Client{Timeout: cfg.Providers.HTTPTimeout}
	var deps recommend.Deps

	if key := cfg.Providers.HotpepperAPIKey; key != "" {
		deps.Primary = hotpepper.NewClient(key, httpClient)
	} else {
		logging.Warn().Msg("HOTPEPPER_API_KEY not set, restaurant search disabled")
	}

	if key := cfg.Providers.GoogleAPIKey; key != "" {
		client := places.NewClient(key, httpClient)
		client.SetPhotoMaxWidth(cfg.Providers.PhotoMaxWidth)
		breaker := places.NewBreakerClient(client, breakerSettings(cfg.Breaker))
		deps.Lookup = breaker
		deps.Places = breaker
		if cfg.Providers.Geocoder == config.GeocoderGoogle {
			deps.Geocoder = breaker
		}
	} else {
		logging.Warn().Msg("GOOGLE_API_KEY not set, place search and restaurant resolution disabled")
	}

	if cfg.Providers.Geocoder == config.GeocoderNominatim {
		deps.Geocoder = location.NewClient(httpClient)
	}
	if cfg.Providers.WikipediaEnabled {
		deps.Describer = wikipedia.NewClient(httpClient)
	}
	return deps
}

func breakerSettings(c config.BreakerConfig) places.BreakerSettings {
	s := places.DefaultBreakerSettings()
	s.MaxRequests = c.MaxRequests
	s.Interval = c.Interval
	s.Timeout = c.Timeout
	s.MinRequests = c.MinRequests
	s.FailureRatio = c.FailureRatio
	return s
}

// NewService builds the recommend service.
func NewService(cfg *config.Config) (*recommend.Service, error) {
	policy, ok := resolve.PolicyByName(cfg.Recommend.MergePolicy)
	if !ok {
		return nil, fmt.Errorf("unknown merge policy %q", cfg.Recommend.MergePolicy)
	}
	return recommend.NewService(Deps(cfg), recommend.Options{
		MergePolicy:         policy,
		CandidateCount:      cfg.Recommend.CandidateCount,
		DefaultRadiusMeters: cfg.Recommend.NearbyRadius,
	}), nil
}

// NewArchive connects to the object store and makes sure the bucket exists.
func NewArchive(ctx context.Context, cfg config.ArchiveConfig) (*storage.Archive, error) {
	archive, err := storage.NewArchive(storage.Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Bucket:    cfg.Bucket,
	})
	if err != nil {
		return nil, err
	}
	if err := archive.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return archive, nil
}
