// Package recommend runs a ranking request end to end: search, normalize,
// resolve, score, rank and narrate.
package recommend

import (
	"context"
	"errors"
	"time"

	"tourism/internal/catalog"
	"tourism/internal/enrich"
	"tourism/internal/logging"
	"tourism/internal/metrics"
	"tourism/internal/models"
	"tourism/internal/narrative"
	"tourism/internal/normalize"
	"tourism/internal/rank"
	"tourism/internal/resolve"
	"tourism/internal/scoring"
	"tourism/pkg/geo"
	"tourism/pkg/hotpepper"
	"tourism/pkg/places"
)

// PrimarySearcher finds restaurant candidates.
type PrimarySearcher interface {
	SearchRestaurants(ctx context.Context, q hotpepper.Query) ([]hotpepper.Shop, error)
}

// PlaceSearcher finds tourist spots around a point.
type PlaceSearcher interface {
	NearbySearch(ctx context.Context, q places.NearbyQuery) ([]places.Place, error)
	PhotoURL(photoReference string) string
}

// Geocoder turns a station name into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinates, error)
}

// Describer looks up a short description for a named spot.
type Describer interface {
	Summary(ctx context.Context, title string) (string, error)
}

// Deps are the provider collaborators. A nil field means the provider is
// not configured; requests that need it fail with KindConfig.
type Deps struct {
	Primary  PrimarySearcher
	Lookup   resolve.Lookup
	Places   PlaceSearcher
	Geocoder Geocoder

	// Describer is optional; place descriptions stay empty without it.
	Describer Describer
}

type Options struct {
	MergePolicy    resolve.MergePolicy
	CandidateCount int

	// DefaultRadiusMeters replaces DefaultRadiusMeters for requests that
	// give no radius.
	DefaultRadiusMeters int
}

type Service struct {
	deps  Deps
	opts  Options
	clock func() time.Time
}

func NewService(deps Deps, opts Options) *Service {
	if opts.MergePolicy.Name == "" {
		opts.MergePolicy = resolve.PreserveMergePolicy
	}
	if opts.CandidateCount <= 0 {
		opts.CandidateCount = hotpepper.DefaultCount
	}
	return &Service{deps: deps, opts: opts, clock: time.Now}
}

// Recommend returns the ranked spots for req. It returns ErrNoResults when
// nothing survives, and an *Error for configuration, upstream, validation
// and cancellation failures. Failures of single candidates only drop them.
func (s *Service) Recommend(ctx context.Context, req Request) (*Result, error) {
	if req.RadiusMeters == 0 {
		req.RadiusMeters = s.opts.DefaultRadiusMeters
	}
	req = req.withDefaults()
	ctx = logging.ContextWithRequestID(ctx, req.ID)
	log := logging.Ctx(ctx)
	start := s.clock()

	result, err := s.recommend(ctx, req)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ErrNoResults) && KindOf(err) != KindInvalidRequest {
		err = newError(KindCanceled, "request was cancelled before ranking finished", err)
	}

	outcome := "ok"
	switch {
	case errors.Is(err, ErrNoResults):
		outcome = "no_results"
		log.Info().Str("category", string(req.Category)).Msg("no results")
	case err != nil:
		outcome = string(KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
		log.Error().Err(err).Str("category", string(req.Category)).Msg("recommend failed")
	default:
		log.Info().Str("category", string(req.Category)).Int("spots", len(result.Spots)).Msg("recommend complete")
	}
	metrics.RecommendRequests.WithLabelValues(string(req.Category), outcome).Inc()
	metrics.RecommendDuration.WithLabelValues(string(req.Category)).Observe(s.clock().Sub(start).Seconds())
	return result, err
}

func (s *Service) recommend(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		RequestID:  req.ID,
		Category:   req.Category,
		Genre:      req.Genre,
		GenreLabel: catalog.GenreLabel(req.Category, req.Genre),
		Priority:   req.Priority,
		Station:    req.Station,
	}

	var (
		scored []*models.Spot
		err    error
	)
	switch req.Category {
	case models.CategoryRestaurant:
		scored, err = s.restaurants(ctx, req, result.GenreLabel)
	default:
		var origin models.Coordinates
		origin, err = s.origin(ctx, req)
		if err != nil {
			return nil, err
		}
		result.Origin = &origin
		scored, err = s.places(ctx, req, origin, result.GenreLabel)
	}
	if err != nil {
		return nil, err
	}

	ranked := rank.Rank(scored)
	if len(ranked) == 0 {
		return nil, ErrNoResults
	}
	for _, spot := range ranked {
		narrative.Narrate(spot)
	}
	result.Spots = ranked
	result.GeneratedAt = s.clock().UTC()
	return result, nil
}

func (s *Service) restaurants(ctx context.Context, req Request, genreLabel string) ([]*models.Spot, error) {
	if s.deps.Primary == nil {
		return nil, newError(KindConfig, "restaurant search API key is not configured", nil)
	}
	if s.deps.Lookup == nil {
		return nil, newError(KindConfig, "place details API key is not configured", nil)
	}

	q := hotpepper.Query{Genre: genreLabel, Count: s.opts.CandidateCount}
	if req.Mode == ModeMap {
		q.Origin = req.Origin
		q.RangeCode = geo.RangeCode(req.RadiusMeters)
	} else {
		q.Station = req.Station
	}

	shops, err := s.deps.Primary.SearchRestaurants(ctx, q)
	if err != nil {
		return nil, providerError("restaurant search failed", err, hotpepper.ErrMissingAPIKey)
	}

	candidates := make([]*models.Spot, 0, len(shops))
	for _, shop := range shops {
		spot, err := normalize.Normalize(normalize.ShopRecord{Shop: shop})
		if err != nil {
			continue
		}
		candidates = append(candidates, spot)
	}
	if len(candidates) == 0 {
		return nil, ErrNoResults
	}

	resolved, err := resolve.NewResolver(s.deps.Lookup, s.opts.MergePolicy).ResolveAll(ctx, candidates)
	if err != nil {
		return nil, err
	}
	scorer := scoring.NewRestaurantScorer(req.Priority)
	return s.run(ctx, resolved, enrich.NewStage("score", scoreStep(scorer)))
}

func (s *Service) origin(ctx context.Context, req Request) (models.Coordinates, error) {
	if req.Mode == ModeMap {
		return *req.Origin, nil
	}
	if s.deps.Geocoder == nil {
		return models.Coordinates{}, newError(KindConfig, "geocoding is not configured", nil)
	}
	c, err := s.deps.Geocoder.Geocode(ctx, req.Station)
	if err != nil {
		return models.Coordinates{}, providerError("could not locate station "+req.Station, err, places.ErrMissingAPIKey)
	}
	return c, nil
}

func (s *Service) places(ctx context.Context, req Request, origin models.Coordinates, genreLabel string) ([]*models.Spot, error) {
	if s.deps.Places == nil {
		return nil, newError(KindConfig, "place search API key is not configured", nil)
	}

	placeType := catalog.PlaceType(req.Genre)
	found, err := s.deps.Places.NearbySearch(ctx, places.NearbyQuery{
		Center:       origin,
		PlaceType:    placeType,
		RadiusMeters: req.RadiusMeters,
	})
	if err != nil {
		return nil, providerError("place search failed", err, places.ErrMissingAPIKey)
	}

	candidates := make([]*models.Spot, 0, len(found))
	for _, p := range found {
		var image string
		if ref := p.FirstPhotoReference(); ref != "" {
			image = s.deps.Places.PhotoURL(ref)
		}
		spot, err := normalize.Normalize(normalize.PlaceRecord{Place: p, GenreLabel: genreLabel, ImageURL: image})
		if err != nil {
			continue
		}
		candidates = append(candidates, spot)
	}
	if len(candidates) == 0 {
		return nil, ErrNoResults
	}

	scorer := scoring.NewPlaceScorer(req.Priority, origin, placeType)
	stages := []enrich.Stage[models.Spot]{enrich.NewStage("score", scoreStep(scorer))}
	if s.deps.Describer != nil {
		stages = append([]enrich.Stage[models.Spot]{enrich.NewStage[models.Spot]("describe", s.describeStep)}, stages...)
	}
	return s.run(ctx, candidates, stages...)
}

// describeStep fills an empty description. A failed lookup never drops the spot.
func (s *Service) describeStep(ctx context.Context, spot *models.Spot) error {
	if spot.Description != "" {
		return nil
	}
	text, err := s.deps.Describer.Summary(ctx, spot.Name)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("name", spot.Name).Msg("no description found")
		return nil
	}
	spot.Description = text
	return nil
}

func (s *Service) run(ctx context.Context, candidates []*models.Spot, stages ...enrich.Stage[models.Spot]) ([]*models.Spot, error) {
	log := logging.Ctx(ctx)
	p := enrich.NewPipeline(stages...).OnDrop(func(stage string, spot *models.Spot, err error) {
		if stage == "score" {
			metrics.CandidatesTotal.WithLabelValues(string(spot.Category), metrics.OutcomeDroppedUnscorable).Inc()
			log.Warn().Str("name", spot.Name).Err(err).Msg("candidate could not be scored")
		}
	})
	out, err := p.Run(ctx, candidates)
	if err != nil {
		return nil, err
	}
	for _, spot := range out {
		metrics.CandidatesTotal.WithLabelValues(string(spot.Category), metrics.OutcomeScored).Inc()
	}
	log.Debug().Int("candidates", len(candidates)).Int("scored", len(out)).Msg("pipeline complete")
	return out, nil
}

func scoreStep(scorer scoring.Scorer) enrich.Step[models.Spot] {
	return func(_ context.Context, spot *models.Spot) error {
		return scorer.Score(spot)
	}
}

// providerError marks a missing key as a configuration problem and any
// other first-stage failure as an upstream outage.
func providerError(cause string, err, missingKey error) *Error {
	if errors.Is(err, missingKey) {
		return newError(KindConfig, "provider API key is not configured", err)
	}
	return newError(KindUpstream, cause, err)
}
