// Package resolve matches primary-source restaurants to the secondary
// source and merges the two records. A candidate without a match, without a
// detail record, or whose lookups fail is dropped.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"tourism/internal/enrich"
	"tourism/internal/logging"
	"tourism/internal/metrics"
	"tourism/internal/models"
	"tourism/internal/normalize"
	"tourism/pkg/places"
)

var (
	ErrNoMatch   = errors.New("no secondary match")
	ErrNoDetails = errors.New("secondary source has no detail record")
)

// Lookup is the secondary-source collaborator. *places.Client and
// *places.BreakerClient satisfy it.
type Lookup interface {
	FindPlaceID(ctx context.Context, query string, hint models.Coordinates) (string, error)
	PlaceDetails(ctx context.Context, placeID string) (*places.Place, error)
	PhotoURL(photoReference string) string
}

type Resolver struct {
	lookup Lookup
	policy MergePolicy
	log    zerolog.Logger
}

func NewResolver(lookup Lookup, policy MergePolicy) *Resolver {
	return &Resolver{
		lookup: lookup,
		policy: policy,
		log:    logging.With().Str("component", "resolve").Logger(),
	}
}

// Query builds the find-place text for spot. Full-width digits and letters
// common in Japanese addresses are folded with NFKC.
func Query(spot *models.Spot) string {
	q := strings.TrimSpace(spot.Name + " " + spot.Address)
	return norm.NFKC.String(q)
}

// Resolve replaces spot with its merged record. Place candidates pass
// through untouched. Any error means spot must be dropped.
func (r *Resolver) Resolve(ctx context.Context, spot *models.Spot) error {
	if spot.Category != models.CategoryRestaurant {
		return nil
	}

	id, err := r.lookup.FindPlaceID(ctx, Query(spot), spot.Location)
	if err != nil {
		return r.drop(spot, metrics.OutcomeDroppedLookupErr, fmt.Errorf("find %q: %w", spot.Name, err))
	}
	if id == "" {
		return r.drop(spot, metrics.OutcomeDroppedNoMatch, fmt.Errorf("%q: %w", spot.Name, ErrNoMatch))
	}

	details, err := r.lookup.PlaceDetails(ctx, id)
	if err != nil {
		return r.drop(spot, metrics.OutcomeDroppedLookupErr, fmt.Errorf("details %s: %w", id, err))
	}
	if details == nil {
		return r.drop(spot, metrics.OutcomeDroppedNoDetails, fmt.Errorf("%q: %w", spot.Name, ErrNoDetails))
	}

	var image string
	if ref := details.FirstPhotoReference(); ref != "" {
		image = r.lookup.PhotoURL(ref)
	}
	secondary, err := normalize.Normalize(normalize.DetailsRecord{Details: *details, ImageURL: image})
	if err != nil {
		return r.drop(spot, metrics.OutcomeDroppedLookupErr, err)
	}

	*spot = *r.policy.Merge(spot, secondary)
	metrics.CandidatesTotal.WithLabelValues(string(models.CategoryRestaurant), metrics.OutcomeResolved).Inc()
	return nil
}

func (r *Resolver) drop(spot *models.Spot, outcome string, err error) error {
	metrics.CandidatesTotal.WithLabelValues(string(spot.Category), outcome).Inc()
	ev := r.log.Debug()
	if outcome == metrics.OutcomeDroppedLookupErr {
		ev = r.log.Warn()
	}
	ev.Str("name", spot.Name).Str("outcome", outcome).Err(err).Msg("candidate dropped")
	return err
}

// ResolveAll resolves spots in order and returns the survivors. Failures of
// individual candidates never fail the batch; only a done ctx does, in which
// case the spots resolved so far are returned with ctx.Err().
func (r *Resolver) ResolveAll(ctx context.Context, spots []*models.Spot) ([]*models.Spot, error) {
	out, err := enrich.NewPipeline(enrich.NewStage("resolve", r.Resolve)).Run(ctx, spots)
	if err != nil {
		r.log.Warn().Err(err).Int("resolved", len(out)).Msg("resolution interrupted")
	}
	return out, err
}
