package scoring

import (
	"errors"
	"fmt"

	"tourism/internal/models"
	"tourism/pkg/geo"
)

var (
	ErrWrongCategory = errors.New("scoring: candidate category does not match scorer")
	ErrAlreadyScored = errors.New("scoring: candidate already has a breakdown")
)

// Scorer sets a candidate's breakdown and total score.
type Scorer interface {
	Score(spot *models.Spot) error
}

type RestaurantScorer struct {
	Weights Weights
}

func NewRestaurantScorer(priority string) RestaurantScorer {
	return RestaurantScorer{Weights: RestaurantWeights(priority)}
}

func (s RestaurantScorer) Score(spot *models.Spot) error {
	if err := checkScorable(spot, models.CategoryRestaurant); err != nil {
		return err
	}

	budget := BudgetScore(spot.BudgetText)
	quality := QualityScore(spot.Amenities, spot.DescriptionLength())
	distance := RestaurantDistanceScore

	bd := &models.Breakdown{}
	err := record(bd,
		entry{models.KeyBudgetScore, float64(budget)},
		entry{models.KeyQualityScore, float64(quality)},
		entry{models.KeyDistanceScore, float64(distance)},
		entry{models.KeyWeightBudget, s.Weights[0]},
		entry{models.KeyWeightQuality, s.Weights[1]},
		entry{models.KeyWeightDistance, s.Weights[2]},
	)
	if err != nil {
		return err
	}

	total := s.Weights.Apply(budget, quality, distance)
	spot.Breakdown = bd
	spot.TotalScore = &total
	return nil
}

// PlaceScorer scores places against Origin. GenreKeyword is matched against
// the candidate's category tags.
type PlaceScorer struct {
	Weights      Weights
	Origin       models.Coordinates
	GenreKeyword string
}

func NewPlaceScorer(priority string, origin models.Coordinates, genreKeyword string) PlaceScorer {
	return PlaceScorer{
		Weights:      PlaceWeights(priority),
		Origin:       origin,
		GenreKeyword: genreKeyword,
	}
}

func (s PlaceScorer) Score(spot *models.Spot) error {
	if err := checkScorable(spot, models.CategoryPlace); err != nil {
		return err
	}

	popularity := PopularityScore(spot.Rating, spot.ReviewCount)
	genre := GenreScore(spot.Types, s.GenreKeyword)
	km := geo.HaversineKm(s.Origin, spot.Location)
	distance := DistanceScore(km)

	bd := &models.Breakdown{}
	err := record(bd,
		entry{models.KeyPopularityScore, float64(popularity)},
		entry{models.KeyGenreScore, float64(genre)},
		entry{models.KeyDistanceScore, float64(distance)},
		entry{models.KeyDistanceKm, geo.RoundTo(km, 2)},
		entry{models.KeyWeightPopularity, s.Weights[0]},
		entry{models.KeyWeightGenre, s.Weights[1]},
		entry{models.KeyWeightDistance, s.Weights[2]},
	)
	if err != nil {
		return err
	}

	total := s.Weights.Apply(popularity, genre, distance)
	spot.Breakdown = bd
	spot.TotalScore = &total
	return nil
}

func checkScorable(spot *models.Spot, want models.Category) error {
	if spot.Category != want {
		return fmt.Errorf("%w: got %q, want %q", ErrWrongCategory, spot.Category, want)
	}
	if spot.Breakdown != nil {
		return fmt.Errorf("%w: %q", ErrAlreadyScored, spot.Name)
	}
	return nil
}

type entry struct {
	key   models.BreakdownKey
	value float64
}

func record(bd *models.Breakdown, entries ...entry) error {
	for _, e := range entries {
		if err := bd.Record(models.StageScore, e.key, e.value); err != nil {
			return err
		}
	}
	return nil
}
