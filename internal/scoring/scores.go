// Package scoring computes sub-scores for candidates and combines them into
// a weighted total using the caller's priority.
package scoring

import (
	"strings"

	"tourism/internal/models"
)

// RestaurantDistanceScore stands in for a real distance score until
// restaurants are measured against the search origin.
const RestaurantDistanceScore = 3

// NeutralBudgetScore is used when no budget text is known.
const NeutralBudgetScore = 3

// budgetBrackets are checked in order; the cheapest bracket wins.
var budgetBrackets = []struct {
	marker string
	score  int
}{
	{"1000", 5},
	{"2000", 4},
	{"3000", 3},
	{"5000", 2},
}

// BudgetScore scores budget text from 1 to 5. Unrecognized text scores 1,
// including text that is only whitespace; empty text scores
// NeutralBudgetScore.
func BudgetScore(text string) int {
	if text == "" {
		return NeutralBudgetScore
	}
	for _, b := range budgetBrackets {
		if strings.Contains(text, b.marker) {
			return b.score
		}
	}
	return 1
}

// Description length thresholds for the quality score, in characters.
const (
	descriptionShort = 50
	descriptionLong  = 120
)

// QualityScore scores facilities and description richness from 0 to 6.
func QualityScore(a models.Amenities, descriptionLength int) int {
	score := 0
	if a.PrivateRoom {
		score += 2
	}
	if a.WiFi {
		score++
	}
	if a.Parking {
		score++
	}
	if descriptionLength >= descriptionShort {
		score++
	}
	if descriptionLength >= descriptionLong {
		score++
	}
	return score
}

// PopularityScore is a rating base (1-5, 2 when unrated) plus a review
// count bonus (0-3).
func PopularityScore(rating *float64, reviews *int) int {
	base := 2
	if rating != nil {
		switch r := *rating; {
		case r >= 4.5:
			base = 5
		case r >= 4.0:
			base = 4
		case r >= 3.5:
			base = 3
		default:
			base = 1
		}
	}

	n := 0
	if reviews != nil {
		n = *reviews
	}
	switch {
	case n >= 1000:
		return base + 3
	case n >= 300:
		return base + 2
	case n >= 100:
		return base + 1
	default:
		return base
	}
}

// GenreScore is 3 when keyword occurs in the space-joined tags, ignoring
// case, and 1 otherwise. An empty keyword never matches.
func GenreScore(types []string, keyword string) int {
	keyword = strings.ToLower(keyword)
	if keyword == "" {
		return 1
	}
	if strings.Contains(strings.ToLower(strings.Join(types, " ")), keyword) {
		return 3
	}
	return 1
}

// distanceBuckets maps an inclusive upper bound in km to a score.
var distanceBuckets = []struct {
	maxKm float64
	score int
}{
	{1.0, 5},
	{3.0, 4},
	{5.0, 3},
	{10.0, 2},
}

// DistanceScore buckets a distance: <=1km 5, <=3km 4, <=5km 3, <=10km 2, else 1.
func DistanceScore(km float64) int {
	for _, b := range distanceBuckets {
		if km <= b.maxKm {
			return b.score
		}
	}
	return 1
}
