package scoring

// Priority keys accepted from callers.
const (
	PriorityBudget     = "budget"
	PriorityQuality    = "quality"
	PriorityPopularity = "popularity"
	PriorityGenre      = "genre"
	PriorityDistance   = "distance"
	PriorityBalance    = "balance"
)

// Weights apply positionally to a category's three sub-scores:
// budget, quality, distance for restaurants and popularity, genre,
// distance for places.
type Weights [3]float64

func (w Weights) Sum() float64 {
	return w[0] + w[1] + w[2]
}

// Apply returns the weighted sum of the three sub-scores.
func (w Weights) Apply(a, b, c int) float64 {
	return float64(a)*w[0] + float64(b)*w[1] + float64(c)*w[2]
}

var balance = Weights{1.0 / 3, 1.0 / 3, 1.0 / 3}

var restaurantProfiles = map[string]Weights{
	PriorityBudget:   {0.6, 0.2, 0.2},
	PriorityQuality:  {0.2, 0.6, 0.2},
	PriorityDistance: {0.2, 0.2, 0.6},
	PriorityBalance:  balance,
}

var placeProfiles = map[string]Weights{
	PriorityPopularity: {0.6, 0.2, 0.2},
	PriorityGenre:      {0.2, 0.6, 0.2},
	PriorityDistance:   {0.2, 0.2, 0.6},
	PriorityBalance:    balance,
}

// RestaurantWeights returns the profile for priority, or balance when the
// key is not a restaurant priority.
func RestaurantWeights(priority string) Weights {
	if w, ok := restaurantProfiles[priority]; ok {
		return w
	}
	return balance
}

// PlaceWeights returns the profile for priority, or balance when the key is
// not a place priority.
func PlaceWeights(priority string) Weights {
	if w, ok := placeProfiles[priority]; ok {
		return w
	}
	return balance
}
