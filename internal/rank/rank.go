// Package rank orders scored candidates.
package rank

import (
	"sort"

	"tourism/internal/models"
)

// Rank drops unscored spots and sorts the rest by total score, highest
// first. Ties keep their input order. The result is never nil.
func Rank(spots []*models.Spot) []*models.Spot {
	out := make([]*models.Spot, 0, len(spots))
	for _, s := range spots {
		if s != nil && s.Scored() {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].TotalScore > *out[j].TotalScore
	})
	return out
}
