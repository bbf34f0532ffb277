package keys

import (
	"testing"
	"time"

	"tourism/internal/models"
)

func TestRanking(t *testing.T) {
	at := time.Date(2025, 3, 9, 23, 30, 0, 0, time.FixedZone("JST", 9*3600))
	tests := []struct {
		name     string
		category models.Category
		id       string
		want     string
	}{
		{"uuid", models.CategoryRestaurant, "6f1c2d3e-aaaa-bbbb-cccc-123456789abc", "rankings/restaurant/2025-03-09/6f1c2d3e-aaaa-bbbb-cccc-123456789abc.json"},
		{"unsafe id", models.CategoryPlace, "../Req 1", "rankings/place/2025-03-09/---req-1.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ranking(tt.category, tt.id, at); got != tt.want {
				t.Errorf("Ranking() = %q, want %q", got, tt.want)
			}
		})
	}
}
