package rank

import (
	"testing"

	"tourism/internal/models"
)

func spot(name string, total *float64) *models.Spot {
	return &models.Spot{Name: name, TotalScore: total}
}

func score(v float64) *float64 { return &v }

func names(spots []*models.Spot) []string {
	out := make([]string, 0, len(spots))
	for _, s := range spots {
		out = append(out, s.Name)
	}
	return out
}

func TestRank(t *testing.T) {
	tests := []struct {
		name  string
		input []*models.Spot
		want  []string
	}{
		{
			name: "drops unscored and keeps tie order",
			input: []*models.Spot{
				spot("none", nil),
				spot("three", score(3.0)),
				spot("tie-first", score(7.5)),
				spot("tie-second", score(7.5)),
			},
			want: []string{"tie-first", "tie-second", "three"},
		},
		{
			name:  "empty input",
			input: nil,
			want:  []string{},
		},
		{
			name:  "all unscored",
			input: []*models.Spot{spot("a", nil), nil},
			want:  []string{},
		},
		{
			name: "already sorted",
			input: []*models.Spot{
				spot("a", score(4.0)),
				spot("b", score(3.6)),
			},
			want: []string{"a", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(tt.input)
			if got == nil {
				t.Fatal("Rank returned nil slice")
			}
			gotNames := names(got)
			if len(gotNames) != len(tt.want) {
				t.Fatalf("got %v, want %v", gotNames, tt.want)
			}
			for i := range gotNames {
				if gotNames[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", gotNames, tt.want)
				}
			}
		})
	}
}

func TestRank_DoesNotReorderInput(t *testing.T) {
	input := []*models.Spot{spot("low", score(1)), spot("high", score(9))}
	_ = Rank(input)
	if input[0].Name != "low" {
		t.Fatal("input slice was reordered")
	}
}
