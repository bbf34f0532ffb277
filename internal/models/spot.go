package models

// Category is the kind of candidate being ranked.
type Category string

const (
	CategoryRestaurant Category = "restaurant"
	CategoryPlace      Category = "place"
)

func (c Category) Valid() bool {
	return c == CategoryRestaurant || c == CategoryPlace
}

// Source identifies a provider that produced or enriched a Spot.
type Source string

const (
	SourceHotpepper Source = "hotpepper"
	SourceGoogle    Source = "google_places"
)

// Amenities are the facility flags reported by the primary restaurant source.
type Amenities struct {
	PrivateRoom bool `json:"private_room"`
	WiFi        bool `json:"wifi"`
	Parking     bool `json:"parking"`
}

// Spot is one restaurant or tourist spot flowing through the ranking
// pipeline. It is created by the normalizer, replaced once by the resolver
// for restaurants, then annotated in place by scoring and narration. A Spot is
// owned by the request that created it.
type Spot struct {
	Category    Category    `json:"category"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Location    Coordinates `json:"location"`
	Genre       string      `json:"genre"`
	Rating      *float64    `json:"rating,omitempty"`
	ReviewCount *int        `json:"review_count,omitempty"`
	Description string      `json:"description,omitempty"`
	ImageURL    string      `json:"image_url,omitempty"`
	Provenance  []Source    `json:"provenance"`

	// Source attributes consumed by scoring. They are typed here so no
	// provider specific key crosses the normalization boundary.
	BudgetText string    `json:"budget_text,omitempty"`
	Amenities  Amenities `json:"amenities"`
	Types      []string  `json:"types,omitempty"`

	StayMinutes *int       `json:"stay_minutes,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	Breakdown   *Breakdown `json:"breakdown,omitempty"`
	TotalScore  *float64   `json:"total_score,omitempty"`
}

// AddSource appends src to the provenance unless already present.
func (s *Spot) AddSource(src Source) {
	for _, p := range s.Provenance {
		if p == src {
			return
		}
	}
	s.Provenance = append(s.Provenance, src)
}

// Scored reports whether the scoring engine produced a total.
func (s *Spot) Scored() bool {
	return s.TotalScore != nil
}

// DescriptionLength counts characters, not bytes, so Japanese text scores
// the same as its visible length.
func (s *Spot) DescriptionLength() int {
	return len([]rune(s.Description))
}
