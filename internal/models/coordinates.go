package models

import "fmt"

// Coordinates is a point in floating point degrees. The zero value is used
// when a provider record carries no parseable position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// String renders the point the way the provider APIs expect it in query strings.
func (c Coordinates) String() string {
	return fmt.Sprintf("%g,%g", c.Lat, c.Lng)
}
