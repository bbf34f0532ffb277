package places

import "tourism/pkg/flexjson"

// Status values returned in every Places and Geocoding payload.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
	StatusNotFound    = "NOT_FOUND"
)

// Place is the secondary-source record shared by nearby search and details
// lookups. Nearby results fill Vicinity, details fill FormattedAddress.
type Place struct {
	PlaceID          string          `json:"place_id"`
	Name             string          `json:"name"`
	Vicinity         string          `json:"vicinity"`
	FormattedAddress string          `json:"formatted_address"`
	Geometry         Geometry        `json:"geometry"`
	Rating           flexjson.Number `json:"rating"`
	UserRatingsTotal flexjson.Number `json:"user_ratings_total"`
	Types            []string        `json:"types"`
	Photos           []PhotoRef      `json:"photos"`
}

// FirstPhotoReference returns the first non-empty photo reference.
func (p Place) FirstPhotoReference() string {
	for _, ph := range p.Photos {
		if ph.PhotoReference != "" {
			return ph.PhotoReference
		}
	}
	return ""
}

type Geometry struct {
	Location LatLng `json:"location"`
}

type LatLng struct {
	Lat flexjson.Number `json:"lat"`
	Lng flexjson.Number `json:"lng"`
}

type PhotoRef struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

type findPlaceResponse struct {
	Candidates   []Place `json:"candidates"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
}

type detailsResponse struct {
	Result       *Place `json:"result"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

type nearbyResponse struct {
	Results      []Place `json:"results"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
}

type geocodeResponse struct {
	Results []struct {
		FormattedAddress string   `json:"formatted_address"`
		Geometry         Geometry `json:"geometry"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}
