package hotpepper

import "tourism/pkg/flexjson"

// SearchResponse is the top-level gourmet search payload.
type SearchResponse struct {
	Results Results `json:"results"`
}

// Results carries the shops, or an error list when the request was rejected.
type Results struct {
	ResultsAvailable flexjson.Number `json:"results_available"`
	Shops            []Shop          `json:"shop"`
	Errors           []APIError      `json:"error"`
}

// APIError is reported inside a 200 response when the key or parameters are invalid.
type APIError struct {
	Code    flexjson.Number `json:"code"`
	Message string          `json:"message"`
}

// Shop is one primary-source restaurant record. Coordinates usually arrive as
// strings, so they are kept as flexjson.Number and parsed by the normalizer.
type Shop struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Address     string          `json:"address"`
	Lat         flexjson.Number `json:"lat"`
	Lng         flexjson.Number `json:"lng"`
	Genre       Genre           `json:"genre"`
	Catch       string          `json:"catch"`
	Budget      Budget          `json:"budget"`
	Photo       Photo           `json:"photo"`
	PrivateRoom string          `json:"private_room"`
	WiFi        string          `json:"wifi"`
	Parking     string          `json:"parking"`
}

type Genre struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Catch string `json:"catch"`
}

type Budget struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Average string `json:"average"`
}

type Photo struct {
	PC PhotoSizes `json:"pc"`
}

type PhotoSizes struct {
	L string `json:"l"`
	M string `json:"m"`
	S string `json:"s"`
}

// Best returns the largest available photo URL.
func (p PhotoSizes) Best() string {
	switch {
	case p.L != "":
		return p.L
	case p.M != "":
		return p.M
	default:
		return p.S
	}
}
