// Package places is a client for the Google Places and Geocoding web APIs,
// the secondary source used to confirm and enrich restaurant candidates and
// the only source for tourist spots.
package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"tourism/internal/models"
)

const (
	defaultBaseURL = "https://maps.googleapis.com"

	findPlacePath = "/maps/api/place/findplacefromtext/json"
	detailsPath   = "/maps/api/place/details/json"
	nearbyPath    = "/maps/api/place/nearbysearch/json"
	photoPath     = "/maps/api/place/photo"
	geocodePath   = "/maps/api/geocode/json"

	detailsFields = "place_id,name,formatted_address,geometry,rating,user_ratings_total,types,photos"
)

// DefaultPhotoMaxWidth is the maxwidth used when building photo URLs.
const DefaultPhotoMaxWidth = 800

// DefaultNearbyRadius is the nearby search radius in meters.
const DefaultNearbyRadius = 1000

var (
	ErrMissingAPIKey = errors.New("places: api key is not configured")
	ErrNoGeocode     = errors.New("places: no geocoding result")
)

// StatusError is returned when the API answers with a status other than
// OK or an empty-result status.
type StatusError struct {
	Operation string
	Status    string
	Message   string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("places %s: status %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("places %s: status %s: %s", e.Operation, e.Status, e.Message)
}

// NearbyQuery describes a nearby search around Center.
type NearbyQuery struct {
	Center       models.Coordinates
	PlaceType    string
	RadiusMeters int
}

type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	language      string
	photoMaxWidth int
}

// NewClient returns a client using httpClient, or http.DefaultClient when nil.
func NewClient(apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:    httpClient,
		baseURL:       defaultBaseURL,
		apiKey:        apiKey,
		language:      "ja",
		photoMaxWidth: DefaultPhotoMaxWidth,
	}
}

// SetPhotoMaxWidth changes the width requested by PhotoURL.
func (c *Client) SetPhotoMaxWidth(w int) {
	if w > 0 {
		c.photoMaxWidth = w
	}
}

// FindPlaceID searches for a single place matching query, biased toward
// hint. It returns "" with a nil error when nothing matches.
func (c *Client) FindPlaceID(ctx context.Context, query string, hint models.Coordinates) (string, error) {
	params := url.Values{}
	params.Set("input", query)
	params.Set("inputtype", "textquery")
	params.Set("fields", "place_id")
	if !hint.IsZero() {
		params.Set("locationbias", "point:"+hint.String())
	}

	var body findPlaceResponse
	if err := c.get(ctx, findPlacePath, params, &body); err != nil {
		return "", fmt.Errorf("places find: %w", err)
	}
	switch body.Status {
	case StatusOK:
	case StatusZeroResults, StatusNotFound:
		return "", nil
	default:
		return "", &StatusError{Operation: "find", Status: body.Status, Message: body.ErrorMessage}
	}
	for _, cand := range body.Candidates {
		if cand.PlaceID != "" {
			return cand.PlaceID, nil
		}
	}
	return "", nil
}

// PlaceDetails fetches the full record for placeID. It returns nil with a
// nil error when the provider has no detail record.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (*Place, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)

	var body detailsResponse
	if err := c.get(ctx, detailsPath, params, &body); err != nil {
		return nil, fmt.Errorf("places details: %w", err)
	}
	switch body.Status {
	case StatusOK:
		return body.Result, nil
	case StatusZeroResults, StatusNotFound:
		return nil, nil
	default:
		return nil, &StatusError{Operation: "details", Status: body.Status, Message: body.ErrorMessage}
	}
}

// PhotoURL builds the displayable URL for a photo reference. It makes no request.
func (c *Client) PhotoURL(photoReference string) string {
	params := url.Values{}
	params.Set("maxwidth", strconv.Itoa(c.photoMaxWidth))
	params.Set("photo_reference", photoReference)
	params.Set("key", c.apiKey)
	return fmt.Sprintf("%s%s?%s", c.baseURL, photoPath, params.Encode())
}

// NearbySearch lists places of q.PlaceType within q.RadiusMeters of q.Center.
func (c *Client) NearbySearch(ctx context.Context, q NearbyQuery) ([]Place, error) {
	radius := q.RadiusMeters
	if radius <= 0 {
		radius = DefaultNearbyRadius
	}
	params := url.Values{}
	params.Set("location", q.Center.String())
	params.Set("radius", strconv.Itoa(radius))
	if q.PlaceType != "" {
		params.Set("type", q.PlaceType)
	}

	var body nearbyResponse
	if err := c.get(ctx, nearbyPath, params, &body); err != nil {
		return nil, fmt.Errorf("places nearby: %w", err)
	}
	switch body.Status {
	case StatusOK:
		return body.Results, nil
	case StatusZeroResults:
		return nil, nil
	default:
		return nil, &StatusError{Operation: "nearby", Status: body.Status, Message: body.ErrorMessage}
	}
}

// Geocode resolves a station or address name to coordinates, restricted to Japan.
func (c *Client) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("region", "jp")

	var body geocodeResponse
	if err := c.get(ctx, geocodePath, params, &body); err != nil {
		return models.Coordinates{}, fmt.Errorf("places geocode: %w", err)
	}
	switch body.Status {
	case StatusOK:
	case StatusZeroResults:
		return models.Coordinates{}, fmt.Errorf("%w for %q", ErrNoGeocode, address)
	default:
		return models.Coordinates{}, &StatusError{Operation: "geocode", Status: body.Status, Message: body.ErrorMessage}
	}
	if len(body.Results) == 0 {
		return models.Coordinates{}, fmt.Errorf("%w for %q", ErrNoGeocode, address)
	}
	loc := body.Results[0].Geometry.Location
	lat, latOK := loc.Lat.Float64()
	lng, lngOK := loc.Lng.Float64()
	if !latOK || !lngOK {
		return models.Coordinates{}, fmt.Errorf("places geocode: malformed location for %q", address)
	}
	return models.Coordinates{Lat: lat, Lng: lng}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	params.Set("key", c.apiKey)
	if c.language != "" && params.Get("language") == "" {
		params.Set("language", c.language)
	}
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
