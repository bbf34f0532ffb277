// Package location geocodes station and address names through the
// OpenStreetMap Nominatim search API.
package location

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"

	"tourism/internal/metrics"
	"tourism/internal/models"
	"tourism/pkg/flexjson"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "tourism-recommender/1.0"
)

var ErrNoResults = errors.New("location: no geocoding result")

// Location is the first Nominatim match for a query.
type Location struct {
	Name        string
	DisplayName string
	Coordinates models.Coordinates
	City        string
	Country     string
	Type        string
}

type searchResult struct {
	Lat         flexjson.Number `json:"lat"`
	Lon         flexjson.Number `json:"lon"`
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	DisplayName string          `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Country string `json:"country"`
	} `json:"address"`
}

// Client talks to a Nominatim instance. Nominatim's usage policy requires an
// identifying User-Agent.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	countryCode string
	language    string
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     defaultBaseURL,
		userAgent:   defaultUserAgent,
		countryCode: "jp",
		language:    "ja",
	}
}

// Lookup returns the best match for query, limited to Japan.
func (c *Client) Lookup(ctx context.Context, query string) (loc *Location, err error) {
	defer func() {
		status := metrics.CallStatus(err)
		if errors.Is(err, ErrNoResults) {
			status = "not_found"
		}
		metrics.ExternalCalls.WithLabelValues("nominatim", "search", status).Inc()
	}()

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")
	params.Set("countrycodes", c.countryCode)
	params.Set("accept-language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim search: unexpected status: %s", resp.Status)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("nominatim search: decode response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoResults, query)
	}

	first := results[0]
	lat, latOK := first.Lat.Float64()
	lon, lonOK := first.Lon.Float64()
	if !latOK || !lonOK {
		return nil, fmt.Errorf("nominatim search: malformed coordinates for %q", query)
	}

	city := first.Address.City
	if city == "" {
		city = first.Address.Town
	}
	if city == "" {
		city = first.Address.Village
	}

	return &Location{
		Name:        query,
		DisplayName: first.DisplayName,
		Coordinates: models.Coordinates{Lat: lat, Lng: lon},
		City:        city,
		Country:     first.Address.Country,
		Type:        first.Type,
	}, nil
}

// Geocode resolves query to coordinates.
func (c *Client) Geocode(ctx context.Context, query string) (models.Coordinates, error) {
	loc, err := c.Lookup(ctx, query)
	if err != nil {
		return models.Coordinates{}, err
	}
	return loc.Coordinates, nil
}
