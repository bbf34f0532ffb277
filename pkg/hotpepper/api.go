// Package hotpepper is a client for the Hot Pepper gourmet search API, the
// primary source of restaurant candidates.
package hotpepper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"tourism/internal/metrics"
	"tourism/internal/models"
)

const defaultBaseURL = "http://webservice.recruit.co.jp/hotpepper/gourmet/v1/"

// DefaultCount is the number of candidates requested per search.
const DefaultCount = 10

// DefaultRangeCode is used in map mode when the caller gives no range (2km).
const DefaultRangeCode = 4

var ErrMissingAPIKey = errors.New("hotpepper: api key is not configured")

// Query selects one of two search modes. When Origin is set the search is
// centered there (map mode) and only the genre is sent as keyword; otherwise
// station and genre are combined into a keyword search.
type Query struct {
	Station   string
	Genre     string
	Origin    *models.Coordinates
	RangeCode int
	Count     int
}

func (q Query) params() url.Values {
	params := url.Values{}
	count := q.Count
	if count <= 0 {
		count = DefaultCount
	}
	params.Set("count", strconv.Itoa(count))

	if q.Origin != nil {
		rangeCode := q.RangeCode
		if rangeCode <= 0 {
			rangeCode = DefaultRangeCode
		}
		params.Set("lat", strconv.FormatFloat(q.Origin.Lat, 'f', -1, 64))
		params.Set("lng", strconv.FormatFloat(q.Origin.Lng, 'f', -1, 64))
		params.Set("range", strconv.Itoa(rangeCode))
		if q.Genre != "" {
			params.Set("keyword", q.Genre)
		}
		return params
	}
	params.Set("keyword", strings.TrimSpace(q.Station+" "+q.Genre))
	return params
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient returns a client using httpClient, or http.DefaultClient when nil.
func NewClient(apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
	}
}

// SearchRestaurants runs one gourmet search and returns the shops in the
// order the provider ranked them.
func (c *Client) SearchRestaurants(ctx context.Context, q Query) (shops []Shop, err error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	defer func() {
		metrics.ExternalCalls.WithLabelValues("hotpepper", "search", metrics.CallStatus(err)).Inc()
	}()
	params := q.params()
	params.Set("key", c.apiKey)
	params.Set("format", "json")

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hotpepper search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hotpepper search: unexpected status: %s", resp.Status)
	}

	var body SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("hotpepper search: decode response: %w", err)
	}
	if len(body.Results.Errors) > 0 {
		e := body.Results.Errors[0]
		return nil, fmt.Errorf("hotpepper search: api error %s: %s", e.Code, e.Message)
	}
	return body.Results.Shops, nil
}
