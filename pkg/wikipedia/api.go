// Package wikipedia fetches short plain-text page summaries from the
// MediaWiki query API.
package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"tourism/internal/metrics"
)

const (
	defaultBaseURL   = "https://ja.wikipedia.org"
	defaultUserAgent = "tourism-ranker/1.0"
	apiPath          = "/w/api.php"

	// maxSummaryRunes caps the returned text.
	maxSummaryRunes = 200
)

// ErrNotFound is returned when no page matches the title.
var ErrNotFound = errors.New("wikipedia: page not found")

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
	}
}

// Summary returns the intro section of the page titled title as plain
// text, following redirects.
func (c *Client) Summary(ctx context.Context, title string) (text string, err error) {
	defer func() {
		status := metrics.CallStatus(err)
		if errors.Is(err, ErrNotFound) {
			status = "not_found"
		}
		metrics.ExternalCalls.WithLabelValues("wikipedia", "summary", status).Inc()
	}()

	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("format", "json")
	params.Set("titles", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPath+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia summary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia summary: unexpected status: %s", resp.Status)
	}

	var body extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("wikipedia summary: decode response: %w", err)
	}
	for _, p := range body.Query.Pages {
		if p.Missing != nil || p.PageID <= 0 {
			continue
		}
		if extract := truncate(strings.TrimSpace(p.Extract), maxSummaryRunes); extract != "" {
			return extract, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, title)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
