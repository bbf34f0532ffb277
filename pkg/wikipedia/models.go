package wikipedia

// extractResponse is the query API response for prop=extracts.
type extractResponse struct {
	Query struct {
		Pages map[string]Page `json:"pages"`
	} `json:"query"`
}

// Page is one page of an extracts query. Missing is set when no page has
// the requested title.
type Page struct {
	PageID  int     `json:"pageid"`
	Title   string  `json:"title"`
	Extract string  `json:"extract"`
	Missing *string `json:"missing,omitempty"`
}
