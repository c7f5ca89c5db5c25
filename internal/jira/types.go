package jira

// IssueRecord is one issue's raw field data exactly as returned by the
// search API: a tree of string-keyed maps, slices, and scalar leaves.
// Records are read-only; transforms must never mutate them.
type IssueRecord map[string]any

// Key returns the issue key (e.g. "FDA-123"), or the placeholder when
// the record carries none.
func (r IssueRecord) Key() string {
	if k, ok := r["key"].(string); ok && k != "" {
		return k
	}
	return Placeholder
}

// searchResponse is the envelope returned by GET /rest/api/3/search/jql.
type searchResponse struct {
	StartAt    int           `json:"startAt"`
	MaxResults int           `json:"maxResults"`
	Total      int           `json:"total"`
	Issues     []IssueRecord `json:"issues"`
}
