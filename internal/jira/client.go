package jira

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultMaxResults caps a search at one bounded page. There is no
// automatic pagination; reports that need more should raise the cap.
const DefaultMaxResults = 1000

// defaultFields are requested when a report declares none.
var defaultFields = []string{"summary", "status"}

// Client is a thin HTTP client for the Jira Cloud issue-search API.
// It authenticates with basic auth (account email + API token).
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a search client for the Jira instance at server
// (e.g. https://yourcompany.atlassian.net).
func NewClient(server, email, apiToken string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(server, "/"),
		email:    email,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// SearchIssues executes a JQL query and returns the matching issues.
//
// The result is uniform for callers: a non-2xx status, a network
// fault, or a malformed response body all yield an empty slice with a
// logged diagnostic. "No matches" and "fetch failed" are identical at
// the type level and are never surfaced as an error.
func (c *Client) SearchIssues(
	ctx context.Context,
	jql string,
	fields []string,
	maxResults int,
) []IssueRecord {
	if len(fields) == 0 {
		fields = defaultFields
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	q := url.Values{}
	q.Set("jql", jql)
	q.Set("fields", strings.Join(fields, ","))
	q.Set("maxResults", strconv.Itoa(maxResults))

	c.log.Info().
		Str("jql", jql).
		Strs("fields", fields).
		Msg("executing issue search")

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet,
		c.baseURL+"/rest/api/3/search/jql?"+q.Encode(), nil,
	)
	if err != nil {
		c.log.Error().Err(err).Msg("building search request")
		return nil
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Msg("executing issue search")
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error().Err(err).Msg("reading search response")
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Error().
			Int("status", resp.StatusCode).
			Str("body", strings.TrimSpace(string(body))).
			Msg("issue search returned an error status")
		return nil
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.log.Error().Err(err).Msg("decoding search response")
		return nil
	}

	c.log.Info().Int("count", len(result.Issues)).Msg("issue search complete")
	return result.Issues
}

// IssueURL returns the browse URL for an issue key.
func (c *Client) IssueURL(key string) string {
	return c.baseURL + "/browse/" + key
}
