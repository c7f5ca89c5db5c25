package tempo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the Tempo Cloud REST API root.
const DefaultBaseURL = "https://api.tempo.io/core/3"

// pageLimit is the worklog page size; pages are fetched until a short
// page signals the end of the result set.
const pageLimit = 1000

// accountAttribute is the worklog attribute key carrying the billing
// account reference.
const accountAttribute = "_account_"

// Worklog is one timesheet entry as returned by GET /worklogs.
type Worklog struct {
	TempoWorklogID   int64                `json:"tempoWorklogId"`
	Issue            WorklogIssue         `json:"issue"`
	TimeSpentSeconds int64                `json:"timeSpentSeconds"`
	StartDate        string               `json:"startDate"`
	Description      string               `json:"description"`
	Author           WorklogAuthor        `json:"author"`
	Attributes       map[string]Attribute `json:"attributes"`
}

// WorklogIssue identifies the issue a worklog was booked against.
type WorklogIssue struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// WorklogAuthor identifies the team member who logged the time.
type WorklogAuthor struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

// Attribute is a single worklog attribute value.
type Attribute struct {
	ID string `json:"id"`
}

// AccountID returns the billing account reference, if any.
func (w Worklog) AccountID() string {
	return w.Attributes[accountAttribute].ID
}

// Account is a Tempo billing account.
type Account struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type worklogsResponse struct {
	Results []Worklog `json:"results"`
}

type accountsResponse struct {
	Results []Account `json:"results"`
}

// Client is a Bearer-token HTTP client for the Tempo worklog API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a Tempo client. Pass DefaultBaseURL outside tests.
func NewClient(baseURL, token string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// Worklogs fetches every worklog in the [from, to] date range
// (YYYY-MM-DD), paginating until a short page. On a mid-pagination
// fault the worklogs collected so far are returned alongside the
// error, so callers can degrade to a partial report.
func (c *Client) Worklogs(ctx context.Context, from, to string) ([]Worklog, error) {
	var all []Worklog
	offset := 0

	c.log.Info().Str("from", from).Str("to", to).Msg("fetching worklogs")
	for {
		q := url.Values{}
		q.Set("from", from)
		q.Set("to", to)
		q.Set("offset", strconv.Itoa(offset))
		q.Set("limit", strconv.Itoa(pageLimit))

		var page worklogsResponse
		if err := c.get(ctx, "/worklogs?"+q.Encode(), &page); err != nil {
			return all, fmt.Errorf("fetching worklogs: %w", err)
		}
		if len(page.Results) == 0 {
			break
		}

		all = append(all, page.Results...)
		c.log.Debug().Int("fetched", len(all)).Msg("worklog page received")

		if len(page.Results) < pageLimit {
			break
		}
		offset += pageLimit
	}

	c.log.Info().Int("total", len(all)).Msg("worklogs fetched")
	return all, nil
}

// Accounts returns all Tempo accounts keyed by account ID.
func (c *Client) Accounts(ctx context.Context) (map[string]Account, error) {
	var page accountsResponse
	if err := c.get(ctx, "/accounts", &page); err != nil {
		return nil, fmt.Errorf("fetching accounts: %w", err)
	}

	accounts := make(map[string]Account, len(page.Results))
	for _, a := range page.Results {
		accounts[a.ID] = a
	}
	c.log.Info().Int("count", len(accounts)).Msg("accounts fetched")
	return accounts, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tempo api status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
