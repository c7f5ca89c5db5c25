package tempo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/po-toolkit/jira-reports/internal/export"
)

// Entry is one flattened worklog line, ready for grouping and export.
type Entry struct {
	Date        string
	TeamMember  string
	AccountID   string
	IssueKey    string
	IssueID     string
	AccountCode string
	AccountName string
	Hours       float64
	Description string
	WorklogID   int64
}

// SummaryRow aggregates hours per (member, account, issue).
type SummaryRow struct {
	TeamMember  string
	AccountCode string
	AccountName string
	IssueKey    string
	Hours       float64
	Description string
}

// MemberSummary aggregates hours and worklog counts per team member.
type MemberSummary struct {
	TeamMember   string
	TotalHours   float64
	WorklogCount int
}

// Flatten converts raw worklogs into entries, resolving account codes
// against the account map. When userIDs is non-empty only worklogs by
// those authors are kept.
func Flatten(worklogs []Worklog, accounts map[string]Account, userIDs []string) []Entry {
	keep := func(string) bool { return true }
	if len(userIDs) > 0 {
		wanted := make(map[string]struct{}, len(userIDs))
		for _, id := range userIDs {
			wanted[id] = struct{}{}
		}
		keep = func(id string) bool {
			_, ok := wanted[id]
			return ok
		}
	}

	entries := make([]Entry, 0, len(worklogs))
	for _, wl := range worklogs {
		if !keep(wl.Author.AccountID) {
			continue
		}

		accountID := wl.AccountID()
		accountCode, accountName := "", ""
		if accountID != "" {
			if account, ok := accounts[accountID]; ok {
				accountCode, accountName = account.Key, account.Name
			} else {
				accountCode, accountName = accountID, "Unknown"
			}
		}

		member := wl.Author.DisplayName
		if member == "" {
			member = "Unknown"
		}
		issueKey := wl.Issue.Key
		if issueKey == "" {
			issueKey = "No Issue"
		}

		entries = append(entries, Entry{
			Date:        wl.StartDate,
			TeamMember:  member,
			AccountID:   wl.Author.AccountID,
			IssueKey:    issueKey,
			IssueID:     wl.Issue.ID,
			AccountCode: accountCode,
			AccountName: accountName,
			Hours:       float64(wl.TimeSpentSeconds) / 3600.0,
			Description: wl.Description,
			WorklogID:   wl.TempoWorklogID,
		})
	}
	return entries
}

// Summarize groups entries by team member, account, and issue. Hours
// are summed and rounded to two decimals; up to three unique
// descriptions are kept per group. Sorted by member ascending, then
// hours descending.
func Summarize(entries []Entry) []SummaryRow {
	type groupKey struct {
		member, code, name, issue string
	}
	type group struct {
		hours        float64
		descriptions []string
	}

	groups := make(map[groupKey]*group)
	var order []groupKey
	for _, e := range entries {
		k := groupKey{e.TeamMember, e.AccountCode, e.AccountName, e.IssueKey}
		g, ok := groups[k]
		if !ok {
			g = &group{}
			groups[k] = g
			order = append(order, k)
		}
		g.hours += e.Hours
		if e.Description != "" && len(g.descriptions) < 3 && !contains(g.descriptions, e.Description) {
			g.descriptions = append(g.descriptions, e.Description)
		}
	}

	rows := make([]SummaryRow, 0, len(order))
	for _, k := range order {
		g := groups[k]
		rows = append(rows, SummaryRow{
			TeamMember:  k.member,
			AccountCode: k.code,
			AccountName: k.name,
			IssueKey:    k.issue,
			Hours:       round2(g.hours),
			Description: strings.Join(g.descriptions, " | "),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TeamMember != rows[j].TeamMember {
			return rows[i].TeamMember < rows[j].TeamMember
		}
		if rows[i].Hours != rows[j].Hours {
			return rows[i].Hours > rows[j].Hours
		}
		return rows[i].IssueKey < rows[j].IssueKey
	})
	return rows
}

// SummarizeByMember aggregates total hours and worklog counts per team
// member, sorted by total hours descending.
func SummarizeByMember(entries []Entry) []MemberSummary {
	totals := make(map[string]*MemberSummary)
	var order []string
	for _, e := range entries {
		s, ok := totals[e.TeamMember]
		if !ok {
			s = &MemberSummary{TeamMember: e.TeamMember}
			totals[e.TeamMember] = s
			order = append(order, e.TeamMember)
		}
		s.TotalHours += e.Hours
		s.WorklogCount++
	}

	rows := make([]MemberSummary, 0, len(order))
	for _, member := range order {
		s := totals[member]
		s.TotalHours = round2(s.TotalHours)
		rows = append(rows, *s)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalHours != rows[j].TotalHours {
			return rows[i].TotalHours > rows[j].TotalHours
		}
		return rows[i].TeamMember < rows[j].TeamMember
	})
	return rows
}

// TotalHours sums the hours of all entries.
func TotalHours(entries []Entry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Hours
	}
	return round2(total)
}

// UniqueIssues counts distinct issue keys across the entries.
func UniqueIssues(entries []Entry) int {
	seen := make(map[string]struct{})
	for _, e := range entries {
		seen[e.IssueKey] = struct{}{}
	}
	return len(seen)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}

// SummaryTable renders the grouped summary as headers plus rows.
func SummaryTable(rows []SummaryRow) ([]string, [][]string) {
	headers := []string{"team_member", "account_code", "account_name", "issue_key", "hours", "description"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.TeamMember, r.AccountCode, r.AccountName, r.IssueKey,
			formatHours(r.Hours), r.Description,
		})
	}
	return headers, out
}

// DetailTable renders the flattened worklog entries as headers plus rows.
func DetailTable(entries []Entry) ([]string, [][]string) {
	headers := []string{
		"date", "team_member", "account_id", "issue_key", "issue_id",
		"account_code", "account_name", "hours", "description", "worklog_id",
	}
	out := make([][]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, []string{
			e.Date, e.TeamMember, e.AccountID, e.IssueKey, e.IssueID,
			e.AccountCode, e.AccountName, formatHours(e.Hours),
			e.Description, strconv.FormatInt(e.WorklogID, 10),
		})
	}
	return headers, out
}

// MemberTable renders the per-member summary as headers plus rows.
func MemberTable(rows []MemberSummary) ([]string, [][]string) {
	headers := []string{"team_member", "total_hours", "worklog_count"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.TeamMember, formatHours(r.TotalHours), strconv.Itoa(r.WorklogCount),
		})
	}
	return headers, out
}

// RunOptions configures one timesheet analysis run.
type RunOptions struct {
	DateFrom       string
	DateTo         string
	UserIDs        []string
	Format         string // "csv" or "excel"
	OutputDir      string
	FilenamePrefix string
}

// Analyzer fetches worklogs and accounts, aggregates them, prints the
// summary statistics, and writes the export files.
type Analyzer struct {
	Client *Client
	Log    zerolog.Logger

	now func() time.Time
}

// NewAnalyzer creates an analyzer around a Tempo client.
func NewAnalyzer(client *Client, log zerolog.Logger) *Analyzer {
	return &Analyzer{Client: client, Log: log, now: time.Now}
}

// Run executes the complete analysis workflow and returns the path of
// the primary report file. Mid-pagination worklog faults degrade to a
// partial report; an empty result set is an error.
func (a *Analyzer) Run(ctx context.Context, opts RunOptions) (string, error) {
	worklogs, err := a.Client.Worklogs(ctx, opts.DateFrom, opts.DateTo)
	if err != nil {
		a.Log.Warn().Err(err).Msg("worklog fetch incomplete; continuing with partial data")
	}

	accounts, err := a.Client.Accounts(ctx)
	if err != nil {
		a.Log.Warn().Err(err).Msg("could not fetch accounts; account codes will be unresolved")
	}

	entries := Flatten(worklogs, accounts, opts.UserIDs)
	if len(entries) == 0 {
		return "", errors.New("no worklog data in the selected date range")
	}

	summary := Summarize(entries)
	team := SummarizeByMember(entries)

	a.printStats(entries, team)

	prefix := opts.FilenamePrefix
	if prefix == "" {
		prefix = "tempo_report"
	}
	timestamp := a.now().Format("20060102_150405")

	if strings.EqualFold(opts.Format, "csv") {
		summaryHeaders, summaryRows := SummaryTable(summary)
		detailHeaders, detailRows := DetailTable(entries)
		teamHeaders, teamRows := MemberTable(team)

		summaryPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_summary_%s.csv", prefix, timestamp))
		if err := export.WriteTable(summaryPath, summaryHeaders, summaryRows); err != nil {
			return "", err
		}
		detailPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_detail_%s.csv", prefix, timestamp))
		if err := export.WriteTable(detailPath, detailHeaders, detailRows); err != nil {
			return "", err
		}
		teamPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_team_summary_%s.csv", prefix, timestamp))
		if err := export.WriteTable(teamPath, teamHeaders, teamRows); err != nil {
			return "", err
		}
		return summaryPath, nil
	}

	summaryHeaders, summaryRows := SummaryTable(summary)
	teamHeaders, teamRows := MemberTable(team)
	detailHeaders, detailRows := DetailTable(entries)

	path := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_%s.xlsx", prefix, timestamp))
	err = export.WriteWorkbook(path, []export.Sheet{
		{Name: "Summary", Headers: summaryHeaders, Rows: summaryRows},
		{Name: "Team Summary", Headers: teamHeaders, Rows: teamRows},
		{Name: "Detailed Worklogs", Headers: detailHeaders, Rows: detailRows},
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

var statHeading = lipgloss.NewStyle().Bold(true)

func (a *Analyzer) printStats(entries []Entry, team []MemberSummary) {
	fmt.Println(statHeading.Render("Summary Statistics"))
	fmt.Printf("Total hours logged: %s\n", formatHours(TotalHours(entries)))
	fmt.Printf("Number of team members: %d\n", len(team))
	fmt.Printf("Number of unique issues: %d\n", UniqueIssues(entries))
	fmt.Printf("Number of worklogs: %d\n", len(entries))

	fmt.Println(statHeading.Render("Top 5 Team Members by Hours"))
	for i, member := range team {
		if i == 5 {
			break
		}
		fmt.Printf("%-30s %8s  (%d worklogs)\n",
			member.TeamMember, formatHours(member.TotalHours), member.WorklogCount)
	}
}
