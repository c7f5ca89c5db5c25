package reports

import (
	"errors"
	"fmt"
	"time"

	"github.com/po-toolkit/jira-reports/internal/config"
	"github.com/po-toolkit/jira-reports/internal/jira"
	"github.com/po-toolkit/jira-reports/internal/report"
)

const defaultRecentDays = 7

// RecentTickets reports board tickets created in the last N days.
type RecentTickets struct {
	server string
	board  string
	days   int
	now    func() time.Time
}

func NewRecentTickets(cfg *config.Config, days int) *RecentTickets {
	if days <= 0 {
		days = defaultRecentDays
	}
	return &RecentTickets{
		server: cfg.Jira.Server,
		board:  cfg.Jira.BoardName,
		days:   days,
		now:    time.Now,
	}
}

func (r *RecentTickets) Name() string { return "recent-tickets" }

func (r *RecentTickets) Description() string {
	return fmt.Sprintf("Tickets created in the last %d days", r.days)
}

func (r *RecentTickets) BuildJQL() (string, error) {
	if r.board == "" {
		return "", errors.New("board_name is not set in the [jira] section")
	}
	cutoff := daysAgo(r.now, r.days)
	return fmt.Sprintf("project = %q AND created >= %q", r.board, cutoff), nil
}

func (r *RecentTickets) RequiredFields() []string {
	return []string{"summary", "status", "assignee", "created", "reporter"}
}

func (r *RecentTickets) Transform(issues []jira.IssueRecord) []report.Row {
	rows := make([]report.Row, 0, len(issues))
	for _, issue := range issues {
		key := issue.Key()
		rows = append(rows, report.Row{
			"ID":       key,
			"Summary":  jira.Field(issue, "fields.summary"),
			"Status":   jira.StatusName(issue),
			"Assignee": jira.AssigneeName(issue),
			"Reporter": jira.DisplayName(jira.Extract(issue, "fields.reporter", nil), "Unknown"),
			"Created":  jira.Field(issue, "fields.created"),
			"URL":      issueURL(r.server, key),
		})
	}
	return rows
}

func (r *RecentTickets) Headers() []string {
	return []string{"ID", "Summary", "Status", "Assignee", "Reporter", "Created", "URL"}
}

func (r *RecentTickets) OutputName() string {
	return fmt.Sprintf("recently_created_tickets_%ddays.csv", r.days)
}

func (r *RecentTickets) Display(rows []report.Row) {
	printTitle(fmt.Sprintf("Recently Created Tickets (last %d days)", r.days))
	for _, row := range rows {
		fmt.Printf("%s: %s\n", keyStyle.Render(row["ID"]), row["Summary"])
		fmt.Println(detailStyle.Render(fmt.Sprintf(
			"   Status: %s | Assignee: %s | Reporter: %s | Created: %s",
			row["Status"], row["Assignee"], row["Reporter"], row["Created"])))
	}
	fmt.Println(detailStyle.Render(fmt.Sprintf("%d ticket(s)", len(rows))))
}
