package reports

import (
	"fmt"
	"time"

	"github.com/po-toolkit/jira-reports/internal/config"
	"github.com/po-toolkit/jira-reports/internal/jira"
	"github.com/po-toolkit/jira-reports/internal/report"
)

const staleMonths = 3

// StaleTickets reports FDA/FDP tickets with no status change in the
// last three months that still saw some activity in that window.
type StaleTickets struct {
	server   string
	months   int
	projects []string
	boards   []boardInfo
	now      func() time.Time
}

func NewStaleTickets(cfg *config.Config) *StaleTickets {
	return &StaleTickets{
		server:   cfg.Jira.Server,
		months:   staleMonths,
		projects: []string{"FDA", "FDP"},
		boards: []boardInfo{
			{Project: "FDA", Name: "FDA Board", BoardID: 740},
			{Project: "FDP", Name: "FDP Board", BoardID: 728},
		},
		now: time.Now,
	}
}

func (r *StaleTickets) Name() string { return "stale-tickets" }

func (r *StaleTickets) Description() string {
	return fmt.Sprintf("Tickets with no status change in the last %d months (FDA/FDP boards)", r.months)
}

func (r *StaleTickets) staleDays() int { return r.months * 30 }

func (r *StaleTickets) BuildJQL() (string, error) {
	cutoff := daysAgo(r.now, r.staleDays())
	return fmt.Sprintf(
		"(%s) AND status changed BEFORE %q AND (updated >= %q OR created >= %q)",
		projectClause(r.projects), cutoff, cutoff, cutoff,
	), nil
}

func (r *StaleTickets) RequiredFields() []string {
	return []string{"summary", "status", "assignee", "created", "updated", "statuscategorychangedate"}
}

func (r *StaleTickets) Transform(issues []jira.IssueRecord) []report.Row {
	rows := make([]report.Row, 0, len(issues))
	for _, issue := range issues {
		key := issue.Key()
		rows = append(rows, report.Row{
			"ID":             key,
			"Summary":        jira.Field(issue, "fields.summary"),
			"Status":         jira.StatusName(issue),
			"Assignee":       jira.AssigneeName(issue),
			"Created":        jira.FormatTimestamp(jira.Field(issue, "fields.created"), ""),
			"Last Updated":   jira.FormatTimestamp(jira.Field(issue, "fields.updated"), ""),
			"Status Changed": jira.FormatTimestamp(jira.Field(issue, "fields.statuscategorychangedate"), ""),
			"URL":            issueURL(r.server, key),
		})
	}
	return rows
}

func (r *StaleTickets) Headers() []string {
	return []string{"ID", "Summary", "Status", "Assignee", "Created", "Last Updated", "Status Changed", "URL"}
}

func (r *StaleTickets) OutputName() string { return "Stale Tickets Report.csv" }

func (r *StaleTickets) Display(rows []report.Row) {
	printTitle(fmt.Sprintf("Stale Tickets Report (no status change in last %d months)", r.months))

	groups := groupByKeyPrefix(rows, "ID")
	total := 0

	for _, board := range r.boards {
		fmt.Println(sectionStyle.Render(
			fmt.Sprintf("%s (Project: %s)", board.Name, board.Project)))
		fmt.Println(thinRule)

		tickets := groups[board.Project]
		if len(tickets) == 0 {
			fmt.Println("No stale tickets found.")
			continue
		}

		fmt.Printf("Found %d stale ticket(s):\n", len(tickets))
		for _, row := range tickets {
			fmt.Printf("%s: %s\n", keyStyle.Render(row["ID"]), row["Summary"])
			fmt.Println(detailStyle.Render(fmt.Sprintf(
				"   Status: %s | Assignee: %s | Last Updated: %s | Status Changed: %s",
				row["Status"], row["Assignee"], row["Last Updated"], row["Status Changed"])))
			fmt.Println(detailStyle.Render("   " + row["URL"]))
		}
		total += len(tickets)
	}

	fmt.Println(rule)
	fmt.Println(titleStyle.Render(
		fmt.Sprintf("Total stale tickets across all boards: %d", total)))
}
