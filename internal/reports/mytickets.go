package reports

import (
	"fmt"

	"github.com/po-toolkit/jira-reports/internal/config"
	"github.com/po-toolkit/jira-reports/internal/jira"
	"github.com/po-toolkit/jira-reports/internal/report"
)

// MyTickets reports tickets assigned to the current user across the
// DI and CCS boards.
type MyTickets struct {
	server   string
	projects []string
	boards   []boardInfo
}

func NewMyTickets(cfg *config.Config) *MyTickets {
	return &MyTickets{
		server:   cfg.Jira.Server,
		projects: []string{"DI", "CCS"},
		boards: []boardInfo{
			{Project: "DI", Name: "DI Board", BoardID: 705},
			{Project: "CCS", Name: "CCS Project"},
		},
	}
}

func (r *MyTickets) Name() string { return "my-tickets" }

func (r *MyTickets) Description() string {
	return "Tickets assigned to the current user on the DI and CCS boards"
}

func (r *MyTickets) BuildJQL() (string, error) {
	return fmt.Sprintf("(%s) AND assignee = currentUser() ORDER BY updated DESC",
		projectClause(r.projects)), nil
}

func (r *MyTickets) RequiredFields() []string {
	return []string{"summary", "status", "priority", "created", "updated", "reporter"}
}

func (r *MyTickets) Transform(issues []jira.IssueRecord) []report.Row {
	rows := make([]report.Row, 0, len(issues))
	for _, issue := range issues {
		key := issue.Key()
		rows = append(rows, report.Row{
			"Key":          key,
			"Summary":      jira.Field(issue, "fields.summary"),
			"Status":       jira.StatusName(issue),
			"Priority":     nameOf(jira.Extract(issue, "fields.priority", nil), "None"),
			"Reporter":     jira.DisplayName(jira.Extract(issue, "fields.reporter", nil), "Unknown"),
			"Created":      jira.FormatTimestamp(jira.Field(issue, "fields.created"), ""),
			"Last Updated": jira.FormatTimestamp(jira.Field(issue, "fields.updated"), ""),
			"URL":          issueURL(r.server, key),
		})
	}
	return rows
}

func (r *MyTickets) Headers() []string {
	return []string{"Key", "Summary", "Status", "Priority", "Reporter", "Created", "Last Updated", "URL"}
}

func (r *MyTickets) OutputName() string { return "my_assigned_tickets.csv" }

func (r *MyTickets) Display(rows []report.Row) {
	printTitle("My Assigned Tickets Report")

	groups := groupByKeyPrefix(rows, "Key")
	total := 0

	for _, board := range r.boards {
		ref := "Project"
		if board.BoardID != 0 {
			ref = fmt.Sprintf("Board ID: %d", board.BoardID)
		}
		fmt.Println(sectionStyle.Render(
			fmt.Sprintf("%s (Project: %s, %s)", board.Name, board.Project, ref)))
		fmt.Println(thinRule)

		tickets := groups[board.Project]
		if len(tickets) == 0 {
			fmt.Println("No tickets assigned to you.")
			continue
		}

		for _, row := range tickets {
			fmt.Printf("%s: %s\n", keyStyle.Render(row["Key"]), row["Summary"])
			fmt.Println(detailStyle.Render(fmt.Sprintf(
				"   Status: %s | Priority: %s | Reporter: %s | Updated: %s",
				row["Status"], row["Priority"], row["Reporter"], row["Last Updated"])))
			fmt.Println(detailStyle.Render("   " + row["URL"]))
		}
		total += len(tickets)
	}

	fmt.Println(rule)
	fmt.Println(titleStyle.Render(
		fmt.Sprintf("Total tickets assigned to you across all boards: %d", total)))
}
