package reports

import (
	"errors"
	"fmt"
	"time"

	"github.com/po-toolkit/jira-reports/internal/config"
	"github.com/po-toolkit/jira-reports/internal/jira"
	"github.com/po-toolkit/jira-reports/internal/report"
)

// sprintDays is the lookback window covering one sprint.
const sprintDays = 27

// StatusChanged reports board tickets whose status changed during the
// last sprint window.
type StatusChanged struct {
	board string
	now   func() time.Time
}

func NewStatusChanged(cfg *config.Config) *StatusChanged {
	return &StatusChanged{board: cfg.Jira.BoardName, now: time.Now}
}

func (r *StatusChanged) Name() string { return "status-changed" }

func (r *StatusChanged) Description() string {
	return "Tickets with status changes in the last sprint"
}

func (r *StatusChanged) BuildJQL() (string, error) {
	if r.board == "" {
		return "", errors.New("board_name is not set in the [jira] section")
	}
	cutoff := daysAgo(r.now, sprintDays)
	return fmt.Sprintf("project = %q AND (status changed AFTER %q)", r.board, cutoff), nil
}

func (r *StatusChanged) RequiredFields() []string {
	return []string{"summary", "status", "updated"}
}

func (r *StatusChanged) Transform(issues []jira.IssueRecord) []report.Row {
	rows := make([]report.Row, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, report.Row{
			"ID":           issue.Key(),
			"Summary":      jira.Field(issue, "fields.summary"),
			"Status":       jira.StatusName(issue),
			"Last Updated": jira.FormatTimestamp(jira.Field(issue, "fields.updated"), ""),
		})
	}
	return rows
}

func (r *StatusChanged) Headers() []string {
	return []string{"ID", "Summary", "Status", "Last Updated"}
}

func (r *StatusChanged) OutputName() string { return "da status change.csv" }

func (r *StatusChanged) Display(rows []report.Row) {
	printTitle(fmt.Sprintf("%s tickets with status changes (last %d days)", r.board, sprintDays))
	for _, row := range rows {
		fmt.Printf("%s: %s [%s], updated %s\n",
			keyStyle.Render(row["ID"]), row["Summary"], row["Status"], row["Last Updated"])
	}
	fmt.Println(detailStyle.Render(fmt.Sprintf("%d ticket(s)", len(rows))))
}
