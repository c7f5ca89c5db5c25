package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/po-toolkit/jira-reports/internal/report"
)

// jqlDateLayout is the date literal format JQL accepts.
const jqlDateLayout = "2006-01-02"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	detailStyle  = lipgloss.NewStyle().Faint(true)

	rule     = strings.Repeat("=", 80)
	thinRule = strings.Repeat("-", 60)
)

// boardInfo labels a project for grouped display output. The board ID
// is informational only; queries go by project key.
type boardInfo struct {
	Project string
	Name    string
	BoardID int
}

// daysAgo returns the JQL date literal for now minus the given days.
func daysAgo(now func() time.Time, days int) string {
	return now().AddDate(0, 0, -days).Format(jqlDateLayout)
}

// projectClause builds "project = A OR project = B" for a JQL filter.
func projectClause(projects []string) string {
	parts := make([]string, len(projects))
	for i, p := range projects {
		parts[i] = "project = " + p
	}
	return strings.Join(parts, " OR ")
}

// issueURL returns the browse link for an issue key.
func issueURL(server, key string) string {
	return strings.TrimRight(server, "/") + "/browse/" + key
}

// nameOf unwraps the "name" of a Jira option object (priority, issue
// type, ...), falling back when the value is missing or not an object.
func nameOf(v any, def string) string {
	if m, ok := v.(map[string]any); ok {
		if s, ok := m["name"].(string); ok && s != "" {
			return s
		}
	}
	return def
}

// groupByKeyPrefix buckets rows by the project prefix of the issue key
// held in keyColumn ("FDA-12" groups under "FDA"). Presentation-only.
func groupByKeyPrefix(rows []report.Row, keyColumn string) map[string][]report.Row {
	groups := make(map[string][]report.Row)
	for _, row := range rows {
		project, _, _ := strings.Cut(row[keyColumn], "-")
		groups[project] = append(groups[project], row)
	}
	return groups
}

func printTitle(text string) {
	fmt.Println(rule)
	fmt.Println(titleStyle.Render(text))
	fmt.Println(rule)
}
