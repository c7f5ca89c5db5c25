package reports

import (
	"github.com/po-toolkit/jira-reports/internal/config"
	"github.com/po-toolkit/jira-reports/internal/report"
)

// All returns every available report definition, in menu order.
func All(cfg *config.Config, recentDays int) []report.Definition {
	return []report.Definition{
		NewStatusChanged(cfg),
		NewMyTickets(cfg),
		NewStaleTickets(cfg),
		NewRecentTickets(cfg, recentDays),
	}
}

// Find returns the definition with the given name, if any.
func Find(defs []report.Definition, name string) (report.Definition, bool) {
	for _, def := range defs {
		if def.Name() == name {
			return def, true
		}
	}
	return nil, false
}
