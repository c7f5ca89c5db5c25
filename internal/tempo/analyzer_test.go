package tempo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWorklogs() []Worklog {
	return []Worklog{
		{
			TempoWorklogID:   1,
			Issue:            WorklogIssue{ID: "10001", Key: "PROJ-123"},
			TimeSpentSeconds: 14400,
			StartDate:        "2024-01-15",
			Description:      "Working on feature X",
			Author:           WorklogAuthor{AccountID: "user1", DisplayName: "John Smith"},
			Attributes:       map[string]Attribute{"_account_": {ID: "1"}},
		},
		{
			TempoWorklogID:   2,
			Issue:            WorklogIssue{ID: "10002", Key: "PROJ-124"},
			TimeSpentSeconds: 10800,
			StartDate:        "2024-01-15",
			Description:      "Bug fixing",
			Author:           WorklogAuthor{AccountID: "user2", DisplayName: "Jane Doe"},
			Attributes:       map[string]Attribute{"_account_": {ID: "1"}},
		},
		{
			TempoWorklogID:   3,
			Issue:            WorklogIssue{ID: "10001", Key: "PROJ-123"},
			TimeSpentSeconds: 7200,
			StartDate:        "2024-01-16",
			Description:      "Code review",
			Author:           WorklogAuthor{AccountID: "user1", DisplayName: "John Smith"},
			Attributes:       map[string]Attribute{"_account_": {ID: "2"}},
		},
	}
}

func sampleAccounts() map[string]Account {
	return map[string]Account{
		"1": {ID: "1", Key: "DEV-001", Name: "Development"},
		"2": {ID: "2", Key: "TEST-001", Name: "Testing"},
	}
}

func TestFlatten(t *testing.T) {
	entries := Flatten(sampleWorklogs(), sampleAccounts(), nil)

	require.Len(t, entries, 3)
	first := entries[0]
	assert.Equal(t, "2024-01-15", first.Date)
	assert.Equal(t, "John Smith", first.TeamMember)
	assert.Equal(t, "PROJ-123", first.IssueKey)
	assert.Equal(t, "DEV-001", first.AccountCode)
	assert.Equal(t, "Development", first.AccountName)
	assert.InDelta(t, 4.0, first.Hours, 1e-9)
	assert.Equal(t, int64(1), first.WorklogID)
}

func TestFlattenFiltersByUser(t *testing.T) {
	entries := Flatten(sampleWorklogs(), sampleAccounts(), []string{"user2"})

	require.Len(t, entries, 1)
	assert.Equal(t, "Jane Doe", entries[0].TeamMember)
}

func TestFlattenUnresolvedAccount(t *testing.T) {
	worklogs := []Worklog{{
		TempoWorklogID:   9,
		Issue:            WorklogIssue{ID: "10009", Key: "PROJ-9"},
		TimeSpentSeconds: 1800,
		Author:           WorklogAuthor{AccountID: "u", DisplayName: "Pat"},
		Attributes:       map[string]Attribute{"_account_": {ID: "999"}},
	}}

	entries := Flatten(worklogs, sampleAccounts(), nil)

	require.Len(t, entries, 1)
	assert.Equal(t, "999", entries[0].AccountCode)
	assert.Equal(t, "Unknown", entries[0].AccountName)
}

func TestFlattenDefaults(t *testing.T) {
	worklogs := []Worklog{{TempoWorklogID: 5, TimeSpentSeconds: 3600}}

	entries := Flatten(worklogs, nil, nil)

	require.Len(t, entries, 1)
	assert.Equal(t, "Unknown", entries[0].TeamMember)
	assert.Equal(t, "No Issue", entries[0].IssueKey)
	assert.Empty(t, entries[0].AccountCode)
}

func TestSummarize(t *testing.T) {
	rows := Summarize(Flatten(sampleWorklogs(), sampleAccounts(), nil))

	require.Len(t, rows, 3)

	// Members ascending, hours descending within a member.
	assert.Equal(t, "Jane Doe", rows[0].TeamMember)
	assert.InDelta(t, 3.0, rows[0].Hours, 1e-9)

	assert.Equal(t, "John Smith", rows[1].TeamMember)
	assert.Equal(t, "DEV-001", rows[1].AccountCode)
	assert.InDelta(t, 4.0, rows[1].Hours, 1e-9)
	assert.Equal(t, "Working on feature X", rows[1].Description)

	assert.Equal(t, "John Smith", rows[2].TeamMember)
	assert.Equal(t, "TEST-001", rows[2].AccountCode)
	assert.InDelta(t, 2.0, rows[2].Hours, 1e-9)
}

func TestSummarizeDescriptionsCapped(t *testing.T) {
	var entries []Entry
	for _, desc := range []string{"a", "b", "a", "c", "d", ""} {
		entries = append(entries, Entry{
			TeamMember: "X", AccountCode: "A", AccountName: "A", IssueKey: "K-1",
			Hours: 1, Description: desc,
		})
	}

	rows := Summarize(entries)

	require.Len(t, rows, 1)
	assert.Equal(t, "a | b | c", rows[0].Description)
	assert.InDelta(t, 6.0, rows[0].Hours, 1e-9)
}

func TestSummarizeByMember(t *testing.T) {
	rows := SummarizeByMember(Flatten(sampleWorklogs(), sampleAccounts(), nil))

	require.Len(t, rows, 2)
	assert.Equal(t, "John Smith", rows[0].TeamMember)
	assert.InDelta(t, 6.0, rows[0].TotalHours, 1e-9)
	assert.Equal(t, 2, rows[0].WorklogCount)

	assert.Equal(t, "Jane Doe", rows[1].TeamMember)
	assert.InDelta(t, 3.0, rows[1].TotalHours, 1e-9)
	assert.Equal(t, 1, rows[1].WorklogCount)
}

func TestTotalsAndUniqueIssues(t *testing.T) {
	entries := Flatten(sampleWorklogs(), sampleAccounts(), nil)

	assert.InDelta(t, 9.0, TotalHours(entries), 1e-9)
	assert.Equal(t, 2, UniqueIssues(entries))
}

func TestTables(t *testing.T) {
	entries := Flatten(sampleWorklogs(), sampleAccounts(), nil)

	headers, rows := SummaryTable(Summarize(entries))
	assert.Equal(t, []string{"team_member", "account_code", "account_name", "issue_key", "hours", "description"}, headers)
	require.Len(t, rows, 3)
	assert.Equal(t, "3.00", rows[0][4])

	headers, rows = DetailTable(entries)
	assert.Len(t, headers, 10)
	require.Len(t, rows, 3)
	assert.Equal(t, "4.00", rows[0][7])
	assert.Equal(t, "1", rows[0][9])

	headers, rows = MemberTable(SummarizeByMember(entries))
	assert.Equal(t, []string{"team_member", "total_hours", "worklog_count"}, headers)
	assert.Equal(t, []string{"John Smith", "6.00", "2"}, rows[0])
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 1.23, round2(1.2349), 1e-9)
	assert.InDelta(t, 1.24, round2(1.239), 1e-9)
	assert.InDelta(t, 0.33, round2(1.0/3.0), 1e-9)
}
