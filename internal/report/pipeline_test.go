package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/po-toolkit/jira-reports/internal/jira"
)

type stubSearcher struct {
	issues []jira.IssueRecord
	gotJQL string
	gotMax int
	fields []string
	called bool
}

func (s *stubSearcher) SearchIssues(_ context.Context, jql string, fields []string, maxResults int) []jira.IssueRecord {
	s.called = true
	s.gotJQL = jql
	s.fields = fields
	s.gotMax = maxResults
	return s.issues
}

type stubDefinition struct {
	jqlErr    error
	displayed int
}

func (d *stubDefinition) Name() string        { return "stub" }
func (d *stubDefinition) Description() string { return "stub report" }

func (d *stubDefinition) BuildJQL() (string, error) {
	if d.jqlErr != nil {
		return "", d.jqlErr
	}
	return `project = "DA"`, nil
}

func (d *stubDefinition) RequiredFields() []string { return []string{"summary", "status"} }

func (d *stubDefinition) Transform(issues []jira.IssueRecord) []Row {
	rows := make([]Row, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, Row{
			"ID":      issue.Key(),
			"Summary": jira.Field(issue, "fields.summary"),
			"Status":  jira.StatusName(issue),
		})
	}
	return rows
}

func (d *stubDefinition) Headers() []string  { return []string{"ID", "Summary", "Status"} }
func (d *stubDefinition) OutputName() string { return "stub.csv" }
func (d *stubDefinition) Display(rows []Row) { d.displayed = len(rows) }

type stubRecorder struct {
	runs []RunSummary
	err  error
}

func (r *stubRecorder) Record(_ context.Context, run RunSummary) error {
	r.runs = append(r.runs, run)
	return r.err
}

func twoIssues() []jira.IssueRecord {
	return []jira.IssueRecord{
		{
			"key": "DA-1",
			"fields": map[string]any{
				"summary": "first",
				"status":  map[string]any{"name": "Done"},
			},
		},
		{
			"key": "DA-2",
			"fields": map[string]any{
				"summary": "second",
				// status missing on purpose; transform must not fail
			},
		},
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	dir := t.TempDir()
	searcher := &stubSearcher{issues: twoIssues()}
	def := &stubDefinition{}
	recorder := &stubRecorder{}

	p := NewPipeline(searcher, dir, zerolog.Nop())
	p.Recorder = recorder

	require.NoError(t, p.Run(context.Background(), def))

	assert.Equal(t, `project = "DA"`, searcher.gotJQL)
	assert.Equal(t, []string{"summary", "status"}, searcher.fields)
	assert.Equal(t, jira.DefaultMaxResults, searcher.gotMax)
	assert.Equal(t, 2, def.displayed)

	data, err := os.ReadFile(filepath.Join(dir, "stub.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3, "header plus one line per issue")
	assert.Equal(t, "ID,Summary,Status", lines[0])
	assert.Equal(t, "DA-1,first,Done", lines[1])
	assert.Equal(t, "DA-2,second,Unknown", lines[2])

	require.Len(t, recorder.runs, 1)
	assert.Equal(t, "stub", recorder.runs[0].Report)
	assert.Equal(t, 2, recorder.runs[0].IssueCount)
	assert.Equal(t, filepath.Join(dir, "stub.csv"), recorder.runs[0].OutputPath)
}

func TestPipelineEmptyResultSkipsDisplayAndExport(t *testing.T) {
	dir := t.TempDir()
	def := &stubDefinition{}
	recorder := &stubRecorder{}

	p := NewPipeline(&stubSearcher{}, dir, zerolog.Nop())
	p.Recorder = recorder

	require.NoError(t, p.Run(context.Background(), def))

	assert.Zero(t, def.displayed)
	_, err := os.Stat(filepath.Join(dir, "stub.csv"))
	assert.True(t, os.IsNotExist(err), "no output file for an empty result set")
	assert.Empty(t, recorder.runs)
}

func TestPipelineFilterFailureAbortsBeforeFetch(t *testing.T) {
	searcher := &stubSearcher{issues: twoIssues()}
	def := &stubDefinition{jqlErr: errors.New("board_name is not configured")}

	p := NewPipeline(searcher, t.TempDir(), zerolog.Nop())
	err := p.Run(context.Background(), def)

	require.Error(t, err)
	assert.False(t, searcher.called, "no network call after a filter-build failure")
}

func TestPipelineRecorderFailureIsSoft(t *testing.T) {
	dir := t.TempDir()
	p := NewPipeline(&stubSearcher{issues: twoIssues()}, dir, zerolog.Nop())
	p.Recorder = &stubRecorder{err: errors.New("disk full")}

	require.NoError(t, p.Run(context.Background(), &stubDefinition{}))

	_, err := os.Stat(filepath.Join(dir, "stub.csv"))
	assert.NoError(t, err, "export still written when history recording fails")
}
