package report

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/po-toolkit/jira-reports/internal/export"
	"github.com/po-toolkit/jira-reports/internal/jira"
)

// Row is one display-ready report line: column name to rendered value.
// Every row of a report carries exactly the columns its Definition
// declares in Headers(); missing upstream data renders as a
// placeholder, never an absent key.
type Row = map[string]string

// Definition is the per-report policy a concrete report supplies to
// the shared pipeline.
type Definition interface {
	// Name is the stable identifier used on the command line.
	Name() string
	// Description is the one-line menu text.
	Description() string
	// BuildJQL constructs the filter expression. An error (such as a
	// missing required configuration value) aborts the run before any
	// network call.
	BuildJQL() (string, error)
	// RequiredFields lists the Jira fields the transform reads.
	RequiredFields() []string
	// Transform reshapes raw issues into display-ready rows. It must
	// be total: structurally-valid records never fail, missing data
	// degrades to placeholder values.
	Transform(issues []jira.IssueRecord) []Row
	// Headers is the declared column order of the CSV export.
	Headers() []string
	// OutputName is the export file name, relative to the output dir.
	OutputName() string
	// Display renders a human-readable summary to the console. It is
	// a pure side effect and must not alter the rows.
	Display(rows []Row)
}

// Searcher is the slice of the Jira client the pipeline depends on.
type Searcher interface {
	SearchIssues(ctx context.Context, jql string, fields []string, maxResults int) []jira.IssueRecord
}

// RunSummary describes one completed report run.
type RunSummary struct {
	Report     string
	JQL        string
	IssueCount int
	OutputPath string
	StartedAt  time.Time
	Duration   time.Duration
}

// Recorder receives a summary of each completed run. Recording is
// best-effort; failures are logged and never affect the run itself.
type Recorder interface {
	Record(ctx context.Context, run RunSummary) error
}

// Pipeline runs any report definition through the shared sequence:
// build filter, fetch, transform, display, export.
type Pipeline struct {
	Client     Searcher
	OutputDir  string
	MaxResults int
	Recorder   Recorder // optional
	Log        zerolog.Logger
}

// NewPipeline creates a pipeline writing exports under outputDir.
func NewPipeline(client Searcher, outputDir string, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		Client:     client,
		OutputDir:  outputDir,
		MaxResults: jira.DefaultMaxResults,
		Log:        log,
	}
}

// Run executes def once. The only error it returns is a filter-build
// failure; an empty result set is a normal outcome that skips display
// and export, and export faults are logged without failing the run.
func (p *Pipeline) Run(ctx context.Context, def Definition) error {
	started := time.Now()
	p.Log.Info().Str("report", def.Name()).Msg("running report")

	jql, err := def.BuildJQL()
	if err != nil {
		return fmt.Errorf("building filter for %s: %w", def.Name(), err)
	}

	issues := p.Client.SearchIssues(ctx, jql, def.RequiredFields(), p.MaxResults)
	if len(issues) == 0 {
		p.Log.Info().Str("report", def.Name()).Msg("no issues matched the criteria; nothing to report")
		return nil
	}

	rows := def.Transform(issues)
	def.Display(rows)

	outputPath := ""
	if len(rows) > 0 {
		outputPath = filepath.Join(p.OutputDir, def.OutputName())
		export.WriteCSV(p.Log, outputPath, rows, def.Headers())
	}

	if p.Recorder != nil {
		summary := RunSummary{
			Report:     def.Name(),
			JQL:        jql,
			IssueCount: len(issues),
			OutputPath: outputPath,
			StartedAt:  started,
			Duration:   time.Since(started),
		}
		if err := p.Recorder.Record(ctx, summary); err != nil {
			p.Log.Warn().Err(err).Msg("recording run history")
		}
	}

	return nil
}
