package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/po-toolkit/jira-reports/internal/report"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := report.RunSummary{
		Report:     "status-changed",
		JQL:        `project = "DA"`,
		IssueCount: 12,
		OutputPath: "output/da status change.csv",
		StartedAt:  time.Date(2024, 10, 17, 9, 0, 0, 0, time.UTC),
		Duration:   1500 * time.Millisecond,
	}
	second := report.RunSummary{
		Report:     "my-tickets",
		IssueCount: 4,
		StartedAt:  time.Date(2024, 10, 17, 10, 0, 0, 0, time.UTC),
		Duration:   200 * time.Millisecond,
	}

	require.NoError(t, s.Record(ctx, first))
	require.NoError(t, s.Record(ctx, second))

	runs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "my-tickets", runs[0].Report)
	assert.Equal(t, "status-changed", runs[1].Report)
	assert.Equal(t, 12, runs[1].IssueCount)
	assert.Equal(t, int64(1500), runs[1].DurationMS)
	assert.Equal(t, `project = "DA"`, runs[1].JQL)
}

func TestRecentLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, report.RunSummary{
			Report:    "recent-tickets",
			StartedAt: time.Date(2024, 10, 17, 9, i, 0, 0, time.UTC),
		}))
	}

	runs, err := s.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestRecentEmpty(t *testing.T) {
	s := openTestStore(t)

	runs, err := s.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), report.RunSummary{
		Report:    "stale-tickets",
		StartedAt: time.Now(),
	}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
