package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `[jira]
server = https://yourcompany.atlassian.net
email = po@example.com
api_token = secret-token
board_name = DA

[tempo]
api_token = tempo-secret
date_from = 2024-01-01
date_to = 2024-01-31
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://yourcompany.atlassian.net", cfg.Jira.Server)
	assert.Equal(t, "po@example.com", cfg.Jira.Email)
	assert.Equal(t, "secret-token", cfg.Jira.APIToken)
	assert.Equal(t, "DA", cfg.Jira.BoardName)
	assert.Equal(t, "output", cfg.Jira.OutputDir, "default output directory")

	assert.Equal(t, "tempo-secret", cfg.Tempo.APIToken)
	assert.Equal(t, "2024-01-01", cfg.Tempo.DateFrom)
	assert.Equal(t, "tempo_report", cfg.Tempo.FilenamePrefix)
	assert.Equal(t, "excel", cfg.Tempo.OutputFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	assert.ErrorIs(t, err, ErrMissingJiraSection)
}

func TestLoadMissingJiraSection(t *testing.T) {
	path := writeConfig(t, `[tempo]
api_token = tempo-secret
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrMissingJiraSection)
}

func TestLoadOutputDirOverride(t *testing.T) {
	path := writeConfig(t, `[jira]
server = https://jira.example.com
email = po@example.com
api_token = t
output_dir = /tmp/reports
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/reports", cfg.Jira.OutputDir)
}
