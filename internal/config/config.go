package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/po-toolkit/jira-reports/internal/credential"
)

// ErrMissingJiraSection is the fatal startup condition: no usable
// config file, or one without a [jira] section. Main prints the fixed
// diagnostic and exits; nothing else in the process may terminate it.
var ErrMissingJiraSection = errors.New("config.ini file not found or missing [jira] section")

// MissingSectionHelp is printed alongside the error diagnostic.
const MissingSectionHelp = "Please create config.ini based on config.ini.example"

// Jira holds the tracker connection settings from the [jira] section.
type Jira struct {
	Server    string
	Email     string
	APIToken  string
	BoardName string
	OutputDir string
}

// Tempo holds the worklog API settings from the [tempo] section.
type Tempo struct {
	APIToken       string
	DateFrom       string
	DateTo         string
	FilenamePrefix string
	OutputFormat   string
}

// Config is the full, immutable process configuration. It is loaded
// once at startup and passed explicitly into component constructors.
type Config struct {
	Jira  Jira
	Tempo Tempo
}

// Load reads configuration from an INI file. The [jira] section is
// required; [tempo] is optional and only needed by the timesheet
// analyzer. API tokens left blank in the file fall back to the OS
// keyring (service "jira-reports").
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")

	v.SetDefault("jira.output_dir", "output")
	v.SetDefault("tempo.filename_prefix", "tempo_report")
	v.SetDefault("tempo.output_format", "excel")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w (reading %s: %v)", ErrMissingJiraSection, path, err)
	}

	if v.GetString("jira.server") == "" && v.GetString("jira.email") == "" {
		return nil, ErrMissingJiraSection
	}

	cfg := &Config{
		Jira: Jira{
			Server:    v.GetString("jira.server"),
			Email:     v.GetString("jira.email"),
			APIToken:  v.GetString("jira.api_token"),
			BoardName: v.GetString("jira.board_name"),
			OutputDir: v.GetString("jira.output_dir"),
		},
		Tempo: Tempo{
			APIToken:       v.GetString("tempo.api_token"),
			DateFrom:       v.GetString("tempo.date_from"),
			DateTo:         v.GetString("tempo.date_to"),
			FilenamePrefix: v.GetString("tempo.filename_prefix"),
			OutputFormat:   v.GetString("tempo.output_format"),
		},
	}

	// Tokens may live in the OS keyring instead of the config file;
	// file values win when both are present.
	if cfg.Jira.APIToken == "" {
		if token, err := credential.Get(credential.KeyJiraAPIToken); err == nil {
			cfg.Jira.APIToken = token
		}
	}
	if cfg.Tempo.APIToken == "" {
		if token, err := credential.Get(credential.KeyTempoAPIToken); err == nil {
			cfg.Tempo.APIToken = token
		}
	}

	return cfg, nil
}
