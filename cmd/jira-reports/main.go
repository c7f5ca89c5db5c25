package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/po-toolkit/jira-reports/internal/config"
	"github.com/po-toolkit/jira-reports/internal/credential"
	"github.com/po-toolkit/jira-reports/internal/history"
	"github.com/po-toolkit/jira-reports/internal/jira"
	"github.com/po-toolkit/jira-reports/internal/logger"
	"github.com/po-toolkit/jira-reports/internal/report"
	"github.com/po-toolkit/jira-reports/internal/reports"
	"github.com/po-toolkit/jira-reports/internal/tempo"
)

const timesheetName = "timesheet"

type options struct {
	configPath  string
	reportName  string
	list        bool
	all         bool
	outputDir   string
	days        int
	maxResults  int
	historyN    int
	historyDB   string
	setToken    string
	deleteToken string
	verbose     bool
}

func main() {
	var opts options

	flag.StringVarP(&opts.configPath, "config", "c", "config.ini", "path to the config.ini file")
	flag.StringVar(&opts.reportName, "report", "", "run a single report by name (see --list)")
	flag.BoolVar(&opts.list, "list", false, "list available reports and exit")
	flag.BoolVar(&opts.all, "all", false, "run every report")
	flag.StringVar(&opts.outputDir, "output-dir", "", "directory for CSV and Excel exports (overrides config)")
	flag.IntVar(&opts.days, "days", 7, "lookback window for the recent-tickets report")
	flag.IntVar(&opts.maxResults, "max-results", 0, "cap on issues fetched per search")
	flag.IntVar(&opts.historyN, "history", 0, "show the last N recorded runs and exit")
	flag.StringVar(&opts.historyDB, "history-db", "", "path to the run history database")
	flag.StringVar(&opts.setToken, "set-token", "", "store an API token in the OS keyring (jira_api_token or tempo_api_token)")
	flag.StringVar(&opts.deleteToken, "delete-token", "", "remove an API token from the OS keyring")
	flag.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flag.Parse()

	log := logger.New(opts.verbose)

	// Keyring maintenance needs no config file.
	if opts.setToken != "" || opts.deleteToken != "" {
		if err := manageToken(opts.setToken, opts.deleteToken); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		if errors.Is(err, config.ErrMissingJiraSection) {
			fmt.Fprintln(os.Stderr, "Error:", config.ErrMissingJiraSection)
			fmt.Fprintln(os.Stderr, config.MissingSectionHelp)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}

	outputDir := cfg.Jira.OutputDir
	if opts.outputDir != "" {
		outputDir = opts.outputDir
	}
	historyDB := opts.historyDB
	if historyDB == "" {
		historyDB = filepath.Join(outputDir, "history.db")
	}

	if opts.historyN > 0 {
		if err := showHistory(historyDB, opts.historyN); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	defs := reports.All(cfg, opts.days)

	if opts.list {
		for _, def := range defs {
			fmt.Printf("%-16s %s\n", def.Name(), def.Description())
		}
		fmt.Printf("%-16s %s\n", timesheetName, "Tempo timesheet analysis")
		return
	}

	client := jira.NewClient(cfg.Jira.Server, cfg.Jira.Email, cfg.Jira.APIToken, log)
	pipeline := report.NewPipeline(client, outputDir, log)
	if opts.maxResults > 0 {
		pipeline.MaxResults = opts.maxResults
	}

	if err := os.MkdirAll(filepath.Dir(historyDB), 0o755); err != nil {
		log.Warn().Err(err).Msg("could not create history directory")
	}
	if store, err := history.Open(historyDB); err != nil {
		log.Warn().Err(err).Str("path", historyDB).Msg("run history disabled")
	} else {
		defer store.Close()
		pipeline.Recorder = store
	}

	ctx := context.Background()

	switch {
	case opts.reportName != "":
		if err := runOne(ctx, pipeline, defs, cfg, outputDir, opts.reportName, log); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	case opts.all:
		for _, def := range defs {
			if err := pipeline.Run(ctx, def); err != nil {
				log.Error().Err(err).Str("report", def.Name()).Msg("report failed")
			}
		}
	default:
		runMenu(ctx, pipeline, defs, cfg, outputDir, log)
	}
}

func runOne(
	ctx context.Context,
	pipeline *report.Pipeline,
	defs []report.Definition,
	cfg *config.Config,
	outputDir, name string,
	log zerolog.Logger,
) error {
	if name == timesheetName {
		return runTimesheet(ctx, cfg, outputDir, log)
	}

	def, ok := reports.Find(defs, name)
	if !ok {
		return fmt.Errorf("unknown report %q (use --list)", name)
	}
	return pipeline.Run(ctx, def)
}

// runMenu loops an interactive report picker until the user quits.
func runMenu(
	ctx context.Context,
	pipeline *report.Pipeline,
	defs []report.Definition,
	cfg *config.Config,
	outputDir string,
	log zerolog.Logger,
) {
	for {
		options := make([]huh.Option[string], 0, len(defs)+2)
		for _, def := range defs {
			options = append(options, huh.NewOption(def.Description(), def.Name()))
		}
		options = append(options,
			huh.NewOption("Tempo timesheet analysis", timesheetName),
			huh.NewOption("Quit", ""),
		)

		var choice string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Select a report").
					Options(options...).
					Value(&choice),
			),
		)
		if err := form.Run(); err != nil {
			return
		}
		if choice == "" {
			return
		}

		if err := runOne(ctx, pipeline, defs, cfg, outputDir, choice, log); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}

		var again bool
		confirm := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Run another report?").
					Value(&again),
			),
		)
		if err := confirm.Run(); err != nil || !again {
			return
		}
	}
}

// manageToken stores or removes a keyring credential. Storing prompts
// for the token so it never lands in shell history.
func manageToken(setKey, deleteKey string) error {
	if deleteKey != "" {
		if !credential.KnownKey(deleteKey) {
			return fmt.Errorf("unknown credential key %q (use %s or %s)",
				deleteKey, credential.KeyJiraAPIToken, credential.KeyTempoAPIToken)
		}
		if err := credential.Delete(deleteKey); err != nil {
			return err
		}
		fmt.Printf("Removed %s from the OS keyring.\n", deleteKey)
		return nil
	}

	if !credential.KnownKey(setKey) {
		return fmt.Errorf("unknown credential key %q (use %s or %s)",
			setKey, credential.KeyJiraAPIToken, credential.KeyTempoAPIToken)
	}

	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Token for %s", setKey)).
				EchoMode(huh.EchoModePassword).
				Value(&value),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if value == "" {
		return errors.New("empty token; nothing stored")
	}

	if err := credential.Set(setKey, value); err != nil {
		return err
	}
	fmt.Printf("Stored %s in the OS keyring.\n", setKey)
	return nil
}

func runTimesheet(ctx context.Context, cfg *config.Config, outputDir string, log zerolog.Logger) error {
	if cfg.Tempo.APIToken == "" {
		return errors.New("api_token is not set in the [tempo] section")
	}

	from, to := cfg.Tempo.DateFrom, cfg.Tempo.DateTo
	if from == "" || to == "" {
		now := time.Now()
		to = now.Format("2006-01-02")
		from = now.AddDate(0, 0, -30).Format("2006-01-02")
	}

	analyzer := tempo.NewAnalyzer(tempo.NewClient(tempo.DefaultBaseURL, cfg.Tempo.APIToken, log), log)
	path, err := analyzer.Run(ctx, tempo.RunOptions{
		DateFrom:       from,
		DateTo:         to,
		Format:         cfg.Tempo.OutputFormat,
		OutputDir:      outputDir,
		FilenamePrefix: cfg.Tempo.FilenamePrefix,
	})
	if err != nil {
		return err
	}

	log.Info().Str("path", path).Msg("timesheet report written")
	return nil
}

func showHistory(dbPath string, n int) error {
	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(context.Background(), n)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %-16s %4d issues  %6dms  %s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Report, run.IssueCount, run.DurationMS, run.OutputPath)
	}
	return nil
}
