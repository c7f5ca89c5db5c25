package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// WriteCSV writes one row per record under the declared header order,
// creating parent directories as needed. The header row is always
// written, even for zero records, so an empty report still round-trips.
//
// This writer fails soft: every I/O fault is logged and swallowed so a
// broken export never crashes a report run.
func WriteCSV(log zerolog.Logger, path string, rows []map[string]string, headers []string) {
	if err := writeCSVFile(path, rows, headers); err != nil {
		log.Error().Err(err).Str("path", path).Msg("writing CSV export")
		return
	}
	log.Info().Str("path", path).Int("rows", len(rows)).Msg("data exported")
}

func writeCSVFile(path string, rows []map[string]string, headers []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(headers))
	for _, row := range rows {
		for i, h := range headers {
			record[i] = row[h]
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}

// WriteTable writes a positional table to a CSV file. Unlike WriteCSV
// it reports the failure to the caller; the timesheet analyzer treats
// a failed export as a failed run.
func WriteTable(path string, headers []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}
