package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of a workbook export: a name, a header row,
// and positional data rows.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// WriteWorkbook writes the sheets to a single .xlsx file, creating
// parent directories as needed. Sheet order is preserved.
func WriteWorkbook(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook %s: no sheets to write", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	wb := excelize.NewFile()
	defer wb.Close()

	for i, sheet := range sheets {
		if i == 0 {
			// Rename the default sheet rather than leaving it dangling.
			if err := wb.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("naming sheet %q: %w", sheet.Name, err)
			}
		} else {
			if _, err := wb.NewSheet(sheet.Name); err != nil {
				return fmt.Errorf("adding sheet %q: %w", sheet.Name, err)
			}
		}

		if err := writeSheet(wb, sheet); err != nil {
			return err
		}
	}

	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(wb *excelize.File, sheet Sheet) error {
	header := make([]any, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
	}
	if err := wb.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("writing header of %q: %w", sheet.Name, err)
	}

	for r, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("addressing row %d of %q: %w", r+2, sheet.Name, err)
		}
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := wb.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("writing row %d of %q: %w", r+2, sheet.Name, err)
		}
	}
	return nil
}
