// Package export encodes the ledger for download: spreadsheet, PDF
// report, category chart, and a zip bundle of all three.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"tally/internal/core"
)

// WriteXLSX encodes the records as a workbook with a single Expenses
// sheet and a Date, Amount, Category, Note header row. Amounts are
// written as numbers so spreadsheet formulas work on them.
func WriteXLSX(records []core.Record, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Expenses"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := []any{"Date", "Amount", "Category", "Note"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		row := []any{rec.DateString(), rec.Amount.InexactFloat64(), rec.Category, rec.Note}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	return nil
}
