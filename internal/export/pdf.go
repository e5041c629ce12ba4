package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"tally/internal/core"
)

// WritePDF encodes the records as a printable expense report: a centered
// title followed by one wrapped line per record.
func WritePDF(records []core.Record, w io.Writer) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Arial", "", 12)
	doc.CellFormat(200, 10, "Expense Report", "", 1, "C", false, 0, "")
	doc.Ln(10)

	// The core fonts are cp1252 encoded; translate so notes with
	// accented characters render instead of garbling.
	tr := doc.UnicodeTranslatorFromDescriptor("")
	for _, rec := range records {
		line := fmt.Sprintf("Date: %s, Amount: R%s, Category: %s, Note: %s",
			rec.DateString(), rec.Amount.String(), rec.Category, rec.Note)
		doc.MultiCell(0, 10, tr(line), "", "L", false)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("encode pdf: %w", err)
	}
	return nil
}
