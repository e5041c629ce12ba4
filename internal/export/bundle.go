package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"tally/internal/core"
	"tally/internal/report"
)

// WriteBundle packs the spreadsheet, the PDF report, and the category
// chart into one zip archive. The three artifacts are encoded
// concurrently. An empty ledger bundles without a chart entry.
func WriteBundle(records []core.Record, w io.Writer) error {
	var xlsxBuf, pdfBuf, chartBuf bytes.Buffer

	var g errgroup.Group
	g.Go(func() error { return WriteXLSX(records, &xlsxBuf) })
	g.Go(func() error { return WritePDF(records, &pdfBuf) })
	g.Go(func() error {
		err := WritePieChart(report.CategoryTotals(records), &chartBuf)
		if errors.Is(err, ErrNothingToChart) {
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	entries := []struct {
		name string
		data []byte
	}{
		{"expenses.xlsx", xlsxBuf.Bytes()},
		{"expenses.pdf", pdfBuf.Bytes()},
		{"breakdown.png", chartBuf.Bytes()},
	}
	for _, e := range entries {
		if len(e.data) == 0 {
			continue
		}
		f, err := zw.Create(e.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", e.name, err)
		}
		if _, err := f.Write(e.data); err != nil {
			return fmt.Errorf("write %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}
