package http

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"tally/internal/core"
	"tally/internal/export"
	"tally/internal/log"
	"tally/internal/report"
)

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	records, err := s.service.List(r.Context())
	if err != nil {
		s.renderLoadError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.xlsx"`)
	if err := export.WriteXLSX(records, w); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Spreadsheet export failed",
			log.FieldError, err, log.FieldFormat, "xlsx")
	}
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	records, err := s.service.List(r.Context())
	if err != nil {
		s.renderLoadError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.pdf"`)
	if err := export.WritePDF(records, w); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "PDF export failed",
			log.FieldError, err, log.FieldFormat, "pdf")
	}
}

// handleExportChart serves the category breakdown PNG. Rendered images
// are cached keyed by the ledger fingerprint, so an unchanged ledger is
// never re-rendered while the freshly-read contents still pick the image.
func (s *Server) handleExportChart(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	records, err := s.service.List(r.Context())
	if err != nil {
		s.renderLoadError(w, r, err)
		return
	}

	key := strconv.FormatUint(core.Fingerprint(records), 16)
	png, cached := s.chartCache.Get(key)
	if !cached {
		var buf bytes.Buffer
		err := export.WritePieChart(report.CategoryTotals(records), &buf)
		if errors.Is(err, export.ErrNothingToChart) {
			http.Error(w, "no expenses to chart", http.StatusNotFound)
			return
		}
		if err != nil {
			log.FromContext(r.Context()).ErrorContext(r.Context(), "Chart render failed",
				log.FieldError, err, log.FieldFormat, "png")
			http.Error(w, "chart rendering failed", http.StatusInternalServerError)
			return
		}
		png = buf.Bytes()
		s.chartCache.Set(key, png)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="breakdown.png"`)
	_, _ = w.Write(png)
}

func (s *Server) handleExportBundle(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	records, err := s.service.List(r.Context())
	if err != nil {
		s.renderLoadError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="tally-export.zip"`)
	if err := export.WriteBundle(records, w); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Bundle export failed",
			log.FieldError, err, log.FieldFormat, "zip")
	}
}
