package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/report"
)

// recordRow is the template view of one record. Position is the row's
// index in the rendered slice; in the default (unfiltered, unsorted) view
// it coincides with the store position the delete and edit forms take.
type recordRow struct {
	Position int
	Date     string
	Amount   string
	Category string
	Note     string
}

func recordRows(records []core.Record) []recordRow {
	rows := make([]recordRow, len(records))
	for i, rec := range records {
		rows[i] = recordRow{
			Position: i,
			Date:     rec.DateString(),
			Amount:   core.FormatRand(rec.Amount),
			Category: rec.Category,
			Note:     rec.Note,
		}
	}
	return rows
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	category := sanitizeInput(r.Form.Get("category"))
	note := sanitizeInput(r.Form.Get("note"))

	amount, err := core.ParseAmount(amountStr)
	if err != nil {
		UnprocessableEntityError("Invalid amount: enter a non-negative number").Write(w)
		return
	}

	rec, err := s.service.Add(r.Context(), amount, category, note)
	if err != nil {
		if errors.Is(err, core.ErrEmptyCategory) {
			UnprocessableEntityError("Category cannot be empty").Write(w)
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Record creation failed", log.FieldError, err)
		InternalServerError("Could not save the record").Write(w)
		return
	}

	count := s.recordCount(r)
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerRecordsChanged(count).
		TriggerFormReset().
		TriggerSuccessNotification(fmt.Sprintf("Recorded %s for %s", core.FormatRand(rec.Amount), rec.Category)).
		BodyHTML(`<div class="success">Expense recorded.</div>`).
		Write(w)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodPost, http.MethodDelete); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	pos, ok := ParsePosition(r, "position")
	if !ok {
		UnprocessableEntityError("Invalid position: enter a record number").Write(w)
		return
	}

	removed, err := s.service.Delete(r.Context(), pos)
	if err != nil {
		var posErr *core.PositionError
		if errors.As(err, &posErr) {
			NotFoundError(posErr.Error()).Write(w)
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Record deletion failed",
			log.FieldError, err, log.FieldPosition, pos)
		InternalServerError("Could not delete the record").Write(w)
		return
	}

	count := s.recordCount(r)
	NewHTMXResponse().
		TriggerRecordsChanged(count).
		TriggerSuccessNotification(fmt.Sprintf("Deleted %s (%s)", removed.Category, core.FormatRand(removed.Amount))).
		BodyHTML(`<div class="success">Record deleted.</div>`).
		Write(w)
}

func (s *Server) handleEditRecord(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	pos, ok := ParsePosition(r, "position")
	if !ok {
		UnprocessableEntityError("Invalid position: enter a record number").Write(w)
		return
	}
	amount, err := core.ParseAmount(strings.TrimSpace(r.Form.Get("amount")))
	if err != nil {
		UnprocessableEntityError("Invalid amount: enter a non-negative number").Write(w)
		return
	}
	category := sanitizeInput(r.Form.Get("category"))
	note := sanitizeInput(r.Form.Get("note"))

	updated, err := s.service.Edit(r.Context(), pos, amount, category, note)
	if err != nil {
		var posErr *core.PositionError
		if errors.As(err, &posErr) {
			NotFoundError(posErr.Error()).Write(w)
			return
		}
		if errors.Is(err, core.ErrEmptyCategory) {
			UnprocessableEntityError("Category cannot be empty").Write(w)
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Record edit failed",
			log.FieldError, err, log.FieldPosition, pos)
		InternalServerError("Could not update the record").Write(w)
		return
	}

	count := s.recordCount(r)
	NewHTMXResponse().
		TriggerRecordsChanged(count).
		TriggerSuccessNotification(fmt.Sprintf("Updated record %d (%s)", pos, updated.Category)).
		BodyHTML(`<div class="success">Record updated.</div>`).
		Write(w)
}

// handleRecords renders the records table, optionally filtered by
// category or date prefix and sorted by date or amount.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	records, err := s.service.List(r.Context())
	if err != nil {
		s.renderLoadError(w, r, err)
		return
	}

	filter := strings.TrimSpace(r.URL.Query().Get("filter"))
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	switch filter {
	case "category":
		records = report.FilterByCategory(records, query)
	case "date":
		records = report.FilterByDatePrefix(records, query)
	}

	sortKey := strings.TrimSpace(r.URL.Query().Get("sort"))
	switch sortKey {
	case "date":
		records = report.SortByDate(records)
	case "amount":
		records = report.SortByAmount(records)
	}

	// Positions address the store only in the plain view; a filtered or
	// sorted table is a projection and its numbering is display-only.
	data := struct {
		Rows   []recordRow
		Plain  bool
		Filter string
		Query  string
		Sort   string
		Total  string
	}{
		Rows:   recordRows(records),
		Plain:  filter == "" && sortKey == "",
		Filter: filter,
		Query:  query,
		Sort:   sortKey,
		Total:  core.FormatRand(report.Total(records)),
	}
	s.render(w, r, "records.html", data)
}

// handleTotal renders the total view: the grand total, the tiered
// feedback line, the percent-of-salary line when a salary is set, and a
// random tip.
func (s *Server) handleTotal(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	records, err := s.service.List(r.Context())
	if err != nil {
		s.renderLoadError(w, r, err)
		return
	}

	total := report.Total(records)
	data := struct {
		Total         string
		Feedback      string
		SalaryMessage string
		SalaryHint    bool
		Tip           string
	}{
		Total:    core.FormatRand(total),
		Feedback: report.Feedback(total, nil),
		Tip:      report.RandomTip(),
	}
	if salary := s.Salary(); salary != nil {
		msg, err := report.SpendingRatioMessage(total, *salary)
		if err != nil {
			data.SalaryHint = true
		} else {
			data.SalaryMessage = msg
		}
	} else {
		data.SalaryHint = true
	}
	s.render(w, r, "total.html", data)
}

// categoryRow is the template view of one category total.
type categoryRow struct {
	Category string
	Total    string
	Share    string
}

func categoryRows(totals []report.CategoryTotal) []categoryRow {
	grand := decimal.Zero
	for _, ct := range totals {
		grand = grand.Add(ct.Total)
	}
	rows := make([]categoryRow, len(totals))
	for i, ct := range totals {
		rows[i] = categoryRow{
			Category: ct.Category,
			Total:    core.FormatRand(ct.Total),
		}
		if grand.IsPositive() {
			rows[i].Share = ct.Total.Div(grand).Mul(hundred).StringFixed(1) + "%"
		}
	}
	return rows
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	records, err := s.service.List(r.Context())
	if err != nil {
		s.renderLoadError(w, r, err)
		return
	}

	totals := report.CategoryTotals(records)
	data := struct {
		Rows  []categoryRow
		Total string
		Empty bool
	}{
		Rows:  categoryRows(totals),
		Total: core.FormatRand(report.Total(records)),
		Empty: len(records) == 0,
	}
	s.render(w, r, "summary.html", data)
}

// handleReport renders the time-windowed report: windowed records, their
// total, the feedback line with an optional budget, the percent-of-salary
// line, the per-category breakdown, and a contextual tip.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	records, err := s.service.List(r.Context())
	if err != nil {
		s.renderLoadError(w, r, err)
		return
	}

	now := time.Now()
	window := ParseReportWindow(r)
	switch window {
	case WindowMonth:
		records = report.FilterByMonth(records, now.Year(), now.Month())
	case WindowYear:
		records = report.FilterByYear(records, now.Year())
	}

	budget, budgetErr := parseOptionalAmount(r.URL.Query().Get("budget"))
	if budgetErr != nil {
		UnprocessableEntityError("Invalid budget: enter a non-negative number").Write(w)
		return
	}

	total := report.Total(records)
	data := struct {
		Window        string
		WindowLabel   string
		Budget        string
		Count         int
		Total         string
		Feedback      string
		SalaryMessage string
		SalaryHint    bool
		Categories    []categoryRow
		Tip           string
	}{
		Window:      string(window),
		WindowLabel: WindowLabel(window, now),
		Count:       len(records),
		Total:       core.FormatRand(total),
		Feedback:    report.Feedback(total, budget),
		Categories:  categoryRows(report.CategoryTotals(records)),
		Tip:         report.ContextualTip(records),
	}
	if budget != nil {
		data.Budget = budget.StringFixed(2)
	}
	if salary := s.Salary(); salary != nil {
		if msg, err := report.SpendingRatioMessage(total, *salary); err == nil {
			data.SalaryMessage = msg
		} else {
			data.SalaryHint = true
		}
	} else {
		data.SalaryHint = true
	}
	s.render(w, r, "report.html", data)
}

func (s *Server) handleChartView(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	records, err := s.service.List(r.Context())
	if err != nil {
		s.renderLoadError(w, r, err)
		return
	}

	hasData := false
	for _, rec := range records {
		if rec.Amount.IsPositive() {
			hasData = true
			break
		}
	}
	data := struct {
		HasData bool
		// Cache-busting query so the img refreshes with the ledger.
		Fingerprint uint64
	}{
		HasData:     hasData,
		Fingerprint: core.Fingerprint(records),
	}
	s.render(w, r, "chart.html", data)
}

// recordCount reloads the ledger for the records:changed trigger payload.
// A failure here is cosmetic; the mutation already succeeded.
func (s *Server) recordCount(r *http.Request) int {
	records, err := s.service.List(r.Context())
	if err != nil {
		return 0
	}
	return len(records)
}

// renderLoadError maps a ledger load failure onto the right status: a
// malformed stored row is a data problem worth naming, anything else is a
// plain server error.
func (s *Server) renderLoadError(w http.ResponseWriter, r *http.Request, err error) {
	var parseErr *core.ParseError
	if errors.As(err, &parseErr) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Ledger contains malformed row", log.FieldError, err)
		UnprocessableEntityError(parseErr.Error()).Write(w)
		return
	}
	log.FromContext(r.Context()).ErrorContext(r.Context(), "Ledger load failed", log.FieldError, err)
	InternalServerError("Could not read the ledger").Write(w)
}
