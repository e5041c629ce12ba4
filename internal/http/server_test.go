package http

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/ledger/memory"
	"tally/internal/services"
)

func rec(ts, amount, category, note string) core.Record {
	when, err := core.ParseTimestamp(ts)
	if err != nil {
		panic(err)
	}
	return core.Record{
		When:     when,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Note:     note,
	}
}

func newTestServer(t *testing.T, records ...core.Record) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New(records...)
	svc := services.NewLedgerService(store)
	srv := NewServer(":0", svc, nil)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, store
}

func do(srv *Server, method, target, form string) *httptest.ResponseRecorder {
	var req *http.Request
	if form != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndOperationalEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(srv, http.MethodGet, "/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "tally") {
		t.Fatalf("index body missing heading")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}

	rr = do(srv, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "requests_total") {
		t.Fatalf("metrics status=%d body=%q", rr.Code, rr.Body.String())
	}
}

func TestCreateRecordValidationAndSuccess(t *testing.T) {
	srv, store := newTestServer(t)

	rr := do(srv, http.MethodGet, "/records", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	rr = do(srv, http.MethodPost, "/records", "amount=abc&category=Food&note=")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid amount: expected 422, got %d", rr.Code)
	}

	rr = do(srv, http.MethodPost, "/records", "amount=12.50&category=&note=")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty category: expected 422, got %d", rr.Code)
	}

	if records, _ := store.Load(context.Background()); len(records) != 0 {
		t.Fatalf("rejected submissions must not write, got %d records", len(records))
	}

	rr = do(srv, http.MethodPost, "/records", "amount=12,50&category=Food&note=lunch")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	trigger := rr.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, `"records:changed"`) {
		t.Fatalf("missing records:changed trigger: %s", trigger)
	}

	records, _ := store.Load(context.Background())
	if len(records) != 1 || !records[0].Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected stored records: %+v", records)
	}
}

func TestDeleteRecordByPosition(t *testing.T) {
	srv, store := newTestServer(t,
		rec("2024-01-05 10:00", "500", "Food", ""),
		rec("2024-01-10 09:00", "800", "Transport", ""),
	)

	rr := do(srv, http.MethodPost, "/records/delete", "position=5")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("out of range: expected 404, got %d", rr.Code)
	}

	rr = do(srv, http.MethodPost, "/records/delete", "position=0")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	records, _ := store.Load(context.Background())
	if len(records) != 1 || records[0].Category != "Transport" {
		t.Fatalf("expected the former position-1 record to remain, got %+v", records)
	}
}

func TestEditRecordPreservesTimestamp(t *testing.T) {
	srv, store := newTestServer(t, rec("2024-01-05 10:00", "500", "Food", "groceries"))

	rr := do(srv, http.MethodPost, "/records/edit", "position=0&amount=42&category=Fun&note=cinema")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	records, _ := store.Load(context.Background())
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.DateString() != "2024-01-05 10:00" {
		t.Fatalf("edit must preserve the timestamp, got %s", got.DateString())
	}
	if got.Category != "Fun" || got.Note != "cinema" || !got.Amount.Equal(decimal.NewFromInt(42)) {
		t.Fatalf("unexpected edited record: %+v", got)
	}
}

func TestRecordsPartialFilterAndSort(t *testing.T) {
	srv, _ := newTestServer(t,
		rec("2024-02-01 08:00", "300", "food", "market"),
		rec("2024-01-05 10:00", "500", "Food", ""),
		rec("2024-01-10 09:00", "800", "Transport", ""),
	)

	rr := do(srv, http.MethodGet, "/ui/records", "")
	body := rr.Body.String()
	if rr.Code != http.StatusOK || !strings.Contains(body, "Transport") {
		t.Fatalf("plain view status=%d body=%q", rr.Code, body)
	}

	// Category filter is case-insensitive
	rr = do(srv, http.MethodGet, "/ui/records?filter=category&q="+url.QueryEscape("FOOD"), "")
	body = rr.Body.String()
	if strings.Contains(body, "Transport") || !strings.Contains(body, "market") {
		t.Fatalf("category filter wrong: %q", body)
	}

	rr = do(srv, http.MethodGet, "/ui/records?filter=date&q=2024-01", "")
	body = rr.Body.String()
	if strings.Contains(body, "market") || !strings.Contains(body, "Transport") {
		t.Fatalf("date prefix filter wrong: %q", body)
	}

	rr = do(srv, http.MethodGet, "/ui/records?sort=date", "")
	body = rr.Body.String()
	if strings.Index(body, "2024-01-05 10:00") > strings.Index(body, "2024-02-01 08:00") {
		t.Fatalf("date sort not ascending: %q", body)
	}

	rr = do(srv, http.MethodGet, "/ui/records?sort=amount", "")
	body = rr.Body.String()
	if strings.Index(body, "R300.00") > strings.Index(body, "R800.00") {
		t.Fatalf("amount sort not ascending: %q", body)
	}
}

func TestTotalViewEmptyStore(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(srv, http.MethodGet, "/ui/total", "")
	body := rr.Body.String()
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(body, "R0.00") || !strings.Contains(body, "No expenses recorded") {
		t.Fatalf("empty store view wrong: %q", body)
	}
}

func TestSalarySessionAndUsage(t *testing.T) {
	srv, _ := newTestServer(t,
		rec("2024-01-05 10:00", "700", "Food", ""),
		rec("2024-01-10 09:00", "800", "Transport", ""),
	)

	rr := do(srv, http.MethodPost, "/salary", "salary=abc")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid salary: expected 422, got %d", rr.Code)
	}
	rr = do(srv, http.MethodPost, "/salary", "salary=0")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("zero salary: expected 422, got %d", rr.Code)
	}

	rr = do(srv, http.MethodPost, "/salary", "salary=2000")
	if rr.Code != http.StatusOK {
		t.Fatalf("set salary: expected 200, got %d", rr.Code)
	}

	// total 1500 of salary 2000 = 75.00%, over the 70% line
	rr = do(srv, http.MethodGet, "/ui/total", "")
	body := rr.Body.String()
	if !strings.Contains(body, "75.00%") || !strings.Contains(body, "Over 70%") {
		t.Fatalf("salary usage view wrong: %q", body)
	}

	rr = do(srv, http.MethodPost, "/salary/clear", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("clear salary: expected 200, got %d", rr.Code)
	}
	rr = do(srv, http.MethodGet, "/ui/total", "")
	if strings.Contains(rr.Body.String(), "75.00%") {
		t.Fatalf("cleared salary still rendered: %q", rr.Body.String())
	}
}

func TestReportWithBudget(t *testing.T) {
	srv, _ := newTestServer(t,
		rec("2024-01-05 10:00", "500", "Food", ""),
		rec("2024-01-10 09:00", "800", "Transport", ""),
	)

	rr := do(srv, http.MethodGet, "/ui/report?window=all&budget=1000", "")
	body := rr.Body.String()
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(body, "R1300.00") {
		t.Fatalf("report missing total: %q", body)
	}
	if !strings.Contains(body, "exceeded your budget of R1000.00") {
		t.Fatalf("report missing budget clause: %q", body)
	}

	rr = do(srv, http.MethodGet, "/ui/report?window=all&budget=nope", "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid budget: expected 422, got %d", rr.Code)
	}
}

func TestReportWindowFiltering(t *testing.T) {
	now := time.Now()
	thisMonth := core.Record{When: now.Truncate(time.Minute), Amount: decimal.NewFromInt(100), Category: "Now"}
	srv, _ := newTestServer(t,
		thisMonth,
		rec("2001-03-05 10:00", "999", "Ancient", ""),
	)

	rr := do(srv, http.MethodGet, "/ui/report?window=month", "")
	body := rr.Body.String()
	if !strings.Contains(body, "Now") || strings.Contains(body, "Ancient") {
		t.Fatalf("month window wrong: %q", body)
	}

	rr = do(srv, http.MethodGet, "/ui/report?window=all", "")
	if !strings.Contains(rr.Body.String(), "Ancient") {
		t.Fatalf("all window wrong: %q", rr.Body.String())
	}
}

func TestExportDownloads(t *testing.T) {
	srv, _ := newTestServer(t,
		rec("2024-01-05 10:00", "500", "Food", ""),
		rec("2024-01-10 09:00", "800", "Transport", ""),
	)

	rr := do(srv, http.MethodGet, "/export/xlsx", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("xlsx status=%d", rr.Code)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "expenses.xlsx") {
		t.Fatalf("xlsx disposition=%q", cd)
	}

	rr = do(srv, http.MethodGet, "/export/pdf", "")
	if rr.Code != http.StatusOK || !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("pdf status=%d prefix=%q", rr.Code, rr.Body.Bytes()[:4])
	}

	rr = do(srv, http.MethodGet, "/export/chart", "")
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("chart status=%d type=%q", rr.Code, rr.Header().Get("Content-Type"))
	}

	rr = do(srv, http.MethodGet, "/export/bundle", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("bundle status=%d", rr.Code)
	}
	zr, err := zip.NewReader(bytes.NewReader(rr.Body.Bytes()), int64(rr.Body.Len()))
	if err != nil {
		t.Fatalf("bundle not a zip: %v", err)
	}
	if len(zr.File) != 3 {
		t.Fatalf("expected 3 bundle entries, got %d", len(zr.File))
	}
}

func TestExportChartEmptyLedger(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(srv, http.MethodGet, "/export/chart", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("empty chart: expected 404, got %d", rr.Code)
	}
}

func TestChartCacheServesRepeatRequests(t *testing.T) {
	srv, _ := newTestServer(t, rec("2024-01-05 10:00", "500", "Food", ""))

	first := do(srv, http.MethodGet, "/export/chart", "")
	if first.Code != http.StatusOK {
		t.Fatalf("first render status=%d", first.Code)
	}
	if srv.chartCache.Size() != 1 {
		t.Fatalf("expected 1 cached chart, got %d", srv.chartCache.Size())
	}

	second := do(srv, http.MethodGet, "/export/chart", "")
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Fatalf("cached chart differs from first render")
	}

	// A mutation changes the fingerprint, so the next chart re-renders
	if rr := do(srv, http.MethodPost, "/records", "amount=50&category=Books&note="); rr.Code != http.StatusCreated {
		t.Fatalf("add status=%d", rr.Code)
	}
	third := do(srv, http.MethodGet, "/export/chart", "")
	if third.Code != http.StatusOK || bytes.Equal(first.Body.Bytes(), third.Body.Bytes()) {
		t.Fatalf("chart did not refresh after mutation")
	}
}

func TestMalformedLedgerSurfacesParseError(t *testing.T) {
	store := memory.New()
	store.FailWith(&core.ParseError{Line: 3, Field: "amount", Value: "abc", Err: core.ErrInvalidAmount})
	svc := services.NewLedgerService(store)
	srv := NewServer(":0", svc, nil)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	rr := do(srv, http.MethodGet, "/ui/records", "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for malformed ledger, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "line 3") {
		t.Fatalf("error should name the offending line: %q", rr.Body.String())
	}
}
