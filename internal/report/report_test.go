package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/core"
)

func rec(ts, amount, category, note string) core.Record {
	when, err := core.ParseTimestamp(ts)
	if err != nil {
		panic(err)
	}
	return core.Record{When: when, Amount: decimal.RequireFromString(amount), Category: category, Note: note}
}

func sample() []core.Record {
	return []core.Record{
		rec("2025-06-01 09:00", "120.50", "Food", "groceries"),
		rec("2025-05-20 18:30", "80", "Transport", "fuel"),
		rec("2025-06-15 12:00", "35.25", "food", "lunch"),
		rec("2024-12-31 23:59", "500", "Utilities", "electricity"),
	}
}

func TestTotal(t *testing.T) {
	if got := Total(nil); !got.IsZero() {
		t.Fatalf("empty total expected 0, got %s", got)
	}

	recs := sample()
	want := decimal.RequireFromString("735.75")
	if got := Total(recs); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	// Order must not matter.
	reversed := []core.Record{recs[3], recs[2], recs[1], recs[0]}
	if got := Total(reversed); !got.Equal(want) {
		t.Fatalf("reordered total expected %s, got %s", want, got)
	}
}

func TestByCategoryCaseSensitive(t *testing.T) {
	sums := ByCategory(sample())
	if len(sums) != 4 {
		t.Fatalf("expected 4 distinct keys, got %d: %v", len(sums), sums)
	}
	if !sums["Food"].Equal(decimal.RequireFromString("120.50")) {
		t.Fatalf("Food expected 120.50, got %s", sums["Food"])
	}
	if !sums["food"].Equal(decimal.RequireFromString("35.25")) {
		t.Fatalf("food expected 35.25, got %s", sums["food"])
	}

	// Group sums must add up to the grand total.
	grand := decimal.Zero
	for _, v := range sums {
		grand = grand.Add(v)
	}
	if !grand.Equal(Total(sample())) {
		t.Fatalf("group sums %s do not add up to total %s", grand, Total(sample()))
	}
}

func TestCategoryTotalsOrder(t *testing.T) {
	totals := CategoryTotals(sample())
	wantOrder := []string{"Food", "Transport", "food", "Utilities"}
	if len(totals) != len(wantOrder) {
		t.Fatalf("expected %d entries, got %d", len(wantOrder), len(totals))
	}
	for i, want := range wantOrder {
		if totals[i].Category != want {
			t.Fatalf("entry %d expected %s, got %s", i, want, totals[i].Category)
		}
	}
}

func TestFilterByCategoryIgnoresCase(t *testing.T) {
	got := FilterByCategory(sample(), "FOOD")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}

	// Filtering the result again with the same category changes nothing.
	again := FilterByCategory(got, "food")
	if len(again) != len(got) {
		t.Fatalf("second filter changed the result: %d vs %d", len(again), len(got))
	}

	if got := FilterByCategory(sample(), "Missing"); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestFilterByDatePrefix(t *testing.T) {
	recs := sample()
	cases := []struct {
		prefix string
		want   int
	}{
		{"", 4},
		{"2025", 3},
		{"2025-06", 2},
		{"2025-06-01", 1},
		{"2025-06-01 09:00", 1},
		{"1999", 0},
	}
	for _, tc := range cases {
		if got := FilterByDatePrefix(recs, tc.prefix); len(got) != tc.want {
			t.Fatalf("prefix %q expected %d matches, got %d", tc.prefix, tc.want, len(got))
		}
	}
}

func TestFilterByMonthAndYear(t *testing.T) {
	recs := sample()
	if got := FilterByMonth(recs, 2025, time.June); len(got) != 2 {
		t.Fatalf("June 2025 expected 2, got %d", len(got))
	}
	if got := FilterByMonth(recs, 2024, time.June); len(got) != 0 {
		t.Fatalf("June 2024 expected 0, got %d", len(got))
	}
	if got := FilterByYear(recs, 2025); len(got) != 3 {
		t.Fatalf("2025 expected 3, got %d", len(got))
	}
	if got := FilterByYear(recs, 2024); len(got) != 1 {
		t.Fatalf("2024 expected 1, got %d", len(got))
	}
}

func TestSortByDate(t *testing.T) {
	recs := sample()
	sorted := SortByDate(recs)
	for i := 1; i < len(sorted); i++ {
		if sorted[i].When.Before(sorted[i-1].When) {
			t.Fatalf("not ascending at %d: %v after %v", i, sorted[i].When, sorted[i-1].When)
		}
	}
	// Input order untouched.
	if !recs[0].When.Equal(sample()[0].When) {
		t.Fatalf("input was mutated")
	}
}

func TestSortByDateStable(t *testing.T) {
	recs := []core.Record{
		rec("2025-06-01 09:00", "1", "A", "first"),
		rec("2025-06-01 09:00", "2", "A", "second"),
		rec("2025-01-01 00:00", "3", "A", "earliest"),
	}
	sorted := SortByDate(recs)
	if sorted[0].Note != "earliest" || sorted[1].Note != "first" || sorted[2].Note != "second" {
		t.Fatalf("stability violated: %v", sorted)
	}
}

func TestSortByAmount(t *testing.T) {
	sorted := SortByAmount(sample())
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Amount.LessThan(sorted[i-1].Amount) {
			t.Fatalf("not ascending at %d: %s after %s", i, sorted[i].Amount, sorted[i-1].Amount)
		}
	}

	ties := []core.Record{
		rec("2025-06-03 10:00", "5", "A", "first"),
		rec("2025-06-01 10:00", "5", "A", "second"),
	}
	sortedTies := SortByAmount(ties)
	if sortedTies[0].Note != "first" || sortedTies[1].Note != "second" {
		t.Fatalf("equal amounts must keep their order: %v", sortedTies)
	}
}
