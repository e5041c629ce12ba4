// Package report computes aggregations, filters, and advisory messages
// over expense records. Every function is pure: records go in, results
// come out, nothing is persisted.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/core"
)

// Total sums all record amounts. An empty input totals zero.
func Total(records []core.Record) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range records {
		total = total.Add(rec.Amount)
	}
	return total
}

// ByCategory sums amounts grouped by category name. Grouping is case
// sensitive, so Food and food are distinct keys.
func ByCategory(records []core.Record) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, rec := range records {
		sums[rec.Category] = sums[rec.Category].Add(rec.Amount)
	}
	return sums
}

// CategoryTotal pairs a category with its summed amount.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// CategoryTotals returns the per-category sums ordered by first
// appearance in the input.
func CategoryTotals(records []core.Record) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, rec := range records {
		i, ok := index[rec.Category]
		if !ok {
			i = len(out)
			index[rec.Category] = i
			out = append(out, CategoryTotal{Category: rec.Category})
		}
		out[i].Total = out[i].Total.Add(rec.Amount)
	}
	return out
}

// FilterByCategory returns the records whose category matches, ignoring
// case.
func FilterByCategory(records []core.Record, category string) []core.Record {
	out := []core.Record{}
	for _, rec := range records {
		if strings.EqualFold(rec.Category, category) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterByDatePrefix returns the records whose canonical timestamp string
// starts with prefix. The empty prefix matches everything.
func FilterByDatePrefix(records []core.Record, prefix string) []core.Record {
	out := []core.Record{}
	for _, rec := range records {
		if strings.HasPrefix(rec.DateString(), prefix) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterByMonth returns the records falling in the given year and month.
func FilterByMonth(records []core.Record, year int, month time.Month) []core.Record {
	out := []core.Record{}
	for _, rec := range records {
		if rec.When.Year() == year && rec.When.Month() == month {
			out = append(out, rec)
		}
	}
	return out
}

// FilterByYear returns the records falling in the given year.
func FilterByYear(records []core.Record, year int) []core.Record {
	out := []core.Record{}
	for _, rec := range records {
		if rec.When.Year() == year {
			out = append(out, rec)
		}
	}
	return out
}

// SortByDate returns a copy sorted by timestamp ascending. Records with
// equal timestamps keep their relative order.
func SortByDate(records []core.Record) []core.Record {
	out := append([]core.Record(nil), records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].When.Before(out[j].When) })
	return out
}

// SortByAmount returns a copy sorted by amount ascending. Records with
// equal amounts keep their relative order.
func SortByAmount(records []core.Record) []core.Record {
	out := append([]core.Record(nil), records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.LessThan(out[j].Amount) })
	return out
}
