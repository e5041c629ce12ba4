package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"

	"tally/internal/report"
)

// ErrNothingToChart is returned when no category has a positive total.
var ErrNothingToChart = errors.New("nothing to chart")

// WritePieChart renders the category breakdown as a PNG pie chart.
// Slice labels carry the category name and its share to one decimal,
// like "Food 42.3%". Zero-total categories are not drawn.
func WritePieChart(totals []report.CategoryTotal, w io.Writer) error {
	grand := decimal.Zero
	for _, ct := range totals {
		if ct.Total.IsPositive() {
			grand = grand.Add(ct.Total)
		}
	}
	if !grand.IsPositive() {
		return ErrNothingToChart
	}

	hundred := decimal.NewFromInt(100)
	values := make([]chart.Value, 0, len(totals))
	for _, ct := range totals {
		if !ct.Total.IsPositive() {
			continue
		}
		share := ct.Total.Div(grand).Mul(hundred)
		values = append(values, chart.Value{
			Value: ct.Total.InexactFloat64(),
			Label: fmt.Sprintf("%s %s%%", ct.Category, share.StringFixed(1)),
		})
	}

	pie := chart.PieChart{
		Width:  800,
		Height: 800,
		Values: values,
	}
	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
