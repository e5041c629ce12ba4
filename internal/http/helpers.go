package http

import (
	"strings"

	"github.com/shopspring/decimal"

	"tally/internal/core"
)

var hundred = decimal.NewFromInt(100)

// parseOptionalAmount parses a form or query amount where blank means
// absent. A present value must be a valid non-negative amount; zero is
// legal and distinct from absent.
func parseOptionalAmount(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := core.ParseAmount(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
