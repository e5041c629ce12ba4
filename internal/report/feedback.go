package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tally/internal/core"
)

// Feedback returns the spending assessment for a total. A non-nil budget
// adds a clause comparing the total against it; zero is a legal budget
// value and is compared like any other.
func Feedback(total decimal.Decimal, budget *decimal.Decimal) string {
	var msg string
	switch {
	case total.IsZero():
		msg = "No expenses recorded. Start tracking to understand your habits."
	case total.LessThan(decimal.NewFromInt(1000)):
		msg = "You're doing great! Keep up the low spending habits."
	case total.LessThan(decimal.NewFromInt(5000)):
		msg = "You're managing fairly well, but review any non-essentials."
	case total.LessThan(decimal.NewFromInt(10000)):
		msg = "Consider budgeting more strictly and cutting excesses."
	default:
		msg = "Warning: High spending! Analyze where most of your money is going."
	}

	if budget != nil {
		if total.GreaterThan(*budget) {
			msg += fmt.Sprintf(" You have exceeded your budget of %s. Consider cutting back next month.", core.FormatRand(*budget))
		} else {
			msg += fmt.Sprintf(" You are within your budget of %s. Well done!", core.FormatRand(*budget))
		}
	}
	return msg
}

// SpendingRatio returns spending as a percentage of salary. It refuses to
// divide when salary is zero or negative, returning core.ErrNoSalary.
func SpendingRatio(total, salary decimal.Decimal) (decimal.Decimal, error) {
	if !salary.IsPositive() {
		return decimal.Zero, core.ErrNoSalary
	}
	return total.Div(salary).Mul(decimal.NewFromInt(100)), nil
}

// SpendingRatioMessage renders the salary usage line, with a caution when
// spending strictly exceeds 70 percent of salary.
func SpendingRatioMessage(total, salary decimal.Decimal) (string, error) {
	percent, err := SpendingRatio(total, salary)
	if err != nil {
		return "", err
	}
	msg := fmt.Sprintf("You've spent %s%% of your salary (%s).", percent.StringFixed(2), core.FormatRand(salary))
	if percent.GreaterThan(decimal.NewFromInt(70)) {
		msg += " Over 70% of your income spent. Consider adjusting your expenses."
	} else {
		msg += " You're within a safe spending range."
	}
	return msg, nil
}
