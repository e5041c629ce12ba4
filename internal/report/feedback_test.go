package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"tally/internal/core"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFeedbackTiers(t *testing.T) {
	cases := []struct {
		total string
		want  string
	}{
		{"0", "No expenses recorded. Start tracking to understand your habits."},
		{"0.01", "You're doing great! Keep up the low spending habits."},
		{"999.99", "You're doing great! Keep up the low spending habits."},
		{"1000", "You're managing fairly well, but review any non-essentials."},
		{"4999.99", "You're managing fairly well, but review any non-essentials."},
		{"5000", "Consider budgeting more strictly and cutting excesses."},
		{"9999.99", "Consider budgeting more strictly and cutting excesses."},
		{"10000", "Warning: High spending! Analyze where most of your money is going."},
		{"250000", "Warning: High spending! Analyze where most of your money is going."},
	}
	for _, tc := range cases {
		t.Run(tc.total, func(t *testing.T) {
			if got := Feedback(dec(tc.total), nil); got != tc.want {
				t.Fatalf("total %s:\nexpected %q\ngot      %q", tc.total, tc.want, got)
			}
		})
	}
}

func TestFeedbackBudgetClause(t *testing.T) {
	budget := dec("1000")
	got := Feedback(dec("1300"), &budget)
	if !strings.Contains(got, "You have exceeded your budget of R1000.00. Consider cutting back next month.") {
		t.Fatalf("expected exceeded clause, got %q", got)
	}

	roomy := dec("2000")
	got = Feedback(dec("1300"), &roomy)
	if !strings.Contains(got, "You are within your budget of R2000.00. Well done!") {
		t.Fatalf("expected within clause, got %q", got)
	}

	// Spending exactly the budget still counts as within it.
	exact := dec("1300")
	if got := Feedback(dec("1300"), &exact); !strings.Contains(got, "You are within your budget of R1300.00") {
		t.Fatalf("expected within clause at the boundary, got %q", got)
	}
}

func TestFeedbackZeroBudgetIsCompared(t *testing.T) {
	zero := decimal.Zero
	got := Feedback(dec("50"), &zero)
	if !strings.Contains(got, "You have exceeded your budget of R0.00") {
		t.Fatalf("a present zero budget must be compared, got %q", got)
	}

	got = Feedback(decimal.Zero, &zero)
	if !strings.Contains(got, "You are within your budget of R0.00") {
		t.Fatalf("zero total does not exceed a zero budget, got %q", got)
	}
}

func TestFeedbackWithoutBudget(t *testing.T) {
	if got := Feedback(dec("1300"), nil); strings.Contains(got, "budget") {
		t.Fatalf("no budget clause expected, got %q", got)
	}
}

func TestSpendingRatio(t *testing.T) {
	percent, err := SpendingRatio(dec("1500"), dec("2000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if percent.StringFixed(2) != "75.00" {
		t.Fatalf("expected 75.00, got %s", percent.StringFixed(2))
	}

	for _, salary := range []string{"0", "-100"} {
		if _, err := SpendingRatio(dec("10"), dec(salary)); !errors.Is(err, core.ErrNoSalary) {
			t.Fatalf("salary %s expected ErrNoSalary, got %v", salary, err)
		}
	}
}

func TestSpendingRatioMessage(t *testing.T) {
	got, err := SpendingRatioMessage(dec("1500"), dec("2000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "You've spent 75.00% of your salary (R2000.00).") {
		t.Fatalf("unexpected message %q", got)
	}
	if !strings.Contains(got, "Over 70% of your income spent. Consider adjusting your expenses.") {
		t.Fatalf("expected the over-70%% caution, got %q", got)
	}

	// Exactly 70 percent is not over 70 percent.
	got, err = SpendingRatioMessage(dec("1400"), dec("2000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "You're within a safe spending range.") {
		t.Fatalf("expected the safe range note, got %q", got)
	}

	if _, err := SpendingRatioMessage(dec("10"), decimal.Zero); !errors.Is(err, core.ErrNoSalary) {
		t.Fatalf("expected ErrNoSalary, got %v", err)
	}
}
