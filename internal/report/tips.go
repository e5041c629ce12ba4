package report

import (
	"math/rand/v2"

	"tally/internal/core"
)

var generalTips = []string{
	"Track your spending daily to avoid surprises.",
	"Group similar expenses to understand patterns.",
	"Always categorize your income separately.",
	"Try to save at least 10% of your monthly income.",
	"Review your top 3 expense categories weekly.",
	"Use the summary graph to find spending leaks.",
	"Avoid emotional spending — pause before buying.",
}

var contextualTips = []string{
	"Have you considered using separate categories for fixed vs variable expenses?",
	"Look at your most frequent category — is there a way to reduce it?",
	"Use spending caps per category to better control your budget.",
	"Consider using cash for categories where you overspend digitally.",
	"High spending in one area? Try a weekly spending freeze for it.",
}

// RandomTip returns one entry from the general tip catalog.
func RandomTip() string {
	return generalTips[rand.IntN(len(generalTips))]
}

// ContextualTip returns a saving suggestion for the given records. Only
// emptiness is consulted: an empty ledger gets the onboarding message,
// anything else one catalog entry at random.
func ContextualTip(records []core.Record) string {
	if len(records) == 0 {
		return "Start logging your expenses to get personalized tips!"
	}
	return contextualTips[rand.IntN(len(contextualTips))]
}
