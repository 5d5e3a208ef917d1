package core

import "strings"

const (
	// CategoryIncome is assigned to every positive-amount transaction,
	// regardless of its description.
	CategoryIncome = "Income"

	// CategoryUncategorized is the fallback when no rule matches.
	CategoryUncategorized = "Uncategorized"
)

// CategoryRule maps a set of lowercase keywords to a category label.
// Rules are evaluated in slice order; the first rule with any keyword
// appearing as a substring of the normalized description wins.
type CategoryRule struct {
	Category string
	Keywords []string
}

// DefaultRules returns a fresh copy of the built-in rule table. Callers
// may append to or reorder the returned slice without affecting other
// callers.
func DefaultRules() []CategoryRule {
	return []CategoryRule{
		{Category: "Income", Keywords: []string{"salary", "payroll", "deposit"}},
		{Category: "Rent", Keywords: []string{"rent", "landlord"}},
		{Category: "Groceries", Keywords: []string{"whole foods", "trader joe", "grocery", "supermarket"}},
		{Category: "Coffee", Keywords: []string{"starbucks", "coffee"}},
		{Category: "Transport", Keywords: []string{"uber", "lyft", "taxi", "bus", "metro"}},
		{Category: "Subscriptions", Keywords: []string{"netflix", "spotify", "prime", "subscription"}},
	}
}

// CategorizeDescription matches a description against the rule table.
// The description is normalized first, so keyword matching is insensitive
// to case, processor noise words and trailing ids.
func CategorizeDescription(description string, rules []CategoryRule) string {
	text := strings.ToLower(NormalizeDescription(description))

	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(text, keyword) {
				return rule.Category
			}
		}
	}

	return CategoryUncategorized
}

// CategorizeTransaction assigns a category to a transaction. Any
// positive amount is income; keyword rules only ever apply to the rest.
func CategorizeTransaction(txn Transaction, rules []CategoryRule) string {
	if txn.IsIncome() {
		return CategoryIncome
	}
	return CategorizeDescription(txn.Description, rules)
}
